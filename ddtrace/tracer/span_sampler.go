// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import "time"

// spanSamplingRule is a SamplingRule paired with its own independent
// rate limiter, as used by the SpanSampler (spec §4.5).
type spanSamplingRule struct {
	*SamplingRule
	limiter *rateLimiter // nil means unlimited
}

// SpanSampler rescues individual spans from an otherwise-dropped trace when
// a span-scoped rule matches, per spec §4.5.
type SpanSampler struct {
	rules []*spanSamplingRule
}

// NewSpanSampler builds a SpanSampler from rules; a rule with
// maxPerSecond <= 0 is unlimited (only its Rate gates admission).
func NewSpanSampler(rules []*SamplingRule, maxPerSecond []float64) *SpanSampler {
	out := make([]*spanSamplingRule, len(rules))
	for i, r := range rules {
		sr := &spanSamplingRule{SamplingRule: r}
		if i < len(maxPerSecond) && maxPerSecond[i] > 0 {
			sr.limiter = newRateLimiter(maxPerSecond[i])
		}
		out[i] = sr
	}
	return &SpanSampler{rules: out}
}

// SpanSamplingResult records why a span was rescued, for emission as
// `_dd.span_sampling.*` tags.
type SpanSamplingResult struct {
	Mechanism    SamplingMechanism
	RuleRate     float64
	MaxPerSecond *float64
}

// Sample evaluates every configured rule against one span's attributes and
// returns the first match's result, or ok=false if no rule admits the span.
func (s *SpanSampler) Sample(traceID TraceID, service, name, resource string, tags map[string]string, numericTags map[string]float64) (SpanSamplingResult, bool) {
	for _, rule := range s.rules {
		if !rule.Match(service, name, resource, tags, numericTags) {
			continue
		}
		if !sampledByRate(traceID, rule.Rate) {
			continue
		}
		if rule.limiter != nil && !rule.limiter.allowOne(time.Now()) {
			continue
		}
		res := SpanSamplingResult{Mechanism: MechanismSpanRule, RuleRate: rule.Rate}
		if rule.limiter != nil {
			mps := rule.limiter.maxPerSecond()
			res.MaxPerSecond = &mps
		}
		return res, true
	}
	return SpanSamplingResult{}, false
}
