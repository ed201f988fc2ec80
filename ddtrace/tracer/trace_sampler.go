// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// RuleProvenance records where a sampling rule came from, for diagnostics
// and precedence when rules conflict.
type RuleProvenance int

const (
	// ProvenanceLocal is a rule configured at construction time.
	ProvenanceLocal RuleProvenance = iota
	// ProvenanceCustomer is a rule supplied by the customer through remote
	// configuration.
	ProvenanceCustomer
	// ProvenanceDynamic is a rule computed dynamically by the backend and
	// pushed through remote configuration.
	ProvenanceDynamic
)

// SamplingRule matches spans by glob patterns on service/name/resource and
// exact or glob matches on tags, and carries the rate to apply when it
// matches.
type SamplingRule struct {
	Service    string
	Name       string
	Resource   string
	Tags       map[string]string
	Rate       float64
	Provenance RuleProvenance

	serviceRe  *globMatcher
	nameRe     *globMatcher
	resourceRe *globMatcher
	tagsRe     map[string]*globMatcher
}

// NewSamplingRule compiles the glob patterns of a SamplingRule. Empty
// patterns match anything.
func NewSamplingRule(service, name, resource string, tags map[string]string, rate float64, provenance RuleProvenance) *SamplingRule {
	r := &SamplingRule{Service: service, Name: name, Resource: resource, Tags: tags, Rate: rate, Provenance: provenance}
	r.serviceRe = newGlobMatcher(service)
	r.nameRe = newGlobMatcher(name)
	r.resourceRe = newGlobMatcher(resource)
	if len(tags) > 0 {
		r.tagsRe = make(map[string]*globMatcher, len(tags))
		for k, v := range tags {
			r.tagsRe[k] = newGlobMatcher(v)
		}
	}
	return r
}

// Match reports whether the rule matches the given span attributes.
func (r *SamplingRule) Match(service, name, resource string, tags map[string]string, numericTags map[string]float64) bool {
	if !r.serviceRe.match(service) || !r.nameRe.match(name) || !r.resourceRe.match(resource) {
		return false
	}
	for k, m := range r.tagsRe {
		v, ok := tags[k]
		if !ok {
			if nv, ok2 := numericTags[k]; ok2 {
				v = trimFloat(nv)
			} else {
				return false
			}
		}
		if !m.match(v) {
			return false
		}
	}
	return true
}

// globMatcher compiles a glob pattern (`*` and `?` wildcards) into a
// matcher. An empty pattern matches everything.
type globMatcher struct {
	empty   bool
	literal string
	segs    []string
	anchorL bool
	anchorR bool
}

func newGlobMatcher(pattern string) *globMatcher {
	if pattern == "" {
		return &globMatcher{empty: true}
	}
	if !strings.ContainsAny(pattern, "*?") {
		return &globMatcher{literal: pattern}
	}
	return &globMatcher{segs: strings.Split(pattern, "*"), anchorL: true, anchorR: true}
}

func (g *globMatcher) match(s string) bool {
	if g.empty {
		return true
	}
	if g.literal != "" || g.segs == nil {
		return g.literal == s
	}
	return globMatch(g.segs, s)
}

// globMatch tests s against a pattern pre-split on `*`, where each segment
// may additionally contain `?` single-character wildcards.
func globMatch(segs []string, s string) bool {
	if len(segs) == 1 {
		return segMatch(segs[0], s)
	}
	first := segs[0]
	if !segMatchPrefix(first, s) {
		return false
	}
	s = s[len(first):]
	for i := 1; i < len(segs)-1; i++ {
		seg := segs[i]
		if seg == "" {
			continue
		}
		idx := segIndex(seg, s)
		if idx < 0 {
			return false
		}
		s = s[idx+len(seg):]
	}
	last := segs[len(segs)-1]
	return segMatchSuffix(last, s)
}

// segMatch compares seg against s treating '?' as a single-char wildcard and
// requires an exact-length match (no '*' present in seg).
func segMatch(seg, s string) bool {
	if len(seg) != len(s) {
		return false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] != '?' && seg[i] != s[i] {
			return false
		}
	}
	return true
}

func segMatchPrefix(seg, s string) bool {
	if len(seg) > len(s) {
		return false
	}
	return segMatch(seg, s[:len(seg)])
}

func segMatchSuffix(seg, s string) bool {
	if len(seg) > len(s) {
		return false
	}
	return segMatch(seg, s[len(s)-len(seg):])
}

func segIndex(seg, s string) int {
	for i := 0; i+len(seg) <= len(s); i++ {
		if segMatch(seg, s[i:i+len(seg)]) {
			return i
		}
	}
	return -1
}

// trimFloat renders f the way a numeric tag compares against a glob
// pattern on a string tag: trailing zeros and a bare trailing dot are
// stripped (e.g. 200.0 -> "200").
func trimFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}

// agentRateKey identifies a (service, env) pair in the agent-provided rate
// table.
type agentRateKey struct{ service, env string }

// TraceSampler applies sampling rules, the agent-provided default rate table,
// and a token-bucket limiter to produce a SamplingDecision for a trace's
// root span, per spec §4.4.
type TraceSampler struct {
	mu          sync.RWMutex
	rules       []*SamplingRule
	limiter     *rateLimiter
	agentRates  map[agentRateKey]float64
	defaultRate float64
}

// NewTraceSampler builds a TraceSampler with the given rules (evaluated in
// order, first match wins), a limiter capped at maxPerSecond, and a default
// sampling rate used when no rule or agent rate applies.
func NewTraceSampler(rules []*SamplingRule, maxPerSecond, defaultRate float64) *TraceSampler {
	return &TraceSampler{
		rules:       rules,
		limiter:     newRateLimiter(maxPerSecond),
		agentRates:  make(map[agentRateKey]float64),
		defaultRate: defaultRate,
	}
}

// UpdateAgentRates replaces the agent-provided (service, env) -> rate table,
// as delivered by a collector response.
func (s *TraceSampler) UpdateAgentRates(rates map[agentRateKey]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentRates = rates
}

// Decide computes a SamplingDecision for the given root span attributes.
func (s *TraceSampler) Decide(traceID TraceID, service, env, name, resource string, tags map[string]string, numericTags map[string]float64) SamplingDecision {
	s.mu.RLock()
	rules := s.rules
	s.mu.RUnlock()

	for _, rule := range rules {
		if !rule.Match(service, name, resource, tags, numericTags) {
			continue
		}
		kept := sampledByRate(traceID, rule.Rate)
		if kept {
			kept = s.limiter.allowOne(time.Now())
		}
		priority := PriorityAutoReject
		if kept {
			priority = PriorityAutoKeep
		}
		rate := rule.Rate
		eff := s.limiter.effectiveRate()
		maxPS := s.limiter.maxPerSecond()
		return SamplingDecision{
			Priority:             priority,
			Mechanism:            MechanismRule,
			Origin:               OriginLocal,
			ConfiguredRate:       &rate,
			LimiterEffectiveRate: &eff,
			LimiterMaxPerSecond:  &maxPS,
		}
	}

	s.mu.RLock()
	rate, ok := s.agentRates[agentRateKey{service, env}]
	s.mu.RUnlock()
	if ok {
		kept := sampledByRate(traceID, rate)
		priority := PriorityAutoReject
		if kept {
			priority = PriorityAutoKeep
		}
		r := rate
		return SamplingDecision{Priority: priority, Mechanism: MechanismAgentRate, Origin: OriginLocal, ConfiguredRate: &r}
	}

	kept := sampledByRate(traceID, s.defaultRate)
	priority := PriorityAutoReject
	if kept {
		priority = PriorityAutoKeep
	}
	r := s.defaultRate
	return SamplingDecision{Priority: priority, Mechanism: MechanismDefault, Origin: OriginLocal, ConfiguredRate: &r}
}

// sampledByRate deterministically samples traceID against rate in [0,1]
// using the low 64 bits of the trace id, so that every span in a trace (and
// every agent in a distributed trace re-deriving the same decision) reaches
// the same keep/drop outcome.
func sampledByRate(traceID TraceID, rate float64) bool {
	if rate >= 1 {
		return true
	}
	if rate <= 0 {
		return false
	}
	threshold := rate * float64(maxTraceIDUint64)
	return float64(traceID.Lower()*knuthFactor) < threshold
}

// knuthFactor is Knuth's multiplicative hash constant, used to spread
// sequential trace ids uniformly across the sampling threshold space before
// comparing against the rate's cutoff.
const knuthFactor uint64 = 1111111111111111111

// maxTraceIDUint64 is the largest representable uint64, used as the
// denominator when mapping a sampling rate in [0,1] onto the hashed trace id
// space.
const maxTraceIDUint64 = ^uint64(0)
