// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"strings"
	"sync"

	"golang.org/x/xerrors"

	"github.com/DataDog/dd-trace-go-core/internal/log"
)

// SamplingDecisionState is the thread-safe holder for a trace segment's
// sampling decision and its derived propagation tags (spec §2, §3). It has
// no lock of its own: callers hold the owning TraceSegment's single
// per-segment lock, matching spec §5's "single per-segment lock" model.
// Locked-suffixed methods document that contract explicitly.
type SamplingDecisionState struct {
	decision  *SamplingDecision
	traceTags OrderedTags
}

// DecisionLocked returns the current decision, or nil if none has been made
// yet. Caller must hold the segment lock.
func (s *SamplingDecisionState) DecisionLocked() *SamplingDecision { return s.decision }

// SetDecisionLocked installs d as the decision and updates the `_dd.p.dm`
// tag per the invariant in spec §3: present iff the decision exists and
// priority > 0, value `"-" + mechanism`. Caller must hold the segment lock.
func (s *SamplingDecisionState) SetDecisionLocked(d SamplingDecision) {
	s.decision = &d
	if dm, ok := d.decisionMakerTag(); ok {
		s.traceTags.Set(tagDecisionMaker, dm)
	} else {
		s.unsetTagLocked(tagDecisionMaker)
	}
}

func (s *SamplingDecisionState) unsetTagLocked(key string) {
	// OrderedTags has no delete; rebuild without key. Decision changes are
	// rare (at most once per segment outside of override), so this is not
	// hot-path.
	if _, ok := s.traceTags.Get(key); !ok {
		return
	}
	rebuilt := OrderedTags{}
	s.traceTags.Range(func(k, v string) bool {
		if k != key {
			rebuilt.Set(k, v)
		}
		return true
	})
	s.traceTags = rebuilt
}

// SetTraceTagLocked sets a propagating trace tag. Caller must hold the
// segment lock.
func (s *SamplingDecisionState) SetTraceTagLocked(key, value string) { s.traceTags.Set(key, value) }

// TraceTagsLocked returns the propagation tag map. Caller must hold the
// segment lock.
func (s *SamplingDecisionState) TraceTagsLocked() *OrderedTags { return &s.traceTags }

// TraceSegmentConfig carries the construction-time configuration a
// TraceSegment needs, standing in for the environment/file-based
// configuration loader that spec §1 places out of scope.
type TraceSegmentConfig struct {
	// Service is the segment's top-level configured service name, used to
	// derive `_dd.base_service` when an individual span's service differs.
	Service string
	// Hostname, if non-empty, is written as `_dd.hostname` at finalization.
	Hostname string
	// InjectStyles/ExtractStyles configure the segment's Propagator.
	InjectStyles, ExtractStyles []PropagationStyle
}

// TraceSegment owns a process-local portion of a trace: the span vector,
// the finished-span counter, the sampling decision, and the propagation
// tags, per spec §3 and §5.
type TraceSegment struct {
	mu sync.Mutex

	traceID TraceID
	spans   []*SpanData
	root    *SpanData

	finished int
	state    SamplingDecisionState
	once     sync.Once

	// FullW3CTraceIDHex/AdditionalW3CTracestate/AdditionalDatadogW3CTracestate
	// preserve W3C round-trip fields extracted from an inbound context, if
	// any (spec §3).
	FullW3CTraceIDHex              string
	AdditionalW3CTracestate        string
	AdditionalDatadogW3CTracestate string
	Origin                         string

	cfg          TraceSegmentConfig
	traceSampler *TraceSampler
	spanSampler  *SpanSampler
	collector    Collector
	clock        Clock
	idGen        IDGenerator
	propagator   *Propagator
}

// NewTraceSegment creates a segment owning root as its first span. If
// extracted is non-nil and carries a sampling priority, the segment
// inherits it as an OriginExtracted decision rather than computing one
// locally (spec §4.6 step 1 only fires when the decision is still nil).
func NewTraceSegment(root *SpanData, cfg TraceSegmentConfig, extracted *ExtractedContext, sampler *TraceSampler, spanSampler *SpanSampler, collector Collector, clock Clock, idGen IDGenerator) *TraceSegment {
	t := &TraceSegment{
		traceID:      root.TraceID,
		root:         root,
		cfg:          cfg,
		traceSampler: sampler,
		spanSampler:  spanSampler,
		collector:    collector,
		clock:        clock,
		idGen:        idGen,
	}
	t.propagator = NewPropagator(cfg.ExtractStyles, cfg.InjectStyles, DefaultMaxTagsHeaderLen)
	if extracted != nil {
		t.FullW3CTraceIDHex = extracted.FullW3CTraceIDHex
		t.AdditionalW3CTracestate = extracted.AdditionalW3CTracestate
		t.AdditionalDatadogW3CTracestate = extracted.AdditionalDatadogW3CTracestate
		t.Origin = extracted.Origin
		extracted.TraceTags.Range(func(k, v string) bool {
			t.state.SetTraceTagLocked(k, v)
			return true
		})
		if extracted.SamplingPriority != nil {
			t.state.SetDecisionLocked(SamplingDecision{
				Priority:  *extracted.SamplingPriority,
				Mechanism: MechanismDefault,
				Origin:    OriginExtracted,
			})
		}
	}
	t.registerSpan(root)
	return t
}

// StartSpan creates the root Span handle onto root, bound to this segment.
func (t *TraceSegment) StartSpan() *Span {
	return &Span{data: t.root, segment: t}
}

// registerSpan appends data to the span vector under lock.
func (t *TraceSegment) registerSpan(data *SpanData) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = append(t.spans, data)
}

// OverrideSamplingPriority forces the segment's decision, bypassing the
// TraceSampler. Subsequent observers, including finalization, see this
// decision (spec §5 ordering guarantee).
func (t *TraceSegment) OverrideSamplingPriority(p SamplingPriority) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.SetDecisionLocked(SamplingDecision{
		Priority:  p,
		Mechanism: MechanismManual,
		Origin:    OriginLocal,
	})
}

// Snapshot returns the injection snapshot described in spec §4.3: the
// segment's decision and tags read under lock, alongside the W3C
// round-trip fields.
func (t *TraceSegment) Snapshot(spanID SpanID) InjectionSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := InjectionSnapshot{
		TraceID:                        t.traceID,
		SpanID:                         spanID,
		Origin:                         t.Origin,
		FullW3CTraceIDHex:              t.FullW3CTraceIDHex,
		AdditionalW3CTracestate:        t.AdditionalW3CTracestate,
		AdditionalDatadogW3CTracestate: t.AdditionalDatadogW3CTracestate,
	}
	if d := t.state.DecisionLocked(); d != nil {
		snap.SamplingPriority = d.Priority
	}
	snap.TraceTags = t.state.TraceTagsLocked().copy()
	return snap
}

// Inject snapshots the segment's decision and tags and writes them onto w
// through the segment's configured Propagator.
func (t *TraceSegment) Inject(spanID SpanID, w TextMapWriter) {
	snap := t.Snapshot(spanID)
	if errTag, failed := t.propagator.Inject(snap, w); failed {
		t.root.setMeta(tagPropagationError, errTag)
	}
}

// finishSpan increments the finished counter and, if this was the last
// span, triggers finalization exactly once (spec §4.6, §5).
func (t *TraceSegment) finishSpan(data *SpanData) {
	t.mu.Lock()
	t.finished++
	last := t.finished == len(t.spans)
	t.mu.Unlock()
	if last {
		t.once.Do(t.finalize)
	}
}

// finalize runs the steps of spec §4.6 in order.
func (t *TraceSegment) finalize() {
	t.mu.Lock()
	if t.state.DecisionLocked() == nil {
		d := t.traceSampler.Decide(t.traceID, t.root.Service, t.root.Tags["env"], t.root.Name, t.root.Resource, t.root.Tags, t.root.NumericTags)
		t.state.SetDecisionLocked(d)
	}
	decision := *t.state.DecisionLocked()
	tagsSnapshot := t.state.TraceTagsLocked().copy()
	spans := t.spans
	t.mu.Unlock()

	if decision.Priority <= 0 && t.spanSampler != nil {
		for _, sp := range spans {
			if res, ok := t.spanSampler.Sample(t.traceID, sp.Service, sp.Name, sp.Resource, sp.Tags, sp.NumericTags); ok {
				sp.SetNumericTag(tagSpanSamplingMechanism, float64(res.Mechanism))
				sp.SetNumericTag(tagSpanSamplingRuleRate, res.RuleRate)
				if res.MaxPerSecond != nil {
					sp.SetNumericTag(tagSpanSamplingMaxPerSecond, *res.MaxPerSecond)
				}
			}
		}
	}

	tagsSnapshot.Range(func(k, v string) bool {
		t.root.setMeta(k, v)
		return true
	})
	t.root.SetNumericTag(metricSamplingPriority, float64(decision.Priority))
	if t.cfg.Hostname != "" {
		t.root.setMeta(tagHostname, t.cfg.Hostname)
	}
	if decision.Origin == OriginLocal {
		switch decision.Mechanism {
		case MechanismAgentRate:
			if decision.ConfiguredRate != nil {
				t.root.SetNumericTag(tagAgentPSR, *decision.ConfiguredRate)
			}
		case MechanismRule:
			if decision.ConfiguredRate != nil {
				t.root.SetNumericTag(tagRulePSR, *decision.ConfiguredRate)
			}
			if decision.LimiterEffectiveRate != nil {
				t.root.SetNumericTag(tagLimitPSR, *decision.LimiterEffectiveRate)
			}
		}
	}

	for _, sp := range spans {
		if sp.Service != "" && t.cfg.Service != "" && !strings.EqualFold(sp.Service, t.cfg.Service) {
			sp.setMeta(tagBaseService, t.cfg.Service)
		}
		if t.Origin != "" {
			sp.setMeta(tagOrigin, t.Origin)
		}
	}

	if err := t.collector.Send(spans, t.traceSampler); err != nil {
		log.Error("failed to send trace: %v", xerrors.Errorf("collector send for trace %s: %w", t.traceID.HexEncoded(), err))
	}
}

// copy returns a value copy of t suitable for handing to an injector
// without holding the segment lock.
func (t *OrderedTags) copy() OrderedTags {
	var out OrderedTags
	t.Range(func(k, v string) bool {
		out.Set(k, v)
		return true
	})
	return out
}
