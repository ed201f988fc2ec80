// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"github.com/DataDog/dd-trace-go-core/ddtrace/ext"
	"github.com/DataDog/dd-trace-go-core/internal/samplernames"
)

// SamplingPriority classifies a trace as kept or dropped, and whether the
// classification was made automatically or forced by the user.
type SamplingPriority int

const (
	// PriorityUserReject forces a trace to be dropped.
	PriorityUserReject SamplingPriority = ext.PriorityUserReject
	// PriorityAutoReject is the default sampler's drop decision.
	PriorityAutoReject SamplingPriority = ext.PriorityAutoReject
	// PriorityAutoKeep is the default sampler's keep decision.
	PriorityAutoKeep SamplingPriority = ext.PriorityAutoKeep
	// PriorityUserKeep forces a trace to be kept.
	PriorityUserKeep SamplingPriority = ext.PriorityUserKeep
)

// Keep reports whether p represents a keep decision.
func (p SamplingPriority) Keep() bool { return p > 0 }

// SamplingMechanism enumerates what produced a SamplingDecision, recorded on
// the `_dd.p.dm` propagating tag so downstream services honor the decision.
type SamplingMechanism int

const (
	MechanismDefault        SamplingMechanism = 0
	MechanismAgentRate      SamplingMechanism = 1
	MechanismRemoteAutoRate SamplingMechanism = 2
	MechanismRule           SamplingMechanism = 3
	MechanismManual         SamplingMechanism = 4
	MechanismAppDec         SamplingMechanism = 5
	MechanismRemoteUserRate SamplingMechanism = 6
	MechanismSpanRule       SamplingMechanism = 8
)

// DecisionOrigin records whether a SamplingDecision was computed in this
// process or inherited from an extracted context.
type DecisionOrigin int

const (
	// OriginLocal means the decision was computed by this segment's
	// TraceSampler.
	OriginLocal DecisionOrigin = iota
	// OriginExtracted means the decision was inherited from an inbound
	// propagated context.
	OriginExtracted
)

// SamplingDecision is the outcome of the sampling engine for one trace
// segment: a priority, the mechanism that produced it, its origin, and
// diagnostic rate information.
type SamplingDecision struct {
	Priority  SamplingPriority
	Mechanism SamplingMechanism
	Origin    DecisionOrigin

	// ConfiguredRate is the rate that was applied to reach this decision
	// (rule rate, agent rate, or default rate), when applicable.
	ConfiguredRate *float64
	// LimiterEffectiveRate is the rate limiter's observed effective rate at
	// the time of the decision, averaged across the current and previous
	// one-second windows. Only set when a rule matched.
	LimiterEffectiveRate *float64
	// LimiterMaxPerSecond is the configured maximum rate of the limiter that
	// produced LimiterEffectiveRate.
	LimiterMaxPerSecond *float64
}

// decisionMakerTag returns the "_dd.p.dm" value for this decision and true,
// or ("", false) when priority <= 0. Every mechanism, MANUAL included, is
// tagged; a mechanism with no SamplerName mapping renders as "--1".
func (d SamplingDecision) decisionMakerTag() (string, bool) {
	if d.Priority <= 0 {
		return "", false
	}
	return samplerFromMechanism(d.Mechanism).DecisionMaker(), true
}

// samplerFromMechanism maps the wire-level SamplingMechanism to the internal
// SamplerName enum used to render the decision-maker tag.
func samplerFromMechanism(m SamplingMechanism) samplernames.SamplerName {
	switch m {
	case MechanismDefault:
		return samplernames.Default
	case MechanismAgentRate:
		return samplernames.AgentRate
	case MechanismRemoteAutoRate:
		return samplernames.RemoteRate
	case MechanismRule:
		return samplernames.RuleRate
	case MechanismManual:
		return samplernames.Manual
	case MechanismAppDec:
		return samplernames.AppSec
	case MechanismRemoteUserRate:
		return samplernames.RemoteUserRate
	case MechanismSpanRule:
		return samplernames.SingleSpan
	default:
		return samplernames.Unknown
	}
}
