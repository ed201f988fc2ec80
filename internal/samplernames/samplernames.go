// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

// Package samplernames holds the enumeration of sampling mechanisms that can
// produce a sampling decision, and the wire representation used for the
// `_dd.p.dm` propagating tag.
package samplernames

import "strconv"

// SamplerName identifies the sampling mechanism that produced a decision.
type SamplerName int32

const (
	// Unknown is used when no mechanism is known. Its decision maker value
	// is "--1".
	Unknown SamplerName = -1
	// Default is the tracer's default sampling rate.
	Default SamplerName = 0
	// AgentRate is a rate communicated by the agent.
	AgentRate SamplerName = 1
	// RemoteRate is a rate received though remote configuration, keyed by
	// service and env.
	RemoteRate SamplerName = 2
	// RuleRate is a locally configured sampling rule.
	RuleRate SamplerName = 3
	// Manual is a user override.
	Manual SamplerName = 4
	// AppSec is a decision forced by an application security event.
	AppSec SamplerName = 5
	// RemoteUserRate is a remote user-provided rate.
	RemoteUserRate SamplerName = 6
	// SingleSpan marks a span rescued by the single-span sampler.
	SingleSpan SamplerName = 8
	// RemoteUserRule is a remote user-provided rule.
	RemoteUserRule SamplerName = 11
	// RemoteDynamicRule is a remote dynamically-configured rule.
	RemoteDynamicRule SamplerName = 12
)

// valid reports whether s is one of the known sampler names.
func (s SamplerName) valid() bool {
	switch s {
	case Unknown, Default, AgentRate, RemoteRate, RuleRate, Manual, AppSec,
		RemoteUserRate, SingleSpan, RemoteUserRule, RemoteDynamicRule:
		return true
	default:
		return false
	}
}

// DecisionMaker returns the string to be used as the `_dd.p.dm` propagating
// tag value for this sampler name, e.g. "-3" for RuleRate.
func (s SamplerName) DecisionMaker() string {
	if !s.valid() {
		s = Unknown
	}
	return "-" + strconv.Itoa(int(s))
}
