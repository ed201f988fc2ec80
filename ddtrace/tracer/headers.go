// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import "github.com/DataDog/dd-trace-go-core/ddtrace/ext"

// Datadog propagation headers (§6).
const (
	headerDatadogTraceID      = "x-datadog-trace-id"
	headerDatadogParentID     = "x-datadog-parent-id"
	headerDatadogSamplingPrio = "x-datadog-sampling-priority"
	headerDatadogOrigin       = "x-datadog-origin"
	headerDatadogTags         = "x-datadog-tags"
)

// B3 propagation headers.
const (
	headerB3TraceID = "x-b3-traceid"
	headerB3SpanID  = "x-b3-spanid"
	headerB3Sampled = "x-b3-sampled"
)

// W3C Trace Context propagation headers.
const (
	headerTraceparent = "traceparent"
	headerTracestate  = "tracestate"
)

// Internal tag keys written by the core itself (§6, §3). The `_dd.`-prefixed
// ones are never writable through the public SpanData.SetTag/RemoveTag
// operations (see isReservedTag); metricSamplingPriority is a numeric-tag
// key outside that prefix, written by the core through SetNumericTag.
const (
	tagPropagationError         = "_dd.propagation_error"
	tagW3CExtractionError       = "_dd.w3c_extraction_error"
	tagDecisionMaker            = "_dd.p.dm"
	tagTraceID128               = "_dd.p.tid"
	tagBaseService              = "_dd.base_service"
	tagOrigin                   = "_dd.origin"
	tagHostname                 = "_dd.hostname"
	tagAgentPSR                 = "_dd.agent_psr"
	tagRulePSR                  = "_dd.rule_psr"
	tagLimitPSR                 = "_dd.limit_psr"
	tagSpanSamplingMechanism    = "_dd.span_sampling.mechanism"
	tagSpanSamplingRuleRate     = "_dd.span_sampling.rule_rate"
	tagSpanSamplingMaxPerSecond = "_dd.span_sampling.max_per_second"
	metricSamplingPriority      = "_sampling_priority_v1"
)

// errorTagNames is the set of `error.*` tags which are part of the reserved
// namespace but writable only through SpanData's dedicated error operations.
var errorTagNames = map[string]bool{
	ext.ErrorMsg:   true,
	ext.ErrorType:  true,
	ext.ErrorStack: true,
}

// isReservedTag reports whether key is off-limits to the public
// SetTag/RemoveTag operations: anything prefixed `_dd.` plus the error.*
// trio.
func isReservedTag(key string) bool {
	if len(key) >= 4 && key[:4] == "_dd." {
		return true
	}
	return errorTagNames[key]
}
