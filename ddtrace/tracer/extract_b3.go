// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import "fmt"

// extractB3 parses the x-b3-* multi-header variant into an ExtractedContext.
// The single-header variant (`b3: <traceid>-<spanid>-<sampled>`) is absent
// per spec §4.1.
func extractB3(reader TextMapReader) (*ExtractedContext, error) {
	r := newAuditingReader(reader)
	ctx := &ExtractedContext{Style: StyleB3}

	traceIDStr, ok := r.lookup(headerB3TraceID)
	if !ok {
		ctx.HeadersExamined = r.examined
		return ctx, nil
	}
	traceID, err := ParseTraceIDHex(traceIDStr)
	if err != nil {
		return nil, fmt.Errorf("b3: invalid %s: %w", headerB3TraceID, err)
	}
	ctx.TraceID = &traceID

	if spanIDStr, ok := r.lookup(headerB3SpanID); ok {
		spanID, err := ParseSpanIDHex(spanIDStr)
		if err != nil {
			return nil, fmt.Errorf("b3: invalid %s: %w", headerB3SpanID, err)
		}
		ctx.ParentID = &spanID
	}

	if sampledStr, ok := r.lookup(headerB3Sampled); ok {
		var p SamplingPriority
		switch sampledStr {
		case "1":
			p = PriorityAutoKeep
		case "0":
			p = PriorityAutoReject
		default:
			return nil, fmt.Errorf("b3: invalid %s: %q", headerB3Sampled, sampledStr)
		}
		ctx.SamplingPriority = &p
	}

	ctx.HeadersExamined = r.examined
	return ctx, nil
}
