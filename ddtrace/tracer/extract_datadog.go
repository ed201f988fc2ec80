// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"fmt"
	"strconv"
)

// extractDatadog parses the x-datadog-* headers into an ExtractedContext.
// Unparseable trace-id/parent-id/priority headers are fatal for this style
// only (an error is returned and the style contributes no context); tag
// decoding problems are non-fatal and surface only as a propagation-error
// tag on the result.
func extractDatadog(reader TextMapReader) (*ExtractedContext, error) {
	r := newAuditingReader(reader)
	ctx := &ExtractedContext{Style: StyleDatadog}

	traceIDStr, ok := r.lookup(headerDatadogTraceID)
	if !ok {
		ctx.HeadersExamined = r.examined
		return ctx, nil
	}
	traceID, err := ParseTraceIDDecimal(traceIDStr)
	if err != nil {
		return nil, fmt.Errorf("datadog: invalid %s: %w", headerDatadogTraceID, err)
	}
	ctx.TraceID = &traceID

	if parentIDStr, ok := r.lookup(headerDatadogParentID); ok {
		parentID, err := ParseSpanIDDecimal(parentIDStr)
		if err != nil {
			return nil, fmt.Errorf("datadog: invalid %s: %w", headerDatadogParentID, err)
		}
		ctx.ParentID = &parentID
	}

	if prioStr, ok := r.lookup(headerDatadogSamplingPrio); ok {
		p, err := parseSamplingPriority(prioStr)
		if err != nil {
			return nil, fmt.Errorf("datadog: invalid %s: %w", headerDatadogSamplingPrio, err)
		}
		ctx.SamplingPriority = &p
	}

	if origin, ok := r.lookup(headerDatadogOrigin); ok {
		ctx.Origin = origin
	}

	if tagsRaw, ok := r.lookup(headerDatadogTags); ok {
		tags, err := decodeDatadogTags(tagsRaw)
		if err != nil {
			ctx.TraceTags.Set(tagPropagationError, "decoding_error")
		} else {
			applyTraceTags(ctx, tags, traceID)
		}
	}

	ctx.HeadersExamined = r.examined
	return ctx, nil
}

// applyTraceTags copies decoded `_dd.p.*` tags onto ctx, handling the
// `_dd.p.tid` 128-bit-high-half special case.
func applyTraceTags(ctx *ExtractedContext, tags OrderedTags, traceID TraceID) {
	tags.Range(func(k, v string) bool {
		if k == tagTraceID128 {
			if len(v) != 16 {
				ctx.TraceTags.Set(tagPropagationError, "malformed_tid "+v)
				return true
			}
			var withUpper TraceID
			if err := withUpper.SetUpperFromHex(v); err != nil {
				ctx.TraceTags.Set(tagPropagationError, "malformed_tid "+v)
				return true
			}
			if ctx.TraceID != nil {
				ctx.TraceID.SetUpper(withUpper.Upper())
			}
		}
		ctx.TraceTags.Set(k, v)
		return true
	})
}

// SetUpperFromHex parses a 16-hex string into the high 64 bits of t.
func (t *TraceID) SetUpperFromHex(s string) error {
	u, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return err
	}
	t.SetUpper(u)
	return nil
}

// parseSamplingPriority parses the signed decimal x-datadog-sampling-priority
// header value.
func parseSamplingPriority(s string) (SamplingPriority, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return SamplingPriority(v), nil
}
