// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

// mergeContexts reconciles one ExtractedContext per enabled propagation
// style into a single authoritative context, per spec §4.2.
//
// styles gives the precedence order (first enabled style whose context
// carries a trace id wins as primary); extracted maps each style to the
// context its extractor produced (nil entries are permitted for styles with
// no matching headers).
func mergeContexts(styles []PropagationStyle, extracted map[PropagationStyle]*ExtractedContext) *ExtractedContext {
	var primary *ExtractedContext
	for _, style := range styles {
		c := extracted[style]
		if c != nil && c.TraceID != nil {
			primary = c
			break
		}
	}
	if primary == nil {
		return &ExtractedContext{}
	}

	if primary.Style != StyleW3C {
		if w3c, ok := extracted[StyleW3C]; ok && w3c != nil && w3c.TraceID != nil && *w3c.TraceID == *primary.TraceID {
			primary.AdditionalW3CTracestate = w3c.AdditionalW3CTracestate
			primary.AdditionalDatadogW3CTracestate = w3c.AdditionalDatadogW3CTracestate
			primary.HeadersExamined = append(primary.HeadersExamined, w3c.HeadersExamined...)

			parentsDiffer := (primary.ParentID == nil) != (w3c.ParentID == nil) ||
				(primary.ParentID != nil && w3c.ParentID != nil && *primary.ParentID != *w3c.ParentID)
			if parentsDiffer {
				if w3c.DatadogW3CParentID != "" && w3c.DatadogW3CParentID != "0000000000000000" {
					primary.DatadogW3CParentID = w3c.DatadogW3CParentID
				} else if dd, ok := extracted[StyleDatadog]; ok && dd != nil && dd.TraceID != nil &&
					*dd.TraceID == *primary.TraceID && dd.ParentID != nil {
					primary.DatadogW3CParentID = FormatSpanIDHex(uint64(*dd.ParentID), 16)
				}
				primary.ParentID = w3c.ParentID
			}
		}
	}
	return primary
}
