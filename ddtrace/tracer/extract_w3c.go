// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"strconv"
	"strings"
)

// extractW3C parses the W3C Trace Context `traceparent`/`tracestate`
// headers into an ExtractedContext. traceparent is parsed with a
// hand-written fixed-layout parser rather than a regular expression: the
// field widths and separators are fixed, so slicing is both clearer and
// cheaper than compiling a pattern.
func extractW3C(reader TextMapReader) (*ExtractedContext, error) {
	r := newAuditingReader(reader)
	ctx := &ExtractedContext{Style: StyleW3C}

	tp, ok := r.lookup(headerTraceparent)
	if !ok {
		ctx.HeadersExamined = r.examined
		return ctx, nil
	}

	traceID, spanID, priority, errTag, ok := parseTraceparent(tp)
	if !ok {
		ctx.TraceTags.Set(tagW3CExtractionError, errTag)
		ctx.HeadersExamined = r.examined
		return ctx, nil
	}
	ctx.TraceID = &traceID
	ctx.ParentID = &spanID
	ctx.SamplingPriority = &priority
	ctx.FullW3CTraceIDHex = traceID.HexEncoded()

	if ts, ok := r.lookup(headerTracestate); ok {
		parseTracestate(ctx, ts, priority)
	}

	ctx.HeadersExamined = r.examined
	return ctx, nil
}

// parseTraceparent implements the fixed-layout parse of §4.1:
//
//	VV-TTTTTTTTTTTTTTTTTTTTTTTTTTTTTTTT-SSSSSSSSSSSSSSSS-FF(-...)
//
// where VV is 2 hex (version), the 32-hex trace id splits into high/low 64
// bit halves, SSSS... is the 16-hex span id and FF is 2 hex flags. Trailing
// dash-separated fields beyond the flags are accepted and ignored (future
// traceparent versions may add them).
func parseTraceparent(raw string) (traceID TraceID, spanID SpanID, priority SamplingPriority, errTag string, ok bool) {
	s := strings.TrimSpace(raw)
	parts := strings.Split(s, "-")
	if len(parts) < 4 {
		return TraceID{}, 0, 0, "malformed_traceparent", false
	}
	version, traceIDHex, spanIDHex, flagsHex := parts[0], parts[1], parts[2], parts[3]
	if len(version) != 2 || len(traceIDHex) != 32 || len(spanIDHex) != 16 || len(flagsHex) != 2 {
		return TraceID{}, 0, 0, "malformed_traceparent", false
	}
	if !isHex(version) || !isHex(traceIDHex) || !isHex(spanIDHex) || !isHex(flagsHex) {
		return TraceID{}, 0, 0, "malformed_traceparent", false
	}
	if strings.EqualFold(version, "ff") {
		return TraceID{}, 0, 0, "invalid_version", false
	}
	tid, err := ParseTraceIDHex(traceIDHex)
	if err != nil {
		return TraceID{}, 0, 0, "malformed_traceparent", false
	}
	if tid.IsZero() {
		return TraceID{}, 0, 0, "trace_id_zero", false
	}
	sid, err := ParseSpanIDHex(spanIDHex)
	if err != nil {
		return TraceID{}, 0, 0, "malformed_traceparent", false
	}
	if sid == 0 {
		return TraceID{}, 0, 0, "parent_id_zero", false
	}
	flags, err := strconv.ParseUint(flagsHex, 16, 8)
	if err != nil {
		return TraceID{}, 0, 0, "malformed_traceparent", false
	}
	p := PriorityAutoReject
	if flags&1 == 1 {
		p = PriorityAutoKeep
	}
	return tid, sid, p, "", true
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// parseTracestate splits the tracestate header into the `dd=` entry (at
// most one is honored; the rest is preserved verbatim) and applies its
// semicolon-separated subkeys onto ctx.
func parseTracestate(ctx *ExtractedContext, raw string, traceparentPriority SamplingPriority) {
	rawParts := strings.Split(raw, ",")
	var entries []string
	for _, p := range rawParts {
		t := strings.TrimSpace(p)
		if t == "" || !strings.Contains(t, "=") {
			continue
		}
		entries = append(entries, t)
	}

	ddIdx := -1
	var ddValue string
	for i, e := range entries {
		k, v, found := splitOnFirst(e, '=')
		if found && k == "dd" {
			ddIdx = i
			ddValue = v
			break
		}
	}
	if ddIdx < 0 {
		if len(entries) > 0 {
			ctx.AdditionalW3CTracestate = strings.Join(entries, ",")
		}
		return
	}
	remaining := make([]string, 0, len(entries)-1)
	for i, e := range entries {
		if i == ddIdx {
			continue
		}
		remaining = append(remaining, e)
	}
	if len(remaining) > 0 {
		ctx.AdditionalW3CTracestate = strings.Join(remaining, ",")
	}

	var unknown []string
	for _, sub := range strings.Split(ddValue, ";") {
		if sub == "" {
			continue
		}
		k, v, found := splitOnFirst(sub, ':')
		if !found {
			continue
		}
		switch {
		case k == "o":
			ctx.Origin = v
		case k == "s":
			n, err := strconv.Atoi(v)
			if err != nil {
				continue
			}
			np := SamplingPriority(n)
			if ctx.SamplingPriority == nil || signAgrees(np, traceparentPriority) {
				ctx.SamplingPriority = &np
			}
		case k == "p":
			ctx.DatadogW3CParentID = v
		case strings.HasPrefix(k, "t."):
			suffix := k[len("t."):]
			ctx.TraceTags.Set(propagatingTagPrefix+suffix, strings.ReplaceAll(v, "~", "="))
		default:
			unknown = append(unknown, k+":"+v)
		}
	}
	if len(unknown) > 0 {
		ctx.AdditionalDatadogW3CTracestate = strings.Join(unknown, ";")
	}
}

// signAgrees reports whether a and b fall into the same keep/drop bucket
// (both > 0, or both <= 0).
func signAgrees(a, b SamplingPriority) bool {
	return (a > 0) == (b > 0)
}

// splitOnFirst splits s on the first occurrence of sep, matching the
// "split-on-first-separator" rule noted in §9 (a value may itself contain
// the separator character).
func splitOnFirst(s string, sep byte) (key, value string, ok bool) {
	idx := strings.IndexByte(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}
