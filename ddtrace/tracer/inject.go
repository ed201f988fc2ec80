// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"strconv"
	"strings"
)

// injectDatadog writes the x-datadog-* headers from snap. Returns
// ("inject_max_size", true) when the encoded tags exceed maxTagsLen, in
// which case x-datadog-tags is omitted entirely but the rest of the headers
// are still written.
func injectDatadog(snap InjectionSnapshot, w TextMapWriter, maxTagsLen int) (errTag string, failed bool) {
	w.Set(headerDatadogTraceID, strconv.FormatUint(snap.TraceID.Lower(), 10))
	w.Set(headerDatadogParentID, strconv.FormatUint(uint64(snap.SpanID), 10))
	w.Set(headerDatadogSamplingPrio, strconv.Itoa(int(snap.SamplingPriority)))
	if snap.Origin != "" {
		w.Set(headerDatadogOrigin, snap.Origin)
	}
	encoded := encodeDatadogTags(&snap.TraceTags)
	if encoded == "" {
		return "", false
	}
	if len(encoded) > maxTagsLen {
		return "inject_max_size", true
	}
	w.Set(headerDatadogTags, encoded)
	return "", false
}

// injectB3 writes the x-b3-* headers from snap, plus the cross-bridging
// x-datadog-origin/x-datadog-tags headers per §4.3.
func injectB3(snap InjectionSnapshot, w TextMapWriter) {
	if snap.TraceID.HasUpper() {
		w.Set(headerB3TraceID, snap.TraceID.HexEncoded())
	} else {
		w.Set(headerB3TraceID, snap.TraceID.LowerHex())
	}
	w.Set(headerB3SpanID, FormatSpanIDHex(uint64(snap.SpanID), 16))
	if snap.SamplingPriority > 0 {
		w.Set(headerB3Sampled, "1")
	} else {
		w.Set(headerB3Sampled, "0")
	}
	if snap.Origin != "" {
		w.Set(headerDatadogOrigin, snap.Origin)
	}
	if encoded := encodeDatadogTags(&snap.TraceTags); encoded != "" {
		w.Set(headerDatadogTags, encoded)
	}
}

// injectW3C writes traceparent/tracestate from snap. The whole tracestate
// value (the dd= entry plus any preserved vendor entries) is held to maxLen
// by dropping the dd= entry's lowest-priority subkeys (unrecognized dd
// subkeys first); other vendors' entries are never dropped, so the value can
// still exceed maxLen once every subkey is gone.
func injectW3C(snap InjectionSnapshot, w TextMapWriter, maxLen int) {
	traceIDHex := snap.FullW3CTraceIDHex
	if traceIDHex == "" {
		traceIDHex = zeroPad(32, snap.TraceID.HexEncoded())
	}
	flags := "00"
	if snap.SamplingPriority > 0 {
		flags = "01"
	}
	traceparent := "00-" + traceIDHex + "-" + zeroPad(16, FormatSpanIDHex(uint64(snap.SpanID), 16)) + "-" + flags
	w.Set(headerTraceparent, traceparent)
	w.Set(headerTracestate, composeTracestate(snap, maxLen))
}

// ddSubkey is one `k:v` entry of the `dd=` tracestate value, tagged with a
// drop priority (higher drops first when truncating).
type ddSubkey struct {
	text         string
	dropPriority int
}

// composeTracestate builds the outbound tracestate header: the `dd=` entry
// followed by a comma and any preserved non-dd vendor entries.
func composeTracestate(snap InjectionSnapshot, maxLen int) string {
	var subkeys []ddSubkey
	subkeys = append(subkeys, ddSubkey{"s:" + strconv.Itoa(int(snap.SamplingPriority)), 0})
	if snap.Origin != "" {
		subkeys = append(subkeys, ddSubkey{"o:" + sanitizeTracestateValue(snap.Origin), 1})
	}
	subkeys = append(subkeys, ddSubkey{"p:" + FormatSpanIDHex(uint64(snap.SpanID), 16), 0})
	snap.TraceTags.Range(func(k, v string) bool {
		if !strings.HasPrefix(k, propagatingTagPrefix) {
			return true
		}
		suffix := k[len(propagatingTagPrefix):]
		encoded := strings.ReplaceAll(v, "=", "~")
		subkeys = append(subkeys, ddSubkey{"t." + suffix + ":" + encoded, 2})
		return true
	})
	if snap.AdditionalDatadogW3CTracestate != "" {
		for _, u := range strings.Split(snap.AdditionalDatadogW3CTracestate, ";") {
			if u == "" {
				continue
			}
			subkeys = append(subkeys, ddSubkey{u, 3})
		}
	}

	build := func(items []ddSubkey) string {
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = it.text
		}
		ddVal := strings.Join(parts, ";")
		if ddVal != "" {
			ddVal += ";"
		}
		out := "dd=" + ddVal
		if snap.AdditionalW3CTracestate != "" {
			out += "," + snap.AdditionalW3CTracestate
		}
		return out
	}

	out := build(subkeys)
	for len(out) > maxLen && len(subkeys) > 0 {
		worst := 0
		for i, it := range subkeys {
			if it.dropPriority > subkeys[worst].dropPriority {
				worst = i
			}
		}
		subkeys = append(subkeys[:worst], subkeys[worst+1:]...)
		out = build(subkeys)
	}
	return out
}

// sanitizeTracestateValue strips the characters that would otherwise be
// ambiguous in a tracestate entry or a dd= subkey (',' separates entries,
// '=' separates key from value) from v.
func sanitizeTracestateValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch r {
		case ',', '=':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
