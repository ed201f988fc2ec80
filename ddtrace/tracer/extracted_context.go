// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

// PropagationStyle identifies a supported wire format for context
// propagation.
type PropagationStyle int

const (
	// StyleNone is the no-op propagation style: extraction always yields an
	// empty context, injection never writes headers.
	StyleNone PropagationStyle = iota
	// StyleDatadog is the Datadog-native x-datadog-* header format.
	StyleDatadog
	// StyleB3 is the B3 multi-header format (x-b3-*).
	StyleB3
	// StyleW3C is the W3C Trace Context format (traceparent/tracestate).
	StyleW3C
)

func (s PropagationStyle) String() string {
	switch s {
	case StyleDatadog:
		return "datadog"
	case StyleB3:
		return "b3"
	case StyleW3C:
		return "tracecontext"
	default:
		return "none"
	}
}

// HeaderLookup records one successful header lookup made by an extractor,
// for diagnostic purposes.
type HeaderLookup struct {
	Name  string
	Value string
}

// ExtractedContext is the intermediate form produced by an Extractor from
// inbound request headers. It is not yet authoritative: ContextMerge
// reconciles one ExtractedContext per enabled style into a single result.
type ExtractedContext struct {
	Style PropagationStyle

	TraceID          *TraceID
	ParentID         *SpanID
	SamplingPriority *SamplingPriority
	Origin           string

	// TraceTags holds decoded `_dd.p.*` trace-propagating tags, in the order
	// they were parsed.
	TraceTags OrderedTags

	// FullW3CTraceIDHex preserves the exact 32-hex form of a W3C
	// traceparent trace id, for verbatim round-tripping.
	FullW3CTraceIDHex string

	// AdditionalW3CTracestate holds non-`dd` vendor entries from an inbound
	// tracestate header, preserved verbatim for re-emission.
	AdditionalW3CTracestate string

	// AdditionalDatadogW3CTracestate holds unrecognized `k:v` subkeys from
	// the inbound `dd=` tracestate entry, preserved for re-emission.
	AdditionalDatadogW3CTracestate string

	// DatadogW3CParentID is a Datadog parent span id in hex, kept distinct
	// from ParentID: the `p:` subkey of an inbound `dd=` tracestate entry, or,
	// when a merge replaces ParentID with the W3C traceparent's parent id,
	// the Datadog headers' parent id as 16 lowercase hex characters.
	DatadogW3CParentID string

	HeadersExamined []HeaderLookup
}

// Empty reports whether no trace id was extracted; an empty context
// contributes nothing to a merge.
func (c *ExtractedContext) Empty() bool { return c == nil || c.TraceID == nil }

// OrderedTags is an insertion-ordered string-to-string map, used for trace
// propagating tags where emission order matters for round-tripping and
// truncation-on-overflow behavior.
type OrderedTags struct {
	keys   []string
	values map[string]string
}

// Set inserts or overwrites the value for key, preserving the original
// position for overwritten keys.
func (t *OrderedTags) Set(key, value string) {
	if t.values == nil {
		t.values = make(map[string]string)
	}
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get returns the value for key and whether it was present.
func (t *OrderedTags) Get(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Len returns the number of entries.
func (t *OrderedTags) Len() int { return len(t.keys) }

// Range calls f for each entry in insertion order, stopping early if f
// returns false.
func (t *OrderedTags) Range(f func(key, value string) bool) {
	for _, k := range t.keys {
		if !f(k, t.values[k]) {
			return
		}
	}
}

// ToMap returns a copy of the entries as a plain map.
func (t *OrderedTags) ToMap() map[string]string {
	m := make(map[string]string, len(t.keys))
	for _, k := range t.keys {
		m[k] = t.values[k]
	}
	return m
}

// TextMapReader is the generic header-lookup capability that extractors
// consume. It exposes only iteration over key/value pairs, which is narrow
// enough to be backed by any carrier (HTTP headers, a message-queue
// attribute map, ...).
type TextMapReader interface {
	// ForeachKey iterates over every key/value pair in the carrier.
	ForeachKey(handler func(key, val string) error) error
}

// TextMapWriter is the generic header-set capability that injectors consume.
type TextMapWriter interface {
	Set(key, value string)
}

// auditingReader decorates a TextMapReader, recording every successful
// lookup as a name/value pair so extractors can attach an audit log to the
// ExtractedContext they produce.
type auditingReader struct {
	TextMapReader
	examined []HeaderLookup
}

func newAuditingReader(r TextMapReader) *auditingReader {
	return &auditingReader{TextMapReader: r}
}

// lookup scans the whole carrier for a case-insensitive key match, recording
// the hit in the audit log if found.
func (a *auditingReader) lookup(name string) (string, bool) {
	var val string
	var found bool
	_ = a.ForeachKey(func(key, v string) error {
		if found {
			return nil
		}
		if equalFold(key, name) {
			val, found = v, true
		}
		return nil
	})
	if found {
		a.examined = append(a.examined, HeaderLookup{Name: name, Value: val})
	}
	return val, found
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
