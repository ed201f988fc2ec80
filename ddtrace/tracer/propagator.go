// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import "github.com/DataDog/dd-trace-go-core/internal/log"

// extractorFunc parses headers from reader into an ExtractedContext for one
// propagation style.
type extractorFunc func(reader TextMapReader) (*ExtractedContext, error)

var extractors = map[PropagationStyle]extractorFunc{
	StyleDatadog: extractDatadog,
	StyleB3:      extractB3,
	StyleW3C:     extractW3C,
}

// Propagator orchestrates extraction (many styles merged into one context)
// and injection (one snapshot fanned out to many styles) per spec §4.1-§4.3.
type Propagator struct {
	// ExtractStyles gives the precedence order used when merging multiple
	// concurrently enabled extraction formats.
	ExtractStyles []PropagationStyle
	// InjectStyles lists the styles written on every Inject call.
	InjectStyles []PropagationStyle
	// MaxTagsHeaderLen caps the encoded size, in bytes, of the
	// x-datadog-tags header and of the whole tracestate header value.
	MaxTagsHeaderLen int
}

// DefaultMaxTagsHeaderLen is the default cap on the size of the encoded
// x-datadog-tags header and of the whole tracestate header value.
const DefaultMaxTagsHeaderLen = 512

// NewPropagator builds a Propagator. A zero MaxTagsHeaderLen is replaced
// with DefaultMaxTagsHeaderLen.
func NewPropagator(extractStyles, injectStyles []PropagationStyle, maxTagsHeaderLen int) *Propagator {
	if maxTagsHeaderLen <= 0 {
		maxTagsHeaderLen = DefaultMaxTagsHeaderLen
	}
	return &Propagator{ExtractStyles: extractStyles, InjectStyles: injectStyles, MaxTagsHeaderLen: maxTagsHeaderLen}
}

// Extract runs every enabled extraction style against reader and merges the
// results per §4.2. A style that fails to parse is simply skipped (never
// fatal across styles); if every enabled style fails or is absent, the
// result is empty.
func (p *Propagator) Extract(reader TextMapReader) *ExtractedContext {
	results := make(map[PropagationStyle]*ExtractedContext, len(p.ExtractStyles))
	for _, style := range p.ExtractStyles {
		if style == StyleNone {
			continue
		}
		fn, ok := extractors[style]
		if !ok {
			continue
		}
		ctx, err := fn(reader)
		if err != nil {
			log.Debug("propagator: %s extraction failed: %v", style, err)
			continue
		}
		results[style] = ctx
	}
	return mergeContexts(p.ExtractStyles, results)
}

// InjectionSnapshot is the read-only view of a TraceSegment's decision and
// tags that an Injector writes from, per §4.3.
type InjectionSnapshot struct {
	TraceID          TraceID
	SpanID           SpanID
	SamplingPriority SamplingPriority
	Origin           string
	TraceTags        OrderedTags

	FullW3CTraceIDHex              string
	AdditionalW3CTracestate        string
	AdditionalDatadogW3CTracestate string
}

// Inject writes snap onto writer for every enabled injection style. If the
// only enabled style is StyleNone, injection is a complete no-op.
func (p *Propagator) Inject(snap InjectionSnapshot, writer TextMapWriter) (propagationErr string, hasErr bool) {
	if len(p.InjectStyles) == 0 {
		return "", false
	}
	onlyNone := true
	for _, s := range p.InjectStyles {
		if s != StyleNone {
			onlyNone = false
			break
		}
	}
	if onlyNone {
		return "", false
	}
	for _, style := range p.InjectStyles {
		switch style {
		case StyleDatadog:
			if errTag, failed := injectDatadog(snap, writer, p.MaxTagsHeaderLen); failed {
				propagationErr, hasErr = errTag, true
			}
		case StyleB3:
			injectB3(snap, writer)
		case StyleW3C:
			injectW3C(snap, writer, p.MaxTagsHeaderLen)
		case StyleNone:
			// no-op
		}
	}
	return propagationErr, hasErr
}
