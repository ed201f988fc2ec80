// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"fmt"
	"sync"
	"time"

	"github.com/DataDog/dd-trace-go-core/ddtrace/ext"
)

// SpanData is the mutable state of one span: identity, timing, and tags.
// Per spec §5, SpanData is mutated only by its owning *Span handle (never
// under the segment's lock); only structural segment state (the span
// vector, the finished counter, the decision, the trace tags) is locked.
type SpanData struct {
	TraceID     TraceID
	SpanID      SpanID
	ParentID    SpanID
	Service     string
	ServiceType string
	Name        string
	Resource    string

	Start    ClockReading
	Duration time.Duration
	Error    bool

	Tags        map[string]string
	NumericTags map[string]float64
}

// SetTag sets a string tag. Returns false and leaves the span unmodified if
// key is in the reserved internal namespace (spec §3, §8).
func (d *SpanData) SetTag(key, value string) bool {
	if isReservedTag(key) {
		return false
	}
	if d.Tags == nil {
		d.Tags = make(map[string]string, 1)
	}
	d.Tags[key] = value
	return true
}

// RemoveTag deletes a string tag. Returns false and leaves the span
// unmodified if key is in the reserved internal namespace.
func (d *SpanData) RemoveTag(key string) bool {
	if isReservedTag(key) {
		return false
	}
	delete(d.Tags, key)
	return true
}

// SetNumericTag sets a numeric tag. Numeric tags live in a namespace
// disjoint from string tags (spec §6) and are written only by the core
// itself (sampling/decision bookkeeping); there is no reservation check
// because no public numeric-tag API is exposed to the application.
func (d *SpanData) SetNumericTag(key string, value float64) {
	if d.NumericTags == nil {
		d.NumericTags = make(map[string]float64, 1)
	}
	d.NumericTags[key] = value
}

// SetError marks the span as errored and writes the dedicated error.*
// tags. This is the only way to write into the error.* reserved group.
func (d *SpanData) SetError(err error) {
	if err == nil {
		return
	}
	d.Error = true
	if d.Tags == nil {
		d.Tags = make(map[string]string, 3)
	}
	d.Tags[ext.ErrorMsg] = err.Error()
	d.Tags[ext.ErrorType] = fmt.Sprintf("%T", err)
}

// setMeta writes a tag bypassing the reservation check, for use by the core
// itself (e.g. propagating `_dd.*` tags onto the root span at finalization).
func (d *SpanData) setMeta(key, value string) {
	if d.Tags == nil {
		d.Tags = make(map[string]string, 1)
	}
	d.Tags[key] = value
}

// Span is a scoped handle onto one SpanData, bound to a TraceSegment for
// its lifetime (spec §4.7). A Span must be finished exactly once.
type Span struct {
	mu       sync.Mutex
	data     *SpanData
	segment  *TraceSegment
	finished bool
}

// newSpan constructs a child Span, registering its SpanData with segment.
// The root span is registered by NewTraceSegment and handed out by
// StartSpan instead.
func newSpan(data *SpanData, segment *TraceSegment) *Span {
	s := &Span{data: data, segment: segment}
	segment.registerSpan(data)
	return s
}

// Data returns the span's mutable state. The caller must not share this
// across goroutines concurrently with other Span methods; per spec §5 a
// span is handled by one thread/goroutine at a time.
func (s *Span) Data() *SpanData { return s.data }

// CreateChild allocates a new SpanData that inherits this span's trace id,
// sets its parent id to this span's id, assigns a fresh span id from gen,
// registers it with the segment, and returns a handle onto it.
func (s *Span) CreateChild(name string, gen IDGenerator, clock Clock) *Span {
	child := &SpanData{
		TraceID:  s.data.TraceID,
		SpanID:   gen.SpanID(),
		ParentID: s.data.SpanID,
		Name:     name,
		Start:    clock.Now(),
	}
	return newSpan(child, s.segment)
}

// Finish completes the span at the given clock reading (or, if none is
// given, at clock.Now()), computing duration and notifying the segment
// exactly once.
func (s *Span) Finish(clock Clock, end ...ClockReading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.finished = true
	var endTick int64
	if len(end) > 0 {
		endTick = end[0].Tick
	} else {
		endTick = clock.Now().Tick
	}
	s.data.Duration = time.Duration(endTick - s.data.Start.Tick)
	if s.data.Duration < 0 {
		s.data.Duration = 0
	}
	s.segment.finishSpan(s.data)
}
