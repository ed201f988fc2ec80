// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock and fakeIDGen give tests deterministic timestamps and span ids.
type fakeClock struct{ tick int64 }

func (c *fakeClock) Now() ClockReading {
	c.tick++
	return ClockReading{Wall: time.Unix(0, c.tick), Tick: c.tick}
}

type fakeIDGen struct{ next SpanID }

func (g *fakeIDGen) SpanID() SpanID {
	g.next++
	return g.next
}

func newTestSegment(t *testing.T) (*TraceSegment, *fakeClock, *fakeIDGen, *RecordingCollector) {
	t.Helper()
	clock := &fakeClock{}
	gen := &fakeIDGen{}
	coll := &RecordingCollector{}
	root := &SpanData{TraceID: TraceIDFromLower(1), SpanID: gen.SpanID(), Name: "root", Start: clock.Now()}
	seg := NewTraceSegment(root, TraceSegmentConfig{Service: "svc"}, nil, NewTraceSampler(nil, 100, 1), NewSpanSampler(nil, nil), coll, clock, gen)
	return seg, clock, gen, coll
}

func TestSpanSetTagRejectsReserved(t *testing.T) {
	d := &SpanData{}
	assert.False(t, d.SetTag(tagBaseService, "x"))
	_, ok := d.Tags[tagBaseService]
	assert.False(t, ok)
	assert.True(t, d.SetTag("user.id", "42"))
	assert.Equal(t, "42", d.Tags["user.id"])
}

func TestSpanRemoveTagRejectsReserved(t *testing.T) {
	d := &SpanData{Tags: map[string]string{"_dd.foo": "bar"}}
	assert.False(t, d.RemoveTag("_dd.foo"))
	assert.Equal(t, "bar", d.Tags["_dd.foo"])
}

func TestSpanSetError(t *testing.T) {
	d := &SpanData{}
	d.SetError(errors.New("boom"))
	assert.True(t, d.Error)
	assert.Equal(t, "boom", d.Tags["error.message"])
	assert.NotEmpty(t, d.Tags["error.type"])
}

func TestSpanCreateChildInheritsTraceID(t *testing.T) {
	seg, clock, gen, _ := newTestSegment(t)
	root := seg.StartSpan()
	child := root.CreateChild("child-op", gen, clock)
	assert.Equal(t, root.Data().TraceID, child.Data().TraceID)
	assert.Equal(t, root.Data().SpanID, child.Data().ParentID)
	assert.NotEqual(t, root.Data().SpanID, child.Data().SpanID)
}

func TestSpanFinishIsIdempotent(t *testing.T) {
	seg, clock, _, coll := newTestSegment(t)
	root := seg.StartSpan()
	root.Finish(clock)
	root.Finish(clock)
	require.Len(t, coll.Batches, 1)
}

func TestSpanFinishComputesDuration(t *testing.T) {
	seg, clock, _, _ := newTestSegment(t)
	root := seg.StartSpan()
	root.Finish(clock)
	assert.Greater(t, root.Data().Duration, time.Duration(0))
}
