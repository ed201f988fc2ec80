// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"math/rand/v2"
	"time"
)

// ClockReading is a paired wall-clock/monotonic-tick timestamp, as returned
// by a Clock. Wall is used for reporting, Tick for duration arithmetic.
type ClockReading struct {
	Wall time.Time
	Tick int64
}

// Clock produces timestamps for span start/finish. The core never calls
// time.Now directly so tests can supply a deterministic clock.
type Clock interface {
	Now() ClockReading
}

// realClock is the Clock backed by the actual wall clock and a monotonic
// nanosecond counter, used whenever the application doesn't supply its own.
type realClock struct{}

// RealClock is the default Clock implementation.
var RealClock Clock = realClock{}

// realClockStart is the origin of realClock's Tick values.
var realClockStart = time.Now()

func (realClock) Now() ClockReading {
	now := time.Now()
	return ClockReading{Wall: now, Tick: int64(now.Sub(realClockStart))}
}

// IDGenerator produces random 64-bit span identifiers.
type IDGenerator interface {
	SpanID() SpanID
}

// randIDGenerator is the default IDGenerator, producing uniformly random
// non-zero 64-bit values.
type randIDGenerator struct{}

// RandIDGenerator is the default IDGenerator implementation.
var RandIDGenerator IDGenerator = randIDGenerator{}

func (randIDGenerator) SpanID() SpanID {
	for {
		if id := SpanID(rand.Uint64()); id != 0 {
			return id
		}
	}
}

// Collector is the external sink a finalized TraceSegment hands its span
// batch to. The sampler reference gives the collector a place to deliver
// agent-provided rates after a response, per spec §6.
type Collector interface {
	Send(spans []*SpanData, sampler *TraceSampler) error
}

// DiscardCollector is a Collector that drops every batch. Useful as a
// default in tests and in environments that haven't wired a real HTTP
// transport (out of scope for this core, per spec §1).
type DiscardCollector struct{}

// Send implements Collector.
func (DiscardCollector) Send([]*SpanData, *TraceSampler) error { return nil }

// RecordingCollector is a Collector that records every batch handed to it,
// for use in tests.
type RecordingCollector struct {
	Batches [][]*SpanData
}

// Send implements Collector.
func (c *RecordingCollector) Send(spans []*SpanData, _ *TraceSampler) error {
	c.Batches = append(c.Batches, spans)
	return nil
}
