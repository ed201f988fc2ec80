// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package tracer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropagatorRoundTripDatadog(t *testing.T) {
	p := NewPropagator([]PropagationStyle{StyleDatadog}, []PropagationStyle{StyleDatadog}, DefaultMaxTagsHeaderLen)

	snap := InjectionSnapshot{
		TraceID:          TraceIDFromLower(11803532876627986230),
		SpanID:           67667974448284343,
		SamplingPriority: PriorityAutoKeep,
		Origin:           "synthetics",
	}
	snap.TraceTags.Set(propagatingTagPrefix+"dm", "-3")

	w := TextMapCarrier{}
	_, failed := p.Inject(snap, w)
	require.False(t, failed)

	got := p.Extract(w)
	require.NotNil(t, got.TraceID)
	assert.Equal(t, snap.TraceID, *got.TraceID)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, snap.SpanID, *got.ParentID)
	require.NotNil(t, got.SamplingPriority)
	assert.Equal(t, snap.SamplingPriority, *got.SamplingPriority)
	assert.Equal(t, snap.Origin, got.Origin)
	dm, ok := got.TraceTags.Get(propagatingTagPrefix + "dm")
	require.True(t, ok)
	assert.Equal(t, "-3", dm)
}

func TestPropagatorNoneStyleIsNoOp(t *testing.T) {
	p := NewPropagator([]PropagationStyle{StyleNone}, []PropagationStyle{StyleNone}, DefaultMaxTagsHeaderLen)
	w := TextMapCarrier{}
	_, failed := p.Inject(InjectionSnapshot{TraceID: TraceIDFromLower(1)}, w)
	assert.False(t, failed)
	assert.Empty(t, w)

	got := p.Extract(TextMapCarrier{headerDatadogTraceID: "1"})
	assert.True(t, got.Empty())
}

func TestPropagatorExtractSkipsFailedStyle(t *testing.T) {
	p := NewPropagator([]PropagationStyle{StyleB3, StyleDatadog}, nil, DefaultMaxTagsHeaderLen)
	h := TextMapCarrier{
		headerB3TraceID:       "1",
		headerB3Sampled:       "not-a-flag",
		headerDatadogTraceID:  "1",
		headerDatadogParentID: "2",
	}
	got := p.Extract(h)
	require.NotNil(t, got.TraceID)
	assert.Equal(t, uint64(1), got.TraceID.Lower())
}
