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

func TestExtractDatadogBasic(t *testing.T) {
	h := TextMapCarrier{
		headerDatadogTraceID:      "11803532876627986230",
		headerDatadogParentID:     "67667974448284343",
		headerDatadogSamplingPrio: "1",
		headerDatadogOrigin:       "synthetics",
	}
	ctx, err := extractDatadog(h)
	require.NoError(t, err)
	require.NotNil(t, ctx.TraceID)
	assert.Equal(t, uint64(11803532876627986230), ctx.TraceID.Lower())
	require.NotNil(t, ctx.ParentID)
	assert.Equal(t, SpanID(67667974448284343), *ctx.ParentID)
	require.NotNil(t, ctx.SamplingPriority)
	assert.Equal(t, PriorityAutoKeep, *ctx.SamplingPriority)
	assert.Equal(t, "synthetics", ctx.Origin)
}

func TestExtractDatadogNoHeaders(t *testing.T) {
	ctx, err := extractDatadog(TextMapCarrier{})
	require.NoError(t, err)
	assert.True(t, ctx.Empty())
}

func TestExtractDatadogInvalidTraceID(t *testing.T) {
	h := TextMapCarrier{headerDatadogTraceID: "not-a-number"}
	_, err := extractDatadog(h)
	assert.Error(t, err)
}

func TestExtractDatadogTags128Bit(t *testing.T) {
	// Scenario 4: x-dd-tags carries the 128-bit high half via _dd.p.tid.
	h := TextMapCarrier{
		headerDatadogTraceID: "1",
		headerDatadogTags:    "_dd.p.dm=-4,_dd.p.tid=640cfd8d00000000",
	}
	ctx, err := extractDatadog(h)
	require.NoError(t, err)
	require.NotNil(t, ctx.TraceID)
	assert.Equal(t, uint64(0x640cfd8d00000000), ctx.TraceID.Upper())
	assert.Equal(t, uint64(1), ctx.TraceID.Lower())
	dm, ok := ctx.TraceTags.Get(tagDecisionMaker)
	require.True(t, ok)
	assert.Equal(t, "-4", dm)
}

func TestExtractDatadogTagsDropsNonPropagating(t *testing.T) {
	h := TextMapCarrier{
		headerDatadogTraceID: "1",
		headerDatadogTags:    "_dd.p.foo=bar,unrelated.key=value",
	}
	ctx, err := extractDatadog(h)
	require.NoError(t, err)
	_, ok := ctx.TraceTags.Get("unrelated.key")
	assert.False(t, ok)
	v, ok := ctx.TraceTags.Get("_dd.p.foo")
	require.True(t, ok)
	assert.Equal(t, "bar", v)
}

func TestExtractDatadogTagsDecodingError(t *testing.T) {
	h := TextMapCarrier{
		headerDatadogTraceID: "1",
		headerDatadogTags:    "malformed-pair-no-equals",
	}
	ctx, err := extractDatadog(h)
	require.NoError(t, err)
	v, ok := ctx.TraceTags.Get(tagPropagationError)
	require.True(t, ok)
	assert.Equal(t, "decoding_error", v)
}

func TestExtractDatadogMalformedTid(t *testing.T) {
	h := TextMapCarrier{
		headerDatadogTraceID: "1",
		headerDatadogTags:    "_dd.p.tid=short",
	}
	ctx, err := extractDatadog(h)
	require.NoError(t, err)
	v, ok := ctx.TraceTags.Get(tagPropagationError)
	require.True(t, ok)
	assert.Equal(t, "malformed_tid short", v)
}
