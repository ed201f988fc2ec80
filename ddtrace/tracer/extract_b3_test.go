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

func TestExtractB3Basic(t *testing.T) {
	h := TextMapCarrier{
		headerB3TraceID: "80f198ee56343ba864fe8b2a57d3eff7",
		headerB3SpanID:  "05e3ac9a4f6e3b90",
		headerB3Sampled: "1",
	}
	ctx, err := extractB3(h)
	require.NoError(t, err)
	require.NotNil(t, ctx.TraceID)
	assert.Equal(t, uint64(0x80f198ee56343ba8), ctx.TraceID.Upper())
	assert.Equal(t, uint64(0x64fe8b2a57d3eff7), ctx.TraceID.Lower())
	require.NotNil(t, ctx.ParentID)
	assert.Equal(t, SpanID(0x05e3ac9a4f6e3b90), *ctx.ParentID)
	require.NotNil(t, ctx.SamplingPriority)
	assert.Equal(t, PriorityAutoKeep, *ctx.SamplingPriority)
}

func TestExtractB3NotSampled(t *testing.T) {
	h := TextMapCarrier{
		headerB3TraceID: "1",
		headerB3Sampled: "0",
	}
	ctx, err := extractB3(h)
	require.NoError(t, err)
	require.NotNil(t, ctx.SamplingPriority)
	assert.Equal(t, PriorityAutoReject, *ctx.SamplingPriority)
}

func TestExtractB3NoHeaders(t *testing.T) {
	ctx, err := extractB3(TextMapCarrier{})
	require.NoError(t, err)
	assert.True(t, ctx.Empty())
}

func TestExtractB3InvalidSampled(t *testing.T) {
	h := TextMapCarrier{
		headerB3TraceID: "1",
		headerB3Sampled: "maybe",
	}
	_, err := extractB3(h)
	assert.Error(t, err)
}

func TestExtractB3InvalidTraceID(t *testing.T) {
	h := TextMapCarrier{headerB3TraceID: "not-hex"}
	_, err := extractB3(h)
	assert.Error(t, err)
}

func TestExtractB3NoSingleHeaderVariant(t *testing.T) {
	// The single "b3: traceid-spanid-sampled" header is not a recognized
	// format; only the multi-header variant is extracted.
	h := TextMapCarrier{"b3": "80f198ee56343ba864fe8b2a57d3eff7-05e3ac9a4f6e3b90-1"}
	ctx, err := extractB3(h)
	require.NoError(t, err)
	assert.True(t, ctx.Empty())
}
