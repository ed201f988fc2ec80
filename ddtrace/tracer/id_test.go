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

func TestTraceIDUpperLower(t *testing.T) {
	var id TraceID
	id.SetUpper(0x4bf92f3577b34da6)
	id.SetLower(0xa3ce929d0e0e4736)
	assert.Equal(t, uint64(0x4bf92f3577b34da6), id.Upper())
	assert.Equal(t, uint64(0xa3ce929d0e0e4736), id.Lower())
	assert.True(t, id.HasUpper())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", id.HexEncoded())
}

func TestTraceIDFromLower(t *testing.T) {
	id := TraceIDFromLower(1)
	assert.False(t, id.HasUpper())
	assert.Equal(t, uint64(1), id.Lower())
}

func TestParseTraceIDDecimal(t *testing.T) {
	id, err := ParseTraceIDDecimal("11803532876627986230")
	require.NoError(t, err)
	assert.Equal(t, uint64(11803532876627986230), id.Lower())
	assert.False(t, id.HasUpper())
}

func TestParseTraceIDDecimalInvalid(t *testing.T) {
	_, err := ParseTraceIDDecimal("not-a-number")
	assert.Error(t, err)
}

func TestParseTraceIDHex(t *testing.T) {
	id, err := ParseTraceIDHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x4bf92f3577b34da6), id.Upper())
	assert.Equal(t, uint64(0xa3ce929d0e0e4736), id.Lower())
}

func TestParseTraceIDHexShort(t *testing.T) {
	// B3 allows trace ids shorter than 32 hex chars; they are treated as
	// the low-order digits.
	id, err := ParseTraceIDHex("1")
	require.NoError(t, err)
	assert.False(t, id.HasUpper())
	assert.Equal(t, uint64(1), id.Lower())
}

func TestParseTraceIDHexTooLong(t *testing.T) {
	_, err := ParseTraceIDHex("4bf92f3577b34da6a3ce929d0e0e47366")
	assert.Error(t, err)
}

func TestParseSpanIDHex(t *testing.T) {
	id, err := ParseSpanIDHex("00f067aa0ba902b7")
	require.NoError(t, err)
	assert.Equal(t, SpanID(0x00f067aa0ba902b7), id)
}

func TestParseSpanIDDecimalNegative(t *testing.T) {
	// Datadog headers transmit span ids as the signed decimal
	// representation of an unsigned 64-bit number.
	id, err := ParseSpanIDDecimal("-1")
	require.NoError(t, err)
	assert.Equal(t, SpanID(^uint64(0)), id)
}

func TestFormatSpanIDHexPadding(t *testing.T) {
	assert.Equal(t, "00f067aa0ba902b7", FormatSpanIDHex(0x00f067aa0ba902b7, 16))
	assert.Equal(t, "7b", FormatSpanIDHex(123, 0))
	assert.Equal(t, "000000000000007b", FormatSpanIDHex(123, 16))
}
