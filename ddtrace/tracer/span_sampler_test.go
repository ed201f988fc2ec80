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

func TestSpanSamplerMatchRescues(t *testing.T) {
	rule := NewSamplingRule("svc", "op", "", nil, 1, ProvenanceLocal)
	s := NewSpanSampler([]*SamplingRule{rule}, []float64{0})
	res, ok := s.Sample(TraceIDFromLower(1), "svc", "op", "res", nil, nil)
	require.True(t, ok)
	assert.Equal(t, MechanismSpanRule, res.Mechanism)
	assert.Equal(t, 1.0, res.RuleRate)
	assert.Nil(t, res.MaxPerSecond)
}

func TestSpanSamplerNoMatch(t *testing.T) {
	rule := NewSamplingRule("other", "", "", nil, 1, ProvenanceLocal)
	s := NewSpanSampler([]*SamplingRule{rule}, []float64{0})
	_, ok := s.Sample(TraceIDFromLower(1), "svc", "op", "res", nil, nil)
	assert.False(t, ok)
}

func TestSpanSamplerRateLimited(t *testing.T) {
	rule := NewSamplingRule("svc", "", "", nil, 1, ProvenanceLocal)
	s := NewSpanSampler([]*SamplingRule{rule}, []float64{1})
	res, ok := s.Sample(TraceIDFromLower(1), "svc", "op", "res", nil, nil)
	require.True(t, ok)
	require.NotNil(t, res.MaxPerSecond)
	assert.Equal(t, 1.0, *res.MaxPerSecond)
}

func TestSpanSamplerZeroRateNeverMatches(t *testing.T) {
	rule := NewSamplingRule("svc", "", "", nil, 0, ProvenanceLocal)
	s := NewSpanSampler([]*SamplingRule{rule}, []float64{0})
	_, ok := s.Sample(TraceIDFromLower(1), "svc", "op", "res", nil, nil)
	assert.False(t, ok)
}
