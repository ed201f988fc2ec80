// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016 Datadog, Inc.

package samplernames

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecisionMakerStringTable(t *testing.T) {
	cases := []struct {
		name SamplerName
		want string
	}{
		{Default, "-0"},
		{AgentRate, "-1"},
		{RemoteRate, "-2"},
		{RuleRate, "-3"},
		{Manual, "-4"},
		{AppSec, "-5"},
		{RemoteUserRate, "-6"},
		{SingleSpan, "-8"},
		{RemoteUserRule, "-11"},
		{RemoteDynamicRule, "-12"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.name.DecisionMaker())
	}
}

func TestDecisionMakerUnknownFallsBackToUnknown(t *testing.T) {
	assert.Equal(t, "--1", Unknown.DecisionMaker())
	invalid := SamplerName(99)
	assert.Equal(t, "--1", invalid.DecisionMaker())
}

func TestValidRejectsUnknownValues(t *testing.T) {
	assert.False(t, SamplerName(42).valid())
	assert.True(t, Default.valid())
}
