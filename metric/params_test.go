//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringParam(t *testing.T) {
	m := &ResolvedMetric{Params: map[string]any{"domain": "finance", "count": 3}}
	v, ok := m.StringParam("domain")
	assert.True(t, ok)
	assert.Equal(t, "finance", v)

	_, ok = m.StringParam("count")
	assert.False(t, ok)

	_, ok = m.StringParam("missing")
	assert.False(t, ok)
}

func TestStringSliceParam(t *testing.T) {
	m := &ResolvedMetric{Params: map[string]any{
		"typed":   []string{"a", "b"},
		"decoded": []any{"c", "d"},
		"single":  "e",
		"mixed":   []any{"f", 1},
	}}

	v, ok := m.StringSliceParam("typed")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, v)

	v, ok = m.StringSliceParam("decoded")
	require.True(t, ok)
	assert.Equal(t, []string{"c", "d"}, v)

	v, ok = m.StringSliceParam("single")
	require.True(t, ok)
	assert.Equal(t, []string{"e"}, v)

	_, ok = m.StringSliceParam("mixed")
	assert.False(t, ok)

	_, ok = m.StringSliceParam("missing")
	assert.False(t, ok)
}

func TestBoolAndObjectParam(t *testing.T) {
	m := &ResolvedMetric{Params: map[string]any{
		"exact":  true,
		"schema": map[string]any{"type": "object"},
	}}

	v, ok := m.BoolParam("exact")
	require.True(t, ok)
	assert.True(t, v)

	_, ok = m.BoolParam("schema")
	assert.False(t, ok)

	obj, ok := m.ObjectParam("schema")
	require.True(t, ok)
	assert.Equal(t, "object", obj["type"])

	_, ok = m.ObjectParam("exact")
	assert.False(t, ok)
}

func TestParamNilMetric(t *testing.T) {
	var m *ResolvedMetric
	_, ok := m.Param("anything")
	assert.False(t, ok)
}
