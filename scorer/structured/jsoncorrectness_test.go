//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package structured

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

func TestJSONCorrectnessValidJSON(t *testing.T) {
	s, err := NewJSONCorrectness(nil)
	require.NoError(t, err)

	res, err := s.Evaluate(context.Background(), &testcase.TestCase{ActualOutput: `{"name": "Ana", "age": 31}`})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Score)
	assert.Empty(t, res.Model)

	res, err = s.Evaluate(context.Background(), &testcase.TestCase{ActualOutput: `{"name": "Ana",`})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.Contains(t, res.Reason, "not valid JSON")
}

func TestJSONCorrectnessAgainstSchema(t *testing.T) {
	s, err := NewJSONCorrectness(map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
		},
	})
	require.NoError(t, err)

	res, err := s.Evaluate(context.Background(), &testcase.TestCase{ActualOutput: `{"name": "Ana"}`})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Score)

	res, err = s.Evaluate(context.Background(), &testcase.TestCase{ActualOutput: `{"age": 31}`})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.Contains(t, res.Reason, "violates the expected schema")
}

func TestJSONCorrectnessBadSchemaFailsConstruction(t *testing.T) {
	_, err := NewJSONCorrectness(map[string]any{"type": 42})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected_schema")
}
