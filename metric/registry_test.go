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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestResolveDefaults(t *testing.T) {
	m, err := Resolve(Request{MetricType: TypeAnswerRelevancy})
	require.NoError(t, err)
	assert.Equal(t, TypeAnswerRelevancy, m.Type)
	assert.Equal(t, CategoryRAG, m.Category)
	assert.Equal(t, 0.5, m.Threshold)
	assert.True(t, m.IncludeReason)
	assert.False(t, m.StrictMode)
	assert.True(t, m.RequiresJudge())
	assert.Equal(t,
		[]testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		m.RequiredFields())
}

func TestResolveExplicitValues(t *testing.T) {
	m, err := Resolve(Request{
		MetricType:    TypeFaithfulness,
		Threshold:     floatPtr(0.8),
		Model:         "gpt-4o",
		IncludeReason: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, 0.8, m.Threshold)
	assert.Equal(t, "gpt-4o", m.Model)
	assert.False(t, m.IncludeReason)
}

func TestResolveUnknownType(t *testing.T) {
	_, err := Resolve(Request{MetricType: "no_such_metric"})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "unsupported metric type")
}

func TestResolveThresholdOutOfRange(t *testing.T) {
	_, err := Resolve(Request{MetricType: TypeBias, Threshold: floatPtr(1.5)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside [0, 1]")

	_, err = Resolve(Request{MetricType: TypeBias, Threshold: floatPtr(-0.1)})
	require.Error(t, err)

	m, err := Resolve(Request{MetricType: TypeBias, Threshold: floatPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Threshold)
}

func TestResolveStructuralParams(t *testing.T) {
	_, err := Resolve(Request{MetricType: TypeGEval})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "criteria or evaluation_steps is required")

	_, err = Resolve(Request{
		MetricType:       TypeGEval,
		EvaluationParams: map[string]any{"criteria": "is the answer correct"},
	})
	require.NoError(t, err)

	_, err = Resolve(Request{
		MetricType:       TypeGEval,
		EvaluationParams: map[string]any{"evaluation_steps": []any{"check the facts"}},
	})
	require.NoError(t, err)

	_, err = Resolve(Request{MetricType: TypeMisuse})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domain is required")

	_, err = Resolve(Request{MetricType: TypeNonAdvice})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "advice_types is required")

	_, err = Resolve(Request{MetricType: TypeToolCorrectness})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected_tools is required")

	_, err = Resolve(Request{MetricType: TypeRoleAdherence})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role is required")

	_, err = Resolve(Request{MetricType: TypePromptAlignment})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt_instructions is required")

	_, err = Resolve(Request{
		MetricType:       TypePromptAlignment,
		EvaluationParams: map[string]any{"prompt_instructions": "reply in uppercase"},
	})
	require.NoError(t, err)
}

func TestResolveStrictModeForcesThreshold(t *testing.T) {
	m, err := Resolve(Request{
		MetricType: TypeToxicity,
		Threshold:  floatPtr(0.3),
		StrictMode: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, m.Threshold)
	assert.True(t, m.StrictMode)
}

func TestResolveAllOrderAndRejection(t *testing.T) {
	resolved, err := ResolveAll([]Request{
		{MetricType: TypeAnswerRelevancy},
		{MetricType: TypeFaithfulness},
	})
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, TypeAnswerRelevancy, resolved[0].Type)
	assert.Equal(t, TypeFaithfulness, resolved[1].Type)
}

func TestResolveAllCollectsEveryRejection(t *testing.T) {
	_, err := ResolveAll([]Request{
		{MetricType: "no_such_metric"},
		{MetricType: TypeAnswerRelevancy},
		{MetricType: TypeGEval},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics[0]")
	assert.Contains(t, err.Error(), "unsupported metric type")
	assert.Contains(t, err.Error(), "metrics[2]")
	assert.Contains(t, err.Error(), "criteria or evaluation_steps")
	assert.NotContains(t, err.Error(), "metrics[1]")
}

func TestResolveAllEmpty(t *testing.T) {
	_, err := ResolveAll(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one metric is required")
}

func TestListIsSortedAndComplete(t *testing.T) {
	types := List()
	require.Len(t, types, len(registry))
	for i := 1; i < len(types); i++ {
		assert.Less(t, string(types[i-1]), string(types[i]))
	}
}

func TestEveryExampleResolves(t *testing.T) {
	for _, info := range Infos() {
		_, err := Resolve(info.Example)
		assert.NoError(t, err, "example for %s must resolve", info.MetricType)
	}
}

func TestCatalog(t *testing.T) {
	info, err := GetInfo(TypeFaithfulness)
	require.NoError(t, err)
	assert.Equal(t, CategoryRAG, info.Category)
	assert.Contains(t, info.RequiredTestCaseFields, testcase.FieldRetrievalContext)
	assert.True(t, info.RequiresJudge)

	_, err = GetInfo("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	categories := Categories()
	require.NotEmpty(t, categories)
	seen := make(map[Category]bool)
	total := 0
	for _, c := range categories {
		assert.NotEmpty(t, c.Description, "category %s needs a description", c.Category)
		assert.NotEmpty(t, c.MetricTypes)
		seen[c.Category] = true
		total += len(c.MetricTypes)
	}
	assert.Equal(t, len(registry), total)
	for _, c := range []Category{CategoryRAG, CategorySafety, CategoryAgentic, CategoryConversational, CategoryCustom, CategoryDeterministic} {
		assert.True(t, seen[c], "category %s missing from catalog", c)
	}
}
