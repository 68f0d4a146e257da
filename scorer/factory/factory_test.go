//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/scorer/judge"
)

type fakeClient struct{}

func (fakeClient) Complete(_ context.Context, _, _, _ string) (string, error) {
	return "verdict: yes", nil
}

func (fakeClient) DefaultModel() string { return "fake-judge" }

var _ judge.Client = fakeClient{}

func TestBuildEveryRegisteredType(t *testing.T) {
	f := New(fakeClient{})
	for _, info := range metric.Infos() {
		m, err := metric.Resolve(info.Example)
		require.NoError(t, err, "example for %s", info.MetricType)
		s, err := f.Build(context.Background(), m)
		require.NoError(t, err, "build %s", info.MetricType)
		assert.Equal(t, string(info.MetricType), s.Name())
	}
}

func TestBuildJudgedMetricWithoutClient(t *testing.T) {
	f := New(nil)
	m, err := metric.Resolve(metric.Request{MetricType: metric.TypeAnswerRelevancy})
	require.NoError(t, err)
	_, err = f.Build(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a judge model")
}

func TestBuildDeterministicMetricWithoutClient(t *testing.T) {
	f := New(nil)
	m, err := metric.Resolve(metric.Request{
		MetricType:       metric.TypeJSONCorrectness,
		EvaluationParams: map[string]any{"expected_schema": map[string]any{"type": "object"}},
	})
	require.NoError(t, err)
	s, err := f.Build(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "json_correctness", s.Name())
}

func TestBuildRejectsBadConstructionParams(t *testing.T) {
	f := New(fakeClient{})

	m, err := metric.Resolve(metric.Request{
		MetricType:       metric.TypeToolCorrectness,
		EvaluationParams: map[string]any{"expected_tools": []any{42}},
	})
	require.NoError(t, err)
	_, err = f.Build(context.Background(), m)
	require.Error(t, err)

	m, err = metric.Resolve(metric.Request{
		MetricType: metric.TypeGEval,
		EvaluationParams: map[string]any{
			"criteria": "x",
			"rubric":   []any{map[string]any{"score_range": []any{9.0, 2.0}, "expected_outcome": "y"}},
		},
	})
	require.NoError(t, err)
	_, err = f.Build(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "score_range")

	m, err = metric.Resolve(metric.Request{
		MetricType:       metric.TypeJSONCorrectness,
		EvaluationParams: map[string]any{"expected_schema": "not an object"},
	})
	require.NoError(t, err)
	_, err = f.Build(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected_schema")
}

func TestBuildNilMetric(t *testing.T) {
	f := New(fakeClient{})
	_, err := f.Build(context.Background(), nil)
	require.Error(t, err)
}
