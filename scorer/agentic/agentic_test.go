//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package agentic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/scorer/judge"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

type fakeClient struct {
	response string
	lastUser string
}

func (f *fakeClient) Complete(_ context.Context, _, _, user string) (string, error) {
	f.lastUser = user
	return f.response, nil
}

func (f *fakeClient) DefaultModel() string { return "fake-judge" }

var _ judge.Client = (*fakeClient)(nil)

func TestParseExpectedTools(t *testing.T) {
	tools, err := ParseExpectedTools([]any{
		"search_flights",
		map[string]any{"name": "book_ticket", "input_parameters": map[string]any{"flight": "TP1"}},
	})
	require.NoError(t, err)
	require.Len(t, tools, 2)
	assert.Equal(t, "search_flights", tools[0].Name)
	assert.Equal(t, "book_ticket", tools[1].Name)
	assert.Equal(t, map[string]any{"flight": "TP1"}, tools[1].InputParameters)

	_, err = ParseExpectedTools([]any{42})
	require.Error(t, err)

	_, err = ParseExpectedTools([]any{map[string]any{"input_parameters": map[string]any{}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	_, err = ParseExpectedTools("not a list")
	require.Error(t, err)
}

func TestToolCorrectnessContainment(t *testing.T) {
	s := NewToolCorrectness([]testcase.ToolCall{
		{Name: "search_flights"},
		{Name: "book_ticket"},
		{Name: "send_confirmation"},
	}, ToolCorrectnessOptions{})
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:        "book me a flight",
		ActualOutput: "done",
		ToolsCalled: []testcase.ToolCall{
			{Name: "book_ticket"},
			{Name: "search_flights"},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, res.Score, 1e-9)
	assert.Contains(t, res.Reason, "Missing: send_confirmation")
	assert.Empty(t, res.Model)
}

func TestToolCorrectnessExactSequence(t *testing.T) {
	s := NewToolCorrectness([]testcase.ToolCall{
		{Name: "search_flights"},
		{Name: "book_ticket"},
	}, ToolCorrectnessOptions{ExactMatchToolNames: true})

	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		ToolsCalled: []testcase.ToolCall{{Name: "search_flights"}, {Name: "book_ticket"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Score)

	res, err = s.Evaluate(context.Background(), &testcase.TestCase{
		ToolsCalled: []testcase.ToolCall{{Name: "book_ticket"}, {Name: "search_flights"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)

	res, err = s.Evaluate(context.Background(), &testcase.TestCase{
		ToolsCalled: []testcase.ToolCall{{Name: "search_flights"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
	assert.Contains(t, res.Reason, "Expected exactly 2 tool calls")
}

func TestToolCorrectnessMatchesInputParameters(t *testing.T) {
	expected := []testcase.ToolCall{
		{Name: "search", InputParameters: map[string]any{"q": "lisbon"}},
	}
	s := NewToolCorrectness(expected, ToolCorrectnessOptions{ExactMatchInputParameters: true})

	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		ToolsCalled: []testcase.ToolCall{{Name: "search", InputParameters: map[string]any{"q": "porto"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)

	res, err = s.Evaluate(context.Background(), &testcase.TestCase{
		ToolsCalled: []testcase.ToolCall{{Name: "search", InputParameters: map[string]any{"q": "lisbon"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Score)
}

func TestToolCorrectnessDuplicateExpectations(t *testing.T) {
	s := NewToolCorrectness([]testcase.ToolCall{
		{Name: "retry"},
		{Name: "retry"},
	}, ToolCorrectnessOptions{})
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		ToolsCalled: []testcase.ToolCall{{Name: "retry"}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
}

func TestArgumentCorrectness(t *testing.T) {
	client := &fakeClient{response: "verdict: yes\nreason: right city\nverdict: no\nreason: wrong date"}
	s := NewArgumentCorrectness(client, "")
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:        "book a flight to Lisbon tomorrow",
		ActualOutput: "booked",
		ToolsCalled: []testcase.ToolCall{
			{Name: "search", InputParameters: map[string]any{"city": "Lisbon"}},
			{Name: "book", InputParameters: map[string]any{"date": "2020-01-01"}},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Contains(t, res.Reason, "wrong date")
	assert.Contains(t, client.lastUser, `"city":"Lisbon"`)
}

func TestTaskCompletion(t *testing.T) {
	client := &fakeClient{response: "reasoning: booked the flight but skipped the confirmation email\nscore: 7"}
	s := NewTaskCompletion(client, "")
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:        "book a flight and email me the confirmation",
		ActualOutput: "Flight booked.",
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, res.Score, 1e-9)
	assert.Contains(t, res.Reason, "skipped the confirmation email")
}

func TestPromptAlignment(t *testing.T) {
	client := &fakeClient{response: "verdict: yes\nreason: uppercase respected\nverdict: no\nreason: includes an apology"}
	s := NewPromptAlignment(client, "", []string{"reply in uppercase", "never apologize"})
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:        "hello",
		ActualOutput: "SORRY, HELLO.",
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Contains(t, client.lastUser, "never apologize")
}
