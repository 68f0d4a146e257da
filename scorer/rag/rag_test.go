//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/scorer/judge"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// fakeClient replays scripted judge responses in order.
type fakeClient struct {
	responses []string
	calls     int
	lastUser  string
	err       error
}

func (f *fakeClient) Complete(_ context.Context, _, _, user string) (string, error) {
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	if f.calls >= len(f.responses) {
		return "", errors.New("no scripted response left")
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func (f *fakeClient) DefaultModel() string { return "fake-judge" }

var _ judge.Client = (*fakeClient)(nil)

func TestAnswerRelevancy(t *testing.T) {
	client := &fakeClient{responses: []string{
		"verdict: yes\nreason: names the capital\nverdict: no\nreason: trains are off topic",
	}}
	s := NewAnswerRelevancy(client, "")
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:        "What is the capital of France?",
		ActualOutput: "Paris is the capital of France. I like trains.",
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Contains(t, res.Reason, "1 of 2")
	assert.Contains(t, res.Reason, "trains are off topic")
	assert.Equal(t, "fake-judge", res.Model)
	assert.Contains(t, client.lastUser, "What is the capital of France?")
}

func TestFaithfulnessCountsOnlyContradictions(t *testing.T) {
	client := &fakeClient{responses: []string{
		"verdict: yes\nreason: stated in context\nverdict: idk\nreason: not covered",
	}}
	s := NewFaithfulness(client, "gpt-4o")
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:            "Summarize the weather.",
		ActualOutput:     "It rained all day. The match was delayed.",
		RetrievalContext: []string{"Heavy rain fell throughout the day."},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, "gpt-4o", res.Model)
}

func TestContextualPrecisionWeightsRanking(t *testing.T) {
	client := &fakeClient{responses: []string{
		"verdict: yes\nreason: on point\nverdict: no\nreason: noise\nverdict: yes\nreason: on point",
	}}
	s := NewContextualPrecision(client, "")
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:            "q",
		ActualOutput:     "a",
		ExpectedOutput:   "e",
		RetrievalContext: []string{"node one", "node two", "node three"},
	})
	require.NoError(t, err)
	// (1/1 + 2/3) / 2
	assert.InDelta(t, 0.8333, res.Score, 1e-3)
}

func TestContextualPrecisionNoRelevantNodes(t *testing.T) {
	client := &fakeClient{responses: []string{"verdict: no\nreason: noise"}}
	s := NewContextualPrecision(client, "")
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:            "q",
		ActualOutput:     "a",
		ExpectedOutput:   "e",
		RetrievalContext: []string{"only node"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Score)
}

func TestContextualRecall(t *testing.T) {
	client := &fakeClient{responses: []string{
		"verdict: yes\nreason: supported\nverdict: no\nreason: missing from context",
	}}
	s := NewContextualRecall(client, "")
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:            "q",
		ActualOutput:     "a",
		ExpectedOutput:   "The sky was clear. The sea was calm.",
		RetrievalContext: []string{"The sky was clear."},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
}

func TestContextualRelevancy(t *testing.T) {
	client := &fakeClient{responses: []string{
		"verdict: yes\nreason: relevant\nverdict: no\nreason: unrelated",
	}}
	s := NewContextualRelevancy(client, "")
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:            "q",
		ActualOutput:     "a",
		RetrievalContext: []string{"useful", "filler"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
}

func TestHallucinationHigherMeansFewerContradictions(t *testing.T) {
	client := &fakeClient{responses: []string{
		"verdict: yes\nreason: consistent\nverdict: no\nreason: contradicts the date",
	}}
	s := NewHallucination(client, "")
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:        "q",
		ActualOutput: "a",
		Context:      []string{"fact one", "fact two"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Contains(t, res.Reason, "contradicts the date")
}

func TestSummarizationAlignmentOnly(t *testing.T) {
	client := &fakeClient{responses: []string{
		"verdict: yes\nreason: supported",
	}}
	s := NewSummarization(client, "", nil)
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:        "A long article about rain in Spain and its effect on trains.",
		ActualOutput: "Rain in Spain delayed trains.",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, 1, client.calls)
}

func TestSummarizationTakesWorstOfAlignmentAndCoverage(t *testing.T) {
	client := &fakeClient{responses: []string{
		"verdict: yes\nreason: supported",
		"verdict: yes\nreason: answered\nverdict: no\nreason: dropped the cause",
	}}
	s := NewSummarization(client, "", []string{"What happened?", "Why did it happen?"})
	res, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:        "A long article about rain in Spain and its effect on trains.",
		ActualOutput: "Rain in Spain delayed trains.",
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.Score, 1e-9)
	assert.Equal(t, 2, client.calls)
}

func TestVerdictCountMismatchIsAnError(t *testing.T) {
	client := &fakeClient{responses: []string{"verdict: yes\nreason: only one"}}
	s := NewContextualRelevancy(client, "")
	_, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:            "q",
		ActualOutput:     "a",
		RetrievalContext: []string{"one", "two"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verdicts for 2 items")
}

func TestJudgeErrorPropagates(t *testing.T) {
	client := &fakeClient{err: errors.New("judge unavailable")}
	s := NewAnswerRelevancy(client, "")
	_, err := s.Evaluate(context.Background(), &testcase.TestCase{
		Input:        "q",
		ActualOutput: "One sentence.",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "judge unavailable")
}
