//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dataset format")
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("cases.jsonl")
	require.NoError(t, err)
	assert.Equal(t, FormatJSONL, f)

	_, err = DetectFormat("cases")
	assert.Error(t, err)
	_, err = DetectFormat("cases.parquet")
	assert.Error(t, err)
}

func TestParseCSV(t *testing.T) {
	input := "input,actual_output,expected_output,retrieval_context\n" +
		"What is Go?,A programming language,,\"Go is a language; Made at Google\"\n" +
		"Who made it?,Google,Google,\n"
	cases, err := Parse(strings.NewReader(input), FormatCSV, nil)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "What is Go?", cases[0].Input)
	assert.Equal(t, []string{"Go is a language", "Made at Google"}, cases[0].RetrievalContext)
	assert.Equal(t, "Google", cases[1].ExpectedOutput)
	assert.Nil(t, cases[1].RetrievalContext)
}

func TestParseCSVWithBOM(t *testing.T) {
	input := "\uFEFFinput,actual_output\nhello,world\n"
	cases, err := Parse(strings.NewReader(input), FormatCSV, nil)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "hello", cases[0].Input)
}

func TestParseCSVColumnMapping(t *testing.T) {
	input := "question,answer\nWhat is Go?,A language\n"
	mapping := map[string]string{
		"input":         "question",
		"actual_output": "answer",
	}
	cases, err := Parse(strings.NewReader(input), FormatCSV, mapping)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "What is Go?", cases[0].Input)
	assert.Equal(t, "A language", cases[0].ActualOutput)
}

func TestParseCSVMappingErrors(t *testing.T) {
	input := "question,answer\nq,a\n"
	_, err := Parse(strings.NewReader(input), FormatCSV, map[string]string{"no_such_field": "question"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")

	_, err = Parse(strings.NewReader(input), FormatCSV, map[string]string{"input": "missing_column"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in header")
}

func TestParseCSVBadRowsNamed(t *testing.T) {
	input := "input,actual_output\n" +
		"ok,fine\n" +
		",missing input\n" +
		"missing output,\n"
	_, err := Parse(strings.NewReader(input), FormatCSV, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "row 3")
}

func TestParseCSVEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(""), FormatCSV, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")

	_, err = Parse(strings.NewReader("input,actual_output\n"), FormatCSV, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no test cases")
}

func TestParseJSONArray(t *testing.T) {
	input := `[
		{"input": "q1", "actual_output": "a1"},
		{"input": "q2", "actual_output": "a2", "retrieval_context": ["doc"]}
	]`
	cases, err := Parse(strings.NewReader(input), FormatJSON, nil)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, []string{"doc"}, cases[1].RetrievalContext)
}

func TestParseJSONObject(t *testing.T) {
	input := `{"test_cases": [{"input": "q", "actual_output": "a"}]}`
	cases, err := Parse(strings.NewReader(input), FormatJSON, nil)
	require.NoError(t, err)
	require.Len(t, cases, 1)

	_, err = Parse(strings.NewReader(`{"rows": []}`), FormatJSON, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no test_cases array")
}

func TestParseJSONInvalidRow(t *testing.T) {
	input := `[{"input": "q", "actual_output": "a"}, {"input": "q2"}]`
	_, err := Parse(strings.NewReader(input), FormatJSON, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "actual_output")
}

func TestParseJSONL(t *testing.T) {
	input := `{"input": "q1", "actual_output": "a1"}

{"input": "q2", "actual_output": "a2", "conversation_turns": [{"role": "user", "content": "hi"}]}
`
	cases, err := Parse(strings.NewReader(input), FormatJSONL, nil)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	require.Len(t, cases[1].ConversationTurns, 1)
	assert.Equal(t, "user", cases[1].ConversationTurns[0].Role)
}

func TestParseJSONLBadLine(t *testing.T) {
	input := "{\"input\": \"q\", \"actual_output\": \"a\"}\nnot json\n"
	_, err := Parse(strings.NewReader(input), FormatJSONL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}
