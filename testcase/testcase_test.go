//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package testcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiredFields(t *testing.T) {
	tc := &TestCase{Input: "question", ActualOutput: "answer"}
	require.NoError(t, tc.Validate())

	missing := &TestCase{ActualOutput: "answer"}
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")

	missing = &TestCase{Input: "question"}
	err = missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "actual_output")

	var nilCase *TestCase
	require.Error(t, nilCase.Validate())
}

func TestValidateTurns(t *testing.T) {
	tc := &TestCase{
		Input:        "hi",
		ActualOutput: "hello",
		ConversationTurns: []Turn{
			{Role: RoleUser, Content: "hi"},
			{Role: "system", Content: "nope"},
		},
	}
	err := tc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")

	tc.ConversationTurns[1] = Turn{Role: RoleAssistant, Content: ""}
	err = tc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content is required")

	tc.ConversationTurns[1] = Turn{Role: RoleAssistant, Content: "hello"}
	require.NoError(t, tc.Validate())
}

func TestValidateToolCalls(t *testing.T) {
	tc := &TestCase{
		Input:        "book a flight",
		ActualOutput: "done",
		ToolsCalled:  []ToolCall{{Name: ""}},
	}
	err := tc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tools_called[0]")
}

func TestPresent(t *testing.T) {
	tc := &TestCase{
		Input:            "q",
		ActualOutput:     "a",
		RetrievalContext: []string{"doc"},
	}
	assert.True(t, tc.Present(FieldInput))
	assert.True(t, tc.Present(FieldActualOutput))
	assert.True(t, tc.Present(FieldRetrievalContext))
	assert.False(t, tc.Present(FieldExpectedOutput))
	assert.False(t, tc.Present(FieldContext))
	assert.False(t, tc.Present(FieldToolsCalled))
	assert.False(t, tc.Present(FieldConversationTurns))
	assert.False(t, tc.Present(Field("unknown")))

	var nilCase *TestCase
	assert.False(t, nilCase.Present(FieldInput))
}

func TestRequireFields(t *testing.T) {
	tc := &TestCase{Input: "q", ActualOutput: "a"}

	require.NoError(t, RequireFields(tc, []Field{FieldInput, FieldActualOutput}))

	err := RequireFields(tc, []Field{FieldInput, FieldRetrievalContext})
	require.Error(t, err)
	assert.Equal(t, "missing required field: retrieval_context", err.Error())

	err = RequireFields(tc, []Field{FieldRetrievalContext, FieldExpectedOutput})
	require.Error(t, err)
	assert.Equal(t, "missing required field: retrieval_context, expected_output", err.Error())

	var missingErr *MissingFieldsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []Field{FieldRetrievalContext, FieldExpectedOutput}, missingErr.Fields)
}
