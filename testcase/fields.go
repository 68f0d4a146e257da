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
	"fmt"
	"strings"
)

// Field identifies one TestCase field a scorer may require.
type Field string

// TestCase fields scorers can declare as required.
const (
	FieldInput             Field = "input"
	FieldActualOutput      Field = "actual_output"
	FieldExpectedOutput    Field = "expected_output"
	FieldRetrievalContext  Field = "retrieval_context"
	FieldContext           Field = "context"
	FieldToolsCalled       Field = "tools_called"
	FieldConversationTurns Field = "conversation_turns"
)

// ParseField converts a field name into a Field, rejecting unknown names.
func ParseField(name string) (Field, error) {
	switch f := Field(name); f {
	case FieldInput, FieldActualOutput, FieldExpectedOutput,
		FieldRetrievalContext, FieldContext, FieldToolsCalled, FieldConversationTurns:
		return f, nil
	default:
		return "", fmt.Errorf("unknown test case field %q", name)
	}
}

// Present reports whether the field carries a usable value: non-empty for
// strings, non-empty for sequences.
func (tc *TestCase) Present(f Field) bool {
	if tc == nil {
		return false
	}
	switch f {
	case FieldInput:
		return tc.Input != ""
	case FieldActualOutput:
		return tc.ActualOutput != ""
	case FieldExpectedOutput:
		return tc.ExpectedOutput != ""
	case FieldRetrievalContext:
		return len(tc.RetrievalContext) > 0
	case FieldContext:
		return len(tc.Context) > 0
	case FieldToolsCalled:
		return len(tc.ToolsCalled) > 0
	case FieldConversationTurns:
		return len(tc.ConversationTurns) > 0
	default:
		return false
	}
}

// MissingFieldsError names the TestCase fields a scorer requires but the
// request did not supply.
type MissingFieldsError struct {
	Fields []Field
}

// Error implements the error interface.
func (e *MissingFieldsError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, string(f))
	}
	return "missing required field: " + strings.Join(names, ", ")
}

// RequireFields verifies that every field a scorer declares as required is
// present on tc. The check runs once per (scorer, test case) pair; absence
// is a per-metric failure, never a request-level one.
func RequireFields(tc *TestCase, fields []Field) error {
	var missing []Field
	for _, f := range fields {
		if !tc.Present(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
