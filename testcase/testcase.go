//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package testcase defines the interaction under evaluation and the adapter
// that checks per-scorer field requirements against it.
package testcase

import (
	"errors"
	"fmt"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolCall records one tool invocation made by the evaluated system.
type ToolCall struct {
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Reasoning       string         `json:"reasoning,omitempty"`
	InputParameters map[string]any `json:"input_parameters,omitempty"`
	Output          any            `json:"output,omitempty"`
}

// Turn is one message exchanged in a conversational test case.
type Turn struct {
	Role             string     `json:"role"`
	Content          string     `json:"content"`
	RetrievalContext []string   `json:"retrieval_context,omitempty"`
	ToolsCalled      []ToolCall `json:"tools_called,omitempty"`
}

// TestCase is one interaction to evaluate.
//
// A TestCase is immutable once constructed for a request: every metric in
// the request reads the same instance, shared by pointer, and scorers must
// never mutate it.
type TestCase struct {
	Input             string     `json:"input"`
	ActualOutput      string     `json:"actual_output"`
	ExpectedOutput    string     `json:"expected_output,omitempty"`
	RetrievalContext  []string   `json:"retrieval_context,omitempty"`
	Context           []string   `json:"context,omitempty"`
	ToolsCalled       []ToolCall `json:"tools_called,omitempty"`
	ConversationTurns []Turn     `json:"conversation_turns,omitempty"`
	Name              string     `json:"name,omitempty"`
	Tags              []string   `json:"tags,omitempty"`
}

// Validate checks the structural requirements that hold for every test case
// regardless of which metrics run against it.
func (tc *TestCase) Validate() error {
	if tc == nil {
		return errors.New("test case is nil")
	}
	if tc.Input == "" {
		return errors.New("test case input is required")
	}
	if tc.ActualOutput == "" {
		return errors.New("test case actual_output is required")
	}
	for i, turn := range tc.ConversationTurns {
		if turn.Role != RoleUser && turn.Role != RoleAssistant {
			return fmt.Errorf("conversation_turns[%d]: invalid role %q", i, turn.Role)
		}
		if turn.Content == "" {
			return fmt.Errorf("conversation_turns[%d]: content is required", i)
		}
	}
	for i, call := range tc.ToolsCalled {
		if call.Name == "" {
			return fmt.Errorf("tools_called[%d]: name is required", i)
		}
	}
	return nil
}
