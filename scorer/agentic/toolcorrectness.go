//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package agentic provides scorers for agent behavior: tool usage, task
// completion and instruction following.
package agentic

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// ToolCorrectnessOptions control how strictly called tools are compared
// against expected tools.
type ToolCorrectnessOptions struct {
	// ExactMatchToolNames requires the called tool sequence to equal the
	// expected sequence in order and length.
	ExactMatchToolNames bool
	// ExactMatchInputParameters additionally compares tool inputs.
	ExactMatchInputParameters bool
	// ExactMatchToolOutput additionally compares tool outputs.
	ExactMatchToolOutput bool
}

// ParseExpectedTools converts the expected_tools parameter into tool calls.
// Entries are either bare tool names or objects with name, input_parameters
// and output.
func ParseExpectedTools(raw any) ([]testcase.ToolCall, error) {
	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	default:
		return nil, fmt.Errorf("expected_tools must be a list")
	}
	tools := make([]testcase.ToolCall, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			if v == "" {
				return nil, fmt.Errorf("expected_tools[%d]: name is empty", i)
			}
			tools = append(tools, testcase.ToolCall{Name: v})
		case map[string]any:
			data, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("expected_tools[%d]: %w", i, err)
			}
			var tool testcase.ToolCall
			if err := json.Unmarshal(data, &tool); err != nil {
				return nil, fmt.Errorf("expected_tools[%d]: %w", i, err)
			}
			if tool.Name == "" {
				return nil, fmt.Errorf("expected_tools[%d]: name is required", i)
			}
			tools = append(tools, tool)
		default:
			return nil, fmt.Errorf("expected_tools[%d]: must be a tool name or a tool object", i)
		}
	}
	if len(tools) == 0 {
		return nil, fmt.Errorf("expected_tools is empty")
	}
	return tools, nil
}

type toolCorrectness struct {
	expected []testcase.ToolCall
	opts     ToolCorrectnessOptions
}

// NewToolCorrectness returns a deterministic scorer comparing the tools the
// agent called against the expected tools. No judge model is involved.
func NewToolCorrectness(expected []testcase.ToolCall, opts ToolCorrectnessOptions) scorer.Scorer {
	return &toolCorrectness{expected: expected, opts: opts}
}

func (s *toolCorrectness) Name() string {
	return string(metric.TypeToolCorrectness)
}

// Evaluate scores the fraction of expected tools matched by actual calls,
// or all-or-nothing when exact sequence matching is requested.
func (s *toolCorrectness) Evaluate(_ context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	if s.opts.ExactMatchToolNames {
		return s.evaluateExactSequence(tc.ToolsCalled)
	}
	return s.evaluateContainment(tc.ToolsCalled)
}

func (s *toolCorrectness) evaluateExactSequence(called []testcase.ToolCall) (*scorer.Result, error) {
	if len(called) != len(s.expected) {
		return &scorer.Result{
			Score: 0,
			Reason: fmt.Sprintf("Expected exactly %d tool calls in order but the agent made %d.",
				len(s.expected), len(called)),
		}, nil
	}
	for i := range s.expected {
		if !s.matches(s.expected[i], called[i]) {
			return &scorer.Result{
				Score: 0,
				Reason: fmt.Sprintf("Tool call %d does not match: expected %s, got %s.",
					i+1, s.expected[i].Name, called[i].Name),
			}, nil
		}
	}
	return &scorer.Result{Score: 1, Reason: "All tool calls match the expected sequence."}, nil
}

func (s *toolCorrectness) evaluateContainment(called []testcase.ToolCall) (*scorer.Result, error) {
	used := make([]bool, len(called))
	matched := 0
	var missing []string
	for _, want := range s.expected {
		found := false
		for i, got := range called {
			if used[i] || !s.matches(want, got) {
				continue
			}
			used[i] = true
			found = true
			break
		}
		if found {
			matched++
		} else {
			missing = append(missing, want.Name)
		}
	}
	reason := fmt.Sprintf("The agent called %d of %d expected tools.", matched, len(s.expected))
	if len(missing) > 0 {
		reason += " Missing: " + strings.Join(missing, ", ") + "."
	}
	return &scorer.Result{
		Score:  float64(matched) / float64(len(s.expected)),
		Reason: reason,
	}, nil
}

func (s *toolCorrectness) matches(want, got testcase.ToolCall) bool {
	if want.Name != got.Name {
		return false
	}
	if s.opts.ExactMatchInputParameters && !reflect.DeepEqual(want.InputParameters, got.InputParameters) {
		return false
	}
	if s.opts.ExactMatchToolOutput && !reflect.DeepEqual(want.Output, got.Output) {
		return false
	}
	return true
}
