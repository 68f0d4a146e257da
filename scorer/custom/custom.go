//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package custom provides caller-defined judged metrics: the caller supplies
// the grading criteria, the judge grades on an anchored 0-10 scale.
package custom

import (
	"encoding/json"
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/scorer/internal/prompt"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// Rubric anchors a slice of the judge's 0-10 scale to an expected outcome.
type Rubric struct {
	ScoreRange      [2]int `json:"score_range"`
	ExpectedOutcome string `json:"expected_outcome"`
}

// ParseRubric converts the rubric parameter into rubric entries. A
// malformed rubric is a metric construction failure.
func ParseRubric(raw any) ([]Rubric, error) {
	if raw == nil {
		return nil, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("rubric: %w", err)
	}
	var rubric []Rubric
	if err := json.Unmarshal(data, &rubric); err != nil {
		return nil, fmt.Errorf("rubric must be a list of score ranges with expected outcomes: %w", err)
	}
	for i, r := range rubric {
		if r.ScoreRange[0] < 0 || r.ScoreRange[1] > 10 || r.ScoreRange[0] > r.ScoreRange[1] {
			return nil, fmt.Errorf("rubric[%d]: score_range must satisfy 0 <= low <= high <= 10", i)
		}
		if strings.TrimSpace(r.ExpectedOutcome) == "" {
			return nil, fmt.Errorf("rubric[%d]: expected_outcome is required", i)
		}
	}
	return rubric, nil
}

// ParseFields converts the evaluation_params parameter into the test case
// fields shown to the judge. Unknown field names are construction failures.
func ParseFields(raw any) ([]testcase.Field, error) {
	if raw == nil {
		return nil, nil
	}
	var names []string
	switch v := raw.(type) {
	case []string:
		names = v
	case []any:
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("evaluation_params must be a list of field names")
			}
			names = append(names, s)
		}
	default:
		return nil, fmt.Errorf("evaluation_params must be a list of field names")
	}
	fields := make([]testcase.Field, 0, len(names))
	for _, name := range names {
		f, err := testcase.ParseField(name)
		if err != nil {
			return nil, fmt.Errorf("evaluation_params: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Definition is the caller-supplied metric definition shared by g_eval and
// its conversational variant.
type Definition struct {
	// Name optionally labels the custom metric in judge prompts.
	Name string
	// Criteria is a free-form grading instruction. Criteria and Steps are
	// mutually optional but at least one must be set.
	Criteria string
	// Steps spell out the grading procedure explicitly.
	Steps []string
	// Rubric anchors the 0-10 scale.
	Rubric []Rubric
	// Fields selects the test case fields shown to the judge. Empty means
	// input and actual output.
	Fields []testcase.Field
}

// ParseDefinition reads a caller-defined metric from resolved params.
func ParseDefinition(m *metric.ResolvedMetric) (*Definition, error) {
	def := &Definition{}
	def.Name, _ = m.StringParam("name")
	def.Criteria, _ = m.StringParam("criteria")
	def.Steps, _ = m.StringSliceParam("evaluation_steps")
	raw, _ := m.Param("rubric")
	rubric, err := ParseRubric(raw)
	if err != nil {
		return nil, err
	}
	def.Rubric = rubric
	rawFields, _ := m.Param("evaluation_params")
	fields, err := ParseFields(rawFields)
	if err != nil {
		return nil, err
	}
	def.Fields = fields
	return def, nil
}

// renderRubric formats rubric anchors for the judge prompt.
func renderRubric(rubric []Rubric) string {
	var b strings.Builder
	for _, r := range rubric {
		fmt.Fprintf(&b, "%d-%d: %s\n", r.ScoreRange[0], r.ScoreRange[1], r.ExpectedOutcome)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderFields formats the selected test case fields for the judge prompt.
func renderFields(tc *testcase.TestCase, fields []testcase.Field) string {
	if len(fields) == 0 {
		fields = []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput}
	}
	var b strings.Builder
	for _, f := range fields {
		switch f {
		case testcase.FieldInput:
			fmt.Fprintf(&b, "input:\n%s\n\n", tc.Input)
		case testcase.FieldActualOutput:
			fmt.Fprintf(&b, "actual output:\n%s\n\n", tc.ActualOutput)
		case testcase.FieldExpectedOutput:
			fmt.Fprintf(&b, "expected output:\n%s\n\n", tc.ExpectedOutput)
		case testcase.FieldRetrievalContext:
			fmt.Fprintf(&b, "retrieval context:\n%s\n\n", prompt.NumberedList(tc.RetrievalContext))
		case testcase.FieldContext:
			fmt.Fprintf(&b, "context:\n%s\n\n", prompt.NumberedList(tc.Context))
		case testcase.FieldToolsCalled:
			fmt.Fprintf(&b, "tools called:\n%s\n\n", prompt.ToolCalls(tc.ToolsCalled))
		case testcase.FieldConversationTurns:
			fmt.Fprintf(&b, "conversation:\n%s\n\n", prompt.Transcript(tc.ConversationTurns))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
