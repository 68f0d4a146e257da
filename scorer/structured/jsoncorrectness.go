//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package structured provides deterministic scorers for structured output.
package structured

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

type jsonCorrectness struct {
	schema *jsonschema.Schema
}

// NewJSONCorrectness returns a deterministic scorer checking that the
// actual output parses as JSON and, when a schema is configured, validates
// against it. A malformed schema is a metric construction failure.
func NewJSONCorrectness(expectedSchema map[string]any) (scorer.Scorer, error) {
	s := &jsonCorrectness{}
	if expectedSchema != nil {
		raw, err := json.Marshal(expectedSchema)
		if err != nil {
			return nil, fmt.Errorf("encode expected_schema: %w", err)
		}
		compiled, err := jsonschema.CompileString("expected_schema.json", string(raw))
		if err != nil {
			return nil, fmt.Errorf("compile expected_schema: %w", err)
		}
		s.schema = compiled
	}
	return s, nil
}

func (s *jsonCorrectness) Name() string {
	return string(metric.TypeJSONCorrectness)
}

// Evaluate scores 1 when the output is valid JSON that satisfies the
// schema, 0 otherwise. No judge model is involved.
func (s *jsonCorrectness) Evaluate(_ context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	var decoded any
	if err := json.Unmarshal([]byte(strings.TrimSpace(tc.ActualOutput)), &decoded); err != nil {
		return &scorer.Result{
			Score:  0,
			Reason: fmt.Sprintf("The output is not valid JSON: %v.", err),
		}, nil
	}
	if s.schema != nil {
		if err := s.schema.Validate(decoded); err != nil {
			return &scorer.Result{
				Score:  0,
				Reason: fmt.Sprintf("The output is valid JSON but violates the expected schema: %v.", err),
			}, nil
		}
	}
	return &scorer.Result{Score: 1, Reason: "The output is valid JSON."}, nil
}
