//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/go-multierror"

	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// descriptor describes one registered metric type: how to validate a request
// for it and what its scorer will need from the test case.
type descriptor struct {
	Category       Category
	Description    string
	RequiredFields []testcase.Field
	RequiresJudge  bool
	RequiredParams []string
	OptionalParams []string
	ValidateParams func(map[string]any) error
	ExampleParams  map[string]any
}

// registry is the closed metric registry. It is populated once at package
// init and never mutated afterwards; resolution fails fast for anything
// outside it.
var registry = map[Type]*descriptor{
	TypeAnswerRelevancy: {
		Category:       CategoryRAG,
		Description:    "Measures how relevant the actual output is to the input.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
	},
	TypeFaithfulness: {
		Category:       CategoryRAG,
		Description:    "Measures whether claims in the actual output are grounded in the retrieval context.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput, testcase.FieldRetrievalContext},
		RequiresJudge:  true,
	},
	TypeContextualPrecision: {
		Category:       CategoryRAG,
		Description:    "Measures whether relevant retrieval context nodes are ranked above irrelevant ones.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput, testcase.FieldExpectedOutput, testcase.FieldRetrievalContext},
		RequiresJudge:  true,
	},
	TypeContextualRecall: {
		Category:       CategoryRAG,
		Description:    "Measures how much of the expected output is attributable to the retrieval context.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput, testcase.FieldExpectedOutput, testcase.FieldRetrievalContext},
		RequiresJudge:  true,
	},
	TypeContextualRelevancy: {
		Category:       CategoryRAG,
		Description:    "Measures how much of the retrieval context is relevant to the input.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput, testcase.FieldRetrievalContext},
		RequiresJudge:  true,
	},
	TypeHallucination: {
		Category:       CategoryRAG,
		Description:    "Measures agreement between the actual output and the provided context.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput, testcase.FieldContext},
		RequiresJudge:  true,
	},
	TypeSummarization: {
		Category:       CategoryRAG,
		Description:    "Measures whether the actual output is an accurate and complete summary of the input.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
		OptionalParams: []string{"assessment_questions"},
		ExampleParams:  map[string]any{"assessment_questions": []string{"Does the summary keep the main conclusion?"}},
	},
	TypeBias: {
		Category:       CategorySafety,
		Description:    "Detects biased statements in the actual output.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
		OptionalParams: []string{"bias_types"},
		ExampleParams:  map[string]any{"bias_types": []string{"gender", "political"}},
	},
	TypeToxicity: {
		Category:       CategorySafety,
		Description:    "Detects toxic statements in the actual output.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
		OptionalParams: []string{"toxicity_categories"},
		ExampleParams:  map[string]any{"toxicity_categories": []string{"insults", "threats"}},
	},
	TypePIILeakage: {
		Category:       CategorySafety,
		Description:    "Detects personally identifiable information leaked in the actual output.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
	},
	TypeNonAdvice: {
		Category:       CategorySafety,
		Description:    "Detects regulated advice the system should not be giving.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
		RequiredParams: []string{"advice_types"},
		ValidateParams: requireStringSliceParam("advice_types"),
		ExampleParams:  map[string]any{"advice_types": []string{"financial", "medical"}},
	},
	TypeMisuse: {
		Category:       CategorySafety,
		Description:    "Detects use of the system outside its intended domain.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
		RequiredParams: []string{"domain"},
		ValidateParams: requireStringParam("domain"),
		ExampleParams:  map[string]any{"domain": "banking assistant"},
	},
	TypeRoleViolation: {
		Category:       CategorySafety,
		Description:    "Detects output that breaks the system's assigned role.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
		OptionalParams: []string{"role"},
		ExampleParams:  map[string]any{"role": "customer support agent"},
	},
	TypeToolCorrectness: {
		Category:       CategoryAgentic,
		Description:    "Compares the tools actually called against the expected tools.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput, testcase.FieldToolsCalled},
		RequiredParams: []string{"expected_tools"},
		OptionalParams: []string{"exact_match_tool_names", "exact_match_input_parameters", "exact_match_tool_output"},
		ValidateParams: requireListParam("expected_tools"),
		ExampleParams:  map[string]any{"expected_tools": []string{"search_flights", "book_ticket"}},
	},
	TypeArgumentCorrectness: {
		Category:       CategoryAgentic,
		Description:    "Judges whether tool call arguments are correct for the task.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput, testcase.FieldToolsCalled},
		RequiresJudge:  true,
	},
	TypeTaskCompletion: {
		Category:       CategoryAgentic,
		Description:    "Judges how completely the task inferred from the input was accomplished.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
	},
	TypePromptAlignment: {
		Category:       CategoryAgentic,
		Description:    "Judges whether the actual output follows the given prompt instructions.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
		RequiredParams: []string{"prompt_instructions"},
		ValidateParams: validatePromptInstructions,
		ExampleParams:  map[string]any{"prompt_instructions": []string{"Reply in formal English."}},
	},
	TypeJSONCorrectness: {
		Category:       CategoryDeterministic,
		Description:    "Checks that the actual output is valid JSON, optionally against a JSON schema.",
		RequiredFields: []testcase.Field{testcase.FieldActualOutput},
		OptionalParams: []string{"expected_schema"},
		ExampleParams:  map[string]any{"expected_schema": map[string]any{"type": "object"}},
	},
	TypeGEval: {
		Category:       CategoryCustom,
		Description:    "Scores the test case against caller-supplied criteria or evaluation steps.",
		RequiredFields: []testcase.Field{testcase.FieldInput, testcase.FieldActualOutput},
		RequiresJudge:  true,
		RequiredParams: []string{"criteria or evaluation_steps"},
		OptionalParams: []string{"name", "rubric", "evaluation_params"},
		ValidateParams: validateCriteriaOrSteps,
		ExampleParams:  map[string]any{"criteria": "Determine whether the response is factually correct and complete."},
	},
	TypeConversationalGEval: {
		Category:       CategoryCustom,
		Description:    "Scores a whole conversation against caller-supplied criteria or evaluation steps.",
		RequiredFields: []testcase.Field{testcase.FieldConversationTurns},
		RequiresJudge:  true,
		RequiredParams: []string{"criteria or evaluation_steps"},
		OptionalParams: []string{"rubric"},
		ValidateParams: validateCriteriaOrSteps,
		ExampleParams:  map[string]any{"criteria": "Judge whether the assistant stays helpful and consistent across turns."},
	},
	TypeTurnRelevancy: {
		Category:       CategoryConversational,
		Description:    "Measures how relevant each assistant turn is to the preceding conversation.",
		RequiredFields: []testcase.Field{testcase.FieldConversationTurns},
		RequiresJudge:  true,
	},
	TypeConversationCompleteness: {
		Category:       CategoryConversational,
		Description:    "Measures whether the conversation satisfies the user's intentions.",
		RequiredFields: []testcase.Field{testcase.FieldConversationTurns},
		RequiresJudge:  true,
	},
	TypeKnowledgeRetention: {
		Category:       CategoryConversational,
		Description:    "Measures whether the assistant retains facts established earlier in the conversation.",
		RequiredFields: []testcase.Field{testcase.FieldConversationTurns},
		RequiresJudge:  true,
	},
	TypeRoleAdherence: {
		Category:       CategoryConversational,
		Description:    "Measures whether the assistant stays in its assigned role across turns.",
		RequiredFields: []testcase.Field{testcase.FieldConversationTurns},
		RequiresJudge:  true,
		RequiredParams: []string{"role"},
		ValidateParams: requireStringParam("role"),
		ExampleParams:  map[string]any{"role": "travel booking assistant"},
	},
}

func lookup(t Type) (*descriptor, error) {
	d, ok := registry[t]
	if !ok {
		return nil, fmt.Errorf("unsupported metric type %s: %w", t, os.ErrNotExist)
	}
	return d, nil
}

// List returns all registered metric types in sorted order.
func List() []Type {
	types := make([]Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Resolve validates one requested metric against the registry and returns
// its constructible configuration.
//
// A failure here is a request-validation failure: the caller must reject the
// whole request without running any scorer.
func Resolve(req Request) (*ResolvedMetric, error) {
	d, err := lookup(req.MetricType)
	if err != nil {
		return nil, err
	}
	threshold := float64(DefaultThreshold)
	if req.Threshold != nil {
		threshold = *req.Threshold
		if threshold < 0 || threshold > 1 {
			return nil, fmt.Errorf("metric %s: threshold %v is outside [0, 1]", req.MetricType, threshold)
		}
	}
	if d.ValidateParams != nil {
		if err := d.ValidateParams(req.EvaluationParams); err != nil {
			return nil, fmt.Errorf("metric %s: %w", req.MetricType, err)
		}
	}
	includeReason := true
	if req.IncludeReason != nil {
		includeReason = *req.IncludeReason
	}
	// Strict mode turns the metric binary: only a perfect score passes.
	if req.StrictMode {
		threshold = 1
	}
	return &ResolvedMetric{
		Type:           req.MetricType,
		Category:       d.Category,
		Threshold:      threshold,
		Model:          req.Model,
		IncludeReason:  includeReason,
		StrictMode:     req.StrictMode,
		Params:         req.EvaluationParams,
		requiredFields: d.RequiredFields,
		requiresJudge:  d.RequiresJudge,
	}, nil
}

// ResolveAll resolves every requested metric, collecting all rejections so
// a client sees every invalid metric in a single response. Any rejection
// fails the whole request.
func ResolveAll(reqs []Request) ([]*ResolvedMetric, error) {
	if len(reqs) == 0 {
		return nil, errors.New("at least one metric is required")
	}
	resolved := make([]*ResolvedMetric, 0, len(reqs))
	var merr *multierror.Error
	for i, req := range reqs {
		m, err := Resolve(req)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("metrics[%d]: %w", i, err))
			continue
		}
		resolved = append(resolved, m)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return resolved, nil
}
