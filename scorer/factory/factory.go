//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package factory builds the default scorer for every registered metric
// type.
package factory

import (
	"context"
	"errors"
	"fmt"
	"os"

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	"trpc.group/trpc-go/trpc-eval-go/scorer/agentic"
	"trpc.group/trpc-go/trpc-eval-go/scorer/conversational"
	"trpc.group/trpc-go/trpc-eval-go/scorer/custom"
	"trpc.group/trpc-go/trpc-eval-go/scorer/judge"
	"trpc.group/trpc-go/trpc-eval-go/scorer/rag"
	"trpc.group/trpc-go/trpc-eval-go/scorer/safety"
	"trpc.group/trpc-go/trpc-eval-go/scorer/structured"
)

// Factory is the default scorer factory. Judged metrics need a judge
// client; deterministic metrics work without one.
type Factory struct {
	client judge.Client
}

var _ scorer.Factory = (*Factory)(nil)

// New constructs the default factory around a judge client. A nil client is
// allowed and restricts the factory to deterministic metrics.
func New(client judge.Client) *Factory {
	return &Factory{client: client}
}

// Build constructs the scorer for a resolved metric. Errors here are
// per-metric construction failures and must not reject the whole request.
func (f *Factory) Build(_ context.Context, m *metric.ResolvedMetric) (scorer.Scorer, error) {
	if m == nil {
		return nil, errors.New("resolved metric is nil")
	}
	if m.RequiresJudge() && f.client == nil {
		return nil, fmt.Errorf("metric %s needs a judge model but none is configured", m.Type)
	}
	switch m.Type {
	case metric.TypeAnswerRelevancy:
		return rag.NewAnswerRelevancy(f.client, m.Model), nil
	case metric.TypeFaithfulness:
		return rag.NewFaithfulness(f.client, m.Model), nil
	case metric.TypeContextualPrecision:
		return rag.NewContextualPrecision(f.client, m.Model), nil
	case metric.TypeContextualRecall:
		return rag.NewContextualRecall(f.client, m.Model), nil
	case metric.TypeContextualRelevancy:
		return rag.NewContextualRelevancy(f.client, m.Model), nil
	case metric.TypeHallucination:
		return rag.NewHallucination(f.client, m.Model), nil
	case metric.TypeSummarization:
		questions, _ := m.StringSliceParam("assessment_questions")
		return rag.NewSummarization(f.client, m.Model, questions), nil
	case metric.TypeBias:
		biasTypes, _ := m.StringSliceParam("bias_types")
		return safety.NewBias(f.client, m.Model, biasTypes), nil
	case metric.TypeToxicity:
		categories, _ := m.StringSliceParam("toxicity_categories")
		return safety.NewToxicity(f.client, m.Model, categories), nil
	case metric.TypePIILeakage:
		return safety.NewPIILeakage(f.client, m.Model), nil
	case metric.TypeNonAdvice:
		adviceTypes, _ := m.StringSliceParam("advice_types")
		return safety.NewNonAdvice(f.client, m.Model, adviceTypes), nil
	case metric.TypeMisuse:
		domain, _ := m.StringParam("domain")
		return safety.NewMisuse(f.client, m.Model, domain), nil
	case metric.TypeRoleViolation:
		role, _ := m.StringParam("role")
		return safety.NewRoleViolation(f.client, m.Model, role), nil
	case metric.TypeToolCorrectness:
		raw, _ := m.Param("expected_tools")
		expected, err := agentic.ParseExpectedTools(raw)
		if err != nil {
			return nil, err
		}
		var opts agentic.ToolCorrectnessOptions
		opts.ExactMatchToolNames, _ = m.BoolParam("exact_match_tool_names")
		opts.ExactMatchInputParameters, _ = m.BoolParam("exact_match_input_parameters")
		opts.ExactMatchToolOutput, _ = m.BoolParam("exact_match_tool_output")
		return agentic.NewToolCorrectness(expected, opts), nil
	case metric.TypeArgumentCorrectness:
		return agentic.NewArgumentCorrectness(f.client, m.Model), nil
	case metric.TypeTaskCompletion:
		return agentic.NewTaskCompletion(f.client, m.Model), nil
	case metric.TypePromptAlignment:
		instructions, _ := m.StringSliceParam("prompt_instructions")
		return agentic.NewPromptAlignment(f.client, m.Model, instructions), nil
	case metric.TypeJSONCorrectness:
		raw, present := m.Param("expected_schema")
		var schema map[string]any
		if present {
			obj, ok := raw.(map[string]any)
			if !ok {
				return nil, errors.New("expected_schema must be a JSON object")
			}
			schema = obj
		}
		return structured.NewJSONCorrectness(schema)
	case metric.TypeGEval:
		def, err := custom.ParseDefinition(m)
		if err != nil {
			return nil, err
		}
		return custom.NewGEval(f.client, m.Model, def), nil
	case metric.TypeConversationalGEval:
		def, err := custom.ParseDefinition(m)
		if err != nil {
			return nil, err
		}
		return custom.NewConversationalGEval(f.client, m.Model, def), nil
	case metric.TypeTurnRelevancy:
		return conversational.NewTurnRelevancy(f.client, m.Model), nil
	case metric.TypeConversationCompleteness:
		return conversational.NewConversationCompleteness(f.client, m.Model), nil
	case metric.TypeKnowledgeRetention:
		return conversational.NewKnowledgeRetention(f.client, m.Model), nil
	case metric.TypeRoleAdherence:
		role, _ := m.StringParam("role")
		return conversational.NewRoleAdherence(f.client, m.Model, role), nil
	default:
		return nil, fmt.Errorf("no scorer for metric type %s: %w", m.Type, os.ErrNotExist)
	}
}
