//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package metric defines the closed set of supported metric types and
// resolves requested metric descriptors into constructible configurations.
package metric

import (
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// Type identifies one supported metric.
type Type string

// Supported metric types. The set is closed: resolution rejects anything
// not listed here before any scorer is constructed.
const (
	TypeAnswerRelevancy          Type = "answer_relevancy"
	TypeFaithfulness             Type = "faithfulness"
	TypeContextualPrecision      Type = "contextual_precision"
	TypeContextualRecall         Type = "contextual_recall"
	TypeContextualRelevancy      Type = "contextual_relevancy"
	TypeHallucination            Type = "hallucination"
	TypeSummarization            Type = "summarization"
	TypeBias                     Type = "bias"
	TypeToxicity                 Type = "toxicity"
	TypePIILeakage               Type = "pii_leakage"
	TypeNonAdvice                Type = "non_advice"
	TypeMisuse                   Type = "misuse"
	TypeRoleViolation            Type = "role_violation"
	TypeToolCorrectness          Type = "tool_correctness"
	TypeArgumentCorrectness      Type = "argument_correctness"
	TypeTaskCompletion           Type = "task_completion"
	TypePromptAlignment          Type = "prompt_alignment"
	TypeJSONCorrectness          Type = "json_correctness"
	TypeGEval                    Type = "g_eval"
	TypeConversationalGEval      Type = "conversational_g_eval"
	TypeTurnRelevancy            Type = "turn_relevancy"
	TypeConversationCompleteness Type = "conversation_completeness"
	TypeKnowledgeRetention       Type = "knowledge_retention"
	TypeRoleAdherence            Type = "role_adherence"
)

// Category groups metric types for the catalog endpoints.
type Category string

// Metric categories.
const (
	CategoryRAG            Category = "rag"
	CategorySafety         Category = "safety"
	CategoryAgentic        Category = "agentic"
	CategoryConversational Category = "conversational"
	CategoryCustom         Category = "custom"
	CategoryDeterministic  Category = "deterministic"
)

// DefaultThreshold applies when a request omits the threshold.
const DefaultThreshold = 0.5

// Request is one requested metric as carried on the wire.
//
// Threshold and IncludeReason are pointers so that an absent value can be
// told apart from an explicit zero/false and defaulted accordingly.
type Request struct {
	MetricType       Type           `json:"metric_type"`
	Threshold        *float64       `json:"threshold,omitempty"`
	Model            string         `json:"model,omitempty"`
	IncludeReason    *bool          `json:"include_reason,omitempty"`
	StrictMode       bool           `json:"strict_mode,omitempty"`
	EvaluationParams map[string]any `json:"evaluation_params,omitempty"`
}

// ResolvedMetric is a validated, constructible metric configuration.
type ResolvedMetric struct {
	Type          Type
	Category      Category
	Threshold     float64
	Model         string
	IncludeReason bool
	StrictMode    bool
	Params        map[string]any

	requiredFields []testcase.Field
	requiresJudge  bool
}

// RequiredFields returns the TestCase fields the metric's scorer reads.
// Callers must treat the slice as read-only.
func (m *ResolvedMetric) RequiredFields() []testcase.Field {
	return m.requiredFields
}

// RequiresJudge reports whether the metric is graded by a judge model.
func (m *ResolvedMetric) RequiresJudge() bool {
	return m.requiresJudge
}
