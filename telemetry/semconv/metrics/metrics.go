//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package metrics defines metric name constants following OpenTelemetry semantic conventions.
package metrics

const (
	// KeyMetricName represents the name of the metric.
	KeyMetricName = "metric.name"
	// KeyGenAITokenType represents the type of token.
	KeyGenAITokenType = "gen_ai.token.type" // #nosec G101 - this is a metric key name, not a credential.
	// KeyTRPCEvalGoInputTokenType represents the type of input token.
	KeyTRPCEvalGoInputTokenType = "input" // #nosec G101 - this is a metric key name, not a credential.
	// KeyTRPCEvalGoOutputTokenType represents the type of output token.
	KeyTRPCEvalGoOutputTokenType = "output" // #nosec G101 - this is a metric key name, not a credential.

	// MetricTRPCEvalGoMetricCnt counts finished metric evaluations.
	MetricTRPCEvalGoMetricCnt = "trpc_eval_go.metric.evaluation_cnt"
	// MetricTRPCEvalGoMetricDuration tracks wall time of one metric evaluation.
	MetricTRPCEvalGoMetricDuration = "trpc_eval_go.metric.evaluation_duration"
	// MetricTRPCEvalGoCaseDuration tracks wall time of one full test case.
	MetricTRPCEvalGoCaseDuration = "trpc_eval_go.case.evaluation_duration"

	// MetricTRPCEvalGoJudgeRequestCnt counts judge chat completions.
	MetricTRPCEvalGoJudgeRequestCnt = "trpc_eval_go.judge.request_cnt"
	// MetricGenAIClientTokenUsage represents judge token usage per completion.
	MetricGenAIClientTokenUsage = "gen_ai.client.token.usage" // #nosec G101 - this is a metric key name, not a credential.

	// MeterNameEvaluation is the meter name for evaluation operations.
	MeterNameEvaluation = "trpc_eval_go.internal.evaluation"
	// MeterNameJudge is the meter name for judge chat operations.
	MeterNameJudge = "trpc_eval_go.internal.judge"
)
