//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package trace defines span attribute constants following OpenTelemetry
// semantic conventions.
package trace

// telemetry attributes constants.
var (
	ResourceServiceNamespace = "trpc-go-eval"
	ResourceServiceName      = "telemetry"
	ResourceServiceVersion   = "v0.1.0"

	// Evaluation attributes.
	KeyMetricType      = "trpc.go.eval.metric_type"
	KeyMetricScore     = "trpc.go.eval.metric_score"
	KeyMetricThreshold = "trpc.go.eval.metric_threshold"
	KeyMetricSuccess   = "trpc.go.eval.metric_success"
	KeyTestCaseName    = "trpc.go.eval.test_case_name"
	KeyJobID           = "trpc.go.eval.job_id"

	// GenAI operation attributes for judge calls.
	KeyGenAIOperationName     = "gen_ai.operation.name"
	KeyGenAISystem            = "gen_ai.system"
	KeyGenAIRequestModel      = "gen_ai.request.model"
	KeyGenAIResponseModel     = "gen_ai.response.model"
	KeyGenAIUsageInputTokens  = "gen_ai.usage.input_tokens"  // #nosec G101 - this is a metric key name, not a credential.
	KeyGenAIUsageOutputTokens = "gen_ai.usage.output_tokens" // #nosec G101 - this is a metric key name, not a credential.

	// https://github.com/open-telemetry/semantic-conventions/blob/main/docs/general/recording-errors.md#recording-errors-on-spans
	KeyErrorType          = "error.type"
	KeyErrorMessage       = "error.message"
	ValueDefaultErrorType = "_OTHER"

	// System value
	SystemTRPCGoEval = "trpc.go.eval"
)
