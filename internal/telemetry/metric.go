//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"trpc.group/trpc-go/trpc-eval-go/telemetry/metric/histogram"
	"trpc.group/trpc-go/trpc-eval-go/telemetry/semconv/metrics"
)

var (
	MeterProvider metric.MeterProvider = noop.NewMeterProvider()

	// EvaluationMeter covers the orchestration layer.
	EvaluationMeter metric.Meter = MeterProvider.Meter(metrics.MeterNameEvaluation)
	// EvaluationMetricCnt counts finished metric evaluations by type and status.
	EvaluationMetricCnt metric.Int64Counter = noop.Int64Counter{}
	// EvaluationMetricDuration tracks wall time of one metric evaluation in seconds.
	EvaluationMetricDuration *histogram.DynamicFloat64Histogram
	// EvaluationCaseDuration tracks wall time of one full test case in seconds.
	EvaluationCaseDuration *histogram.DynamicFloat64Histogram

	// JudgeMeter covers calls to the judge model.
	JudgeMeter metric.Meter = MeterProvider.Meter(metrics.MeterNameJudge)
	// JudgeMetricRequestCnt counts judge chat completions.
	JudgeMetricRequestCnt metric.Int64Counter = noop.Int64Counter{}
	// JudgeMetricTokenUsage tracks judge token usage per completion.
	JudgeMetricTokenUsage *histogram.DynamicInt64Histogram
)

// Metric evaluation status values recorded on EvaluationMetricCnt.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// KeyEvalStatus labels a counted evaluation as ok or error.
const KeyEvalStatus = "trpc.go.eval.status"

// RecordMetricEvaluation records one finished metric evaluation.
func RecordMetricEvaluation(ctx context.Context, metricType string, errored bool, seconds float64) {
	status := StatusOK
	if errored {
		status = StatusError
	}
	attrs := metric.WithAttributes(
		attribute.String(KeyMetricType, metricType),
		attribute.String(KeyEvalStatus, status),
	)
	EvaluationMetricCnt.Add(ctx, 1, attrs)
	if EvaluationMetricDuration != nil {
		EvaluationMetricDuration.Record(ctx, seconds, attrs)
	}
}

// RecordCaseEvaluation records one finished test case evaluation.
func RecordCaseEvaluation(ctx context.Context, seconds float64) {
	if EvaluationCaseDuration != nil {
		EvaluationCaseDuration.Record(ctx, seconds)
	}
}

// RecordJudgeChat records one judge chat completion with its token usage.
func RecordJudgeChat(ctx context.Context, model string, inputTokens, outputTokens int64) {
	JudgeMetricRequestCnt.Add(ctx, 1, metric.WithAttributes(
		attribute.String(KeyGenAIOperationName, OperationChat),
		attribute.String(KeyGenAIRequestModel, model),
		attribute.String(KeyGenAISystem, SystemTRPCGoEval),
	))
	if JudgeMetricTokenUsage == nil {
		return
	}
	JudgeMetricTokenUsage.Record(ctx, inputTokens, metric.WithAttributes(
		attribute.String(KeyGenAIRequestModel, model),
		attribute.String(metrics.KeyGenAITokenType, metrics.KeyTRPCEvalGoInputTokenType),
	))
	JudgeMetricTokenUsage.Record(ctx, outputTokens, metric.WithAttributes(
		attribute.String(KeyGenAIRequestModel, model),
		attribute.String(metrics.KeyGenAITokenType, metrics.KeyTRPCEvalGoOutputTokenType),
	))
}
