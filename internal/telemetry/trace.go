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
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceMetricEvaluation annotates a metric evaluation span with its request
// configuration. Call it right after the span starts.
func TraceMetricEvaluation(span trace.Span, metricType string, threshold float64, requestModel string) {
	span.SetAttributes(
		attribute.String(KeyMetricType, metricType),
		attribute.Float64(KeyMetricThreshold, threshold),
	)
	if requestModel != "" {
		span.SetAttributes(attribute.String(KeyGenAIRequestModel, requestModel))
	}
}

// TraceMetricOutcome records the outcome of a metric evaluation on its span.
// A non-empty errMsg marks the span as errored.
func TraceMetricOutcome(span trace.Span, score *float64, success bool, errMsg string) {
	if errMsg != "" {
		span.SetAttributes(
			attribute.String(KeyErrorType, ValueDefaultErrorType),
			attribute.String(KeyErrorMessage, errMsg),
		)
		span.SetStatus(codes.Error, errMsg)
		return
	}
	if score != nil {
		span.SetAttributes(attribute.Float64(KeyMetricScore, *score))
	}
	span.SetAttributes(attribute.Bool(KeyMetricSuccess, success))
	span.SetStatus(codes.Ok, "")
}
