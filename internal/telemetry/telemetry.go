//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds shared tracing and metric state for trpc-eval-go.
// It names spans and instruments for evaluation and judge operations.
package telemetry

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	semconvtrace "trpc.group/trpc-go/trpc-eval-go/telemetry/semconv/trace"
)

// grpcDial is a package-level variable to allow test injection of a custom dialer.
// In production, this points to grpc.Dial.
var grpcDial = grpc.Dial

// telemetry service constants.
const (
	ServiceName      = "telemetry"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-go-eval"
	InstrumentName   = "trpc.eval.go"

	OperationEvaluateMetric = "evaluate_metric"
	OperationEvaluateCase   = "evaluate_case"
	OperationChat           = "chat"
)

// NewEvaluateMetricSpanName creates a span name for one metric evaluation.
// For example, "evaluate_metric answer_relevancy".
func NewEvaluateMetricSpanName(metricType string) string {
	if metricType == "" {
		return OperationEvaluateMetric
	}
	return fmt.Sprintf("%s %s", OperationEvaluateMetric, metricType)
}

// NewChatSpanName creates a span name for one judge chat completion.
// For example, "chat gpt-4o-mini".
func NewChatSpanName(requestModel string) string {
	if requestModel == "" {
		return OperationChat
	}
	return fmt.Sprintf("%s %s", OperationChat, requestModel)
}

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// Telemetry attribute keys aliases from semconv package.
var (
	ResourceServiceNamespace = semconvtrace.ResourceServiceNamespace
	ResourceServiceName      = semconvtrace.ResourceServiceName
	ResourceServiceVersion   = semconvtrace.ResourceServiceVersion

	KeyMetricType      = semconvtrace.KeyMetricType
	KeyMetricScore     = semconvtrace.KeyMetricScore
	KeyMetricThreshold = semconvtrace.KeyMetricThreshold
	KeyMetricSuccess   = semconvtrace.KeyMetricSuccess
	KeyTestCaseName    = semconvtrace.KeyTestCaseName
	KeyJobID           = semconvtrace.KeyJobID

	KeyGenAIOperationName     = semconvtrace.KeyGenAIOperationName
	KeyGenAISystem            = semconvtrace.KeyGenAISystem
	KeyGenAIRequestModel      = semconvtrace.KeyGenAIRequestModel
	KeyGenAIResponseModel     = semconvtrace.KeyGenAIResponseModel
	KeyGenAIUsageInputTokens  = semconvtrace.KeyGenAIUsageInputTokens
	KeyGenAIUsageOutputTokens = semconvtrace.KeyGenAIUsageOutputTokens

	KeyErrorType          = semconvtrace.KeyErrorType
	KeyErrorMessage       = semconvtrace.KeyErrorMessage
	ValueDefaultErrorType = semconvtrace.ValueDefaultErrorType

	SystemTRPCGoEval = semconvtrace.SystemTRPCGoEval
)

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	// It connects the OpenTelemetry Collector through gRPC connection.
	// You can customize the endpoint using options or environment variables.
	conn, err := grpcDial(endpoint,
		// Note the use of insecure transport here. TLS is recommended in production.
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}

	return conn, err
}
