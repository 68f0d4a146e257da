//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	itelemetry "trpc.group/trpc-go/trpc-eval-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-eval-go/log"
	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/report"
	"trpc.group/trpc-go/trpc-eval-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// evaluateMetric runs one metric against the test case. Every failure mode
// (construction error, missing field, scorer error, timeout, panic) lands in
// the returned outcome; nothing escapes to the caller.
func (o *Orchestrator) evaluateMetric(ctx context.Context, tc *testcase.TestCase,
	m *metric.ResolvedMetric) (out report.MetricOutcome) {
	out = report.MetricOutcome{MetricType: m.Type, Threshold: m.Threshold}
	start := time.Now()
	ctx, span := trace.Tracer.Start(ctx, itelemetry.NewEvaluateMetricSpanName(string(m.Type)))
	itelemetry.TraceMetricEvaluation(span, string(m.Type), m.Threshold, m.Model)
	defer func() {
		if r := recover(); r != nil {
			out.Score = nil
			out.Reason = ""
			out.Success = false
			out.Error = fmt.Sprintf("scorer panic: %v", r)
			log.Errorf("metric %s scorer panicked: %v", m.Type, r)
		}
		out.DurationSeconds = time.Since(start).Seconds()
		itelemetry.TraceMetricOutcome(span, out.Score, out.Success, out.Error)
		span.End()
		itelemetry.RecordMetricEvaluation(ctx, string(m.Type), out.Error != "", out.DurationSeconds)
	}()

	s, err := o.factory.Build(ctx, m)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	if err := testcase.RequireFields(tc, m.RequiredFields()); err != nil {
		out.Error = err.Error()
		return out
	}

	evalCtx, cancel := context.WithTimeout(ctx, o.metricTimeout)
	defer cancel()
	result, err := s.Evaluate(evalCtx, tc)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			out.Error = fmt.Sprintf("metric evaluation timed out after %s", o.metricTimeout)
		} else {
			out.Error = err.Error()
		}
		return out
	}
	if result == nil {
		out.Error = "scorer returned no result"
		return out
	}

	score := result.Score
	if m.StrictMode {
		// Strict mode is binary: only a perfect raw score passes.
		if score >= 1 {
			score = 1
		} else {
			score = 0
		}
	}
	out.Score = &score
	out.Success = score >= m.Threshold
	if m.IncludeReason {
		out.Reason = result.Reason
	}
	out.EvaluationModel = result.Model
	return out
}
