//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package report defines evaluation result and summary types.
package report

import (
	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// MetricOutcome is the result of running one metric against one test case.
// Score is absent when the metric errored before producing one; Error is
// set only when the metric failed to run.
type MetricOutcome struct {
	MetricType      metric.Type `json:"metric_type"`
	Score           *float64    `json:"score,omitempty"`
	Threshold       float64     `json:"threshold"`
	Success         bool        `json:"success"`
	Reason          string      `json:"reason,omitempty"`
	Error           string      `json:"error,omitempty"`
	EvaluationModel string      `json:"evaluation_model,omitempty"`
	DurationSeconds float64     `json:"duration_seconds"`
}

// TestCaseResult is the outcome of one test case against its metrics, in
// request order.
type TestCaseResult struct {
	TestCase       *testcase.TestCase `json:"test_case"`
	Metrics        []MetricOutcome    `json:"metrics"`
	OverallSuccess bool               `json:"overall_success"`
	ExecutionTime  float64            `json:"execution_time"`
}

// OverallSuccess reports whether every outcome that ran succeeded and at
// least one outcome ran. Errored outcomes do not count as passed, and a
// fully errored report never counts as successful.
func OverallSuccess(outcomes []MetricOutcome) bool {
	ran := 0
	for _, o := range outcomes {
		if o.Error != "" {
			continue
		}
		if !o.Success {
			return false
		}
		ran++
	}
	return ran > 0
}

// MetricSummary aggregates one metric type across a bulk run.
type MetricSummary struct {
	Evaluations  int      `json:"evaluations"`
	Passes       int      `json:"passes"`
	Failures     int      `json:"failures"`
	Errors       int      `json:"errors"`
	AverageScore *float64 `json:"average_score,omitempty"`
}

// Summary carries bulk run statistics.
type Summary struct {
	TotalTestCases      int                       `json:"total_test_cases"`
	SuccessfulTestCases int                       `json:"successful_test_cases"`
	FailedTestCases     int                       `json:"failed_test_cases"`
	SuccessRate         float64                   `json:"success_rate"`
	TotalExecutionTime  float64                   `json:"total_execution_time"`
	MetricSummaries     map[string]*MetricSummary `json:"metric_summaries,omitempty"`
}

// Summarize builds bulk summary statistics from per-case results.
func Summarize(results []TestCaseResult) *Summary {
	s := &Summary{
		TotalTestCases:  len(results),
		MetricSummaries: make(map[string]*MetricSummary),
	}
	scoreSums := make(map[string]float64)
	scoreCounts := make(map[string]int)
	for _, r := range results {
		if r.OverallSuccess {
			s.SuccessfulTestCases++
		} else {
			s.FailedTestCases++
		}
		s.TotalExecutionTime += r.ExecutionTime
		for _, o := range r.Metrics {
			name := string(o.MetricType)
			ms := s.MetricSummaries[name]
			if ms == nil {
				ms = &MetricSummary{}
				s.MetricSummaries[name] = ms
			}
			ms.Evaluations++
			switch {
			case o.Error != "":
				ms.Errors++
			case o.Success:
				ms.Passes++
			default:
				ms.Failures++
			}
			if o.Score != nil {
				scoreSums[name] += *o.Score
				scoreCounts[name]++
			}
		}
	}
	for name, count := range scoreCounts {
		avg := scoreSums[name] / float64(count)
		s.MetricSummaries[name].AverageScore = &avg
	}
	if s.TotalTestCases > 0 {
		s.SuccessRate = float64(s.SuccessfulTestCases) / float64(s.TotalTestCases)
	}
	return s
}
