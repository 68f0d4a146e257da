//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package scorer defines the contract implemented by metric scorers.
package scorer

import (
	"context"

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// Result is the raw outcome of one scorer run over one test case.
type Result struct {
	// Score is in [0, 1]; higher is better for every metric.
	Score float64
	// Reason explains the score in natural language.
	Reason string
	// Model names the judge model that produced the score. Empty for
	// deterministic scorers.
	Model string
}

// Scorer computes one metric over one test case. Implementations must be
// safe for concurrent use; all per-request state is captured at build time.
type Scorer interface {
	// Name returns the metric type the scorer implements.
	Name() string
	// Evaluate scores the test case.
	Evaluate(ctx context.Context, tc *testcase.TestCase) (*Result, error)
}

// Factory builds scorers from resolved metric configurations. A build
// failure is a per-metric failure: it must surface as an errored outcome
// for that metric only, never reject the whole request.
type Factory interface {
	Build(ctx context.Context, m *metric.ResolvedMetric) (Scorer, error)
}
