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
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/report"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// DefaultBulkConcurrency bounds parallel test case evaluation when the
// request does not name a limit.
const DefaultBulkConcurrency = 10

// BulkOptions controls how a bulk run schedules its test cases.
type BulkOptions struct {
	// Parallel fans test cases out over MaxConcurrent workers.
	Parallel bool
	// MaxConcurrent bounds the fan-out; defaults to DefaultBulkConcurrency.
	MaxConcurrent int
	// OnProgress, when set, is called after each finished test case with the
	// number of finished cases and the total. It may be called from multiple
	// goroutines.
	OnProgress func(done, total int)
}

// RunBulk evaluates every test case against the same resolved metrics.
// Results keep request order regardless of scheduling, and a failing test
// case never prevents the remaining cases from running.
func (o *Orchestrator) RunBulk(ctx context.Context, cases []*testcase.TestCase,
	metrics []*metric.ResolvedMetric, opts BulkOptions) ([]report.TestCaseResult, error) {
	if len(cases) == 0 {
		return nil, errors.New("no test cases to evaluate")
	}
	if len(metrics) == 0 {
		return nil, errors.New("no metrics to evaluate")
	}
	if !opts.Parallel || len(cases) == 1 {
		return o.runBulkSerial(ctx, cases, metrics, opts.OnProgress), nil
	}
	return o.runBulkParallel(ctx, cases, metrics, opts)
}

func (o *Orchestrator) runBulkSerial(ctx context.Context, cases []*testcase.TestCase,
	metrics []*metric.ResolvedMetric, onProgress func(done, total int)) []report.TestCaseResult {
	results := make([]report.TestCaseResult, 0, len(cases))
	for idx, tc := range cases {
		results = append(results, o.evaluateCase(ctx, tc, metrics))
		if onProgress != nil {
			onProgress(idx+1, len(cases))
		}
	}
	return results
}

func (o *Orchestrator) runBulkParallel(ctx context.Context, cases []*testcase.TestCase,
	metrics []*metric.ResolvedMetric, opts BulkOptions) ([]report.TestCaseResult, error) {
	size := opts.MaxConcurrent
	if size <= 0 {
		size = DefaultBulkConcurrency
	}
	results := make([]report.TestCaseResult, len(cases))
	var wg sync.WaitGroup
	var done atomic.Int64
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		idx, ok := args.(int)
		if !ok {
			panic("bulk evaluation pool args type error")
		}
		defer wg.Done()
		results[idx] = o.evaluateCase(ctx, cases[idx], metrics)
		if opts.OnProgress != nil {
			opts.OnProgress(int(done.Add(1)), len(cases))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create bulk evaluation pool: %w", err)
	}
	defer pool.Release()

	for idx := range cases {
		wg.Add(1)
		if err := pool.Invoke(idx); err != nil {
			wg.Done()
			results[idx] = failedCaseResult(cases[idx], metrics,
				fmt.Errorf("submit evaluation task for test case %d: %w", idx, err))
			if opts.OnProgress != nil {
				opts.OnProgress(int(done.Add(1)), len(cases))
			}
		}
	}
	wg.Wait()
	return results, nil
}

// evaluateCase shields the bulk run from per-case failures: a test case the
// orchestrator rejects outright becomes a result with every metric errored.
func (o *Orchestrator) evaluateCase(ctx context.Context, tc *testcase.TestCase,
	metrics []*metric.ResolvedMetric) report.TestCaseResult {
	result, err := o.Evaluate(ctx, tc, metrics)
	if err != nil {
		return failedCaseResult(tc, metrics, err)
	}
	return *result
}

func failedCaseResult(tc *testcase.TestCase, metrics []*metric.ResolvedMetric, err error) report.TestCaseResult {
	outcomes := make([]report.MetricOutcome, 0, len(metrics))
	for _, m := range metrics {
		outcomes = append(outcomes, report.MetricOutcome{
			MetricType: m.Type,
			Threshold:  m.Threshold,
			Error:      err.Error(),
		})
	}
	return report.TestCaseResult{
		TestCase: tc,
		Metrics:  outcomes,
	}
}
