//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package orchestrator runs resolved metrics against test cases. Every
// per-metric failure is converted into that metric's outcome so that one
// broken metric never prevents its siblings from running.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	itelemetry "trpc.group/trpc-go/trpc-eval-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/report"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// DefaultMetricTimeout bounds a single scorer invocation when no override
// is configured.
const DefaultMetricTimeout = 60 * time.Second

// Orchestrator evaluates test cases against resolved metrics.
type Orchestrator struct {
	factory         scorer.Factory
	metricTimeout   time.Duration
	parallelEnabled bool
	parallelism     int
	metricPool      *ants.PoolWithFunc
}

// New returns a new orchestrator around a scorer factory.
// If no Option is provided, metrics run sequentially with the default
// per-metric timeout.
func New(factory scorer.Factory, opt ...Option) (*Orchestrator, error) {
	if factory == nil {
		return nil, errors.New("scorer factory is nil")
	}
	opts := newOptions(opt...)
	if opts.metricTimeout <= 0 {
		return nil, errors.New("metric timeout must be greater than 0")
	}
	if opts.parallelEnabled && opts.parallelism <= 0 {
		return nil, errors.New("metric parallelism must be greater than 0")
	}
	o := &Orchestrator{
		factory:         factory,
		metricTimeout:   opts.metricTimeout,
		parallelEnabled: opts.parallelEnabled,
		parallelism:     opts.parallelism,
	}
	if o.parallelEnabled {
		pool, err := createMetricEvalPool(o.parallelism)
		if err != nil {
			return nil, fmt.Errorf("create metric eval pool: %w", err)
		}
		o.metricPool = pool
	}
	return o, nil
}

// Close releases owned resources.
func (o *Orchestrator) Close() error {
	if o.metricPool != nil {
		o.metricPool.Release()
	}
	return nil
}

// Evaluate runs every resolved metric against the test case and returns the
// outcomes in request order.
func (o *Orchestrator) Evaluate(ctx context.Context, tc *testcase.TestCase,
	metrics []*metric.ResolvedMetric) (*report.TestCaseResult, error) {
	if tc == nil {
		return nil, errors.New("test case is nil")
	}
	if len(metrics) == 0 {
		return nil, errors.New("no metrics to evaluate")
	}
	start := time.Now()
	var outcomes []report.MetricOutcome
	if o.metricPool != nil && len(metrics) > 1 {
		outcomes = o.evaluateMetricsParallel(ctx, tc, metrics)
	} else {
		outcomes = o.evaluateMetricsSerial(ctx, tc, metrics)
	}
	elapsed := time.Since(start).Seconds()
	itelemetry.RecordCaseEvaluation(ctx, elapsed)
	return &report.TestCaseResult{
		TestCase:       tc,
		Metrics:        outcomes,
		OverallSuccess: report.OverallSuccess(outcomes),
		ExecutionTime:  elapsed,
	}, nil
}

func (o *Orchestrator) evaluateMetricsSerial(ctx context.Context, tc *testcase.TestCase,
	metrics []*metric.ResolvedMetric) []report.MetricOutcome {
	outcomes := make([]report.MetricOutcome, 0, len(metrics))
	for _, m := range metrics {
		outcomes = append(outcomes, o.evaluateMetric(ctx, tc, m))
	}
	return outcomes
}

func (o *Orchestrator) evaluateMetricsParallel(ctx context.Context, tc *testcase.TestCase,
	metrics []*metric.ResolvedMetric) []report.MetricOutcome {
	outcomes := make([]report.MetricOutcome, len(metrics))
	var wg sync.WaitGroup
	for idx, m := range metrics {
		wg.Add(1)
		param := metricEvalParamPool.Get().(*metricEvalParam)
		param.idx = idx
		param.ctx = ctx
		param.tc = tc
		param.metric = m
		param.orch = o
		param.results = outcomes
		param.wg = &wg
		if err := o.metricPool.Invoke(param); err != nil {
			wg.Done()
			outcomes[idx] = report.MetricOutcome{
				MetricType: m.Type,
				Threshold:  m.Threshold,
				Error:      fmt.Sprintf("submit evaluation task for metric %s: %v", m.Type, err),
			}
			param.reset()
			metricEvalParamPool.Put(param)
		}
	}
	wg.Wait()
	return outcomes
}

// Option configures the orchestrator.
type Option func(*options)

type options struct {
	metricTimeout   time.Duration
	parallelEnabled bool
	parallelism     int
}

func newOptions(opt ...Option) *options {
	opts := &options{
		metricTimeout: DefaultMetricTimeout,
	}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// WithMetricTimeout bounds a single scorer invocation. A metric that does
// not finish in time gets a timeout error as its outcome.
func WithMetricTimeout(d time.Duration) Option {
	return func(o *options) {
		o.metricTimeout = d
	}
}

// WithParallelMetrics enables concurrent metric evaluation within one
// request, bounded by parallelism workers. Outcome order still matches
// request order.
func WithParallelMetrics(parallelism int) Option {
	return func(o *options) {
		o.parallelEnabled = true
		o.parallelism = parallelism
	}
}
