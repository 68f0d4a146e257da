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

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/report"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

type metricEvalParam struct {
	idx     int
	ctx     context.Context
	tc      *testcase.TestCase
	metric  *metric.ResolvedMetric
	orch    *Orchestrator
	results []report.MetricOutcome
	wg      *sync.WaitGroup
}

func (p *metricEvalParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.tc = nil
	p.metric = nil
	p.orch = nil
	p.results = nil
	p.wg = nil
}

var metricEvalParamPool = &sync.Pool{
	New: func() any { return new(metricEvalParam) },
}

func createMetricEvalPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*metricEvalParam)
		if !ok {
			panic("metric eval pool args type error")
		}
		wg := param.wg
		defer func() {
			wg.Done()
			param.reset()
			metricEvalParamPool.Put(param)
		}()
		param.results[param.idx] = param.orch.evaluateMetric(param.ctx, param.tc, param.metric)
	})
	if err != nil {
		return nil, fmt.Errorf("create metric eval pool: %w", err)
	}
	return pool, nil
}
