//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-eval-go/log"
)

// DefaultWorkers bounds concurrent job execution when no size is given.
const DefaultWorkers = 4

// Task produces the result of one job. Implementations must honour ctx:
// cancelling the job cancels ctx, and a task that returns ctx's error is
// recorded as cancelled rather than failed.
type Task func(ctx context.Context, progress func(done, total int)) (*Result, error)

// Runner executes jobs on a bounded worker pool.
type Runner struct {
	store *Store
	pool  *ants.Pool
}

// NewRunner builds a runner over the store with the given number of
// workers; workers <= 0 falls back to DefaultWorkers.
func NewRunner(store *Store, workers int) (*Runner, error) {
	if store == nil {
		return nil, errors.New("job store is nil")
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create job runner pool: %w", err)
	}
	return &Runner{store: store, pool: pool}, nil
}

// Close releases the worker pool. Queued jobs that have not started are
// abandoned in pending state.
func (r *Runner) Close() {
	r.pool.Release()
}

// Submit queues the job for execution. The job must have been created on
// the runner's store; a submit failure marks the job failed immediately.
func (r *Runner) Submit(id string, task Task) error {
	ctx, cancel := context.WithCancel(context.Background())
	r.store.bindCancel(id, cancel)
	err := r.pool.Submit(func() {
		defer cancel()
		r.run(ctx, id, task)
	})
	if err != nil {
		cancel()
		// The job never reached a worker; surface that on the job itself
		// so pollers are not left with a pending job forever.
		if startErr := r.store.start(id); startErr == nil {
			r.store.fail(id, fmt.Sprintf("submit job: %v", err))
		}
		return fmt.Errorf("submit job %s: %w", id, err)
	}
	return nil
}

func (r *Runner) run(ctx context.Context, id string, task Task) {
	if err := r.store.start(id); err != nil {
		// Cancelled or deleted before it started; nothing to run.
		log.Debugf("job %s not started: %v", id, err)
		return
	}
	result, err := task(ctx, func(done, total int) {
		r.store.SetProgress(id, done, total)
	})
	switch {
	case errors.Is(err, context.Canceled):
		// The store already marked the job cancelled; complete/fail below
		// would be ignored anyway, but don't log it as a failure.
		log.Infof("job %s cancelled", id)
	case err != nil:
		log.Errorf("job %s failed: %v", id, err)
		r.store.fail(id, err.Error())
	default:
		r.store.complete(id, result)
	}
}
