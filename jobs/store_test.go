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
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-eval-go/internal/epochtime"
	"trpc.group/trpc-go/trpc-eval-go/report"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

func TestStoreCreateAndGet(t *testing.T) {
	store := NewStore()
	job := store.Create()
	require.NotEmpty(t, job.ID)
	assert.Equal(t, StatusPending, job.Status)
	assert.False(t, job.CreatedAt.IsZero())

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, StatusPending, got.Status)
}

func TestStoreGetUnknown(t *testing.T) {
	store := NewStore()
	_, err := store.Get("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := NewStore()
	job := store.Create()
	require.NoError(t, store.start(job.ID))
	score := 0.9
	store.complete(job.ID, &Result{
		Report: &report.TestCaseResult{
			TestCase: &testcase.TestCase{Input: "q", ActualOutput: "a"},
			Metrics: []report.MetricOutcome{
				{MetricType: "answer_relevancy", Score: &score, Threshold: 0.5, Success: true},
			},
			OverallSuccess: true,
		},
	})

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	got.Result.Report.Metrics[0].Success = false
	got.Result.Report.TestCase = nil

	again, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.True(t, again.Result.Report.Metrics[0].Success)
	require.NotNil(t, again.Result.Report.TestCase)
	assert.Equal(t, "q", again.Result.Report.TestCase.Input)
}

func TestStoreLifecycle(t *testing.T) {
	store := NewStore()
	job := store.Create()

	require.NoError(t, store.start(job.ID))
	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)
	require.NotNil(t, got.StartedAt)

	store.SetProgress(job.ID, 1, 4)
	got, err = store.Get(job.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got.Progress, 1e-9)

	store.complete(job.ID, &Result{})
	got, err = store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, 1.0, got.Progress)
	require.NotNil(t, got.CompletedAt)
}

func TestStoreStartNonPending(t *testing.T) {
	store := NewStore()
	job := store.Create()
	require.NoError(t, store.start(job.ID))
	err := store.start(job.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not pending")
}

func TestStoreFail(t *testing.T) {
	store := NewStore()
	job := store.Create()
	require.NoError(t, store.start(job.ID))
	store.fail(job.ID, "judge unavailable")
	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "judge unavailable", got.Error)
}

func TestStoreCancelPending(t *testing.T) {
	store := NewStore()
	job := store.Create()
	cancelled := false
	store.bindCancel(job.ID, func() { cancelled = true })

	require.NoError(t, store.Cancel(job.ID))
	assert.True(t, cancelled)
	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	// A cancelled job never starts, and a late completion is ignored.
	require.Error(t, store.start(job.ID))
	store.complete(job.ID, &Result{})
	got, err = store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Nil(t, got.Result)
}

func TestStoreCancelTerminal(t *testing.T) {
	store := NewStore()
	job := store.Create()
	require.NoError(t, store.start(job.ID))
	store.complete(job.ID, &Result{})
	err := store.Cancel(job.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already completed")
}

func TestStoreDelete(t *testing.T) {
	store := NewStore()
	job := store.Create()
	require.NoError(t, store.Delete(job.ID))
	_, err := store.Get(job.ID)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, store.Delete(job.ID), os.ErrNotExist)
}

func TestStoreListFilterAndPaging(t *testing.T) {
	store := NewStore()
	first := store.Create()
	second := store.Create()
	third := store.Create()
	require.NoError(t, store.start(second.ID))

	pending, total, err := store.List(ListFilter{Status: StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, pending, 2)
	for _, job := range pending {
		assert.Equal(t, StatusPending, job.Status)
	}

	all, total, err := store.List(ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 2)

	rest, _, err := store.List(ListFilter{Offset: 2})
	require.NoError(t, err)
	require.Len(t, rest, 1)

	none, _, err := store.List(ListFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, none)

	_ = first
	_ = third
}

func TestStoreStats(t *testing.T) {
	store := NewStore()
	store.Create()
	job := store.Create()
	require.NoError(t, store.start(job.ID))
	store.fail(job.ID, "boom")

	stats := store.Stats()
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[StatusPending])
	assert.Equal(t, 1, stats.ByStatus[StatusFailed])
}

func TestStoreCleanup(t *testing.T) {
	store := NewStore()
	oldJob := store.Create()
	require.NoError(t, store.start(oldJob.ID))
	store.complete(oldJob.ID, &Result{})
	store.mu.Lock()
	past := epochtime.EpochTime{Time: time.Now().Add(-2 * time.Hour)}
	store.jobs[oldJob.ID].CompletedAt = &past
	store.mu.Unlock()

	freshJob := store.Create()
	require.NoError(t, store.start(freshJob.ID))
	store.complete(freshJob.ID, &Result{})
	runningJob := store.Create()
	require.NoError(t, store.start(runningJob.ID))

	removed := store.Cleanup(time.Hour)
	assert.Equal(t, 1, removed)
	_, err := store.Get(oldJob.ID)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = store.Get(freshJob.ID)
	assert.NoError(t, err)
	_, err = store.Get(runningJob.ID)
	assert.NoError(t, err)
}
