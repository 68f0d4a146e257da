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
	"encoding/gob"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-eval-go/internal/clone"
	"trpc.group/trpc-go/trpc-eval-go/internal/epochtime"
)

func init() {
	// Test cases inside job results carry JSON-decoded any values.
	gob.Register(map[string]any{})
	gob.Register([]any{})
}

// Store keeps jobs in memory, guarded by a single lock. Reads return deep
// copies so callers can never mutate stored state.
type Store struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	cancels map[string]func()
}

// NewStore returns an empty job store.
func NewStore() *Store {
	return &Store{
		jobs:    make(map[string]*Job),
		cancels: make(map[string]func()),
	}
}

// Create registers a new pending job and returns a copy of it.
func (s *Store) Create() *Job {
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: epochtime.Now(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	copied := *job
	return &copied
}

// Get returns a deep copy of the job. Unknown ids wrap os.ErrNotExist.
func (s *Store) Get(id string) (*Job, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.RUnlock()
		return nil, fmt.Errorf("job %s: %w", id, os.ErrNotExist)
	}
	copied, err := clone.Clone(job)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("copy job %s: %w", id, err)
	}
	return copied, nil
}

// ListFilter narrows and pages List results.
type ListFilter struct {
	// Status keeps only jobs in the given state when non-empty.
	Status Status
	// Limit caps the number of returned jobs; 0 means no cap.
	Limit int
	// Offset skips that many jobs after filtering and sorting.
	Offset int
}

// List returns deep copies of matching jobs, newest first, together with the
// total number of matches before paging.
func (s *Store) List(filter ListFilter) ([]*Job, int, error) {
	s.mu.RLock()
	matched := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		matched = append(matched, job)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt.Time)
	})
	total := len(matched)
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	copies := make([]*Job, 0, len(matched))
	for _, job := range matched {
		copied, err := clone.Clone(job)
		if err != nil {
			s.mu.RUnlock()
			return nil, 0, fmt.Errorf("copy job %s: %w", job.ID, err)
		}
		copies = append(copies, copied)
	}
	s.mu.RUnlock()
	return copies, total, nil
}

// Delete removes the job. A running job is cancelled first.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("job %s: %w", id, os.ErrNotExist)
	}
	cancel := s.cancels[id]
	delete(s.jobs, id)
	delete(s.cancels, id)
	s.mu.Unlock()
	if cancel != nil && !job.Status.Terminal() {
		cancel()
	}
	return nil
}

// Cancel stops a pending or running job. Cancelling a terminal job is an
// error so callers can tell "cancelled" from "was already done".
func (s *Store) Cancel(id string) error {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("job %s: %w", id, os.ErrNotExist)
	}
	if job.Status.Terminal() {
		s.mu.Unlock()
		return fmt.Errorf("job %s is already %s", id, job.Status)
	}
	job.Status = StatusCancelled
	now := epochtime.Now()
	job.CompletedAt = &now
	cancel := s.cancels[id]
	delete(s.cancels, id)
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

// Stats counts jobs by status.
func (s *Store) Stats() *Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &Stats{
		Total:    len(s.jobs),
		ByStatus: make(map[Status]int),
	}
	for _, job := range s.jobs {
		stats.ByStatus[job.Status]++
	}
	return stats
}

// Cleanup removes terminal jobs that finished more than maxAge ago and
// returns how many were removed.
func (s *Store) Cleanup(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, job := range s.jobs {
		if !job.Status.Terminal() || job.CompletedAt == nil {
			continue
		}
		if job.CompletedAt.Before(cutoff) {
			delete(s.jobs, id)
			delete(s.cancels, id)
			removed++
		}
	}
	return removed
}

// SetProgress records how far a running job has come.
func (s *Store) SetProgress(id string, done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status != StatusRunning {
		return
	}
	if total > 0 {
		job.Progress = float64(done) / float64(total)
	}
}

// bindCancel attaches the cancel function of the job's context. It is a
// no-op for jobs already cancelled or deleted; the caller's context is
// cancelled immediately in that case.
func (s *Store) bindCancel(id string, cancel func()) {
	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok || job.Status.Terminal() {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancels[id] = cancel
	s.mu.Unlock()
}

// start moves a pending job to running. It fails when the job was cancelled
// or deleted before the runner picked it up.
func (s *Store) start(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %s: %w", id, os.ErrNotExist)
	}
	if job.Status != StatusPending {
		return fmt.Errorf("job %s is %s, not pending", id, job.Status)
	}
	job.Status = StatusRunning
	now := epochtime.Now()
	job.StartedAt = &now
	return nil
}

// complete marks a running job completed with its result. Terminal jobs are
// left untouched so a late completion never overwrites a cancellation.
func (s *Store) complete(id string, result *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status != StatusRunning {
		return
	}
	job.Status = StatusCompleted
	job.Progress = 1
	job.Result = result
	now := epochtime.Now()
	job.CompletedAt = &now
	delete(s.cancels, id)
}

// fail marks a running job failed.
func (s *Store) fail(id string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status != StatusRunning {
		return
	}
	job.Status = StatusFailed
	job.Error = errMsg
	now := epochtime.Now()
	job.CompletedAt = &now
	delete(s.cancels, id)
}
