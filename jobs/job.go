//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package jobs manages asynchronous evaluation jobs. The store is in-memory
// only: jobs live for the lifetime of the process and are never persisted.
package jobs

import (
	"trpc.group/trpc-go/trpc-eval-go/internal/epochtime"
	"trpc.group/trpc-go/trpc-eval-go/report"
)

// Status is the lifecycle state of a job.
type Status string

// Job statuses.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Valid reports whether s is a known job status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Result is what a completed job produced: a single report for single-case
// jobs, per-case reports plus a summary for bulk jobs.
type Result struct {
	Report  *report.TestCaseResult  `json:"report,omitempty"`
	Reports []report.TestCaseResult `json:"reports,omitempty"`
	Summary *report.Summary         `json:"summary,omitempty"`
}

// Job is one asynchronous evaluation. Timestamps marshal as unix seconds.
type Job struct {
	ID          string               `json:"job_id"`
	Status      Status               `json:"status"`
	Progress    float64              `json:"progress"`
	CreatedAt   epochtime.EpochTime  `json:"created_at"`
	StartedAt   *epochtime.EpochTime `json:"started_at,omitempty"`
	CompletedAt *epochtime.EpochTime `json:"completed_at,omitempty"`
	Result      *Result              `json:"result,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// Stats summarizes the store contents by status.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}
