//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"trpc.group/trpc-go/trpc-eval-go/jobs"
)

const (
	defaultJobListLimit = 20
	maxJobListLimit     = 100
	defaultMaxAgeHours  = 24
)

// JobListResponse pages the job listing.
type JobListResponse struct {
	Jobs   []*jobs.Job `json:"jobs"`
	Total  int         `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	filter := jobs.ListFilter{Limit: defaultJobListLimit}
	query := r.URL.Query()
	if statusName := query.Get("status"); statusName != "" {
		status := jobs.Status(statusName)
		if !status.Valid() {
			http.Error(w, fmt.Sprintf("unknown job status %q", statusName), http.StatusBadRequest)
			return
		}
		filter.Status = status
	}
	if rawLimit := query.Get("limit"); rawLimit != "" {
		limit, err := strconv.Atoi(rawLimit)
		if err != nil || limit < 1 || limit > maxJobListLimit {
			http.Error(w, fmt.Sprintf("limit must be an integer in [1, %d]", maxJobListLimit), http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}
	if rawOffset := query.Get("offset"); rawOffset != "" {
		offset, err := strconv.Atoi(rawOffset)
		if err != nil || offset < 0 {
			http.Error(w, "offset must be a non-negative integer", http.StatusBadRequest)
			return
		}
		filter.Offset = offset
	}
	list, total, err := s.store.List(filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, JobListResponse{
		Jobs:   list,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]string{"message": "job deleted"})
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Cancel(id); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		// Terminal jobs cannot be cancelled.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, map[string]string{"message": "job cancelled"})
}

func (s *Server) handleJobStats(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.store.Stats())
}

func (s *Server) handleJobCleanup(w http.ResponseWriter, r *http.Request) {
	maxAgeHours := defaultMaxAgeHours
	if raw := r.URL.Query().Get("max_age_hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 1 {
			http.Error(w, "max_age_hours must be a positive integer", http.StatusBadRequest)
			return
		}
		maxAgeHours = hours
	}
	removed := s.store.Cleanup(time.Duration(maxAgeHours) * time.Hour)
	s.writeJSON(w, map[string]int{"removed": removed})
}
