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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trpc.group/trpc-go/trpc-eval-go/dataset"
	"trpc.group/trpc-go/trpc-eval-go/jobs"
	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/orchestrator"
	"trpc.group/trpc-go/trpc-eval-go/report"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// maxDatasetMemory bounds the in-memory part of a dataset upload.
const maxDatasetMemory = 32 << 20

// EvaluationRequest is one test case with the metrics to run against it.
type EvaluationRequest struct {
	TestCase testcase.TestCase `json:"test_case"`
	Metrics  []metric.Request  `json:"metrics"`
}

// BulkEvaluationRequest shares one metric list across many test cases.
type BulkEvaluationRequest struct {
	TestCases []testcase.TestCase `json:"test_cases"`
	Metrics   []metric.Request    `json:"metrics"`
}

// BulkEvaluationReport is the response of a bulk evaluation.
type BulkEvaluationReport struct {
	Results       []report.TestCaseResult `json:"results"`
	Summary       *report.Summary         `json:"summary"`
	ExecutionTime float64                 `json:"execution_time"`
}

// AsyncEvaluationResponse acknowledges an enqueued evaluation job.
type AsyncEvaluationResponse struct {
	JobID  string      `json:"job_id"`
	Status jobs.Status `json:"status"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	metrics, err := s.validateEvaluation(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	result, err := s.orch.Evaluate(r.Context(), &req.TestCase, metrics)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) handleEvaluateBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	cases, metrics, err := s.validateBulkEvaluation(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reportOut, err := s.runBulk(r.Context(), cases, metrics, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, reportOut)
}

func (s *Server) handleEvaluateDataset(w http.ResponseWriter, r *http.Request) {
	cases, metrics, err := s.parseDatasetUpload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reportOut, err := s.runBulk(r.Context(), cases, metrics, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, reportOut)
}

func (s *Server) handleEvaluateAsync(w http.ResponseWriter, r *http.Request) {
	var req EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	metrics, err := s.validateEvaluation(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	job := s.store.Create()
	tc := req.TestCase
	err = s.runner.Submit(job.ID, func(ctx context.Context, _ func(done, total int)) (*jobs.Result, error) {
		result, err := s.orch.Evaluate(ctx, &tc, metrics)
		if err != nil {
			return nil, err
		}
		return &jobs.Result{Report: result}, nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSONStatus(w, http.StatusAccepted, AsyncEvaluationResponse{JobID: job.ID, Status: job.Status})
}

func (s *Server) handleEvaluateBulkAsync(w http.ResponseWriter, r *http.Request) {
	var req BulkEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("decode request: %v", err), http.StatusBadRequest)
		return
	}
	cases, metrics, err := s.validateBulkEvaluation(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	job := s.store.Create()
	err = s.runner.Submit(job.ID, func(ctx context.Context, progress func(done, total int)) (*jobs.Result, error) {
		reportOut, err := s.runBulk(ctx, cases, metrics, progress)
		if err != nil {
			return nil, err
		}
		return &jobs.Result{Reports: reportOut.Results, Summary: reportOut.Summary}, nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSONStatus(w, http.StatusAccepted, AsyncEvaluationResponse{JobID: job.ID, Status: job.Status})
}

// validateEvaluation performs the fail-fast request checks: a structurally
// valid test case and a fully resolvable metric list. Nothing runs when it
// fails.
func (s *Server) validateEvaluation(req *EvaluationRequest) ([]*metric.ResolvedMetric, error) {
	if err := req.TestCase.Validate(); err != nil {
		return nil, err
	}
	return metric.ResolveAll(req.Metrics)
}

func (s *Server) validateBulkEvaluation(req *BulkEvaluationRequest) ([]*testcase.TestCase, []*metric.ResolvedMetric, error) {
	if len(req.TestCases) == 0 {
		return nil, nil, fmt.Errorf("at least one test case is required")
	}
	cases := make([]*testcase.TestCase, 0, len(req.TestCases))
	for i := range req.TestCases {
		tc := &req.TestCases[i]
		if err := tc.Validate(); err != nil {
			return nil, nil, fmt.Errorf("test_cases[%d]: %w", i, err)
		}
		cases = append(cases, tc)
	}
	metrics, err := metric.ResolveAll(req.Metrics)
	if err != nil {
		return nil, nil, err
	}
	return cases, metrics, nil
}

func (s *Server) runBulk(ctx context.Context, cases []*testcase.TestCase,
	metrics []*metric.ResolvedMetric, progress func(done, total int)) (*BulkEvaluationReport, error) {
	start := time.Now()
	results, err := s.orch.RunBulk(ctx, cases, metrics, orchestrator.BulkOptions{
		Parallel:      true,
		MaxConcurrent: s.bulkConcurrency,
		OnProgress:    progress,
	})
	if err != nil {
		return nil, err
	}
	return &BulkEvaluationReport{
		Results:       results,
		Summary:       report.Summarize(results),
		ExecutionTime: time.Since(start).Seconds(),
	}, nil
}

// parseDatasetUpload reads the multipart form of a dataset evaluation:
// a "file" part, an optional "format" (otherwise inferred from the file
// name), a "metrics" JSON array and an optional "column_mapping" object.
func (s *Server) parseDatasetUpload(r *http.Request) ([]*testcase.TestCase, []*metric.ResolvedMetric, error) {
	if err := r.ParseMultipartForm(maxDatasetMemory); err != nil {
		return nil, nil, fmt.Errorf("parse multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("dataset file is required: %w", err)
	}
	defer file.Close()

	var format dataset.Format
	if name := r.FormValue("format"); name != "" {
		format, err = dataset.ParseFormat(name)
	} else {
		format, err = dataset.DetectFormat(header.Filename)
	}
	if err != nil {
		return nil, nil, err
	}

	var metricReqs []metric.Request
	metricsJSON := r.FormValue("metrics")
	if metricsJSON == "" {
		return nil, nil, fmt.Errorf("metrics form value is required")
	}
	if err := json.Unmarshal([]byte(metricsJSON), &metricReqs); err != nil {
		return nil, nil, fmt.Errorf("decode metrics: %w", err)
	}
	metrics, err := metric.ResolveAll(metricReqs)
	if err != nil {
		return nil, nil, err
	}

	var mapping map[string]string
	if mappingJSON := r.FormValue("column_mapping"); mappingJSON != "" {
		if err := json.Unmarshal([]byte(mappingJSON), &mapping); err != nil {
			return nil, nil, fmt.Errorf("decode column_mapping: %w", err)
		}
	}
	cases, err := dataset.Parse(file, format, mapping)
	if err != nil {
		return nil, nil, err
	}
	return cases, metrics, nil
}
