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
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"trpc.group/trpc-go/trpc-eval-go/metric"
)

// MetricListResponse lists every registered metric type.
type MetricListResponse struct {
	Metrics []*metric.Info `json:"metrics"`
	Total   int            `json:"total"`
}

// MetricCategoriesResponse groups metric types by category.
type MetricCategoriesResponse struct {
	Categories []*metric.CategoryInfo `json:"categories"`
}

func (s *Server) handleListMetrics(w http.ResponseWriter, _ *http.Request) {
	infos := metric.Infos()
	s.writeJSON(w, MetricListResponse{Metrics: infos, Total: len(infos)})
}

func (s *Server) handleMetricCategories(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, MetricCategoriesResponse{Categories: metric.Categories()})
}

func (s *Server) handleGetMetric(w http.ResponseWriter, r *http.Request) {
	metricType := metric.Type(mux.Vars(r)["type"])
	info, err := metric.GetInfo(metricType)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, info)
}
