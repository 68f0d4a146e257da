//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"sort"

	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// Info describes one registered metric type for the catalog endpoints.
type Info struct {
	MetricType             Type             `json:"metric_type"`
	Category               Category         `json:"category"`
	Description            string           `json:"description"`
	RequiredTestCaseFields []testcase.Field `json:"required_test_case_fields"`
	RequiredParams         []string         `json:"required_params,omitempty"`
	OptionalParams         []string         `json:"optional_params,omitempty"`
	DefaultThreshold       float64          `json:"default_threshold"`
	RequiresJudge          bool             `json:"requires_judge"`
	Example                Request          `json:"example"`
}

// CategoryInfo describes one metric category and the types inside it.
type CategoryInfo struct {
	Category    Category `json:"category"`
	Description string   `json:"description"`
	MetricTypes []Type   `json:"metric_types"`
}

var categoryDescriptions = map[Category]string{
	CategoryRAG:            "Retrieval-augmented generation quality: relevancy, faithfulness and context usage.",
	CategorySafety:         "Safety and compliance: bias, toxicity, PII, advice and role boundaries.",
	CategoryAgentic:        "Agent behaviour: tool usage, arguments, task completion and instruction following.",
	CategoryConversational: "Multi-turn conversation quality.",
	CategoryCustom:         "Caller-defined judging criteria (G-Eval style).",
	CategoryDeterministic:  "Deterministic checks that run without a judge model.",
}

// GetInfo returns catalog information for one metric type.
func GetInfo(t Type) (*Info, error) {
	d, err := lookup(t)
	if err != nil {
		return nil, err
	}
	return infoFromDescriptor(t, d), nil
}

// Infos returns catalog information for every registered metric type,
// sorted by type name.
func Infos() []*Info {
	infos := make([]*Info, 0, len(registry))
	for _, t := range List() {
		infos = append(infos, infoFromDescriptor(t, registry[t]))
	}
	return infos
}

// Categories returns every metric category with its member types, sorted by
// category name.
func Categories() []*CategoryInfo {
	byCategory := make(map[Category][]Type)
	for _, t := range List() {
		d := registry[t]
		byCategory[d.Category] = append(byCategory[d.Category], t)
	}
	categories := make([]*CategoryInfo, 0, len(byCategory))
	for c, types := range byCategory {
		categories = append(categories, &CategoryInfo{
			Category:    c,
			Description: categoryDescriptions[c],
			MetricTypes: types,
		})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Category < categories[j].Category })
	return categories
}

func infoFromDescriptor(t Type, d *descriptor) *Info {
	threshold := float64(DefaultThreshold)
	return &Info{
		MetricType:             t,
		Category:               d.Category,
		Description:            d.Description,
		RequiredTestCaseFields: d.RequiredFields,
		RequiredParams:         d.RequiredParams,
		OptionalParams:         d.OptionalParams,
		DefaultThreshold:       threshold,
		RequiresJudge:          d.RequiresJudge,
		Example: Request{
			MetricType:       t,
			Threshold:        &threshold,
			EvaluationParams: d.ExampleParams,
		},
	}
}
