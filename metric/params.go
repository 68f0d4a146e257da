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
	"errors"
	"fmt"
	"strings"
)

// Param returns the raw evaluation parameter for key.
func (m *ResolvedMetric) Param(key string) (any, bool) {
	if m == nil || m.Params == nil {
		return nil, false
	}
	v, ok := m.Params[key]
	return v, ok
}

// StringParam returns the string parameter for key.
func (m *ResolvedMetric) StringParam(key string) (string, bool) {
	return stringParam(m.Params, key)
}

// StringSliceParam returns the string-slice parameter for key. A single
// string value is accepted as a one-element slice.
func (m *ResolvedMetric) StringSliceParam(key string) ([]string, bool) {
	return stringSliceParam(m.Params, key)
}

// BoolParam returns the boolean parameter for key.
func (m *ResolvedMetric) BoolParam(key string) (bool, bool) {
	if m.Params == nil {
		return false, false
	}
	b, ok := m.Params[key].(bool)
	return b, ok
}

// ObjectParam returns the object parameter for key.
func (m *ResolvedMetric) ObjectParam(key string) (map[string]any, bool) {
	if m.Params == nil {
		return nil, false
	}
	o, ok := m.Params[key].(map[string]any)
	return o, ok
}

func stringParam(params map[string]any, key string) (string, bool) {
	if params == nil {
		return "", false
	}
	s, ok := params[key].(string)
	return s, ok
}

// stringSliceParam coerces JSON-decoded values ([]any of strings) as well as
// natively constructed []string and bare string values.
func stringSliceParam(params map[string]any, key string) ([]string, bool) {
	if params == nil {
		return nil, false
	}
	switch v := params[key].(type) {
	case []string:
		return v, true
	case string:
		return []string{v}, true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// listParam reports presence and length of a list-valued parameter without
// constraining the element type. expected_tools carries either tool names
// or tool call objects.
func listParam(params map[string]any, key string) (int, bool) {
	if params == nil {
		return 0, false
	}
	switch v := params[key].(type) {
	case []any:
		return len(v), true
	case []string:
		return len(v), true
	default:
		return 0, false
	}
}

// Structural parameter validators. A failure here rejects the whole request
// at resolve time; these parameters define the metric itself rather than
// depending on the test case.

func validateCriteriaOrSteps(params map[string]any) error {
	if s, ok := stringParam(params, "criteria"); ok && strings.TrimSpace(s) != "" {
		return nil
	}
	if steps, ok := stringSliceParam(params, "evaluation_steps"); ok && len(steps) > 0 {
		return nil
	}
	return errors.New("criteria or evaluation_steps is required")
}

func validatePromptInstructions(params map[string]any) error {
	if instructions, ok := stringSliceParam(params, "prompt_instructions"); ok {
		for _, ins := range instructions {
			if strings.TrimSpace(ins) != "" {
				return nil
			}
		}
	}
	return errors.New("prompt_instructions is required")
}

func requireStringParam(key string) func(map[string]any) error {
	return func(params map[string]any) error {
		if s, ok := stringParam(params, key); ok && strings.TrimSpace(s) != "" {
			return nil
		}
		return fmt.Errorf("%s is required", key)
	}
}

func requireStringSliceParam(key string) func(map[string]any) error {
	return func(params map[string]any) error {
		if values, ok := stringSliceParam(params, key); ok && len(values) > 0 {
			return nil
		}
		return fmt.Errorf("%s is required", key)
	}
}

func requireListParam(key string) func(map[string]any) error {
	return func(params map[string]any) error {
		if n, ok := listParam(params, key); ok && n > 0 {
			return nil
		}
		return fmt.Errorf("%s is required", key)
	}
}
