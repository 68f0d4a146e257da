//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package clone provides functions to clone.
package clone

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
)

// Clone performs a deep copy of src via gob round-tripping.
func Clone[T any](src *T) (*T, error) {
	if src == nil {
		return nil, errors.New("clone source is nil")
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(src); err != nil {
		return nil, fmt.Errorf("encode clone source: %w", err)
	}
	var dst T
	if err := gob.NewDecoder(&buf).Decode(&dst); err != nil {
		return nil, fmt.Errorf("decode clone target: %w", err)
	}
	return &dst, nil
}
