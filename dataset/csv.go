//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"

	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// listSeparator splits multi-valued CSV cells such as retrieval_context.
const listSeparator = ";"

// csvColumns are the TestCase fields a CSV dataset can populate. Tool calls
// and conversation turns need structured rows; use JSON or JSONL for those.
var csvColumns = []string{
	"input",
	"actual_output",
	"expected_output",
	"retrieval_context",
	"context",
	"name",
	"tags",
}

// parseCSV reads a CSV dataset. The first row must be a header. The mapping
// renames TestCase fields to column names; unmapped fields default to
// identically named columns, and columns matching no field are ignored.
func parseCSV(r io.Reader, mapping map[string]string) ([]*testcase.TestCase, error) {
	for field := range mapping {
		if !validCSVField(field) {
			return nil, fmt.Errorf("column mapping names unknown field %q", field)
		}
	}
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset contains no header row")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}
	columnIdx := make(map[string]int, len(header))
	for idx, name := range header {
		columnIdx[strings.TrimSpace(name)] = idx
	}
	fieldIdx := make(map[string]int, len(csvColumns))
	for _, field := range csvColumns {
		column := field
		if mapped, ok := mapping[field]; ok {
			column = mapped
		}
		if idx, ok := columnIdx[column]; ok {
			fieldIdx[field] = idx
		} else if mapping[field] != "" {
			return nil, fmt.Errorf("mapped column %q for field %q not found in header", column, field)
		}
	}

	var cases []*testcase.TestCase
	var merr *multierror.Error
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("row %d: %w", row, err))
			continue
		}
		tc := caseFromRecord(record, fieldIdx)
		if err := tc.Validate(); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("row %d: %w", row, err))
			continue
		}
		cases = append(cases, tc)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, errors.New("dataset contains no test cases")
	}
	return cases, nil
}

func caseFromRecord(record []string, fieldIdx map[string]int) *testcase.TestCase {
	cell := func(field string) string {
		idx, ok := fieldIdx[field]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	return &testcase.TestCase{
		Input:            cell("input"),
		ActualOutput:     cell("actual_output"),
		ExpectedOutput:   cell("expected_output"),
		RetrievalContext: splitList(cell("retrieval_context")),
		Context:          splitList(cell("context")),
		Name:             cell("name"),
		Tags:             splitList(cell("tags")),
	}
}

func splitList(cell string) []string {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, listSeparator)
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

func validCSVField(field string) bool {
	for _, known := range csvColumns {
		if field == known {
			return true
		}
	}
	return false
}
