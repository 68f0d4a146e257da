//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package dataset parses uploaded evaluation datasets into test cases.
// Supported formats are CSV, JSON and JSONL; every malformed row is
// reported, and any bad row rejects the whole upload.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// Format names a supported dataset file format.
type Format string

// Supported dataset formats.
const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// ParseFormat converts a format name into a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatCSV, FormatJSON, FormatJSONL:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported dataset format %q", name)
	}
}

// DetectFormat infers the format from a file name extension.
func DetectFormat(filename string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot detect dataset format of %q", filename)
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", fmt.Errorf("cannot detect dataset format of %q: %w", filename, err)
	}
	return f, nil
}

// Parse reads every test case from r. Input is decoded as UTF-8 with an
// optional byte order mark, which spreadsheet exports commonly prepend.
// The column mapping only applies to CSV input; JSON and JSONL rows use
// the TestCase field names directly.
func Parse(r io.Reader, format Format, mapping map[string]string) ([]*testcase.TestCase, error) {
	r = transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	switch format {
	case FormatCSV:
		return parseCSV(r, mapping)
	case FormatJSON:
		return parseJSON(r)
	case FormatJSONL:
		return parseJSONL(r)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}
}

// jsonDocument is the object form of a JSON dataset.
type jsonDocument struct {
	TestCases []json.RawMessage `json:"test_cases"`
}

// parseJSON reads a JSON dataset: either a top-level array of test case
// objects or an object with a "test_cases" array.
func parseJSON(r io.Reader) ([]*testcase.TestCase, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	var rows []json.RawMessage
	if bytes.HasPrefix(trimmed, []byte("[")) {
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("decode dataset: %w", err)
		}
	} else {
		var doc jsonDocument
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode dataset: %w", err)
		}
		if doc.TestCases == nil {
			return nil, errors.New("dataset object has no test_cases array")
		}
		rows = doc.TestCases
	}
	return decodeRows(rows)
}

// parseJSONL reads one test case object per line; blank lines are skipped.
func parseJSONL(r io.Reader) ([]*testcase.TestCase, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var rows []json.RawMessage
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, json.RawMessage(line))
	}
	return decodeRows(rows)
}

func decodeRows(rows []json.RawMessage) ([]*testcase.TestCase, error) {
	if len(rows) == 0 {
		return nil, errors.New("dataset contains no test cases")
	}
	cases := make([]*testcase.TestCase, 0, len(rows))
	var merr *multierror.Error
	for i, raw := range rows {
		var tc testcase.TestCase
		if err := json.Unmarshal(raw, &tc); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		if err := tc.Validate(); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		cases = append(cases, &tc)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cases, nil
}
