//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package prompt provides shared helpers for building judge prompts.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// System is the system message sent with every judge prompt.
const System = "You are a strict evaluation judge. " +
	"Follow the requested output format exactly, be assertive and do not hedge."

// Render executes a prompt template over data.
func Render(tpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute %s prompt template: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}

// NumberedList renders items as a numbered list, one per line.
func NumberedList(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Transcript renders conversation turns as a numbered transcript. Tool
// calls are summarized inline so the judge sees the assistant's actions.
func Transcript(turns []testcase.Turn) string {
	var b strings.Builder
	for i, turn := range turns {
		fmt.Fprintf(&b, "%d. %s: %s", i+1, turn.Role, turn.Content)
		if len(turn.ToolsCalled) > 0 {
			names := make([]string, 0, len(turn.ToolsCalled))
			for _, tc := range turn.ToolsCalled {
				names = append(names, tc.Name)
			}
			fmt.Fprintf(&b, " [called tools: %s]", strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// ToolCalls renders tool calls as a numbered list with their arguments and
// outputs in compact JSON.
func ToolCalls(calls []testcase.ToolCall) string {
	var b strings.Builder
	for i, call := range calls {
		fmt.Fprintf(&b, "%d. %s", i+1, call.Name)
		if len(call.InputParameters) > 0 {
			if args, err := json.Marshal(call.InputParameters); err == nil {
				fmt.Fprintf(&b, " input=%s", args)
			}
		}
		if call.Output != nil {
			if out, err := json.Marshal(call.Output); err == nil {
				fmt.Fprintf(&b, " output=%s", out)
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
