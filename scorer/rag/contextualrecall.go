//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package rag

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"trpc.group/trpc-go/trpc-eval-go/internal/statement"
	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	"trpc.group/trpc-go/trpc-eval-go/scorer/internal/prompt"
	"trpc.group/trpc-go/trpc-eval-go/scorer/judge"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

var (
	// contextualRecallPrompt asks for one attribution verdict per expected
	// output statement.
	contextualRecallPrompt = `You are judging whether a retrieval pipeline fetched enough context.

The expected output has been split into numbered statements. For each statement decide:
* yes: the statement can be attributed to the retrieval context
* no: the retrieval context contains nothing supporting the statement

Retrieval context:
{{.RetrievalContext}}

Expected output statements:
{{.Statements}}

Output exactly one block per statement, in order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	contextualRecallTemplate = template.Must(template.New("contextualRecall").Parse(contextualRecallPrompt))
)

type contextualRecallData struct {
	RetrievalContext string
	Statements       string
}

type contextualRecall struct {
	client judge.Client
	model  string
}

// NewContextualRecall returns a scorer measuring how much of the expected
// output is attributable to the retrieval context.
func NewContextualRecall(c judge.Client, model string) scorer.Scorer {
	return &contextualRecall{client: c, model: judge.ResolveModel(c, model)}
}

func (s *contextualRecall) Name() string {
	return string(metric.TypeContextualRecall)
}

// Evaluate scores the fraction of expected output statements the retrieval
// context can account for.
func (s *contextualRecall) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	statements, err := statement.Split(tc.ExpectedOutput)
	if err != nil {
		return nil, fmt.Errorf("split expected output: %w", err)
	}
	user, err := prompt.Render(contextualRecallTemplate, contextualRecallData{
		RetrievalContext: prompt.NumberedList(tc.RetrievalContext),
		Statements:       prompt.NumberedList(statements),
	})
	if err != nil {
		return nil, err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, len(statements))
	if err != nil {
		return nil, err
	}
	attributed := judge.CountLabel(verdicts, judge.VerdictYes)
	reason := fmt.Sprintf("%d of %d expected output statements are attributable to the retrieval context.",
		attributed, len(verdicts))
	if reasons := judge.Reasons(verdicts, judge.VerdictNo); len(reasons) > 0 {
		reason += " Unsupported: " + strings.Join(reasons, "; ")
	}
	return &scorer.Result{
		Score:  float64(attributed) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
