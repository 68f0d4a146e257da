//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package rag provides scorers for retrieval-augmented generation metrics.
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
	// answerRelevancyPrompt asks for one verdict per output statement.
	answerRelevancyPrompt = `You are judging how relevant an AI response is to the user's input.

The response has been split into numbered statements. For each statement decide:
* yes: the statement addresses or helps address the input
* no: the statement is unrelated to the input
* idk: the statement is ambiguous or only loosely related

Input:
{{.Input}}

Statements:
{{.Statements}}

Output exactly one block per statement, in order:
verdict: [yes|no|idk]
reason: [one line explaining the verdict]
`
	answerRelevancyTemplate = template.Must(template.New("answerRelevancy").Parse(answerRelevancyPrompt))
)

type answerRelevancyData struct {
	Input      string
	Statements string
}

type answerRelevancy struct {
	client judge.Client
	model  string
}

// NewAnswerRelevancy returns a scorer measuring how relevant the actual
// output is to the input.
func NewAnswerRelevancy(c judge.Client, model string) scorer.Scorer {
	return &answerRelevancy{client: c, model: judge.ResolveModel(c, model)}
}

func (s *answerRelevancy) Name() string {
	return string(metric.TypeAnswerRelevancy)
}

// Evaluate splits the actual output into statements and scores the fraction
// the judge finds relevant to the input.
func (s *answerRelevancy) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	statements, err := statement.Split(tc.ActualOutput)
	if err != nil {
		return nil, fmt.Errorf("split actual output: %w", err)
	}
	user, err := prompt.Render(answerRelevancyTemplate, answerRelevancyData{
		Input:      tc.Input,
		Statements: prompt.NumberedList(statements),
	})
	if err != nil {
		return nil, err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, len(statements))
	if err != nil {
		return nil, err
	}
	irrelevant := judge.CountLabel(verdicts, judge.VerdictNo)
	relevant := len(verdicts) - irrelevant
	reason := fmt.Sprintf("%d of %d output statements are relevant to the input.", relevant, len(verdicts))
	if reasons := judge.Reasons(verdicts, judge.VerdictNo); len(reasons) > 0 {
		reason += " Irrelevant: " + strings.Join(reasons, "; ")
	}
	return &scorer.Result{
		Score:  float64(relevant) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
