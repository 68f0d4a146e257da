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
	"text/template"

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	"trpc.group/trpc-go/trpc-eval-go/scorer/internal/prompt"
	"trpc.group/trpc-go/trpc-eval-go/scorer/judge"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

var (
	// contextualRelevancyPrompt asks for one relevance verdict per
	// retrieval context node against the input alone.
	contextualRelevancyPrompt = `You are judging how much of the retrieved context is actually relevant.

For each retrieval context node decide:
* yes: the node is relevant to answering the input
* no: the node is irrelevant to the input

Input:
{{.Input}}

Retrieval context nodes:
{{.Nodes}}

Output exactly one block per node, in order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	contextualRelevancyTemplate = template.Must(template.New("contextualRelevancy").Parse(contextualRelevancyPrompt))
)

type contextualRelevancyData struct {
	Input string
	Nodes string
}

type contextualRelevancy struct {
	client judge.Client
	model  string
}

// NewContextualRelevancy returns a scorer measuring how much of the
// retrieval context is relevant to the input.
func NewContextualRelevancy(c judge.Client, model string) scorer.Scorer {
	return &contextualRelevancy{client: c, model: judge.ResolveModel(c, model)}
}

func (s *contextualRelevancy) Name() string {
	return string(metric.TypeContextualRelevancy)
}

// Evaluate scores the fraction of retrieval context nodes relevant to the
// input.
func (s *contextualRelevancy) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	user, err := prompt.Render(contextualRelevancyTemplate, contextualRelevancyData{
		Input: tc.Input,
		Nodes: prompt.NumberedList(tc.RetrievalContext),
	})
	if err != nil {
		return nil, err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, len(tc.RetrievalContext))
	if err != nil {
		return nil, err
	}
	relevant := judge.CountLabel(verdicts, judge.VerdictYes)
	reason := fmt.Sprintf("%d of %d retrieval nodes are relevant to the input.", relevant, len(verdicts))
	return &scorer.Result{
		Score:  float64(relevant) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
