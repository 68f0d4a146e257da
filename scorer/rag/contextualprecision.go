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
	// contextualPrecisionPrompt asks for one relevance verdict per
	// retrieval context node, in ranking order.
	contextualPrecisionPrompt = `You are judging the ranking quality of a retrieval pipeline.

Below are the retrieval context nodes in their retrieved order, followed by the input and the expected output. For each node decide:
* yes: the node is useful for producing the expected output for this input
* no: the node is not useful

Input:
{{.Input}}

Expected output:
{{.ExpectedOutput}}

Retrieval context nodes:
{{.Nodes}}

Output exactly one block per node, in order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	contextualPrecisionTemplate = template.Must(template.New("contextualPrecision").Parse(contextualPrecisionPrompt))
)

type contextualPrecisionData struct {
	Input          string
	ExpectedOutput string
	Nodes          string
}

type contextualPrecision struct {
	client judge.Client
	model  string
}

// NewContextualPrecision returns a scorer measuring whether relevant
// retrieval context nodes are ranked above irrelevant ones.
func NewContextualPrecision(c judge.Client, model string) scorer.Scorer {
	return &contextualPrecision{client: c, model: judge.ResolveModel(c, model)}
}

func (s *contextualPrecision) Name() string {
	return string(metric.TypeContextualPrecision)
}

// Evaluate computes the mean precision at each relevant node's rank, so
// relevant nodes buried under irrelevant ones pull the score down.
func (s *contextualPrecision) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	user, err := prompt.Render(contextualPrecisionTemplate, contextualPrecisionData{
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
		Nodes:          prompt.NumberedList(tc.RetrievalContext),
	})
	if err != nil {
		return nil, err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, len(tc.RetrievalContext))
	if err != nil {
		return nil, err
	}
	relevant := 0
	sum := 0.0
	for rank, v := range verdicts {
		if v.Label == judge.VerdictYes {
			relevant++
			sum += float64(relevant) / float64(rank+1)
		}
	}
	score := 0.0
	if relevant > 0 {
		score = sum / float64(relevant)
	}
	reason := fmt.Sprintf("%d of %d retrieval nodes are relevant; weighted ranking precision is %.2f.",
		relevant, len(verdicts), score)
	return &scorer.Result{Score: score, Reason: reason, Model: s.model}, nil
}
