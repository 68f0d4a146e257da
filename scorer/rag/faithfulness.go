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
	// faithfulnessPrompt asks for one verdict per claim against the
	// retrieval context. Claims absent from the context do not count as
	// contradictions.
	faithfulnessPrompt = `You are judging whether an AI response is faithful to its retrieval context.

The response has been split into numbered claims. For each claim decide:
* yes: the claim is supported by the retrieval context
* no: the claim contradicts the retrieval context
* idk: the retrieval context neither supports nor contradicts the claim

Retrieval context:
{{.RetrievalContext}}

Claims:
{{.Claims}}

Output exactly one block per claim, in order:
verdict: [yes|no|idk]
reason: [one line explaining the verdict]
`
	faithfulnessTemplate = template.Must(template.New("faithfulness").Parse(faithfulnessPrompt))
)

type faithfulnessData struct {
	RetrievalContext string
	Claims           string
}

type faithfulness struct {
	client judge.Client
	model  string
}

// NewFaithfulness returns a scorer measuring whether claims in the actual
// output are grounded in the retrieval context.
func NewFaithfulness(c judge.Client, model string) scorer.Scorer {
	return &faithfulness{client: c, model: judge.ResolveModel(c, model)}
}

func (s *faithfulness) Name() string {
	return string(metric.TypeFaithfulness)
}

// Evaluate scores the fraction of output claims not contradicted by the
// retrieval context.
func (s *faithfulness) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	claims, err := statement.Split(tc.ActualOutput)
	if err != nil {
		return nil, fmt.Errorf("split actual output: %w", err)
	}
	user, err := prompt.Render(faithfulnessTemplate, faithfulnessData{
		RetrievalContext: prompt.NumberedList(tc.RetrievalContext),
		Claims:           prompt.NumberedList(claims),
	})
	if err != nil {
		return nil, err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, len(claims))
	if err != nil {
		return nil, err
	}
	contradicted := judge.CountLabel(verdicts, judge.VerdictNo)
	faithful := len(verdicts) - contradicted
	reason := fmt.Sprintf("%d of %d claims are consistent with the retrieval context.", faithful, len(verdicts))
	if reasons := judge.Reasons(verdicts, judge.VerdictNo); len(reasons) > 0 {
		reason += " Contradictions: " + strings.Join(reasons, "; ")
	}
	return &scorer.Result{
		Score:  float64(faithful) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
