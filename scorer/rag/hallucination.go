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

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	"trpc.group/trpc-go/trpc-eval-go/scorer/internal/prompt"
	"trpc.group/trpc-go/trpc-eval-go/scorer/judge"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

var (
	// hallucinationPrompt asks for one agreement verdict per context node.
	hallucinationPrompt = `You are judging whether an AI response contradicts its source context.

For each context node decide:
* yes: the response agrees with the node, or does not touch what it says
* no: the response contradicts the node

Context nodes:
{{.Nodes}}

Response:
{{.ActualOutput}}

Output exactly one block per node, in order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	hallucinationTemplate = template.Must(template.New("hallucination").Parse(hallucinationPrompt))
)

type hallucinationData struct {
	Nodes        string
	ActualOutput string
}

type hallucination struct {
	client judge.Client
	model  string
}

// NewHallucination returns a scorer measuring agreement between the actual
// output and the provided context. A score of 1 means no contradictions.
func NewHallucination(c judge.Client, model string) scorer.Scorer {
	return &hallucination{client: c, model: judge.ResolveModel(c, model)}
}

func (s *hallucination) Name() string {
	return string(metric.TypeHallucination)
}

// Evaluate scores the fraction of context nodes the output does not
// contradict, so higher scores mean less hallucination.
func (s *hallucination) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	user, err := prompt.Render(hallucinationTemplate, hallucinationData{
		Nodes:        prompt.NumberedList(tc.Context),
		ActualOutput: tc.ActualOutput,
	})
	if err != nil {
		return nil, err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, len(tc.Context))
	if err != nil {
		return nil, err
	}
	contradicted := judge.CountLabel(verdicts, judge.VerdictNo)
	agreed := len(verdicts) - contradicted
	reason := fmt.Sprintf("The output agrees with %d of %d context nodes.", agreed, len(verdicts))
	if reasons := judge.Reasons(verdicts, judge.VerdictNo); len(reasons) > 0 {
		reason += " Contradictions: " + strings.Join(reasons, "; ")
	}
	return &scorer.Result{
		Score:  float64(agreed) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
