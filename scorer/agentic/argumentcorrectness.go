//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package agentic

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
	// argumentCorrectnessPrompt asks for one verdict per tool call.
	argumentCorrectnessPrompt = `You are judging whether an AI agent called its tools with correct arguments.

For each tool call decide:
* yes: the arguments are correct and complete for the user's request
* no: the arguments are wrong, incomplete or unrelated to the request

User request:
{{.Input}}

Agent response:
{{.ActualOutput}}

Tool calls:
{{.ToolCalls}}

Output exactly one block per tool call, in order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	argumentCorrectnessTemplate = template.Must(template.New("argumentCorrectness").Parse(argumentCorrectnessPrompt))
)

type argumentCorrectnessData struct {
	Input        string
	ActualOutput string
	ToolCalls    string
}

type argumentCorrectness struct {
	client judge.Client
	model  string
}

// NewArgumentCorrectness returns a scorer judging whether tool call
// arguments were correct for the task.
func NewArgumentCorrectness(c judge.Client, model string) scorer.Scorer {
	return &argumentCorrectness{client: c, model: judge.ResolveModel(c, model)}
}

func (s *argumentCorrectness) Name() string {
	return string(metric.TypeArgumentCorrectness)
}

// Evaluate scores the fraction of tool calls whose arguments the judge
// accepts.
func (s *argumentCorrectness) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	user, err := prompt.Render(argumentCorrectnessTemplate, argumentCorrectnessData{
		Input:        tc.Input,
		ActualOutput: tc.ActualOutput,
		ToolCalls:    prompt.ToolCalls(tc.ToolsCalled),
	})
	if err != nil {
		return nil, err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, len(tc.ToolsCalled))
	if err != nil {
		return nil, err
	}
	correct := judge.CountLabel(verdicts, judge.VerdictYes)
	reason := fmt.Sprintf("%d of %d tool calls carry correct arguments.", correct, len(verdicts))
	if reasons := judge.Reasons(verdicts, judge.VerdictNo); len(reasons) > 0 {
		reason += " Incorrect: " + strings.Join(reasons, "; ")
	}
	return &scorer.Result{
		Score:  float64(correct) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
