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
	"text/template"

	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	"trpc.group/trpc-go/trpc-eval-go/scorer/internal/prompt"
	"trpc.group/trpc-go/trpc-eval-go/scorer/judge"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

var (
	// taskCompletionPrompt asks for a graded completion score.
	taskCompletionPrompt = `You are judging how completely an AI agent accomplished the user's task.

Infer the task from the user request, then grade the agent's work on a 0-10 scale:
* 10: the task is fully accomplished
* 5: the task is partially accomplished or key steps are missing
* 0: the task is not accomplished at all

User request:
{{.Input}}

Agent response:
{{.ActualOutput}}
{{if .ToolCalls}}
Tool calls made by the agent:
{{.ToolCalls}}
{{end}}
Output exactly two lines:
reasoning: [why you graded it this way]
score: [0-10]
`
	taskCompletionTemplate = template.Must(template.New("taskCompletion").Parse(taskCompletionPrompt))
)

type taskCompletionData struct {
	Input        string
	ActualOutput string
	ToolCalls    string
}

type taskCompletion struct {
	client judge.Client
	model  string
}

// NewTaskCompletion returns a scorer grading how completely the task
// inferred from the input was accomplished.
func NewTaskCompletion(c judge.Client, model string) scorer.Scorer {
	return &taskCompletion{client: c, model: judge.ResolveModel(c, model)}
}

func (s *taskCompletion) Name() string {
	return string(metric.TypeTaskCompletion)
}

// Evaluate grades the agent's work on a 0-10 scale normalized to [0, 1].
func (s *taskCompletion) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	user, err := prompt.Render(taskCompletionTemplate, taskCompletionData{
		Input:        tc.Input,
		ActualOutput: tc.ActualOutput,
		ToolCalls:    prompt.ToolCalls(tc.ToolsCalled),
	})
	if err != nil {
		return nil, err
	}
	score, reasoning, err := judge.AskScore(ctx, s.client, s.model, prompt.System, user)
	if err != nil {
		return nil, err
	}
	return &scorer.Result{Score: score, Reason: reasoning, Model: s.model}, nil
}
