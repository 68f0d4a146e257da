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
	// promptAlignmentPrompt asks for one verdict per instruction.
	promptAlignmentPrompt = `You are judging whether an AI response follows its prompt instructions.

For each instruction decide:
* yes: the response follows the instruction
* no: the response ignores or violates the instruction

Input:
{{.Input}}

Response:
{{.ActualOutput}}

Instructions:
{{.Instructions}}

Output exactly one block per instruction, in order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	promptAlignmentTemplate = template.Must(template.New("promptAlignment").Parse(promptAlignmentPrompt))
)

type promptAlignmentData struct {
	Input        string
	ActualOutput string
	Instructions string
}

type promptAlignment struct {
	client       judge.Client
	model        string
	instructions []string
}

// NewPromptAlignment returns a scorer judging whether the actual output
// follows the given prompt instructions.
func NewPromptAlignment(c judge.Client, model string, instructions []string) scorer.Scorer {
	return &promptAlignment{
		client:       c,
		model:        judge.ResolveModel(c, model),
		instructions: instructions,
	}
}

func (s *promptAlignment) Name() string {
	return string(metric.TypePromptAlignment)
}

// Evaluate scores the fraction of instructions the response follows.
func (s *promptAlignment) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	user, err := prompt.Render(promptAlignmentTemplate, promptAlignmentData{
		Input:        tc.Input,
		ActualOutput: tc.ActualOutput,
		Instructions: prompt.NumberedList(s.instructions),
	})
	if err != nil {
		return nil, err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, len(s.instructions))
	if err != nil {
		return nil, err
	}
	followed := judge.CountLabel(verdicts, judge.VerdictYes)
	reason := fmt.Sprintf("The response follows %d of %d instructions.", followed, len(verdicts))
	if reasons := judge.Reasons(verdicts, judge.VerdictNo); len(reasons) > 0 {
		reason += " Violations: " + strings.Join(reasons, "; ")
	}
	return &scorer.Result{
		Score:  float64(followed) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
