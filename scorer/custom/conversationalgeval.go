//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package custom

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
	// conversationalGEvalPrompt grades a whole conversation against the
	// caller's definition.
	conversationalGEvalPrompt = `You are grading a whole conversation against a caller-defined metric{{if .Name}} named "{{.Name}}"{{end}}.
{{if .Criteria}}
Criteria:
{{.Criteria}}
{{end}}{{if .Steps}}
Evaluation steps:
{{.Steps}}
{{end}}{{if .Rubric}}
Score anchors:
{{.Rubric}}
{{end}}
Conversation:
{{.Transcript}}

Grade on a 0-10 scale. Output exactly two lines:
reasoning: [why you graded it this way]
score: [0-10]
`
	conversationalGEvalTemplate = template.Must(
		template.New("conversationalGEval").Parse(conversationalGEvalPrompt))
)

type conversationalGEvalData struct {
	Name       string
	Criteria   string
	Steps      string
	Rubric     string
	Transcript string
}

type conversationalGEval struct {
	client judge.Client
	model  string
	def    *Definition
}

// NewConversationalGEval returns a scorer grading whole conversations
// against a caller-defined metric definition.
func NewConversationalGEval(c judge.Client, model string, def *Definition) scorer.Scorer {
	return &conversationalGEval{client: c, model: judge.ResolveModel(c, model), def: def}
}

func (s *conversationalGEval) Name() string {
	return string(metric.TypeConversationalGEval)
}

// Evaluate grades the conversation on the anchored 0-10 scale normalized to
// [0, 1].
func (s *conversationalGEval) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	user, err := prompt.Render(conversationalGEvalTemplate, conversationalGEvalData{
		Name:       s.def.Name,
		Criteria:   s.def.Criteria,
		Steps:      prompt.NumberedList(s.def.Steps),
		Rubric:     renderRubric(s.def.Rubric),
		Transcript: prompt.Transcript(tc.ConversationTurns),
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
