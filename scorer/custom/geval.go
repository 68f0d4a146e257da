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
	// gevalPrompt grades one interaction against the caller's definition.
	gevalPrompt = `You are grading a model interaction against a caller-defined metric{{if .Name}} named "{{.Name}}"{{end}}.
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
Interaction:
{{.Fields}}

Grade on a 0-10 scale. Output exactly two lines:
reasoning: [why you graded it this way]
score: [0-10]
`
	gevalTemplate = template.Must(template.New("geval").Parse(gevalPrompt))
)

type gevalData struct {
	Name     string
	Criteria string
	Steps    string
	Rubric   string
	Fields   string
}

type geval struct {
	client judge.Client
	model  string
	def    *Definition
}

// NewGEval returns a scorer grading test cases against a caller-defined
// metric definition.
func NewGEval(c judge.Client, model string, def *Definition) scorer.Scorer {
	return &geval{client: c, model: judge.ResolveModel(c, model), def: def}
}

func (s *geval) Name() string {
	return string(metric.TypeGEval)
}

// Evaluate grades the selected test case fields on the anchored 0-10 scale
// normalized to [0, 1].
func (s *geval) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	user, err := prompt.Render(gevalTemplate, gevalData{
		Name:     s.def.Name,
		Criteria: s.def.Criteria,
		Steps:    prompt.NumberedList(s.def.Steps),
		Rubric:   renderRubric(s.def.Rubric),
		Fields:   renderFields(tc, s.def.Fields),
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
