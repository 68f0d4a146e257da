//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package conversational

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
	// roleAdherencePrompt asks for one verdict per assistant turn against
	// the assigned role.
	roleAdherencePrompt = `You are judging whether an assistant stays in its assigned role.

The assistant's assigned role is: {{.Role}}

For each assistant turn decide:
* yes: the turn stays within the assigned role
* no: the turn steps outside the assigned role

Conversation:
{{.Transcript}}

There are {{.AssistantTurns}} assistant turns. Output exactly one block per assistant turn, in conversation order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	roleAdherenceTemplate = template.Must(template.New("roleAdherence").Parse(roleAdherencePrompt))
)

type roleAdherenceData struct {
	Role           string
	Transcript     string
	AssistantTurns int
}

type roleAdherence struct {
	client judge.Client
	model  string
	role   string
}

// NewRoleAdherence returns a scorer measuring whether the assistant stays
// in the given role across the conversation.
func NewRoleAdherence(c judge.Client, model, role string) scorer.Scorer {
	return &roleAdherence{client: c, model: judge.ResolveModel(c, model), role: role}
}

func (s *roleAdherence) Name() string {
	return string(metric.TypeRoleAdherence)
}

// Evaluate scores the fraction of assistant turns that stay in role.
func (s *roleAdherence) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	turns := assistantTurnCount(tc.ConversationTurns)
	if turns == 0 {
		return nil, errNoAssistantTurns
	}
	user, err := prompt.Render(roleAdherenceTemplate, roleAdherenceData{
		Role:           s.role,
		Transcript:     prompt.Transcript(tc.ConversationTurns),
		AssistantTurns: turns,
	})
	if err != nil {
		return nil, err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, turns)
	if err != nil {
		return nil, err
	}
	inRole := judge.CountLabel(verdicts, judge.VerdictYes)
	reason := fmt.Sprintf("%d of %d assistant turns stay in the %s role.", inRole, len(verdicts), s.role)
	if reasons := judge.Reasons(verdicts, judge.VerdictNo); len(reasons) > 0 {
		reason += " Out of role: " + strings.Join(reasons, "; ")
	}
	return &scorer.Result{
		Score:  float64(inRole) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
