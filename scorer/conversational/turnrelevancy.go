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
	// turnRelevancyPrompt asks for one verdict per assistant turn.
	turnRelevancyPrompt = `You are judging whether each assistant turn in a conversation is relevant.

For each assistant turn decide:
* yes: the turn is relevant to the conversation up to that point
* no: the turn ignores or derails the conversation

Conversation:
{{.Transcript}}

There are {{.AssistantTurns}} assistant turns. Output exactly one block per assistant turn, in conversation order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	turnRelevancyTemplate = template.Must(template.New("turnRelevancy").Parse(turnRelevancyPrompt))
)

type turnRelevancyData struct {
	Transcript     string
	AssistantTurns int
}

type turnRelevancy struct {
	client judge.Client
	model  string
}

// NewTurnRelevancy returns a scorer measuring how relevant each assistant
// turn is to the preceding conversation.
func NewTurnRelevancy(c judge.Client, model string) scorer.Scorer {
	return &turnRelevancy{client: c, model: judge.ResolveModel(c, model)}
}

func (s *turnRelevancy) Name() string {
	return string(metric.TypeTurnRelevancy)
}

// Evaluate scores the fraction of assistant turns judged relevant.
func (s *turnRelevancy) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	turns := assistantTurnCount(tc.ConversationTurns)
	if turns == 0 {
		return nil, errNoAssistantTurns
	}
	user, err := prompt.Render(turnRelevancyTemplate, turnRelevancyData{
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
	relevant := judge.CountLabel(verdicts, judge.VerdictYes)
	reason := fmt.Sprintf("%d of %d assistant turns are relevant.", relevant, len(verdicts))
	if reasons := judge.Reasons(verdicts, judge.VerdictNo); len(reasons) > 0 {
		reason += " Irrelevant: " + strings.Join(reasons, "; ")
	}
	return &scorer.Result{
		Score:  float64(relevant) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
