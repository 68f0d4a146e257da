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
	// knowledgeRetentionPrompt asks for one verdict per assistant turn
	// against facts established earlier in the conversation.
	knowledgeRetentionPrompt = `You are judging whether an assistant retains knowledge across a conversation.

For each assistant turn decide:
* yes: the turn is consistent with facts established earlier in the conversation
* no: the turn forgets or contradicts previously established facts, or re-asks for information already given

Conversation:
{{.Transcript}}

There are {{.AssistantTurns}} assistant turns. Output exactly one block per assistant turn, in conversation order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	knowledgeRetentionTemplate = template.Must(template.New("knowledgeRetention").Parse(knowledgeRetentionPrompt))
)

type knowledgeRetentionData struct {
	Transcript     string
	AssistantTurns int
}

type knowledgeRetention struct {
	client judge.Client
	model  string
}

// NewKnowledgeRetention returns a scorer measuring whether the assistant
// retains facts established earlier in the conversation.
func NewKnowledgeRetention(c judge.Client, model string) scorer.Scorer {
	return &knowledgeRetention{client: c, model: judge.ResolveModel(c, model)}
}

func (s *knowledgeRetention) Name() string {
	return string(metric.TypeKnowledgeRetention)
}

// Evaluate scores the fraction of assistant turns that retain established
// facts.
func (s *knowledgeRetention) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	turns := assistantTurnCount(tc.ConversationTurns)
	if turns == 0 {
		return nil, errNoAssistantTurns
	}
	user, err := prompt.Render(knowledgeRetentionTemplate, knowledgeRetentionData{
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
	retained := judge.CountLabel(verdicts, judge.VerdictYes)
	reason := fmt.Sprintf("%d of %d assistant turns retain previously established facts.", retained, len(verdicts))
	if reasons := judge.Reasons(verdicts, judge.VerdictNo); len(reasons) > 0 {
		reason += " Lapses: " + strings.Join(reasons, "; ")
	}
	return &scorer.Result{
		Score:  float64(retained) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
