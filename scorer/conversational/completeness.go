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
	// completenessPrompt asks the judge to identify user intentions and
	// mark each as satisfied or not. The verdict count is the judge's.
	completenessPrompt = `You are judging whether a conversation satisfied the user's intentions.

First identify each distinct intention the user expresses in the conversation. Then for each intention decide:
* yes: the assistant satisfied the intention by the end of the conversation
* no: the intention was left unsatisfied

Conversation:
{{.Transcript}}

Output exactly one block per identified intention, in order of appearance:
verdict: [yes|no]
reason: [the intention and why it was or was not satisfied]
`
	completenessTemplate = template.Must(template.New("conversationCompleteness").Parse(completenessPrompt))
)

type completenessData struct {
	Transcript string
}

type completeness struct {
	client judge.Client
	model  string
}

// NewConversationCompleteness returns a scorer measuring whether the
// conversation satisfies the user's intentions.
func NewConversationCompleteness(c judge.Client, model string) scorer.Scorer {
	return &completeness{client: c, model: judge.ResolveModel(c, model)}
}

func (s *completeness) Name() string {
	return string(metric.TypeConversationCompleteness)
}

// Evaluate scores the fraction of user intentions the judge marks
// satisfied. The judge decides how many intentions the conversation holds.
func (s *completeness) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	if assistantTurnCount(tc.ConversationTurns) == 0 {
		return nil, errNoAssistantTurns
	}
	user, err := prompt.Render(completenessTemplate, completenessData{
		Transcript: prompt.Transcript(tc.ConversationTurns),
	})
	if err != nil {
		return nil, err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, 0)
	if err != nil {
		return nil, err
	}
	satisfied := judge.CountLabel(verdicts, judge.VerdictYes)
	reason := fmt.Sprintf("%d of %d user intentions are satisfied.", satisfied, len(verdicts))
	if reasons := judge.Reasons(verdicts, judge.VerdictNo); len(reasons) > 0 {
		reason += " Unsatisfied: " + strings.Join(reasons, "; ")
	}
	return &scorer.Result{
		Score:  float64(satisfied) / float64(len(verdicts)),
		Reason: reason,
		Model:  s.model,
	}, nil
}
