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
	"text/template"

	"trpc.group/trpc-go/trpc-eval-go/internal/statement"
	"trpc.group/trpc-go/trpc-eval-go/metric"
	"trpc.group/trpc-go/trpc-eval-go/scorer"
	"trpc.group/trpc-go/trpc-eval-go/scorer/internal/prompt"
	"trpc.group/trpc-go/trpc-eval-go/scorer/judge"
	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

var (
	// summarizationAlignmentPrompt checks summary claims against the source.
	summarizationAlignmentPrompt = `You are judging whether a summary stays truthful to its source text.

The summary has been split into numbered claims. For each claim decide:
* yes: the claim is supported by the source text
* no: the claim contradicts or is absent from the source text

Source text:
{{.Source}}

Summary claims:
{{.Claims}}

Output exactly one block per claim, in order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	summarizationAlignmentTemplate = template.Must(
		template.New("summarizationAlignment").Parse(summarizationAlignmentPrompt))

	// summarizationCoveragePrompt checks the summary answers the same
	// assessment questions as the source.
	summarizationCoveragePrompt = `You are judging whether a summary preserves the information needed to answer key questions about its source text.

For each question decide:
* yes: the summary answers the question the same way the source text does
* no: the summary lacks the information or answers differently

Source text:
{{.Source}}

Summary:
{{.Summary}}

Questions:
{{.Questions}}

Output exactly one block per question, in order:
verdict: [yes|no]
reason: [one line explaining the verdict]
`
	summarizationCoverageTemplate = template.Must(
		template.New("summarizationCoverage").Parse(summarizationCoveragePrompt))
)

type summarizationAlignmentData struct {
	Source string
	Claims string
}

type summarizationCoverageData struct {
	Source    string
	Summary   string
	Questions string
}

type summarization struct {
	client    judge.Client
	model     string
	questions []string
}

// NewSummarization returns a scorer measuring summary quality as the worse
// of claim alignment and, when assessment questions are configured,
// information coverage.
func NewSummarization(c judge.Client, model string, questions []string) scorer.Scorer {
	return &summarization{client: c, model: judge.ResolveModel(c, model), questions: questions}
}

func (s *summarization) Name() string {
	return string(metric.TypeSummarization)
}

// Evaluate runs the alignment check and, when questions are configured, the
// coverage check; the final score is the minimum of the two.
func (s *summarization) Evaluate(ctx context.Context, tc *testcase.TestCase) (*scorer.Result, error) {
	alignment, alignReason, err := s.alignmentScore(ctx, tc)
	if err != nil {
		return nil, err
	}
	if len(s.questions) == 0 {
		return &scorer.Result{Score: alignment, Reason: alignReason, Model: s.model}, nil
	}
	coverage, coverReason, err := s.coverageScore(ctx, tc)
	if err != nil {
		return nil, err
	}
	score := alignment
	if coverage < alignment {
		score = coverage
	}
	return &scorer.Result{
		Score:  score,
		Reason: alignReason + " " + coverReason,
		Model:  s.model,
	}, nil
}

func (s *summarization) alignmentScore(ctx context.Context, tc *testcase.TestCase) (float64, string, error) {
	claims, err := statement.Split(tc.ActualOutput)
	if err != nil {
		return 0, "", fmt.Errorf("split summary: %w", err)
	}
	user, err := prompt.Render(summarizationAlignmentTemplate, summarizationAlignmentData{
		Source: tc.Input,
		Claims: prompt.NumberedList(claims),
	})
	if err != nil {
		return 0, "", err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, len(claims))
	if err != nil {
		return 0, "", err
	}
	supported := judge.CountLabel(verdicts, judge.VerdictYes)
	reason := fmt.Sprintf("%d of %d summary claims are supported by the source.", supported, len(verdicts))
	return float64(supported) / float64(len(verdicts)), reason, nil
}

func (s *summarization) coverageScore(ctx context.Context, tc *testcase.TestCase) (float64, string, error) {
	user, err := prompt.Render(summarizationCoverageTemplate, summarizationCoverageData{
		Source:    tc.Input,
		Summary:   tc.ActualOutput,
		Questions: prompt.NumberedList(s.questions),
	})
	if err != nil {
		return 0, "", err
	}
	verdicts, err := judge.AskVerdicts(ctx, s.client, s.model, prompt.System, user, len(s.questions))
	if err != nil {
		return 0, "", err
	}
	answered := judge.CountLabel(verdicts, judge.VerdictYes)
	reason := fmt.Sprintf("The summary answers %d of %d assessment questions.", answered, len(verdicts))
	return float64(answered) / float64(len(verdicts)), reason, nil
}
