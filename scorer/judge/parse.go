//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package judge

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Verdict labels the judge is instructed to emit for each checked item.
const (
	VerdictYes = "yes"
	VerdictNo  = "no"
	VerdictIdk = "idk"
)

// Verdict is one judged item from a verdict-list response.
type Verdict struct {
	Label  string
	Reason string
}

// verdictBlockRegex extracts verdict and reason pairs from a judge response.
// The reason line is optional; list markers before the label are tolerated.
var verdictBlockRegex = regexp.MustCompile(
	`(?mi)^[ \t]*(?:[-*]|\d+[.)])?[ \t]*verdict:[ \t]*(yes|no|idk)\b.*` + // 1: verdict label
		`(?:\n[ \t]*reason:[ \t]*(.*))?`, // 2: optional reason text
)

// scoreBlockRegex extracts the reasoning and numeric score from the judge response.
var scoreBlockRegex = regexp.MustCompile(
	`(?msi)reasoning:\s*(.*?)\s*` + // 1: reasoning text
		`score:\s*([0-9]+(?:\.[0-9]+)?)`, // 2: numeric score
)

// judgmentBlockRegex extracts the reasoning and final verdict from a
// whole-output judgment response.
var judgmentBlockRegex = regexp.MustCompile(
	`(?msi)reasoning:\s*(.*?)\s*` + // 1: reasoning text
		`verdict:\s*(yes|no)\b`, // 2: verdict label
)

// ParseVerdicts extracts the ordered verdict list from a judge response.
func ParseVerdicts(text string) ([]Verdict, error) {
	matches := verdictBlockRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no verdicts found in judge response")
	}
	verdicts := make([]Verdict, 0, len(matches))
	for _, m := range matches {
		verdicts = append(verdicts, Verdict{
			Label:  strings.ToLower(strings.TrimSpace(m[1])),
			Reason: strings.TrimSpace(m[2]),
		})
	}
	return verdicts, nil
}

// ParseScore extracts a reasoning text and a 0-10 score from a judge
// response and normalizes the score to [0, 1].
func ParseScore(text string) (float64, string, error) {
	matches := scoreBlockRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, "", fmt.Errorf("no score block found in judge response")
	}
	reasoning := strings.TrimSpace(matches[0][1])
	raw, err := strconv.ParseFloat(strings.TrimSpace(matches[0][2]), 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse judge score: %w", err)
	}
	score := raw / 10
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, reasoning, nil
}

// ParseJudgment extracts the reasoning and yes/no verdict from a
// whole-output judgment response.
func ParseJudgment(text string) (string, string, error) {
	matches := judgmentBlockRegex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", "", fmt.Errorf("no judgment block found in judge response")
	}
	reasoning := strings.TrimSpace(matches[0][1])
	label := strings.ToLower(strings.TrimSpace(matches[0][2]))
	return label, reasoning, nil
}

// CountLabel reports how many verdicts carry the given label.
func CountLabel(verdicts []Verdict, label string) int {
	n := 0
	for _, v := range verdicts {
		if v.Label == label {
			n++
		}
	}
	return n
}

// Reasons collects the non-empty reasons of verdicts carrying the given
// label, for score explanations built without a second judge call.
func Reasons(verdicts []Verdict, label string) []string {
	var out []string
	for _, v := range verdicts {
		if v.Label == label && v.Reason != "" {
			out = append(out, v.Reason)
		}
	}
	return out
}
