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
	"context"
	"fmt"
)

// AskVerdicts sends a prompt and parses the verdict list. When want is
// positive the judge must return exactly that many verdicts; a mismatch is
// treated as malformed judge output.
func AskVerdicts(ctx context.Context, c Client, model, system, user string, want int) ([]Verdict, error) {
	text, err := c.Complete(ctx, model, system, user)
	if err != nil {
		return nil, err
	}
	verdicts, err := ParseVerdicts(text)
	if err != nil {
		return nil, err
	}
	if want > 0 && len(verdicts) != want {
		return nil, fmt.Errorf("judge returned %d verdicts for %d items", len(verdicts), want)
	}
	return verdicts, nil
}

// AskScore sends a prompt and parses a normalized score with its reasoning.
func AskScore(ctx context.Context, c Client, model, system, user string) (float64, string, error) {
	text, err := c.Complete(ctx, model, system, user)
	if err != nil {
		return 0, "", err
	}
	return ParseScore(text)
}

// AskJudgment sends a prompt and parses a whole-output yes/no judgment.
func AskJudgment(ctx context.Context, c Client, model, system, user string) (string, string, error) {
	text, err := c.Complete(ctx, model, system, user)
	if err != nil {
		return "", "", err
	}
	return ParseJudgment(text)
}
