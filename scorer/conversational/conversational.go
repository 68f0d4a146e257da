//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package conversational provides scorers judging whole conversations
// turn by turn.
package conversational

import (
	"errors"

	"trpc.group/trpc-go/trpc-eval-go/testcase"
)

// errNoAssistantTurns rejects conversations the per-turn scorers cannot
// grade.
var errNoAssistantTurns = errors.New("conversation has no assistant turns")

func assistantTurnCount(turns []testcase.Turn) int {
	n := 0
	for _, turn := range turns {
		if turn.Role == testcase.RoleAssistant {
			n++
		}
	}
	return n
}
