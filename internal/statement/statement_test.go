//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package statement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMultipleSentences(t *testing.T) {
	statements, err := Split("Solar power is renewable. It reduces emissions. Dr. Smith agrees.")
	require.NoError(t, err)
	require.Len(t, statements, 3)
	assert.Equal(t, "Solar power is renewable.", statements[0])
	assert.Equal(t, "It reduces emissions.", statements[1])
	assert.Equal(t, "Dr. Smith agrees.", statements[2])
}

func TestSplitEmpty(t *testing.T) {
	statements, err := Split("   \n\t ")
	require.NoError(t, err)
	assert.Empty(t, statements)
}

func TestSplitNoTerminalPunctuation(t *testing.T) {
	statements, err := Split("a bare fragment without punctuation")
	require.NoError(t, err)
	require.Len(t, statements, 1)
	assert.Equal(t, "a bare fragment without punctuation", statements[0])
}
