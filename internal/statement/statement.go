//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package statement splits free-form model output into individual statements
// so that judge prompts can request one verdict per statement.
package statement

import (
	"fmt"
	"strings"
	"sync"

	"github.com/neurosnap/sentences"
	sentencesdata "github.com/neurosnap/sentences/data"
)

var (
	// tokenizerOnce ensures the Punkt model is loaded once.
	tokenizerOnce sync.Once
	// tokenizer holds the initialized sentence tokenizer instance.
	tokenizer *sentences.DefaultSentenceTokenizer
	// tokenizerErr caches any initialization error.
	tokenizerErr error
)

func englishTokenizer() (*sentences.DefaultSentenceTokenizer, error) {
	tokenizerOnce.Do(func() {
		b, err := sentencesdata.Asset("data/english.json")
		if err != nil {
			tokenizerErr = fmt.Errorf("load english punkt data: %w", err)
			return
		}
		training, err := sentences.LoadTraining(b)
		if err != nil {
			tokenizerErr = fmt.Errorf("parse english punkt data: %w", err)
			return
		}
		tokenizer = sentences.NewSentenceTokenizer(training)
	})
	if tokenizerErr != nil {
		return nil, tokenizerErr
	}
	return tokenizer, nil
}

// Split breaks text into trimmed, non-empty statements using Punkt sentence
// segmentation. Text that yields no sentence boundaries comes back as a
// single statement so callers always have at least one statement to judge
// for non-blank input.
func Split(text string) ([]string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	tok, err := englishTokenizer()
	if err != nil {
		return nil, err
	}
	raw := tok.Tokenize(trimmed)
	out := make([]string, 0, len(raw))
	for _, sent := range raw {
		s := strings.TrimSpace(sent.Text)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		out = append(out, trimmed)
	}
	return out, nil
}
