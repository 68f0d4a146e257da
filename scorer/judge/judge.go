//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Package judge provides the LLM client used by model-graded scorers.
package judge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	itelemetry "trpc.group/trpc-go/trpc-eval-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-eval-go/telemetry/trace"
)

// DefaultModel is the judge model used when neither the service
// configuration nor the metric request names one.
const DefaultModel = "gpt-4o-mini"

// defaultMaxCompletionTokens caps judge responses; verdict lists and score
// blocks fit comfortably below it.
const defaultMaxCompletionTokens = 2048

// Options configures the judge model client.
type Options struct {
	// Model is the default judge model; metric requests may override it.
	Model string `json:"model,omitempty"`
	// BaseURL is an optional OpenAI-compatible endpoint.
	BaseURL string `json:"baseURL,omitempty"`
	// APIKey authenticates against the judge provider.
	APIKey string `json:"apiKey,omitempty"`
	// Temperature overrides the sampling temperature. Judging defaults to 0.
	Temperature *float64 `json:"temperature,omitempty"`
	// MaxCompletionTokens caps the judge response length.
	MaxCompletionTokens int `json:"maxCompletionTokens,omitempty"`
}

// MarshalJSON omits APIKey from JSON output while still allowing JSON input
// to populate it.
func (o Options) MarshalJSON() ([]byte, error) {
	type optionsAlias Options
	alias := optionsAlias(o)
	alias.APIKey = ""
	return json.Marshal(alias)
}

// UnmarshalJSON expands environment variables for Model, BaseURL and APIKey,
// so config files can carry "${OPENAI_API_KEY}" instead of secrets.
func (o *Options) UnmarshalJSON(data []byte) error {
	type optionsAlias Options
	var alias optionsAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	alias.Model = os.ExpandEnv(alias.Model)
	alias.BaseURL = os.ExpandEnv(alias.BaseURL)
	alias.APIKey = os.ExpandEnv(alias.APIKey)
	*o = Options(alias)
	return nil
}

// Client is the completion surface model-graded scorers depend on.
type Client interface {
	// Complete sends one system and user message pair to the named model
	// and returns the raw completion text.
	Complete(ctx context.Context, model, system, user string) (string, error)
	// DefaultModel reports the model used when a metric names none.
	DefaultModel() string
}

// Judge wraps an OpenAI-compatible chat completion client for scoring.
type Judge struct {
	client              openai.Client
	model               string
	temperature         float64
	maxCompletionTokens int
}

var _ Client = (*Judge)(nil)

// New constructs a judge client. When no API key is configured the
// underlying client falls back to the OPENAI_API_KEY environment variable.
func New(opts Options) *Judge {
	var clientOpts []openaiopt.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(opts.BaseURL))
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	temperature := 0.0
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := opts.MaxCompletionTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxCompletionTokens
	}
	return &Judge{
		client:              openai.NewClient(clientOpts...),
		model:               model,
		temperature:         temperature,
		maxCompletionTokens: maxTokens,
	}
}

// DefaultModel reports the configured default judge model.
func (j *Judge) DefaultModel() string {
	return j.model
}

// Complete sends one system and user message pair and returns the raw
// completion text. An empty model falls back to the configured default.
func (j *Judge) Complete(ctx context.Context, model, system, user string) (string, error) {
	if model == "" {
		model = j.model
	}
	ctx, span := trace.Tracer.Start(ctx, itelemetry.NewChatSpanName(model))
	defer span.End()
	span.SetAttributes(
		attribute.String(itelemetry.KeyGenAIOperationName, itelemetry.OperationChat),
		attribute.String(itelemetry.KeyGenAIRequestModel, model),
	)

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature:         openai.Float(j.temperature),
		MaxCompletionTokens: openai.Int(int64(j.maxCompletionTokens)),
	}
	resp, err := j.client.Chat.Completions.New(ctx, params)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("judge completion: %w", err)
	}
	itelemetry.RecordJudgeChat(ctx, model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	span.SetAttributes(
		attribute.String(itelemetry.KeyGenAIResponseModel, resp.Model),
		attribute.Int64(itelemetry.KeyGenAIUsageInputTokens, resp.Usage.PromptTokens),
		attribute.Int64(itelemetry.KeyGenAIUsageOutputTokens, resp.Usage.CompletionTokens),
	)
	if len(resp.Choices) == 0 {
		return "", errors.New("judge returned no choices")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", errors.New("judge returned empty content")
	}
	return content, nil
}

// ResolveModel picks the judge model for a metric: the requested model when
// set, otherwise the client default.
func ResolveModel(c Client, requested string) string {
	if requested != "" {
		return requested
	}
	return c.DefaultModel()
}
