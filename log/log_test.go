//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

package log_test

import (
	"context"
	"testing"

	"trpc.group/trpc-go/trpc-eval-go/log"
)

func TestLog(t *testing.T) {
	original := log.Default
	defer func() {
		log.Default = original
	}()
	log.Default = &noopLogger{}
	log.Debug("test")
	log.Debugf("test")
	log.Info("test")
	log.Infof("test")
	log.Warn("test")
	log.Warnf("test")
	log.Error("test")
	log.Errorf("test")
	log.Fatal("test")
	log.Fatalf("test")
}

func TestContextHelpersUseContextDefault(t *testing.T) {
	ctx := context.Background()

	original := log.ContextDefault
	defer func() {
		log.ContextDefault = original
	}()

	logger := &countLogger{}
	log.ContextDefault = logger

	log.InfoContext(ctx, "test")
	log.InfofContext(ctx, "test %d", 1)
	log.WarnContext(ctx, "test")
	log.ErrorContext(ctx, "test")

	if logger.infoCalls != 2 {
		t.Fatalf("expected infoCalls=2, got %d", logger.infoCalls)
	}
	if logger.warnCalls != 1 {
		t.Fatalf("expected warnCalls=1, got %d", logger.warnCalls)
	}
	if logger.errorCalls != 1 {
		t.Fatalf("expected errorCalls=1, got %d", logger.errorCalls)
	}
}

func TestTracefRespectsFlag(t *testing.T) {
	original := log.Default
	defer func() {
		log.Default = original
		log.SetTraceEnabled(false)
	}()

	logger := &countLogger{}
	log.Default = logger

	log.Tracef("suppressed")
	if logger.debugCalls != 0 {
		t.Fatalf("expected no debug calls, got %d", logger.debugCalls)
	}

	log.SetTraceEnabled(true)
	log.Tracef("emitted")
	if logger.debugCalls != 1 {
		t.Fatalf("expected debugCalls=1, got %d", logger.debugCalls)
	}
}

type noopLogger struct{}

func (*noopLogger) Debug(args ...any)                 {}
func (*noopLogger) Debugf(format string, args ...any) {}
func (*noopLogger) Info(args ...any)                  {}
func (*noopLogger) Infof(format string, args ...any)  {}
func (*noopLogger) Warn(args ...any)                  {}
func (*noopLogger) Warnf(format string, args ...any)  {}
func (*noopLogger) Error(args ...any)                 {}
func (*noopLogger) Errorf(format string, args ...any) {}
func (*noopLogger) Fatal(args ...any)                 {}
func (*noopLogger) Fatalf(format string, args ...any) {}

type countLogger struct {
	debugCalls int
	infoCalls  int
	warnCalls  int
	errorCalls int
}

func (l *countLogger) Debug(args ...any)                 { l.debugCalls++ }
func (l *countLogger) Debugf(format string, args ...any) { l.debugCalls++ }
func (l *countLogger) Info(args ...any)                  { l.infoCalls++ }
func (l *countLogger) Infof(format string, args ...any)  { l.infoCalls++ }
func (l *countLogger) Warn(args ...any)                  { l.warnCalls++ }
func (l *countLogger) Warnf(format string, args ...any)  { l.warnCalls++ }
func (l *countLogger) Error(args ...any)                 { l.errorCalls++ }
func (l *countLogger) Errorf(format string, args ...any) { l.errorCalls++ }
func (l *countLogger) Fatal(args ...any)                 {}
func (l *countLogger) Fatalf(format string, args ...any) {}
