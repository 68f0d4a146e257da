//
// Tencent is pleased to support the open source community by making trpc-eval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-eval-go is licensed under the Apache License Version 2.0.
//
//

// Command trpc-eval-go runs the LLM evaluation HTTP service.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trpc.group/trpc-go/trpc-eval-go/log"
	"trpc.group/trpc-go/trpc-eval-go/orchestrator"
	"trpc.group/trpc-go/trpc-eval-go/scorer/factory"
	"trpc.group/trpc-go/trpc-eval-go/scorer/judge"
	"trpc.group/trpc-go/trpc-eval-go/server"
	ametric "trpc.group/trpc-go/trpc-eval-go/telemetry/metric"
	atrace "trpc.group/trpc-go/trpc-eval-go/telemetry/trace"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		addr              = flag.String("addr", envOr("EVAL_ADDR", server.DefaultAddr), "listen address")
		logLevel          = flag.String("log-level", envOr("EVAL_LOG_LEVEL", log.LevelInfo), "log level: debug, info, warn, error, fatal")
		apiKeys           = flag.String("api-keys", os.Getenv("EVAL_API_KEYS"), "comma-separated accepted X-API-Key values")
		jwtSecret         = flag.String("jwt-secret", os.Getenv("EVAL_JWT_SECRET"), "HMAC secret enabling bearer token auth")
		judgeModel        = flag.String("judge-model", envOr("EVAL_JUDGE_MODEL", judge.DefaultModel), "default judge model")
		judgeBaseURL      = flag.String("judge-base-url", os.Getenv("OPENAI_BASE_URL"), "OpenAI-compatible judge endpoint")
		metricTimeout     = flag.Duration("metric-timeout", orchestrator.DefaultMetricTimeout, "per-metric evaluation timeout")
		metricParallelism = flag.Int("metric-parallelism", 0, "concurrent metrics per request; <=1 evaluates sequentially")
		bulkConcurrency   = flag.Int("bulk-concurrency", orchestrator.DefaultBulkConcurrency, "concurrent test cases per bulk request")
		jobWorkers        = flag.Int("job-workers", 0, "concurrent asynchronous jobs; <=0 uses the default")
		otlpEndpoint      = flag.String("telemetry-endpoint", os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), "OTLP collector endpoint; empty disables telemetry export")
		otlpProtocol      = flag.String("telemetry-protocol", "grpc", "OTLP protocol: grpc or http")
	)
	flag.Parse()
	log.SetLevel(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *otlpEndpoint != "" {
		cleanTrace, err := atrace.Start(ctx,
			atrace.WithEndpoint(*otlpEndpoint),
			atrace.WithProtocol(*otlpProtocol),
			atrace.WithServiceName(server.ServiceName),
			atrace.WithServiceVersion(server.ServiceVersion),
		)
		if err != nil {
			log.Fatalf("start trace exporter: %v", err)
		}
		defer func() {
			if err := cleanTrace(); err != nil {
				log.Errorf("stop trace exporter: %v", err)
			}
		}()

		meterProvider, err := ametric.NewMeterProvider(ctx,
			ametric.WithEndpoint(*otlpEndpoint),
			ametric.WithProtocol(*otlpProtocol),
			ametric.WithServiceName(server.ServiceName),
			ametric.WithServiceVersion(server.ServiceVersion),
		)
		if err != nil {
			log.Fatalf("start meter provider: %v", err)
		}
		if err := ametric.InitMeterProvider(meterProvider); err != nil {
			log.Fatalf("init meter provider: %v", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := meterProvider.Shutdown(shutdownCtx); err != nil {
				log.Errorf("stop meter provider: %v", err)
			}
		}()
	}

	judgeClient := judge.New(judge.Options{
		Model:   *judgeModel,
		BaseURL: *judgeBaseURL,
		APIKey:  os.Getenv("OPENAI_API_KEY"),
	})

	orchOpts := []orchestrator.Option{orchestrator.WithMetricTimeout(*metricTimeout)}
	if *metricParallelism > 1 {
		orchOpts = append(orchOpts, orchestrator.WithParallelMetrics(*metricParallelism))
	}
	orch, err := orchestrator.New(factory.New(judgeClient), orchOpts...)
	if err != nil {
		log.Fatalf("create orchestrator: %v", err)
	}
	defer orch.Close()

	srv, err := server.New(orch,
		server.WithAddress(*addr),
		server.WithAPIKeys(splitKeys(*apiKeys)),
		server.WithJWTSecret(*jwtSecret),
		server.WithJobWorkers(*jobWorkers),
		server.WithBulkConcurrency(*bulkConcurrency),
	)
	if err != nil {
		log.Fatalf("create server: %v", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown server: %v", err)
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func splitKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
