// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

// Package main is the meeting lifecycle service: it consumes provider webhook
// events off NATS, maintains per-meeting lifecycle records, and announces
// durably finalized meetings.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"

	"github.com/openconf/meeting-lifecycle-service/internal/handlers"
	"github.com/openconf/meeting-lifecycle-service/internal/infrastructure/messaging"
	"github.com/openconf/meeting-lifecycle-service/internal/logging"
	"github.com/openconf/meeting-lifecycle-service/internal/metrics"
	"github.com/openconf/meeting-lifecycle-service/internal/providers"
	"github.com/openconf/meeting-lifecycle-service/internal/service"
	"github.com/openconf/meeting-lifecycle-service/pkg/concurrent"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Metrics
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sink := metrics.NewPrometheusSink(promRegistry)

	// Initialize services
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	serviceConfig := service.ServiceConfig{
		MeetingRepository: repos.Meeting,
		EventRepository:   repos.Event,
		MessageBuilder:    messageBuilder,
		Metrics:           sink,
	}

	detector := service.NewCompletionDetector(sink)
	lifecycleService := service.NewLifecycleService(serviceConfig, detector)
	// The detector fires into the lifecycle service, which schedules on the
	// detector; the finalizer is attached after both exist.
	detector.SetFinalizer(lifecycleService)

	eventLogService := service.NewEventLogService(repos.Event, sink)
	correlationService := service.NewCorrelationService(repos.Meeting, sink)
	sweeperService := service.NewSweeperService(serviceConfig, concurrent.NewWorkerPool(env.WorkerCount))

	providerRegistry := providers.NewDefaultRegistry()

	// Initialize handlers
	webhookHandler := handlers.NewWebhookEventHandler(
		providerRegistry,
		eventLogService,
		correlationService,
		lifecycleService,
	)

	httpServer := setupHealthServer(flags, promRegistry, webhookHandler.HandlerReady, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubscriptions(ctx, webhookHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// The stale-meeting sweeper runs on a cron cadence.
	cronRunner := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err = cronRunner.AddFunc(env.SweepSchedule, func() {
		if _, sweepErr := sweeperService.SweepStaleMeetings(ctx); sweepErr != nil {
			slog.With(logging.ErrKey, sweepErr).Error("stale meeting sweep failed")
		}
	})
	if err != nil {
		slog.With(logging.ErrKey, err).Error("invalid sweep schedule")
		return
	}
	cronRunner.Start()
	slog.Info("stale meeting sweeper scheduled", "schedule", env.SweepSchedule)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	cronCtx := cronRunner.Stop()
	<-cronCtx.Done()
	detector.Stop()
	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}
