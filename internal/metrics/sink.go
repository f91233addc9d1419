// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

// Package metrics defines the metrics recording boundary for the lifecycle
// service.
package metrics

// Sink defines the interface for recording metrics.
// All methods are fire-and-forget: implementations MUST NOT block or propagate
// errors. If the metrics backend is unavailable, implementations log warnings
// and continue.
type Sink interface {
	// Ingestion metrics
	WebhookEventReceived(platform, kind string)
	WebhookEventDuplicate(platform string)
	CorrelationMiss(platform string)

	// Lifecycle metrics
	StatusTransition(oldStatus, newStatus string)
	MeetingFinalized()
	SuspiciousDuration()

	// Delayed completion task metrics
	TaskScheduled()
	TaskCancelled()
	TaskFired()
	TaskStale()

	// Sweeper metrics
	SweepCompleted(expired int)
}
