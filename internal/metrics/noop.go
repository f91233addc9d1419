// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package metrics

// NoopSink is a Sink implementation that discards all metrics.
// Used when metrics are disabled and as a safe default in tests.
type NoopSink struct{}

// NewNoopSink creates a new no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (s *NoopSink) WebhookEventReceived(platform, kind string)   {}
func (s *NoopSink) WebhookEventDuplicate(platform string)        {}
func (s *NoopSink) CorrelationMiss(platform string)              {}
func (s *NoopSink) StatusTransition(oldStatus, newStatus string) {}
func (s *NoopSink) MeetingFinalized()                            {}
func (s *NoopSink) SuspiciousDuration()                          {}
func (s *NoopSink) TaskScheduled()                               {}
func (s *NoopSink) TaskCancelled()                               {}
func (s *NoopSink) TaskFired()                                   {}
func (s *NoopSink) TaskStale()                                   {}
func (s *NoopSink) SweepCompleted(expired int)                   {}
