// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package metrics

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using the Prometheus client library.
// All methods are non-blocking and fire-and-forget. Registration errors are
// logged but never propagated.
type PrometheusSink struct {
	webhookEventsTotal    *prometheus.CounterVec
	webhookDuplicateTotal *prometheus.CounterVec
	correlationMissTotal  *prometheus.CounterVec

	statusTransitionsTotal *prometheus.CounterVec
	meetingsFinalizedTotal prometheus.Counter
	suspiciousDurations    prometheus.Counter

	tasksScheduledTotal prometheus.Counter
	tasksCancelledTotal prometheus.Counter
	tasksFiredTotal     prometheus.Counter
	tasksStaleTotal     prometheus.Counter

	sweepsTotal          prometheus.Counter
	meetingsExpiredTotal prometheus.Counter
}

// NewPrometheusSink creates a new Prometheus metrics sink registered on reg.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		webhookEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecycle_webhook_events_total",
			Help: "Total number of webhook events ingested, by platform and canonical kind.",
		}, []string{"platform", "kind"}),
		webhookDuplicateTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecycle_webhook_events_duplicate_total",
			Help: "Total number of duplicate webhook deliveries short-circuited by the event log.",
		}, []string{"platform"}),
		correlationMissTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecycle_correlation_miss_total",
			Help: "Total number of events dropped because no meeting record matched.",
		}, []string{"platform"}),
		statusTransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lifecycle_status_transitions_total",
			Help: "Total number of lifecycle state transitions applied.",
		}, []string{"from", "to"}),
		meetingsFinalizedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifecycle_meetings_finalized_total",
			Help: "Total number of meetings durably finalized.",
		}),
		suspiciousDurations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifecycle_suspicious_durations_total",
			Help: "Total number of accumulated durations flagged as implausible.",
		}),
		tasksScheduledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifecycle_completion_tasks_scheduled_total",
			Help: "Total number of delayed completion checks scheduled.",
		}),
		tasksCancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifecycle_completion_tasks_cancelled_total",
			Help: "Total number of delayed completion checks cancelled before firing.",
		}),
		tasksFiredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifecycle_completion_tasks_fired_total",
			Help: "Total number of delayed completion checks that fired.",
		}),
		tasksStaleTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifecycle_completion_tasks_stale_total",
			Help: "Total number of fired checks discarded because a newer task superseded them.",
		}),
		sweepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifecycle_sweeps_total",
			Help: "Total number of stale-meeting sweep passes.",
		}),
		meetingsExpiredTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lifecycle_meetings_expired_total",
			Help: "Total number of never-started meetings expired by the sweeper.",
		}),
	}

	for name, collector := range map[string]prometheus.Collector{
		"lifecycle_webhook_events_total":           s.webhookEventsTotal,
		"lifecycle_webhook_events_duplicate_total": s.webhookDuplicateTotal,
		"lifecycle_correlation_miss_total":         s.correlationMissTotal,
		"lifecycle_status_transitions_total":       s.statusTransitionsTotal,
		"lifecycle_meetings_finalized_total":       s.meetingsFinalizedTotal,
		"lifecycle_suspicious_durations_total":     s.suspiciousDurations,
		"lifecycle_completion_tasks_scheduled_total": s.tasksScheduledTotal,
		"lifecycle_completion_tasks_cancelled_total": s.tasksCancelledTotal,
		"lifecycle_completion_tasks_fired_total":     s.tasksFiredTotal,
		"lifecycle_completion_tasks_stale_total":     s.tasksStaleTotal,
		"lifecycle_sweeps_total":                     s.sweepsTotal,
		"lifecycle_meetings_expired_total":           s.meetingsExpiredTotal,
	} {
		if err := reg.Register(collector); err != nil {
			slog.Warn("failed to register metric, continuing without it", "metric", name, "error", err)
		}
	}

	return s
}

func (s *PrometheusSink) WebhookEventReceived(platform, kind string) {
	s.webhookEventsTotal.WithLabelValues(platform, kind).Inc()
}

func (s *PrometheusSink) WebhookEventDuplicate(platform string) {
	s.webhookDuplicateTotal.WithLabelValues(platform).Inc()
}

func (s *PrometheusSink) CorrelationMiss(platform string) {
	s.correlationMissTotal.WithLabelValues(platform).Inc()
}

func (s *PrometheusSink) StatusTransition(oldStatus, newStatus string) {
	s.statusTransitionsTotal.WithLabelValues(oldStatus, newStatus).Inc()
}

func (s *PrometheusSink) MeetingFinalized() {
	s.meetingsFinalizedTotal.Inc()
}

func (s *PrometheusSink) SuspiciousDuration() {
	s.suspiciousDurations.Inc()
}

func (s *PrometheusSink) TaskScheduled() {
	s.tasksScheduledTotal.Inc()
}

func (s *PrometheusSink) TaskCancelled() {
	s.tasksCancelledTotal.Inc()
}

func (s *PrometheusSink) TaskFired() {
	s.tasksFiredTotal.Inc()
}

func (s *PrometheusSink) TaskStale() {
	s.tasksStaleTotal.Inc()
}

func (s *PrometheusSink) SweepCompleted(expired int) {
	s.sweepsTotal.Inc()
	s.meetingsExpiredTotal.Add(float64(expired))
}
