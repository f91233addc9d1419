// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
	"github.com/openconf/meeting-lifecycle-service/internal/metrics"
)

// EventLogService records normalized webhook events and deduplicates
// redeliveries by (platform, event ID).
type EventLogService struct {
	eventRepository domain.EventRepository
	metrics         metrics.Sink
}

// NewEventLogService creates a new event log service.
func NewEventLogService(eventRepository domain.EventRepository, sink metrics.Sink) *EventLogService {
	return &EventLogService{
		eventRepository: eventRepository,
		metrics:         sink,
	}
}

// ServiceReady checks if the service is ready to use.
func (s *EventLogService) ServiceReady() bool {
	return s.eventRepository != nil
}

// RecordEvent persists the event if it has not been seen before. The insert is
// a create-only write, so concurrent deliveries of the same event race safely:
// exactly one caller observes isNew == true. The returned event is the stored
// record, which for a duplicate is the original delivery, not the new one.
func (s *EventLogService) RecordEvent(ctx context.Context, event *models.CanonicalEvent) (*models.StoredEvent, bool, error) {
	if !s.ServiceReady() {
		return nil, false, domain.NewUnavailableError("event log service not ready")
	}

	stored := &models.StoredEvent{
		CanonicalEvent: *event,
		ReceivedAt:     time.Now().UTC(),
	}

	err := s.eventRepository.Create(ctx, stored)
	if err == nil {
		s.metrics.WebhookEventReceived(event.Platform, string(event.Kind))
		return stored, true, nil
	}

	if domain.GetErrorType(err) != domain.ErrorTypeConflict {
		return nil, false, err
	}

	existing, getErr := s.eventRepository.Get(ctx, event.Platform, event.EventID)
	if getErr != nil {
		return nil, false, getErr
	}

	slog.DebugContext(ctx, "duplicate webhook delivery short-circuited",
		"platform", event.Platform,
		"event_id", event.EventID,
	)
	s.metrics.WebhookEventDuplicate(event.Platform)

	return existing, false, nil
}
