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
	"github.com/openconf/meeting-lifecycle-service/pkg/constants"
)

// CorrelationService resolves a normalized event to the meeting record it
// belongs to.
type CorrelationService struct {
	meetingRepository domain.MeetingRepository
	metrics           metrics.Sink
	// now is injectable for tests.
	now func() time.Time
}

// NewCorrelationService creates a new correlation service.
func NewCorrelationService(meetingRepository domain.MeetingRepository, sink metrics.Sink) *CorrelationService {
	return &CorrelationService{
		meetingRepository: meetingRepository,
		metrics:           sink,
		now:               time.Now,
	}
}

// ServiceReady checks if the service is ready to use.
func (s *CorrelationService) ServiceReady() bool {
	return s.meetingRepository != nil
}

// Resolve finds the meeting the event belongs to. The stable platform meeting
// ID takes precedence when the event carries one; otherwise the display number
// is matched against meetings created within the correlation window, most
// recent first. Events that match nothing return a not-found error; callers
// drop them since webhooks for unknown meetings carry no record to update.
func (s *CorrelationService) Resolve(ctx context.Context, event *models.CanonicalEvent) (*models.Meeting, uint64, error) {
	if !s.ServiceReady() {
		return nil, 0, domain.NewUnavailableError("correlation service not ready")
	}

	if event.PlatformMeetingID != "" {
		meeting, err := s.meetingRepository.GetByPlatformMeetingID(ctx, event.Platform, event.PlatformMeetingID)
		if err == nil {
			// Re-read by UID to obtain the revision for optimistic updates.
			return s.meetingRepository.GetWithRevision(ctx, meeting.UID)
		}
		if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return nil, 0, err
		}
		// Fall through to the display-number path: some platforms emit the
		// stable ID only on a subset of event types.
	}

	if event.DisplayNumber == "" {
		s.metrics.CorrelationMiss(event.Platform)
		return nil, 0, domain.NewNotFoundError("no meeting matches event")
	}

	// The window anchors on the event's occurrence time so a delayed
	// redelivery still matches the records that were live when it happened.
	reference := event.OccurredAt.UTC()
	if reference.IsZero() {
		reference = s.now().UTC()
	}
	candidates, err := s.meetingRepository.ListByDisplayNumber(ctx, event.DisplayNumber, reference.Add(-constants.CorrelationWindow), reference)
	if err != nil {
		return nil, 0, err
	}

	var best *models.Meeting
	for _, candidate := range candidates {
		if candidate.Platform != event.Platform {
			continue
		}
		if candidate.Status == models.MeetingStatusCancelled || candidate.Status == models.MeetingStatusExpired {
			continue
		}
		if best == nil || createdMoreRecently(candidate, best) {
			best = candidate
		}
	}

	if best == nil {
		slog.DebugContext(ctx, "no meeting matched display number within correlation window",
			"platform", event.Platform,
			"display_number", event.DisplayNumber,
		)
		s.metrics.CorrelationMiss(event.Platform)
		return nil, 0, domain.NewNotFoundError("no meeting matches event")
	}

	return s.meetingRepository.GetWithRevision(ctx, best.UID)
}

func createdMoreRecently(a, b *models.Meeting) bool {
	if a.CreatedAt == nil {
		return false
	}
	if b.CreatedAt == nil {
		return true
	}
	return a.CreatedAt.After(*b.CreatedAt)
}
