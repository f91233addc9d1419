// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
	"github.com/openconf/meeting-lifecycle-service/internal/logging"
	"github.com/openconf/meeting-lifecycle-service/pkg/concurrent"
	"github.com/openconf/meeting-lifecycle-service/pkg/constants"
)

// SweeperService expires meetings that were scheduled but never started.
// Cancellations on the provider side do not always reach us as webhooks, so
// records can sit in the scheduled state forever without this pass.
type SweeperService struct {
	config ServiceConfig
	pool   *concurrent.WorkerPool
	// now is injectable for tests.
	now func() time.Time
}

// NewSweeperService creates a new sweeper service.
func NewSweeperService(config ServiceConfig, pool *concurrent.WorkerPool) *SweeperService {
	return &SweeperService{
		config: config,
		pool:   pool,
		now:    time.Now,
	}
}

// ServiceReady checks if the service is ready to use.
func (s *SweeperService) ServiceReady() bool {
	return s.config.MeetingRepository != nil && s.config.MessageBuilder != nil
}

// SweepStaleMeetings expires every scheduled meeting whose scheduled start is
// strictly more than the staleness threshold in the past. A meeting exactly at
// the threshold is left alone. Individual failures do not stop the pass.
func (s *SweeperService) SweepStaleMeetings(ctx context.Context) (int, error) {
	if !s.ServiceReady() {
		return 0, domain.NewUnavailableError("sweeper service not ready")
	}

	cutoff := s.now().UTC().Add(-constants.StaleMeetingThreshold)

	scheduled, err := s.config.MeetingRepository.ListByStatus(ctx, models.MeetingStatusScheduled)
	if err != nil {
		return 0, err
	}

	var stale []*models.Meeting
	for _, meeting := range scheduled {
		if meeting.ScheduledStartTime.Before(cutoff) {
			stale = append(stale, meeting)
		}
	}
	if len(stale) == 0 {
		s.config.Metrics.SweepCompleted(0)
		return 0, nil
	}

	functions := make([]func() error, len(stale))
	for i, meeting := range stale {
		functions[i] = func() error {
			return s.expire(ctx, meeting.UID)
		}
	}

	expired := len(stale)
	errs := s.pool.RunAll(ctx, functions...)
	for _, runErr := range errs {
		if runErr != nil {
			slog.ErrorContext(ctx, "failed to expire stale meeting", logging.ErrKey, runErr)
			expired--
		}
	}

	s.config.Metrics.SweepCompleted(expired)
	slog.InfoContext(ctx, "stale meeting sweep completed",
		"candidates", len(stale),
		"expired", expired,
	)
	return expired, nil
}

func (s *SweeperService) expire(ctx context.Context, meetingUID string) error {
	// Re-read with revision so the sweep loses any race against a concurrent
	// started event.
	meeting, revision, err := s.config.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return err
	}
	if meeting.Status != models.MeetingStatusScheduled {
		return nil
	}

	oldStatus := meeting.Status
	meeting.Status = models.MeetingStatusExpired
	now := s.now().UTC()
	meeting.UpdatedAt = &now
	if err := s.config.MeetingRepository.Update(ctx, meeting, revision); err != nil {
		return err
	}

	s.config.Metrics.StatusTransition(string(oldStatus), string(models.MeetingStatusExpired))
	msg := models.MeetingStatusChangedMessage{
		MeetingUID:    meeting.UID,
		DisplayNumber: meeting.DisplayNumber,
		OldStatus:     oldStatus,
		NewStatus:     meeting.Status,
		Timestamp:     now,
	}
	if err := s.config.MessageBuilder.SendMeetingStatusChanged(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to publish status change message", logging.ErrKey, err)
	}
	return nil
}
