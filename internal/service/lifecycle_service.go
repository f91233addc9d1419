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
	"github.com/openconf/meeting-lifecycle-service/pkg/utils"
)

// LifecycleService applies normalized events to meeting records: state
// transitions, segment and participant bookkeeping, and durable finalization.
type LifecycleService struct {
	config   ServiceConfig
	detector *CompletionDetector
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(config ServiceConfig, detector *CompletionDetector) *LifecycleService {
	return &LifecycleService{
		config:   config,
		detector: detector,
	}
}

// ServiceReady checks if the service is ready to use.
func (s *LifecycleService) ServiceReady() bool {
	return s.config.MeetingRepository != nil &&
		s.config.MessageBuilder != nil &&
		s.detector != nil
}

// HandleEvent applies one normalized event to the meeting record it was
// correlated to. The revision enforces optimistic concurrency: a stale write
// fails with a conflict, and the caller retries with a fresh read or relies on
// redelivery.
func (s *LifecycleService) HandleEvent(ctx context.Context, meeting *models.Meeting, revision uint64, event *models.CanonicalEvent) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("lifecycle service not ready")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meeting.UID))
	ctx = logging.AppendCtx(ctx, slog.String("event_kind", string(event.Kind)))

	switch event.Kind {
	case models.EventKindMeetingStarted:
		return s.handleMeetingStarted(ctx, meeting, revision, event)
	case models.EventKindMeetingEnded:
		return s.handleMeetingEnded(ctx, meeting, revision, event)
	case models.EventKindRecordingReady:
		return s.handleRecordingReady(ctx, meeting, revision, event)
	case models.EventKindParticipantJoined:
		return s.handleParticipantJoined(ctx, meeting, revision, event)
	case models.EventKindParticipantLeft:
		return s.handleParticipantLeft(ctx, meeting, revision, event)
	default:
		slog.DebugContext(ctx, "event kind carries no lifecycle effect, ignoring")
		return nil
	}
}

func (s *LifecycleService) handleMeetingStarted(ctx context.Context, meeting *models.Meeting, revision uint64, event *models.CanonicalEvent) error {
	if meeting.Status == models.MeetingStatusActive {
		// Redelivered or per-host duplicate start; the meeting is already live.
		slog.DebugContext(ctx, "meeting already active, started event ignored")
		return nil
	}
	// Ended is reachable: a host restart within the confirmation window
	// reactivates the meeting. Cancelled and Expired are not.
	if !meeting.Status.CanTransitionTo(models.MeetingStatusActive) {
		slog.WarnContext(ctx, "started event for terminal meeting ignored",
			"status", string(meeting.Status),
		)
		return nil
	}

	// A restart within the confirmation window cancels the pending completion
	// check: the earlier ended event no longer marks the end of the meeting.
	if meeting.HasPendingTask() {
		if s.detector.Cancel(*meeting.PendingTaskID) {
			slog.InfoContext(ctx, "meeting restarted, pending completion check cancelled",
				"task_id", *meeting.PendingTaskID,
			)
		}
		meeting.PendingTaskID = nil
	}

	return s.transition(ctx, meeting, revision, models.MeetingStatusActive, event.OccurredAt)
}

func (s *LifecycleService) handleMeetingEnded(ctx context.Context, meeting *models.Meeting, revision uint64, event *models.CanonicalEvent) error {
	if meeting.Status.IsTerminal() {
		slog.WarnContext(ctx, "ended event for terminal meeting ignored",
			"status", string(meeting.Status),
		)
		return nil
	}

	segment := event.Segment
	if segment == nil {
		segment = DeriveSegmentFromSpans(meeting.ParticipantSpans)
	}
	if segment != nil {
		meeting.Segments = append(meeting.Segments, *segment)
		meeting.ActualDurationSeconds = TotalSegmentSeconds(meeting.Segments)
	} else {
		slog.WarnContext(ctx, "ended event carried no segment and none could be derived")
	}

	meeting.LastEndedEventAt = utils.TimePtr(event.OccurredAt)

	// An ended event never finalizes directly. It arms a delayed completion
	// check; a restart before it fires supersedes this end.
	if meeting.HasPendingTask() {
		s.detector.Cancel(*meeting.PendingTaskID)
	}
	taskID := s.detector.Schedule(ctx, meeting.UID, meeting.DisplayNumber, event.OccurredAt)
	meeting.PendingTaskID = &taskID

	return s.update(ctx, meeting, revision)
}

func (s *LifecycleService) handleRecordingReady(ctx context.Context, meeting *models.Meeting, revision uint64, event *models.CanonicalEvent) error {
	if event.RecordingURL == "" {
		slog.DebugContext(ctx, "recording event carried no URL, ignoring")
		return nil
	}
	// Recordings can land after finalization; the record stays open to them in
	// every state.
	meeting.RecordingURL = utils.StringPtr(event.RecordingURL)
	return s.update(ctx, meeting, revision)
}

func (s *LifecycleService) handleParticipantJoined(ctx context.Context, meeting *models.Meeting, revision uint64, event *models.CanonicalEvent) error {
	if event.Participant == nil || event.Participant.Identity == "" {
		slog.DebugContext(ctx, "participant event carried no usable identity, ignoring")
		return nil
	}
	joinTime := event.OccurredAt
	if event.Participant.JoinTime != nil {
		joinTime = *event.Participant.JoinTime
	}
	meeting.ParticipantSpans = ApplyJoin(meeting.ParticipantSpans, event.Participant.Identity, joinTime)
	return s.update(ctx, meeting, revision)
}

func (s *LifecycleService) handleParticipantLeft(ctx context.Context, meeting *models.Meeting, revision uint64, event *models.CanonicalEvent) error {
	if event.Participant == nil || event.Participant.Identity == "" {
		slog.DebugContext(ctx, "participant event carried no usable identity, ignoring")
		return nil
	}
	leaveTime := event.OccurredAt
	if event.Participant.LeaveTime != nil {
		leaveTime = *event.Participant.LeaveTime
	}
	meeting.ParticipantSpans = ApplyLeave(meeting.ParticipantSpans, event.Participant.Identity, leaveTime)
	return s.update(ctx, meeting, revision)
}

// Finalize is invoked by a fired completion check. The task ID gates it: only
// the check armed by the most recent ended event may finalize, so a check
// superseded by a later end-and-restart cycle is silently discarded.
func (s *LifecycleService) Finalize(ctx context.Context, meetingUID, taskID string) error {
	if !s.ServiceReady() {
		return domain.NewUnavailableError("lifecycle service not ready")
	}

	meeting, revision, err := s.config.MeetingRepository.GetWithRevision(ctx, meetingUID)
	if err != nil {
		return err
	}

	if !meeting.IsPendingTask(taskID) {
		slog.DebugContext(ctx, "completion check superseded, discarding")
		s.config.Metrics.TaskStale()
		return nil
	}
	if meeting.Status.IsTerminal() {
		slog.WarnContext(ctx, "completion check fired for terminal meeting, discarding",
			"status", string(meeting.Status),
		)
		return nil
	}

	if !ValidateDuration(meeting.ActualDurationSeconds, meeting.ScheduledDurationMinutes) {
		slog.WarnContext(ctx, "accumulated duration implausible for scheduled length",
			"actual_duration_seconds", meeting.ActualDurationSeconds,
			"scheduled_duration_minutes", meeting.ScheduledDurationMinutes,
		)
		s.config.Metrics.SuspiciousDuration()
	}

	oldStatus := meeting.Status
	if !meeting.Status.CanTransitionTo(models.MeetingStatusEnded) {
		return domain.NewConflictError("meeting cannot be finalized from its current state",
			domain.NewValidationError(string(meeting.Status)))
	}
	meeting.Status = models.MeetingStatusEnded
	meeting.PendingTaskID = nil

	if err := s.update(ctx, meeting, revision); err != nil {
		return err
	}
	s.config.Metrics.StatusTransition(string(oldStatus), string(models.MeetingStatusEnded))
	s.publishStatusChanged(ctx, meeting, oldStatus, time.Now().UTC())

	endedAt := time.Now().UTC()
	if meeting.LastEndedEventAt != nil {
		endedAt = *meeting.LastEndedEventAt
	}
	msg := models.MeetingFinalizedMessage{
		MeetingUID:               meeting.UID,
		DisplayNumber:            meeting.DisplayNumber,
		Platform:                 meeting.Platform,
		ScheduledStartTime:       meeting.ScheduledStartTime,
		ScheduledDurationMinutes: meeting.ScheduledDurationMinutes,
		ActualDurationSeconds:    meeting.ActualDurationSeconds,
		EndedAt:                  endedAt,
		Segments:                 meeting.Segments,
		RecordingURL:             meeting.RecordingURL,
	}
	if err := s.config.MessageBuilder.SendMeetingFinalized(ctx, msg); err != nil {
		// The record is already durably ended; the announcement is best-effort.
		slog.ErrorContext(ctx, "failed to publish meeting finalized message", logging.ErrKey, err)
	}
	s.config.Metrics.MeetingFinalized()

	slog.InfoContext(ctx, "meeting finalized",
		"actual_duration_seconds", meeting.ActualDurationSeconds,
	)
	return nil
}

// transition moves the meeting to newStatus, persists it, and announces the
// change. Invalid transitions fail with a conflict.
func (s *LifecycleService) transition(ctx context.Context, meeting *models.Meeting, revision uint64, newStatus models.MeetingStatus, at time.Time) error {
	if !meeting.Status.CanTransitionTo(newStatus) {
		return domain.NewConflictError("invalid meeting state transition",
			domain.NewValidationError(string(meeting.Status)+" -> "+string(newStatus)))
	}

	oldStatus := meeting.Status
	meeting.Status = newStatus

	if err := s.update(ctx, meeting, revision); err != nil {
		return err
	}

	s.config.Metrics.StatusTransition(string(oldStatus), string(newStatus))
	s.publishStatusChanged(ctx, meeting, oldStatus, at)
	slog.InfoContext(ctx, "meeting status changed",
		"old_status", string(oldStatus),
		"new_status", string(newStatus),
	)
	return nil
}

func (s *LifecycleService) publishStatusChanged(ctx context.Context, meeting *models.Meeting, oldStatus models.MeetingStatus, at time.Time) {
	msg := models.MeetingStatusChangedMessage{
		MeetingUID:    meeting.UID,
		DisplayNumber: meeting.DisplayNumber,
		OldStatus:     oldStatus,
		NewStatus:     meeting.Status,
		Timestamp:     at,
	}
	if err := s.config.MessageBuilder.SendMeetingStatusChanged(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "failed to publish status change message", logging.ErrKey, err)
	}
}

func (s *LifecycleService) update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	now := time.Now().UTC()
	meeting.UpdatedAt = &now
	return s.config.MeetingRepository.Update(ctx, meeting, revision)
}
