// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

// Package zoom contains the provider adapter for Zoom webhook payloads.
package zoom

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
	"github.com/openconf/meeting-lifecycle-service/internal/logging"
	"github.com/openconf/meeting-lifecycle-service/pkg/utils"
)

// Adapter normalizes Zoom webhook payloads into canonical events.
//
// Zoom does not assign a per-delivery event identifier, so the adapter
// synthesizes one from the meeting UUID, event type and the event_ts
// millisecond timestamp. Two distinct deliveries of the same event type for
// the same meeting within the same millisecond would collide; this is a known
// gap accepted in exchange for duplicate suppression on redelivery.
type Adapter struct{}

// NewAdapter creates a new Zoom adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// ProviderName implements [domain.ProviderAdapter].
func (a *Adapter) ProviderName() string {
	return models.PlatformZoom
}

// IsMeetingStarted implements [domain.ProviderAdapter].
func (a *Adapter) IsMeetingStarted(eventType string) bool {
	return eventType == models.ZoomEventMeetingStarted
}

// IsMeetingEnded implements [domain.ProviderAdapter].
func (a *Adapter) IsMeetingEnded(eventType string) bool {
	return eventType == models.ZoomEventMeetingEnded
}

// IsRecordingReady implements [domain.ProviderAdapter].
func (a *Adapter) IsRecordingReady(eventType string) bool {
	return eventType == models.ZoomEventRecordingComplete
}

// Normalize implements [domain.ProviderAdapter].
func (a *Adapter) Normalize(ctx context.Context, payload []byte) (*models.CanonicalEvent, error) {
	event, err := models.ParseZoomWebhookEvent(payload)
	if err != nil {
		return nil, domain.NewValidationError("unparseable zoom webhook payload", err)
	}

	occurredAt := time.UnixMilli(event.EventTS).UTC()
	inferred := false
	if event.EventTS == 0 {
		// Zoom is contractually required to send event_ts, but a missing
		// timestamp must not keep the event out of the audit log.
		occurredAt = time.Now().UTC()
		inferred = true
		slog.WarnContext(ctx, "zoom webhook missing event_ts, substituting ingestion time",
			"event_type", event.Event,
		)
	}

	canonical := &models.CanonicalEvent{
		Platform:           models.PlatformZoom,
		Kind:               a.eventKind(event.Event),
		OccurredAt:         occurredAt,
		OccurredAtInferred: inferred,
		RawPayload:         payload,
	}

	instanceUUID := a.populate(ctx, event, canonical)
	canonical.EventID = synthesizeEventID(instanceUUID, event, canonical)

	return canonical, nil
}

// eventKind maps Zoom's event vocabulary onto the canonical enumeration.
func (a *Adapter) eventKind(eventType string) models.EventKind {
	switch eventType {
	case models.ZoomEventMeetingStarted:
		return models.EventKindMeetingStarted
	case models.ZoomEventMeetingEnded:
		return models.EventKindMeetingEnded
	case models.ZoomEventParticipantJoined:
		return models.EventKindParticipantJoined
	case models.ZoomEventParticipantLeft:
		return models.EventKindParticipantLeft
	case models.ZoomEventRecordingComplete:
		return models.EventKindRecordingReady
	default:
		return models.EventKindOther
	}
}

// populate fills the kind-specific canonical fields and returns the Zoom
// meeting instance UUID when the payload carried one. Malformed nested objects
// degrade to a canonical event without the optional fields; the delivery is
// still logged for audit.
func (a *Adapter) populate(ctx context.Context, event *models.ZoomWebhookEvent, canonical *models.CanonicalEvent) string {
	switch canonical.Kind {
	case models.EventKindMeetingStarted, models.EventKindMeetingEnded:
		object, err := event.ToMeetingObject()
		if err != nil {
			slog.WarnContext(ctx, "malformed zoom meeting object, logging event without telemetry",
				logging.ErrKey, err, "event_type", event.Event)
			return ""
		}
		canonical.DisplayNumber = object.ID
		if canonical.Kind == models.EventKindMeetingEnded && !object.StartTime.IsZero() && !object.EndTime.IsZero() {
			canonical.Segment = &models.TimeSegment{
				StartTime: object.StartTime.UTC(),
				EndTime:   object.EndTime.UTC(),
			}
		}
		return object.UUID

	case models.EventKindParticipantJoined, models.EventKindParticipantLeft:
		object, err := event.ToParticipantObject()
		if err != nil {
			slog.WarnContext(ctx, "malformed zoom participant object, logging event without participant",
				logging.ErrKey, err, "event_type", event.Event)
			return ""
		}
		canonical.DisplayNumber = object.ID
		participant := &models.EventParticipant{
			Identity: participantIdentity(object),
			Name:     object.Participant.UserName,
		}
		if canonical.Kind == models.EventKindParticipantJoined && !object.Participant.JoinTime.IsZero() {
			participant.JoinTime = utils.TimePtr(object.Participant.JoinTime.UTC())
		}
		if canonical.Kind == models.EventKindParticipantLeft && !object.Participant.LeaveTime.IsZero() {
			participant.LeaveTime = utils.TimePtr(object.Participant.LeaveTime.UTC())
		}
		canonical.Participant = participant
		return object.UUID

	case models.EventKindRecordingReady:
		object, err := event.ToRecordingObject()
		if err != nil {
			slog.WarnContext(ctx, "malformed zoom recording object, logging event without recording URL",
				logging.ErrKey, err, "event_type", event.Event)
			return ""
		}
		canonical.DisplayNumber = strconv.FormatInt(object.ID, 10)
		canonical.RecordingURL = object.ShareURL
		return object.UUID
	}

	return ""
}

// participantIdentity prefers the participant's email and falls back to the
// display name, matching how records are matched downstream.
func participantIdentity(object *models.ZoomParticipantObject) string {
	if object.Participant.Email != "" {
		return object.Participant.Email
	}
	return object.Participant.UserName
}

// synthesizeEventID builds the deduplication key for a Zoom delivery.
func synthesizeEventID(instanceUUID string, event *models.ZoomWebhookEvent, canonical *models.CanonicalEvent) string {
	key := instanceUUID
	if key == "" {
		key = canonical.DisplayNumber
	}
	return fmt.Sprintf("zoom-%s-%s-%d", key, event.Event, event.EventTS)
}
