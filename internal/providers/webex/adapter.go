// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

// Package webex contains the provider adapter for Webex webhook payloads.
package webex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
	"github.com/openconf/meeting-lifecycle-service/internal/logging"
	"github.com/openconf/meeting-lifecycle-service/pkg/utils"
)

// Adapter normalizes Webex webhook payloads into canonical events. Webex
// assigns a unique identifier to every delivery, which is used directly as the
// deduplication key.
type Adapter struct{}

// NewAdapter creates a new Webex adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// ProviderName implements [domain.ProviderAdapter].
func (a *Adapter) ProviderName() string {
	return models.PlatformWebex
}

// IsMeetingStarted implements [domain.ProviderAdapter].
func (a *Adapter) IsMeetingStarted(eventType string) bool {
	return eventType == models.WebexResourceMeetings+"."+models.WebexEventStarted
}

// IsMeetingEnded implements [domain.ProviderAdapter].
func (a *Adapter) IsMeetingEnded(eventType string) bool {
	return eventType == models.WebexResourceMeetings+"."+models.WebexEventEnded
}

// IsRecordingReady implements [domain.ProviderAdapter].
func (a *Adapter) IsRecordingReady(eventType string) bool {
	return eventType == models.WebexResourceRecordings+"."+models.WebexEventCreated
}

// Normalize implements [domain.ProviderAdapter].
func (a *Adapter) Normalize(ctx context.Context, payload []byte) (*models.CanonicalEvent, error) {
	event, err := models.ParseWebexWebhookEvent(payload)
	if err != nil {
		return nil, domain.NewValidationError("unparseable webex webhook payload", err)
	}

	occurredAt := event.Created.UTC()
	inferred := false
	if event.Created.IsZero() {
		occurredAt = time.Now().UTC()
		inferred = true
		slog.WarnContext(ctx, "webex webhook missing created timestamp, substituting ingestion time",
			"resource", event.Resource, "webhook_event", event.Event,
		)
	}

	canonical := &models.CanonicalEvent{
		EventID:            event.ID,
		Platform:           models.PlatformWebex,
		Kind:               a.eventKind(event.Resource, event.Event),
		OccurredAt:         occurredAt,
		OccurredAtInferred: inferred,
		RawPayload:         payload,
	}

	a.populate(ctx, event, canonical)

	if canonical.EventID == "" {
		// Deliveries without an id have been observed from misconfigured
		// webhook registrations; fall back to the Zoom-style synthesis so the
		// event still dedupes on redelivery.
		canonical.EventID = fmt.Sprintf("webex-%s-%s.%s-%d",
			utils.CoalesceString(canonical.PlatformMeetingID, canonical.DisplayNumber),
			event.Resource, event.Event, occurredAt.UnixMilli())
	}

	return canonical, nil
}

// eventKind maps Webex's resource/event vocabulary onto the canonical
// enumeration.
func (a *Adapter) eventKind(resource, eventType string) models.EventKind {
	switch resource {
	case models.WebexResourceMeetings:
		switch eventType {
		case models.WebexEventStarted:
			return models.EventKindMeetingStarted
		case models.WebexEventEnded:
			return models.EventKindMeetingEnded
		}
	case models.WebexResourceParticipants:
		switch eventType {
		case models.WebexEventJoined:
			return models.EventKindParticipantJoined
		case models.WebexEventLeft:
			return models.EventKindParticipantLeft
		}
	case models.WebexResourceRecordings:
		if eventType == models.WebexEventCreated {
			return models.EventKindRecordingReady
		}
	}
	return models.EventKindOther
}

// populate fills the kind-specific canonical fields. Malformed data objects
// degrade to a canonical event without the optional fields.
func (a *Adapter) populate(ctx context.Context, event *models.WebexWebhookEvent, canonical *models.CanonicalEvent) {
	switch canonical.Kind {
	case models.EventKindMeetingStarted, models.EventKindMeetingEnded:
		data, err := event.ToMeetingData()
		if err != nil {
			slog.WarnContext(ctx, "malformed webex meeting data, logging event without telemetry",
				logging.ErrKey, err, "resource", event.Resource)
			return
		}
		canonical.PlatformMeetingID = data.MeetingID
		canonical.DisplayNumber = data.MeetingNumber
		if canonical.Kind == models.EventKindMeetingEnded && !data.Start.IsZero() && !data.End.IsZero() {
			canonical.Segment = &models.TimeSegment{
				StartTime: data.Start.UTC(),
				EndTime:   data.End.UTC(),
			}
		}

	case models.EventKindParticipantJoined, models.EventKindParticipantLeft:
		data, err := event.ToParticipantData()
		if err != nil {
			slog.WarnContext(ctx, "malformed webex participant data, logging event without participant",
				logging.ErrKey, err, "resource", event.Resource)
			return
		}
		canonical.PlatformMeetingID = data.MeetingID
		canonical.DisplayNumber = data.MeetingNumber
		participant := &models.EventParticipant{
			Identity: utils.CoalesceString(data.Email, data.DisplayName),
			Name:     data.DisplayName,
		}
		if canonical.Kind == models.EventKindParticipantJoined && !data.Joined.IsZero() {
			participant.JoinTime = utils.TimePtr(data.Joined.UTC())
		}
		if canonical.Kind == models.EventKindParticipantLeft && !data.Left.IsZero() {
			participant.LeaveTime = utils.TimePtr(data.Left.UTC())
		}
		canonical.Participant = participant

	case models.EventKindRecordingReady:
		data, err := event.ToRecordingData()
		if err != nil {
			slog.WarnContext(ctx, "malformed webex recording data, logging event without recording URL",
				logging.ErrKey, err, "resource", event.Resource)
			return
		}
		canonical.PlatformMeetingID = data.MeetingID
		canonical.DisplayNumber = data.MeetingNumber
		canonical.RecordingURL = utils.CoalesceString(data.PlaybackURL, data.DownloadURL)
	}
}
