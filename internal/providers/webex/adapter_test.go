// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package webex

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
)

func TestAdapter_ProviderName(t *testing.T) {
	assert.Equal(t, models.PlatformWebex, NewAdapter().ProviderName())
}

func TestAdapter_Classifiers(t *testing.T) {
	adapter := NewAdapter()

	assert.True(t, adapter.IsMeetingStarted("meetings.started"))
	assert.False(t, adapter.IsMeetingStarted("meetings.ended"))
	assert.True(t, adapter.IsMeetingEnded("meetings.ended"))
	assert.True(t, adapter.IsRecordingReady("recordings.created"))
	assert.False(t, adapter.IsRecordingReady("meetings.started"))
}

func TestAdapter_Normalize_MeetingStarted(t *testing.T) {
	adapter := NewAdapter()
	payload := []byte(`{
		"id": "delivery-1",
		"name": "meeting events",
		"resource": "meetings",
		"event": "started",
		"created": "2026-03-10T14:00:05Z",
		"data": {
			"meetingId": "stable-meeting-id",
			"meetingNumber": "2551234567",
			"title": "Design Review",
			"state": "inProgress"
		}
	}`)

	event, err := adapter.Normalize(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "delivery-1", event.EventID)
	assert.Equal(t, models.PlatformWebex, event.Platform)
	assert.Equal(t, models.EventKindMeetingStarted, event.Kind)
	assert.Equal(t, "stable-meeting-id", event.PlatformMeetingID)
	assert.Equal(t, "2551234567", event.DisplayNumber)
	assert.Equal(t, "2026-03-10T14:00:05Z", event.OccurredAt.Format(time.RFC3339))
	assert.False(t, event.OccurredAtInferred)
}

func TestAdapter_Normalize_MeetingEndedWithSegment(t *testing.T) {
	adapter := NewAdapter()
	payload := []byte(`{
		"id": "delivery-2",
		"resource": "meetings",
		"event": "ended",
		"created": "2026-03-10T14:55:10Z",
		"data": {
			"meetingId": "stable-meeting-id",
			"meetingNumber": "2551234567",
			"start": "2026-03-10T14:00:00Z",
			"end": "2026-03-10T14:55:00Z"
		}
	}`)

	event, err := adapter.Normalize(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, models.EventKindMeetingEnded, event.Kind)
	require.NotNil(t, event.Segment)
	assert.Equal(t, int64(3300), event.Segment.Seconds())
}

func TestAdapter_Normalize_MissingCreatedTimestamp(t *testing.T) {
	adapter := NewAdapter()
	payload := []byte(`{
		"id": "delivery-3",
		"resource": "meetings",
		"event": "started",
		"data": {"meetingId": "m1", "meetingNumber": "111"}
	}`)

	before := time.Now().UTC()
	event, err := adapter.Normalize(context.Background(), payload)
	require.NoError(t, err)

	assert.True(t, event.OccurredAtInferred)
	assert.False(t, event.OccurredAt.Before(before))
}

func TestAdapter_Normalize_ParticipantEvents(t *testing.T) {
	adapter := NewAdapter()
	joined := []byte(`{
		"id": "delivery-4",
		"resource": "meetingParticipants",
		"event": "joined",
		"created": "2026-03-10T14:01:00Z",
		"data": {
			"meetingId": "m1",
			"meetingNumber": "111",
			"email": "grace@example.org",
			"displayName": "Grace Hopper",
			"joined": "2026-03-10T14:01:00Z"
		}
	}`)

	event, err := adapter.Normalize(context.Background(), joined)
	require.NoError(t, err)
	assert.Equal(t, models.EventKindParticipantJoined, event.Kind)
	require.NotNil(t, event.Participant)
	assert.Equal(t, "grace@example.org", event.Participant.Identity)
	require.NotNil(t, event.Participant.JoinTime)

	left := []byte(`{
		"id": "delivery-5",
		"resource": "meetingParticipants",
		"event": "left",
		"created": "2026-03-10T14:45:00Z",
		"data": {
			"meetingId": "m1",
			"meetingNumber": "111",
			"displayName": "Guest",
			"left": "2026-03-10T14:45:00Z"
		}
	}`)

	event, err = adapter.Normalize(context.Background(), left)
	require.NoError(t, err)
	assert.Equal(t, models.EventKindParticipantLeft, event.Kind)
	require.NotNil(t, event.Participant)
	// No email in the payload, so identity falls back to the display name.
	assert.Equal(t, "Guest", event.Participant.Identity)
	require.NotNil(t, event.Participant.LeaveTime)
}

func TestAdapter_Normalize_RecordingCreated(t *testing.T) {
	adapter := NewAdapter()
	payload := []byte(`{
		"id": "delivery-6",
		"resource": "recordings",
		"event": "created",
		"created": "2026-03-10T15:10:00Z",
		"data": {
			"id": "rec-1",
			"meetingId": "m1",
			"meetingNumber": "111",
			"downloadUrl": "https://webex.example.com/dl/rec-1",
			"playbackUrl": "https://webex.example.com/play/rec-1"
		}
	}`)

	event, err := adapter.Normalize(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, models.EventKindRecordingReady, event.Kind)
	assert.Equal(t, "https://webex.example.com/play/rec-1", event.RecordingURL)
}

func TestAdapter_Normalize_MissingDeliveryIDSynthesized(t *testing.T) {
	adapter := NewAdapter()
	payload := []byte(`{
		"resource": "meetings",
		"event": "started",
		"created": "2026-03-10T14:00:00Z",
		"data": {"meetingId": "m1", "meetingNumber": "111"}
	}`)

	event, err := adapter.Normalize(context.Background(), payload)
	require.NoError(t, err)
	expectedMillis := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, fmt.Sprintf("webex-m1-meetings.started-%d", expectedMillis), event.EventID)
}

func TestAdapter_Normalize_UnparseablePayload(t *testing.T) {
	adapter := NewAdapter()

	_, err := adapter.Normalize(context.Background(), []byte("{"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestAdapter_Normalize_UnknownResource(t *testing.T) {
	adapter := NewAdapter()
	payload := []byte(`{
		"id": "delivery-7",
		"resource": "messages",
		"event": "created",
		"created": "2026-03-10T14:00:00Z",
		"data": {}
	}`)

	event, err := adapter.Normalize(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, models.EventKindOther, event.Kind)
}
