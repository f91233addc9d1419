// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Zoom webhook event type strings.
const (
	ZoomEventMeetingStarted    = "meeting.started"
	ZoomEventMeetingEnded      = "meeting.ended"
	ZoomEventParticipantJoined = "meeting.participant_joined"
	ZoomEventParticipantLeft   = "meeting.participant_left"
	ZoomEventRecordingComplete = "recording.completed"
)

// ZoomWebhookEvent is the outer envelope of every Zoom webhook delivery. Zoom
// does not assign a per-delivery identifier; EventTS is an epoch-millisecond
// timestamp set by Zoom when the event occurred.
type ZoomWebhookEvent struct {
	Event   string `json:"event"`
	EventTS int64  `json:"event_ts"`
	Payload struct {
		AccountID string          `json:"account_id"`
		Object    json.RawMessage `json:"object"`
	} `json:"payload"`
}

// ZoomMeetingObject is the payload object for meeting.started and
// meeting.ended events. EndTime is zero for meeting.started.
type ZoomMeetingObject struct {
	UUID      string    `json:"uuid"`
	ID        string    `json:"id"` // Zoom sends as string in webhook events
	HostID    string    `json:"host_id"`
	Topic     string    `json:"topic"`
	Type      int       `json:"type"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  int       `json:"duration"`
	Timezone  string    `json:"timezone"`
}

// ZoomParticipantObject is the payload object for participant joined/left
// events.
type ZoomParticipantObject struct {
	UUID        string    `json:"uuid"`
	ID          string    `json:"id"`
	HostID      string    `json:"host_id"`
	Topic       string    `json:"topic"`
	Type        int       `json:"type"`
	StartTime   time.Time `json:"start_time"`
	Timezone    string    `json:"timezone"`
	Participant struct {
		UserID    string    `json:"user_id"`
		UserName  string    `json:"user_name"`
		ID        string    `json:"id"`
		JoinTime  time.Time `json:"join_time"`
		LeaveTime time.Time `json:"leave_time"`
		Duration  int       `json:"duration"`
		Email     string    `json:"email"`
	} `json:"participant"`
}

// ZoomRecordingObject is the payload object for recording.completed events.
type ZoomRecordingObject struct {
	UUID      string    `json:"uuid"`
	ID        int64     `json:"id"`
	HostID    string    `json:"host_id"`
	Topic     string    `json:"topic"`
	StartTime time.Time `json:"start_time"`
	Timezone  string    `json:"timezone"`
	Duration  int       `json:"duration"`
	ShareURL  string    `json:"share_url"`
	TotalSize int64     `json:"total_size"`
}

// ParseZoomWebhookEvent unmarshals a raw Zoom webhook delivery envelope.
func ParseZoomWebhookEvent(payload []byte) (*ZoomWebhookEvent, error) {
	var event ZoomWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zoom webhook event: %w", err)
	}
	return &event, nil
}

// ToMeetingObject converts the webhook event to a typed meeting object for
// meeting.started and meeting.ended events.
func (z *ZoomWebhookEvent) ToMeetingObject() (*ZoomMeetingObject, error) {
	if z.Event != ZoomEventMeetingStarted && z.Event != ZoomEventMeetingEnded {
		return nil, fmt.Errorf("invalid event type: expected meeting.started or meeting.ended, got %s", z.Event)
	}

	var object ZoomMeetingObject
	if err := json.Unmarshal(z.Payload.Object, &object); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to meeting object: %w", err)
	}

	return &object, nil
}

// ToParticipantObject converts the webhook event to a typed participant object
// for participant joined/left events.
func (z *ZoomWebhookEvent) ToParticipantObject() (*ZoomParticipantObject, error) {
	if z.Event != ZoomEventParticipantJoined && z.Event != ZoomEventParticipantLeft {
		return nil, fmt.Errorf("invalid event type: expected a participant event, got %s", z.Event)
	}

	var object ZoomParticipantObject
	if err := json.Unmarshal(z.Payload.Object, &object); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to participant object: %w", err)
	}

	return &object, nil
}

// ToRecordingObject converts the webhook event to a typed recording object for
// recording.completed events.
func (z *ZoomWebhookEvent) ToRecordingObject() (*ZoomRecordingObject, error) {
	if z.Event != ZoomEventRecordingComplete {
		return nil, fmt.Errorf("invalid event type: expected recording.completed, got %s", z.Event)
	}

	var object ZoomRecordingObject
	if err := json.Unmarshal(z.Payload.Object, &object); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to recording object: %w", err)
	}

	return &object, nil
}
