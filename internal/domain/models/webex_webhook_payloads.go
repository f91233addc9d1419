// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Webex webhook resource and event strings.
const (
	WebexResourceMeetings     = "meetings"
	WebexResourceParticipants = "meetingParticipants"
	WebexResourceRecordings   = "recordings"

	WebexEventStarted = "started"
	WebexEventEnded   = "ended"
	WebexEventJoined  = "joined"
	WebexEventLeft    = "left"
	WebexEventCreated = "created"
)

// WebexWebhookEvent is the outer envelope of every Webex webhook delivery.
// Unlike Zoom, Webex assigns a unique per-delivery ID and uses RFC 3339
// timestamps throughout.
type WebexWebhookEvent struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Resource string          `json:"resource"`
	Event    string          `json:"event"`
	Created  time.Time       `json:"created"`
	ActorID  string          `json:"actorId,omitempty"`
	Data     json.RawMessage `json:"data"`
}

// WebexMeetingData is the data object for meeting started/ended events.
// MeetingID is the stable series identifier; MeetingNumber is the human-facing
// number that Webex may reuse across unrelated meetings.
type WebexMeetingData struct {
	MeetingID     string    `json:"meetingId"`
	MeetingNumber string    `json:"meetingNumber"`
	Title         string    `json:"title"`
	State         string    `json:"state"`
	Timezone      string    `json:"timezone"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	HostEmail     string    `json:"hostEmail"`
	WebLink       string    `json:"webLink"`
}

// WebexParticipantData is the data object for participant joined/left events.
type WebexParticipantData struct {
	ParticipantID string    `json:"participantId"`
	MeetingID     string    `json:"meetingId"`
	MeetingNumber string    `json:"meetingNumber"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName"`
	Joined        time.Time `json:"joined"`
	Left          time.Time `json:"left"`
	Host          bool      `json:"host"`
}

// WebexRecordingData is the data object for recording created events.
type WebexRecordingData struct {
	RecordingID   string    `json:"id"`
	MeetingID     string    `json:"meetingId"`
	MeetingNumber string    `json:"meetingNumber"`
	Topic         string    `json:"topic"`
	CreateTime    time.Time `json:"createTime"`
	DownloadURL   string    `json:"downloadUrl"`
	PlaybackURL   string    `json:"playbackUrl"`
	DurationSecs  int       `json:"durationSeconds"`
	SizeBytes     int64     `json:"sizeBytes"`
}

// ParseWebexWebhookEvent unmarshals a raw Webex webhook delivery envelope.
func ParseWebexWebhookEvent(payload []byte) (*WebexWebhookEvent, error) {
	var event WebexWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal webex webhook event: %w", err)
	}
	return &event, nil
}

// ToMeetingData converts the webhook event to typed meeting data for meeting
// started/ended events.
func (w *WebexWebhookEvent) ToMeetingData() (*WebexMeetingData, error) {
	if w.Resource != WebexResourceMeetings {
		return nil, fmt.Errorf("invalid resource: expected meetings, got %s", w.Resource)
	}

	var data WebexMeetingData
	if err := json.Unmarshal(w.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to meeting data: %w", err)
	}

	return &data, nil
}

// ToParticipantData converts the webhook event to typed participant data for
// participant joined/left events.
func (w *WebexWebhookEvent) ToParticipantData() (*WebexParticipantData, error) {
	if w.Resource != WebexResourceParticipants {
		return nil, fmt.Errorf("invalid resource: expected meetingParticipants, got %s", w.Resource)
	}

	var data WebexParticipantData
	if err := json.Unmarshal(w.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to participant data: %w", err)
	}

	return &data, nil
}

// ToRecordingData converts the webhook event to typed recording data for
// recording created events.
func (w *WebexWebhookEvent) ToRecordingData() (*WebexRecordingData, error) {
	if w.Resource != WebexResourceRecordings {
		return nil, fmt.Errorf("invalid resource: expected recordings, got %s", w.Resource)
	}

	var data WebexRecordingData
	if err := json.Unmarshal(w.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to recording data: %w", err)
	}

	return &data, nil
}
