// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// NATS subjects for inbound webhook deliveries. The upstream gateway verifies
// provider signatures and republishes the parsed payload on these subjects.
const (
	// WebhookSubjectPrefix is the common prefix for all inbound webhook
	// subjects; the third token is the provider name.
	WebhookSubjectPrefix = "lifecycle.webhook."

	// ZoomWebhookMeetingStartedSubject is the subject for Zoom meeting.started events.
	ZoomWebhookMeetingStartedSubject = "lifecycle.webhook.zoom.meeting_started"

	// ZoomWebhookMeetingEndedSubject is the subject for Zoom meeting.ended events.
	ZoomWebhookMeetingEndedSubject = "lifecycle.webhook.zoom.meeting_ended"

	// ZoomWebhookParticipantJoinedSubject is the subject for Zoom meeting.participant_joined events.
	ZoomWebhookParticipantJoinedSubject = "lifecycle.webhook.zoom.participant_joined"

	// ZoomWebhookParticipantLeftSubject is the subject for Zoom meeting.participant_left events.
	ZoomWebhookParticipantLeftSubject = "lifecycle.webhook.zoom.participant_left"

	// ZoomWebhookRecordingCompletedSubject is the subject for Zoom recording.completed events.
	ZoomWebhookRecordingCompletedSubject = "lifecycle.webhook.zoom.recording_completed"

	// WebexWebhookMeetingStartedSubject is the subject for Webex meeting started events.
	WebexWebhookMeetingStartedSubject = "lifecycle.webhook.webex.meeting_started"

	// WebexWebhookMeetingEndedSubject is the subject for Webex meeting ended events.
	WebexWebhookMeetingEndedSubject = "lifecycle.webhook.webex.meeting_ended"

	// WebexWebhookParticipantJoinedSubject is the subject for Webex participant joined events.
	WebexWebhookParticipantJoinedSubject = "lifecycle.webhook.webex.participant_joined"

	// WebexWebhookParticipantLeftSubject is the subject for Webex participant left events.
	WebexWebhookParticipantLeftSubject = "lifecycle.webhook.webex.participant_left"

	// WebexWebhookRecordingCreatedSubject is the subject for Webex recording created events.
	WebexWebhookRecordingCreatedSubject = "lifecycle.webhook.webex.recording_created"
)

// NATS subjects for outbound notifications.
const (
	// MeetingFinalizedSubject carries exactly one message per durably
	// finalized meeting. Downstream consumers must be idempotent on the
	// meeting UID.
	MeetingFinalizedSubject = "lifecycle.meeting.finalized"

	// MeetingStatusChangedSubject carries lifecycle transitions for
	// observability and auditing. Not used for correctness.
	MeetingStatusChangedSubject = "lifecycle.meeting.status_changed"
)

// LifecycleAPIQueue is the NATS queue group for the service's subscriptions.
const LifecycleAPIQueue = "lifecycle-api-queue"

// WebhookSubjects returns all inbound webhook subjects the service consumes.
func WebhookSubjects() []string {
	return []string{
		ZoomWebhookMeetingStartedSubject,
		ZoomWebhookMeetingEndedSubject,
		ZoomWebhookParticipantJoinedSubject,
		ZoomWebhookParticipantLeftSubject,
		ZoomWebhookRecordingCompletedSubject,
		WebexWebhookMeetingStartedSubject,
		WebexWebhookMeetingEndedSubject,
		WebexWebhookParticipantJoinedSubject,
		WebexWebhookParticipantLeftSubject,
		WebexWebhookRecordingCreatedSubject,
	}
}

// MeetingFinalizedMessage is the body published on [MeetingFinalizedSubject].
type MeetingFinalizedMessage struct {
	MeetingUID               string        `json:"meeting_uid"`
	DisplayNumber            string        `json:"display_number,omitempty"`
	Platform                 string        `json:"platform"`
	ScheduledStartTime       time.Time     `json:"scheduled_start_time"`
	ScheduledDurationMinutes int           `json:"scheduled_duration_minutes"`
	ActualDurationSeconds    int64         `json:"actual_duration_seconds"`
	EndedAt                  time.Time     `json:"ended_at"`
	Segments                 []TimeSegment `json:"segments,omitempty"`
	RecordingURL             *string       `json:"recording_url,omitempty"`
}

// MeetingStatusChangedMessage is the body published on
// [MeetingStatusChangedSubject].
type MeetingStatusChangedMessage struct {
	MeetingUID    string        `json:"meeting_uid"`
	DisplayNumber string        `json:"display_number,omitempty"`
	OldStatus     MeetingStatus `json:"old_status"`
	NewStatus     MeetingStatus `json:"new_status"`
	Timestamp     time.Time     `json:"timestamp"`
}
