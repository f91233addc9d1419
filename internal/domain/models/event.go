// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"time"
)

// EventKind is the closed set of normalized webhook event types. Adapters map
// provider vocabularies onto this enumeration exactly once; downstream code
// never inspects provider-specific strings.
type EventKind string

const (
	EventKindMeetingStarted    EventKind = "meeting_started"
	EventKindMeetingEnded      EventKind = "meeting_ended"
	EventKindRecordingReady    EventKind = "recording_ready"
	EventKindParticipantJoined EventKind = "participant_joined"
	EventKindParticipantLeft   EventKind = "participant_left"
	EventKindOther             EventKind = "other"
)

// EventParticipant is the normalized participant data carried on join/leave
// events.
type EventParticipant struct {
	Identity  string     `json:"identity"`
	Name      string     `json:"name,omitempty"`
	JoinTime  *time.Time `json:"join_time,omitempty"`
	LeaveTime *time.Time `json:"leave_time,omitempty"`
}

// CanonicalEvent is the provider-agnostic representation of one webhook
// occurrence, produced by a provider adapter. It is immutable once logged.
type CanonicalEvent struct {
	// EventID is the provider-assigned delivery identifier and the
	// deduplication key. Globally unique per provider; adapters for providers
	// that do not issue one synthesize a fallback.
	EventID string `json:"event_id"`

	Platform          string `json:"platform"`
	PlatformMeetingID string `json:"platform_meeting_id,omitempty"`
	DisplayNumber     string `json:"display_number,omitempty"`

	Kind       EventKind `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`

	// OccurredAtInferred is set when the provider payload carried no usable
	// timestamp and the adapter substituted ingestion time.
	OccurredAtInferred bool `json:"occurred_at_inferred,omitempty"`

	// Segment is present on meeting-ended events when the provider reports
	// start/end telemetry directly.
	Segment *TimeSegment `json:"segment,omitempty"`

	// RecordingURL is present on recording-ready events.
	RecordingURL string `json:"recording_url,omitempty"`

	// Participant is present on participant join/leave events.
	Participant *EventParticipant `json:"participant,omitempty"`

	// RawPayload retains the original provider payload for audit. It is never
	// reparsed downstream.
	RawPayload json.RawMessage `json:"raw_payload,omitempty"`
}

// StoredEvent is a CanonicalEvent as persisted in the append-only event log.
type StoredEvent struct {
	CanonicalEvent
	ReceivedAt time.Time `json:"received_at"`
}
