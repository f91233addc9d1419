// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// Platform names for the supported conferencing providers.
const (
	PlatformZoom  = "zoom"
	PlatformWebex = "webex"
)

// MeetingStatus is the lifecycle state of a meeting record.
type MeetingStatus string

// Lifecycle states. Scheduled is the initial state; Ended, Cancelled and
// Expired are terminal.
const (
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusActive    MeetingStatus = "active"
	MeetingStatusEnded     MeetingStatus = "ended"
	MeetingStatusCancelled MeetingStatus = "cancelled"
	MeetingStatusExpired   MeetingStatus = "expired"
)

// IsTerminal reports whether no further lifecycle transitions are applied to a
// record in this state. Recording URL attachment is still allowed.
func (s MeetingStatus) IsTerminal() bool {
	switch s {
	case MeetingStatusEnded, MeetingStatusCancelled, MeetingStatusExpired:
		return true
	}
	return false
}

// validTransitions is the closed transition table for the lifecycle machine.
// A started event may reactivate an ended meeting (host restart), which is why
// ended -> active appears here even though ended is otherwise terminal.
var validTransitions = map[MeetingStatus][]MeetingStatus{
	MeetingStatusScheduled: {MeetingStatusActive, MeetingStatusEnded, MeetingStatusCancelled, MeetingStatusExpired},
	MeetingStatusActive:    {MeetingStatusEnded, MeetingStatusCancelled},
	MeetingStatusEnded:     {MeetingStatusActive},
}

// CanTransitionTo reports whether the lifecycle machine permits a transition
// from s to next.
func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TimeSegment is a contiguous interval during which a meeting was actually in
// progress. EndTime is never before StartTime.
type TimeSegment struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Seconds returns the length of the segment in whole seconds.
func (t TimeSegment) Seconds() int64 {
	return int64(t.EndTime.Sub(t.StartTime) / time.Second)
}

// ParticipantSpan records one join/leave interval for a participant within a
// meeting. LeaveTime is nil while the participant is still in the meeting.
type ParticipantSpan struct {
	Identity  string     `json:"identity"`
	JoinTime  time.Time  `json:"join_time"`
	LeaveTime *time.Time `json:"leave_time,omitempty"`
}

// Meeting is the lifecycle record for one scheduled meeting.
//
// PlatformMeetingID is the provider-issued stable identifier (never reused).
// DisplayNumber is the shorter human-facing number that providers may reuse
// across unrelated meetings, so correlation by display number is always scoped
// to a creation-time window.
type Meeting struct {
	UID                      string            `json:"uid"`
	Platform                 string            `json:"platform"`
	PlatformMeetingID        string            `json:"platform_meeting_id,omitempty"`
	DisplayNumber            string            `json:"display_number,omitempty"`
	Topic                    string            `json:"topic,omitempty"`
	JoinURL                  string            `json:"join_url,omitempty"`
	ScheduledStartTime       time.Time         `json:"scheduled_start_time"`
	ScheduledDurationMinutes int               `json:"scheduled_duration_minutes"`
	Status                   MeetingStatus     `json:"status"`
	Segments                 []TimeSegment     `json:"segments,omitempty"`
	ActualDurationSeconds    int64             `json:"actual_duration_seconds"`
	ParticipantSpans         []ParticipantSpan `json:"participant_spans,omitempty"`
	RecordingURL             *string           `json:"recording_url,omitempty"`
	LastEndedEventAt         *time.Time        `json:"last_ended_event_at,omitempty"`
	PendingTaskID            *string           `json:"pending_task_id,omitempty"`
	CreatedAt                *time.Time        `json:"created_at,omitempty"`
	UpdatedAt                *time.Time        `json:"updated_at,omitempty"`
}

// HasPendingTask reports whether a delayed completion check is currently
// authoritative for this record.
func (m *Meeting) HasPendingTask() bool {
	return m.PendingTaskID != nil && *m.PendingTaskID != ""
}

// IsPendingTask reports whether taskID is the record's currently authoritative
// delayed completion task. A fired task whose id no longer matches is stale.
func (m *Meeting) IsPendingTask(taskID string) bool {
	return m.PendingTaskID != nil && *m.PendingTaskID == taskID
}
