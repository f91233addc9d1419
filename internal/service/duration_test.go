// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
)

// mustParseTime is a helper function for tests
func mustParseTime(timeStr string) time.Time {
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		panic(err)
	}
	return t
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestTotalSegmentSeconds(t *testing.T) {
	tests := []struct {
		name     string
		segments []models.TimeSegment
		expected int64
	}{
		{
			name:     "no segments",
			segments: nil,
			expected: 0,
		},
		{
			name: "single segment",
			segments: []models.TimeSegment{
				{StartTime: mustParseTime("2026-03-10T14:00:00Z"), EndTime: mustParseTime("2026-03-10T14:45:00Z")},
			},
			expected: 2700,
		},
		{
			name: "restart accumulates both segments",
			segments: []models.TimeSegment{
				{StartTime: mustParseTime("2026-03-10T14:00:00Z"), EndTime: mustParseTime("2026-03-10T14:30:00Z")},
				{StartTime: mustParseTime("2026-03-10T14:35:00Z"), EndTime: mustParseTime("2026-03-10T15:00:00Z")},
			},
			expected: 3300,
		},
		{
			name: "inverted segment contributes zero",
			segments: []models.TimeSegment{
				{StartTime: mustParseTime("2026-03-10T15:00:00Z"), EndTime: mustParseTime("2026-03-10T14:00:00Z")},
				{StartTime: mustParseTime("2026-03-10T15:10:00Z"), EndTime: mustParseTime("2026-03-10T15:20:00Z")},
			},
			expected: 600,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, TotalSegmentSeconds(tc.segments))
		})
	}
}

func TestApplyJoinAndLeave(t *testing.T) {
	joinA := mustParseTime("2026-03-10T14:00:00Z")
	leaveA := mustParseTime("2026-03-10T14:30:00Z")

	var spans []models.ParticipantSpan
	spans = ApplyJoin(spans, "a@example.org", joinA)
	require.Len(t, spans, 1)
	assert.Nil(t, spans[0].LeaveTime)

	// A redelivered join does not open a second span.
	spans = ApplyJoin(spans, "a@example.org", joinA.Add(time.Minute))
	require.Len(t, spans, 1)

	spans = ApplyLeave(spans, "a@example.org", leaveA)
	require.Len(t, spans, 1)
	require.NotNil(t, spans[0].LeaveTime)
	assert.Equal(t, leaveA, *spans[0].LeaveTime)

	// Rejoin opens a fresh span.
	spans = ApplyJoin(spans, "a@example.org", leaveA.Add(5*time.Minute))
	require.Len(t, spans, 2)

	// A leave with no open span is dropped.
	spans = ApplyLeave(spans, "never-joined@example.org", leaveA)
	assert.Len(t, spans, 2)
}

func TestParticipantSeconds(t *testing.T) {
	spans := []models.ParticipantSpan{
		{
			Identity:  "mentor@example.org",
			JoinTime:  mustParseTime("2026-03-10T14:00:00Z"),
			LeaveTime: timePtr(mustParseTime("2026-03-10T15:00:00Z")),
		},
		{
			Identity:  "student@example.org",
			JoinTime:  mustParseTime("2026-03-10T14:15:00Z"),
			LeaveTime: timePtr(mustParseTime("2026-03-10T15:00:00Z")),
		},
		{
			Identity: "open@example.org",
			JoinTime: mustParseTime("2026-03-10T14:00:00Z"),
		},
	}

	assert.Equal(t, int64(3600), ParticipantSeconds(spans, "mentor@example.org"))
	assert.Equal(t, int64(2700), ParticipantSeconds(spans, "student@example.org"))
	// Open spans contribute nothing until closed.
	assert.Equal(t, int64(0), ParticipantSeconds(spans, "open@example.org"))
	assert.Equal(t, int64(0), ParticipantSeconds(spans, "absent@example.org"))
}

func TestOverlapSeconds(t *testing.T) {
	spans := []models.ParticipantSpan{
		{
			Identity:  "mentor@example.org",
			JoinTime:  mustParseTime("2026-03-10T14:00:00Z"),
			LeaveTime: timePtr(mustParseTime("2026-03-10T15:00:00Z")),
		},
		{
			Identity:  "student@example.org",
			JoinTime:  mustParseTime("2026-03-10T14:15:00Z"),
			LeaveTime: timePtr(mustParseTime("2026-03-10T15:00:00Z")),
		},
	}

	// Latest join 14:15, earliest leave 15:00.
	assert.Equal(t, int64(2700), OverlapSeconds(spans, "mentor@example.org", "student@example.org"))
	assert.Equal(t, int64(2700), OverlapSeconds(spans, "student@example.org", "mentor@example.org"))
}

func TestOverlapSeconds_DisjointSpansClampToZero(t *testing.T) {
	spans := []models.ParticipantSpan{
		{
			Identity:  "early@example.org",
			JoinTime:  mustParseTime("2026-03-10T14:00:00Z"),
			LeaveTime: timePtr(mustParseTime("2026-03-10T14:20:00Z")),
		},
		{
			Identity:  "late@example.org",
			JoinTime:  mustParseTime("2026-03-10T14:40:00Z"),
			LeaveTime: timePtr(mustParseTime("2026-03-10T15:00:00Z")),
		},
	}

	assert.Equal(t, int64(0), OverlapSeconds(spans, "early@example.org", "late@example.org"))
}

func TestDeriveSegmentFromSpans(t *testing.T) {
	spans := []models.ParticipantSpan{
		{
			Identity:  "a@example.org",
			JoinTime:  mustParseTime("2026-03-10T14:05:00Z"),
			LeaveTime: timePtr(mustParseTime("2026-03-10T14:50:00Z")),
		},
		{
			Identity:  "b@example.org",
			JoinTime:  mustParseTime("2026-03-10T14:00:00Z"),
			LeaveTime: timePtr(mustParseTime("2026-03-10T14:40:00Z")),
		},
	}

	segment := DeriveSegmentFromSpans(spans)
	require.NotNil(t, segment)
	assert.Equal(t, mustParseTime("2026-03-10T14:00:00Z"), segment.StartTime)
	assert.Equal(t, mustParseTime("2026-03-10T14:50:00Z"), segment.EndTime)
}

func TestDeriveSegmentFromSpans_NoClosedSpans(t *testing.T) {
	assert.Nil(t, DeriveSegmentFromSpans(nil))

	open := []models.ParticipantSpan{
		{Identity: "a@example.org", JoinTime: mustParseTime("2026-03-10T14:00:00Z")},
	}
	assert.Nil(t, DeriveSegmentFromSpans(open))
}

func TestValidateDuration(t *testing.T) {
	tests := []struct {
		name             string
		actualSeconds    int64
		scheduledMinutes int
		expected         bool
	}{
		{name: "plausible duration", actualSeconds: 3300, scheduledMinutes: 60, expected: true},
		{name: "exactly at the bound", actualSeconds: 10800, scheduledMinutes: 60, expected: true},
		{name: "implausibly long", actualSeconds: 11000, scheduledMinutes: 60, expected: false},
		{name: "negative duration", actualSeconds: -1, scheduledMinutes: 60, expected: false},
		{name: "no scheduled length accepts anything", actualSeconds: 100000, scheduledMinutes: 0, expected: true},
		{name: "zero duration", actualSeconds: 0, scheduledMinutes: 30, expected: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ValidateDuration(tc.actualSeconds, tc.scheduledMinutes))
		})
	}
}
