// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"time"

	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
	"github.com/openconf/meeting-lifecycle-service/pkg/constants"
)

// TotalSegmentSeconds sums the lengths of the meeting's active segments.
// Negative segments (clock skew between provider timestamps) contribute zero.
func TotalSegmentSeconds(segments []models.TimeSegment) int64 {
	var total int64
	for _, segment := range segments {
		if secs := segment.Seconds(); secs > 0 {
			total += secs
		}
	}
	return total
}

// ApplyJoin records a participant joining. An open span for the same identity
// is left untouched: providers redeliver join events and some emit one per
// device, and the earliest join bounds the span.
func ApplyJoin(spans []models.ParticipantSpan, identity string, joinTime time.Time) []models.ParticipantSpan {
	for _, span := range spans {
		if span.Identity == identity && span.LeaveTime == nil {
			return spans
		}
	}
	return append(spans, models.ParticipantSpan{
		Identity: identity,
		JoinTime: joinTime,
	})
}

// ApplyLeave closes the open span for the identity. A leave with no matching
// open span is dropped: the join was never observed, so there is nothing to
// measure.
func ApplyLeave(spans []models.ParticipantSpan, identity string, leaveTime time.Time) []models.ParticipantSpan {
	for i := range spans {
		if spans[i].Identity == identity && spans[i].LeaveTime == nil {
			t := leaveTime
			spans[i].LeaveTime = &t
			return spans
		}
	}
	return spans
}

// ParticipantSeconds totals the closed spans for one identity. Open spans are
// excluded; they close when the leave event arrives or the meeting finalizes.
func ParticipantSeconds(spans []models.ParticipantSpan, identity string) int64 {
	var total int64
	for _, span := range spans {
		if span.Identity != identity || span.LeaveTime == nil {
			continue
		}
		if secs := int64(span.LeaveTime.Sub(span.JoinTime).Seconds()); secs > 0 {
			total += secs
		}
	}
	return total
}

// OverlapSeconds computes the shared presence of two identities across their
// closed spans: for each pair of spans, the latest join to the earliest leave,
// clamped at zero when they never coincide.
func OverlapSeconds(spans []models.ParticipantSpan, identityA, identityB string) int64 {
	var total int64
	for _, a := range spans {
		if a.Identity != identityA || a.LeaveTime == nil {
			continue
		}
		for _, b := range spans {
			if b.Identity != identityB || b.LeaveTime == nil {
				continue
			}
			start := a.JoinTime
			if b.JoinTime.After(start) {
				start = b.JoinTime
			}
			end := *a.LeaveTime
			if b.LeaveTime.Before(end) {
				end = *b.LeaveTime
			}
			if secs := int64(end.Sub(start).Seconds()); secs > 0 {
				total += secs
			}
		}
	}
	return total
}

// DeriveSegmentFromSpans reconstructs an active segment from participant
// activity when the provider's ended event carried no explicit start/end
// times: earliest join to latest leave. Returns nil when no span is closed.
func DeriveSegmentFromSpans(spans []models.ParticipantSpan) *models.TimeSegment {
	var earliest, latest *time.Time
	for i := range spans {
		span := spans[i]
		if span.LeaveTime == nil {
			continue
		}
		if earliest == nil || span.JoinTime.Before(*earliest) {
			t := span.JoinTime
			earliest = &t
		}
		if latest == nil || span.LeaveTime.After(*latest) {
			latest = span.LeaveTime
		}
	}
	if earliest == nil || latest == nil {
		return nil
	}
	return &models.TimeSegment{StartTime: *earliest, EndTime: *latest}
}

// ValidateDuration reports whether the accumulated duration is plausible for
// the scheduled length. Implausible durations are flagged, never blocked: the
// record still finalizes so downstream consumers see it, with a warning for
// operators to investigate.
func ValidateDuration(actualSeconds int64, scheduledMinutes int) bool {
	if actualSeconds < 0 {
		return false
	}
	if scheduledMinutes <= 0 {
		return true
	}
	maxSeconds := int64(scheduledMinutes) * 60 * constants.MaxReasonableDurationFactor
	return actualSeconds <= maxSeconds
}
