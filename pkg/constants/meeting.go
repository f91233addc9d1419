// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package constants

import "time"

// Lifecycle timing constraints.
const (
	// CompletionConfirmationDelay is the grace delay between a meeting-ended
	// observation and the verified transition to ended. A single ended
	// webhook is not trustworthy proof of completion because the host may
	// immediately restart the meeting.
	CompletionConfirmationDelay = 30 * time.Minute

	// StaleMeetingThreshold is how far past its scheduled start a meeting
	// that never started may be before the sweeper expires it.
	StaleMeetingThreshold = 24 * time.Hour

	// CorrelationWindow bounds the display-number fallback search. Display
	// numbers are reused by providers, so only meetings created within this
	// window of the event occurrence are correlation candidates.
	CorrelationWindow = 7 * 24 * time.Hour

	// MaxReasonableDurationFactor caps the accumulated duration considered
	// plausible, as a multiple of the scheduled duration.
	MaxReasonableDurationFactor = 3
)
