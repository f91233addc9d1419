// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
	"time"

	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
)

// MeetingRepository is the persistence boundary for meeting lifecycle records.
type MeetingRepository interface {
	Get(ctx context.Context, meetingUID string) (*models.Meeting, error)
	GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error)

	// GetByPlatformMeetingID resolves a meeting by its provider-issued stable
	// identifier. At most one non-expired record is current for a given
	// stable identifier.
	GetByPlatformMeetingID(ctx context.Context, platform, platformMeetingID string) (*models.Meeting, error)

	// ListByDisplayNumber returns all meetings with the given display number
	// created within the window ending at before. Display numbers are
	// reusable, so callers tie-break on CreatedAt.
	ListByDisplayNumber(ctx context.Context, displayNumber string, createdAfter, before time.Time) ([]*models.Meeting, error)

	ListByStatus(ctx context.Context, status models.MeetingStatus) ([]*models.Meeting, error)

	Create(ctx context.Context, meeting *models.Meeting) error
	Update(ctx context.Context, meeting *models.Meeting, revision uint64) error
}

// EventRepository is the append-only canonical event log.
type EventRepository interface {
	Get(ctx context.Context, platform, eventID string) (*models.StoredEvent, error)

	// Create inserts the event, failing with a conflict error if an event
	// with the same (platform, event id) already exists. The insert is atomic
	// against concurrent redelivery of the same event id.
	Create(ctx context.Context, event *models.StoredEvent) error
}
