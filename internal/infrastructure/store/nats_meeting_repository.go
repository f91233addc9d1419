// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
)

// NatsMeetingRepository is the NATS KV store repository for meeting lifecycle
// records. It implements [domain.MeetingRepository].
type NatsMeetingRepository struct {
	*NatsBaseRepository[models.Meeting]
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(kvStore INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Meeting](kvStore, "meeting"),
	}
}

// GetByPlatformMeetingID resolves a meeting by its provider-issued stable
// identifier. When the provider has issued the identifier to more than one
// record over time, the most recently created non-expired record wins.
func (r *NatsMeetingRepository) GetByPlatformMeetingID(ctx context.Context, platform, platformMeetingID string) (*models.Meeting, error) {
	meetings, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var match *models.Meeting
	for _, meeting := range meetings {
		if meeting.Platform != platform || meeting.PlatformMeetingID != platformMeetingID {
			continue
		}
		if meeting.Status == models.MeetingStatusExpired {
			continue
		}
		if match == nil || createdAfter(meeting, match) {
			match = meeting
		}
	}

	if match == nil {
		return nil, domain.NewNotFoundError("no meeting found for platform meeting ID " + platformMeetingID)
	}
	return match, nil
}

// ListByDisplayNumber returns meetings carrying the given display number whose
// creation time falls within (createdAfter, before].
func (r *NatsMeetingRepository) ListByDisplayNumber(ctx context.Context, displayNumber string, createdAfter, before time.Time) ([]*models.Meeting, error) {
	meetings, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := []*models.Meeting{}
	for _, meeting := range meetings {
		if meeting.DisplayNumber != displayNumber || meeting.CreatedAt == nil {
			continue
		}
		if meeting.CreatedAt.After(createdAfter) && !meeting.CreatedAt.After(before) {
			matches = append(matches, meeting)
		}
	}

	return matches, nil
}

// ListByStatus returns all meetings currently in the given lifecycle state.
func (r *NatsMeetingRepository) ListByStatus(ctx context.Context, status models.MeetingStatus) ([]*models.Meeting, error) {
	meetings, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	matches := []*models.Meeting{}
	for _, meeting := range meetings {
		if meeting.Status == status {
			matches = append(matches, meeting)
		}
	}

	return matches, nil
}

// Create inserts a new meeting record keyed by UID.
func (r *NatsMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	return r.NatsBaseRepository.Create(ctx, meeting.UID, meeting)
}

// Update stores a meeting record with optimistic concurrency control.
func (r *NatsMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	return r.NatsBaseRepository.Update(ctx, meeting.UID, meeting, revision)
}

func createdAfter(a, b *models.Meeting) bool {
	if a.CreatedAt == nil {
		return false
	}
	if b.CreatedAt == nil {
		return true
	}
	return a.CreatedAt.After(*b.CreatedAt)
}
