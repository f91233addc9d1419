// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
)

func newStoredEvent(platform, eventID string) *models.StoredEvent {
	return &models.StoredEvent{
		CanonicalEvent: models.CanonicalEvent{
			EventID:    eventID,
			Platform:   platform,
			Kind:       models.EventKindMeetingStarted,
			OccurredAt: time.Now().UTC(),
		},
		ReceivedAt: time.Now().UTC(),
	}
}

func TestNatsEventRepository_CreateAndGet(t *testing.T) {
	repo := NewNatsEventRepository(NewMockNatsKeyValue())
	ctx := context.Background()

	event := newStoredEvent(models.PlatformWebex, "delivery-1")
	require.NoError(t, repo.Create(ctx, event))

	got, err := repo.Get(ctx, models.PlatformWebex, "delivery-1")
	require.NoError(t, err)
	assert.Equal(t, "delivery-1", got.EventID)
	assert.Equal(t, models.PlatformWebex, got.Platform)
}

func TestNatsEventRepository_DuplicateCreateConflicts(t *testing.T) {
	repo := NewNatsEventRepository(NewMockNatsKeyValue())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newStoredEvent(models.PlatformZoom, "zoom-u1-meeting.started-1")))

	err := repo.Create(ctx, newStoredEvent(models.PlatformZoom, "zoom-u1-meeting.started-1"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestNatsEventRepository_SameEventIDDifferentPlatforms(t *testing.T) {
	repo := NewNatsEventRepository(NewMockNatsKeyValue())
	ctx := context.Background()

	// Event IDs are only unique per provider; the key is platform-scoped.
	require.NoError(t, repo.Create(ctx, newStoredEvent(models.PlatformZoom, "shared-id")))
	require.NoError(t, repo.Create(ctx, newStoredEvent(models.PlatformWebex, "shared-id")))
}

func TestNatsEventRepository_GetMissing(t *testing.T) {
	repo := NewNatsEventRepository(NewMockNatsKeyValue())

	_, err := repo.Get(context.Background(), models.PlatformZoom, "never-seen")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}
