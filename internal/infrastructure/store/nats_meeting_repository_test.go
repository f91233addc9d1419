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

func newTestMeeting(uid string, createdAt time.Time) *models.Meeting {
	return &models.Meeting{
		UID:           uid,
		Platform:      models.PlatformZoom,
		DisplayNumber: "987654321",
		Status:        models.MeetingStatusScheduled,
		CreatedAt:     &createdAt,
	}
}

func TestNatsMeetingRepository_CreateAndGet(t *testing.T) {
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())
	ctx := context.Background()

	meeting := newTestMeeting("m1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, meeting))

	got, revision, err := repo.GetWithRevision(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "m1", got.UID)
	assert.Equal(t, uint64(1), revision)
}

func TestNatsMeetingRepository_UpdateRevisionConflict(t *testing.T) {
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())
	ctx := context.Background()

	meeting := newTestMeeting("m1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, meeting))

	_, revision, err := repo.GetWithRevision(ctx, "m1")
	require.NoError(t, err)

	meeting.Status = models.MeetingStatusActive
	require.NoError(t, repo.Update(ctx, meeting, revision))

	// A second writer holding the old revision loses.
	err = repo.Update(ctx, meeting, revision)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}

func TestNatsMeetingRepository_GetByPlatformMeetingID(t *testing.T) {
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())
	ctx := context.Background()

	older := newTestMeeting("m-old", time.Now().UTC().Add(-48*time.Hour))
	older.Platform = models.PlatformWebex
	older.PlatformMeetingID = "stable-1"
	require.NoError(t, repo.Create(ctx, older))

	newer := newTestMeeting("m-new", time.Now().UTC().Add(-1*time.Hour))
	newer.Platform = models.PlatformWebex
	newer.PlatformMeetingID = "stable-1"
	require.NoError(t, repo.Create(ctx, newer))

	got, err := repo.GetByPlatformMeetingID(ctx, models.PlatformWebex, "stable-1")
	require.NoError(t, err)
	assert.Equal(t, "m-new", got.UID)
}

func TestNatsMeetingRepository_GetByPlatformMeetingIDSkipsExpired(t *testing.T) {
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())
	ctx := context.Background()

	expired := newTestMeeting("m-expired", time.Now().UTC())
	expired.PlatformMeetingID = "stable-2"
	expired.Status = models.MeetingStatusExpired
	require.NoError(t, repo.Create(ctx, expired))

	_, err := repo.GetByPlatformMeetingID(ctx, models.PlatformZoom, "stable-2")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsMeetingRepository_ListByDisplayNumberWindow(t *testing.T) {
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())
	ctx := context.Background()
	now := time.Now().UTC()

	inWindow := newTestMeeting("m-in", now.Add(-2*24*time.Hour))
	require.NoError(t, repo.Create(ctx, inWindow))

	outOfWindow := newTestMeeting("m-out", now.Add(-10*24*time.Hour))
	require.NoError(t, repo.Create(ctx, outOfWindow))

	otherNumber := newTestMeeting("m-other", now.Add(-1*time.Hour))
	otherNumber.DisplayNumber = "111111111"
	require.NoError(t, repo.Create(ctx, otherNumber))

	matches, err := repo.ListByDisplayNumber(ctx, "987654321", now.Add(-7*24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "m-in", matches[0].UID)
}

func TestNatsMeetingRepository_ListByStatus(t *testing.T) {
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())
	ctx := context.Background()
	now := time.Now().UTC()

	scheduled := newTestMeeting("m-scheduled", now)
	require.NoError(t, repo.Create(ctx, scheduled))

	active := newTestMeeting("m-active", now)
	active.Status = models.MeetingStatusActive
	require.NoError(t, repo.Create(ctx, active))

	matches, err := repo.ListByStatus(ctx, models.MeetingStatusScheduled)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "m-scheduled", matches[0].UID)
}

func TestNatsMeetingRepository_DuplicateCreateConflicts(t *testing.T) {
	repo := NewNatsMeetingRepository(NewMockNatsKeyValue())
	ctx := context.Background()

	meeting := newTestMeeting("m1", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, meeting))

	err := repo.Create(ctx, meeting)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
}
