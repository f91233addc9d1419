// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/mocks"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
	"github.com/openconf/meeting-lifecycle-service/internal/metrics"
)

func setupCorrelationServiceForTesting() (*CorrelationService, *mocks.MockMeetingRepository) {
	mockRepo := new(mocks.MockMeetingRepository)
	service := NewCorrelationService(mockRepo, metrics.NewNoopSink())
	return service, mockRepo
}

func TestCorrelationService_Resolve_StableIDPrimary(t *testing.T) {
	service, mockRepo := setupCorrelationServiceForTesting()

	meeting := &models.Meeting{UID: "m1", Platform: models.PlatformWebex, PlatformMeetingID: "stable-1"}
	mockRepo.On("GetByPlatformMeetingID", mock.Anything, models.PlatformWebex, "stable-1").Return(meeting, nil)
	mockRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(3), nil)

	event := &models.CanonicalEvent{
		Platform:          models.PlatformWebex,
		PlatformMeetingID: "stable-1",
		DisplayNumber:     "2551234567",
	}

	resolved, revision, err := service.Resolve(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "m1", resolved.UID)
	assert.Equal(t, uint64(3), revision)
	// The display number is never consulted when the stable id matches.
	mockRepo.AssertNotCalled(t, "ListByDisplayNumber", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCorrelationService_Resolve_DisplayNumberFallback(t *testing.T) {
	service, mockRepo := setupCorrelationServiceForTesting()
	now := time.Now().UTC()
	service.now = func() time.Time { return now }

	olderCreated := now.Add(-3 * 24 * time.Hour)
	newerCreated := now.Add(-1 * time.Hour)
	older := &models.Meeting{UID: "m-old", Platform: models.PlatformZoom, DisplayNumber: "987", Status: models.MeetingStatusScheduled, CreatedAt: &olderCreated}
	newer := &models.Meeting{UID: "m-new", Platform: models.PlatformZoom, DisplayNumber: "987", Status: models.MeetingStatusScheduled, CreatedAt: &newerCreated}

	mockRepo.On("ListByDisplayNumber", mock.Anything, "987", now.Add(-7*24*time.Hour), now).
		Return([]*models.Meeting{older, newer}, nil)
	mockRepo.On("GetWithRevision", mock.Anything, "m-new").Return(newer, uint64(1), nil)

	event := &models.CanonicalEvent{Platform: models.PlatformZoom, DisplayNumber: "987"}

	resolved, _, err := service.Resolve(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "m-new", resolved.UID)
}

func TestCorrelationService_Resolve_WindowAnchorsOnEventTime(t *testing.T) {
	service, mockRepo := setupCorrelationServiceForTesting()

	occurred := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	created := occurred.Add(-time.Hour)
	meeting := &models.Meeting{UID: "m1", Platform: models.PlatformZoom, DisplayNumber: "987", Status: models.MeetingStatusScheduled, CreatedAt: &created}

	mockRepo.On("ListByDisplayNumber", mock.Anything, "987", occurred.Add(-7*24*time.Hour), occurred).
		Return([]*models.Meeting{meeting}, nil)
	mockRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(1), nil)

	event := &models.CanonicalEvent{Platform: models.PlatformZoom, DisplayNumber: "987", OccurredAt: occurred}

	resolved, _, err := service.Resolve(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "m1", resolved.UID)
	mockRepo.AssertExpectations(t)
}

func TestCorrelationService_Resolve_FallsBackWhenStableIDUnknown(t *testing.T) {
	service, mockRepo := setupCorrelationServiceForTesting()
	now := time.Now().UTC()
	service.now = func() time.Time { return now }

	created := now.Add(-time.Hour)
	meeting := &models.Meeting{UID: "m1", Platform: models.PlatformWebex, DisplayNumber: "255", Status: models.MeetingStatusScheduled, CreatedAt: &created}

	mockRepo.On("GetByPlatformMeetingID", mock.Anything, models.PlatformWebex, "stale-id").
		Return(nil, domain.NewNotFoundError("no meeting found"))
	mockRepo.On("ListByDisplayNumber", mock.Anything, "255", mock.Anything, mock.Anything).
		Return([]*models.Meeting{meeting}, nil)
	mockRepo.On("GetWithRevision", mock.Anything, "m1").Return(meeting, uint64(2), nil)

	event := &models.CanonicalEvent{Platform: models.PlatformWebex, PlatformMeetingID: "stale-id", DisplayNumber: "255"}

	resolved, _, err := service.Resolve(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "m1", resolved.UID)
}

func TestCorrelationService_Resolve_SkipsTerminatedCandidates(t *testing.T) {
	service, mockRepo := setupCorrelationServiceForTesting()
	now := time.Now().UTC()
	service.now = func() time.Time { return now }

	created := now.Add(-time.Hour)
	cancelled := &models.Meeting{UID: "m-cancelled", Platform: models.PlatformZoom, DisplayNumber: "987", Status: models.MeetingStatusCancelled, CreatedAt: &created}

	mockRepo.On("ListByDisplayNumber", mock.Anything, "987", mock.Anything, mock.Anything).
		Return([]*models.Meeting{cancelled}, nil)

	event := &models.CanonicalEvent{Platform: models.PlatformZoom, DisplayNumber: "987"}

	_, _, err := service.Resolve(context.Background(), event)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestCorrelationService_Resolve_SkipsOtherPlatform(t *testing.T) {
	service, mockRepo := setupCorrelationServiceForTesting()
	now := time.Now().UTC()
	service.now = func() time.Time { return now }

	created := now.Add(-time.Hour)
	webexMeeting := &models.Meeting{UID: "m-webex", Platform: models.PlatformWebex, DisplayNumber: "987", Status: models.MeetingStatusScheduled, CreatedAt: &created}

	mockRepo.On("ListByDisplayNumber", mock.Anything, "987", mock.Anything, mock.Anything).
		Return([]*models.Meeting{webexMeeting}, nil)

	event := &models.CanonicalEvent{Platform: models.PlatformZoom, DisplayNumber: "987"}

	_, _, err := service.Resolve(context.Background(), event)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestCorrelationService_Resolve_NoIdentifiers(t *testing.T) {
	service, _ := setupCorrelationServiceForTesting()

	event := &models.CanonicalEvent{Platform: models.PlatformZoom}

	_, _, err := service.Resolve(context.Background(), event)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}
