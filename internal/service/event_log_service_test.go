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

func setupEventLogServiceForTesting() (*EventLogService, *mocks.MockEventRepository) {
	mockRepo := new(mocks.MockEventRepository)
	return NewEventLogService(mockRepo, metrics.NewNoopSink()), mockRepo
}

func testCanonicalEvent(eventID string) *models.CanonicalEvent {
	return &models.CanonicalEvent{
		EventID:       eventID,
		Platform:      models.PlatformZoom,
		DisplayNumber: "987654321",
		Kind:          models.EventKindMeetingStarted,
		OccurredAt:    time.Now().UTC(),
	}
}

func TestEventLogService_ServiceReady(t *testing.T) {
	service, _ := setupEventLogServiceForTesting()
	assert.True(t, service.ServiceReady())

	service.eventRepository = nil
	assert.False(t, service.ServiceReady())
}

func TestEventLogService_RecordEvent_New(t *testing.T) {
	service, mockRepo := setupEventLogServiceForTesting()
	event := testCanonicalEvent("event-1")

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(stored *models.StoredEvent) bool {
		return stored.EventID == "event-1" && !stored.ReceivedAt.IsZero()
	})).Return(nil)

	stored, isNew, err := service.RecordEvent(context.Background(), event)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "event-1", stored.EventID)
	mockRepo.AssertExpectations(t)
}

func TestEventLogService_RecordEvent_Duplicate(t *testing.T) {
	service, mockRepo := setupEventLogServiceForTesting()
	event := testCanonicalEvent("event-1")

	original := &models.StoredEvent{
		CanonicalEvent: *testCanonicalEvent("event-1"),
		ReceivedAt:     time.Now().UTC().Add(-time.Minute),
	}

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(domain.NewConflictError("webhook event with key already exists"))
	mockRepo.On("Get", mock.Anything, models.PlatformZoom, "event-1").Return(original, nil)

	stored, isNew, err := service.RecordEvent(context.Background(), event)
	require.NoError(t, err)
	assert.False(t, isNew)
	// The duplicate returns the original delivery, not the redelivered copy.
	assert.Equal(t, original.ReceivedAt, stored.ReceivedAt)
	mockRepo.AssertExpectations(t)
}

func TestEventLogService_RecordEvent_StoreError(t *testing.T) {
	service, mockRepo := setupEventLogServiceForTesting()

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(domain.NewInternalError("failed to store webhook event"))

	_, _, err := service.RecordEvent(context.Background(), testCanonicalEvent("event-1"))
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeInternal, domain.GetErrorType(err))
}
