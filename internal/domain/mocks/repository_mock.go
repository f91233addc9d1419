// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
)

// MockMeetingRepository is a mock implementation of domain.MeetingRepository.
type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) GetWithRevision(ctx context.Context, meetingUID string) (*models.Meeting, uint64, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*models.Meeting), args.Get(1).(uint64), args.Error(2)
}

func (m *MockMeetingRepository) GetByPlatformMeetingID(ctx context.Context, platform, platformMeetingID string) (*models.Meeting, error) {
	args := m.Called(ctx, platform, platformMeetingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) ListByDisplayNumber(ctx context.Context, displayNumber string, createdAfter, before time.Time) ([]*models.Meeting, error) {
	args := m.Called(ctx, displayNumber, createdAfter, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) ListByStatus(ctx context.Context, status models.MeetingStatus) ([]*models.Meeting, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) Update(ctx context.Context, meeting *models.Meeting, revision uint64) error {
	args := m.Called(ctx, meeting, revision)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of domain.EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Get(ctx context.Context, platform, eventID string) (*models.StoredEvent, error) {
	args := m.Called(ctx, platform, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoredEvent), args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, event *models.StoredEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
