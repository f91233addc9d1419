// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
)

// MockMessageBuilder is a mock implementation of domain.MessageBuilder.
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendMeetingFinalized(ctx context.Context, msg models.MeetingFinalizedMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendMeetingStatusChanged(ctx context.Context, msg models.MeetingStatusChangedMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
