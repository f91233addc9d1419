// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// CompletionSender publishes the single downstream notification for a durably
// finalized meeting.
type CompletionSender interface {
	SendMeetingFinalized(ctx context.Context, data models.MeetingFinalizedMessage) error
}

// StatusSender publishes lifecycle transition notifications for observability.
type StatusSender interface {
	SendMeetingStatusChanged(ctx context.Context, data models.MeetingStatusChangedMessage) error
}

// MessageBuilder is the full outbound messaging surface of the service.
type MessageBuilder interface {
	CompletionSender
	StatusSender
}
