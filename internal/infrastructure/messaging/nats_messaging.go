// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

// Package messaging contains the NATS publisher for outbound lifecycle
// notifications.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
	"github.com/openconf/meeting-lifecycle-service/internal/logging"
)

// INatsConn is a NATS connection interface needed by the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder builds outbound messages and sends them to the NATS server.
// It implements [domain.MessageBuilder].
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

func (m *MessageBuilder) sendJSONMessage(ctx context.Context, subject string, data any) error {
	messageBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}
	return m.sendMessage(ctx, subject, messageBytes)
}

// SendMeetingFinalized publishes the single downstream notification for a
// durably finalized meeting. Delivery is at-most-effectively-once: there is no
// retry here and downstream consumers must be idempotent on the meeting UID.
func (m *MessageBuilder) SendMeetingFinalized(ctx context.Context, data models.MeetingFinalizedMessage) error {
	return m.sendJSONMessage(ctx, models.MeetingFinalizedSubject, data)
}

// SendMeetingStatusChanged publishes a lifecycle transition notification for
// observability and auditing.
func (m *MessageBuilder) SendMeetingStatusChanged(ctx context.Context, data models.MeetingStatusChangedMessage) error {
	return m.sendJSONMessage(ctx, models.MeetingStatusChangedSubject, data)
}
