// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"

	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
)

// NatsEventRepository is the NATS KV store repository for the append-only
// canonical event log. It implements [domain.EventRepository].
type NatsEventRepository struct {
	*NatsBaseRepository[models.StoredEvent]
}

// NewNatsEventRepository creates a new NATS KV store repository for webhook
// events.
func NewNatsEventRepository(kvStore INatsKeyValue) *NatsEventRepository {
	return &NatsEventRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.StoredEvent](kvStore, "webhook event"),
	}
}

// Get retrieves a stored event by its provider-assigned identifier.
func (r *NatsEventRepository) Get(ctx context.Context, platform, eventID string) (*models.StoredEvent, error) {
	return r.NatsBaseRepository.Get(ctx, webhookEventKey(platform, eventID))
}

// Create appends the event to the log. The create-only KV write makes the
// check-then-insert atomic against concurrent redelivery of the same event id;
// a duplicate surfaces as a conflict error.
func (r *NatsEventRepository) Create(ctx context.Context, event *models.StoredEvent) error {
	return r.NatsBaseRepository.Create(ctx, webhookEventKey(event.Platform, event.EventID), event)
}
