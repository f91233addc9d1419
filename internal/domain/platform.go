// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
)

// ProviderAdapter translates raw provider webhook payloads into canonical
// events. Each adapter independently knows its provider's field layout,
// timestamp units and event-type vocabulary; nothing downstream of an adapter
// inspects provider-specific strings.
type ProviderAdapter interface {
	// ProviderName returns the platform name the adapter handles.
	ProviderName() string

	// Normalize converts one raw webhook payload into a canonical event.
	// A missing timestamp is substituted with ingestion time, and malformed
	// optional fields (segments, URLs) are dropped rather than failing, so
	// the event is always loggable for audit.
	Normalize(ctx context.Context, payload []byte) (*models.CanonicalEvent, error)

	// Classifiers for the provider's raw event-type vocabulary.
	IsMeetingStarted(eventType string) bool
	IsMeetingEnded(eventType string) bool
	IsRecordingReady(eventType string) bool
}

// ProviderRegistry resolves the adapter for a platform name. Adding a provider
// means registering a new adapter; the lifecycle machine is untouched.
type ProviderRegistry interface {
	GetAdapter(platform string) (ProviderAdapter, error)
	RegisterAdapter(platform string, adapter ProviderAdapter)
}
