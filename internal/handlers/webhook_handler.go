// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

// Package handlers contains the NATS message handlers of the lifecycle
// service.
package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/domain/models"
	"github.com/openconf/meeting-lifecycle-service/internal/logging"
	"github.com/openconf/meeting-lifecycle-service/internal/service"
)

// WebhookEventHandler receives raw provider webhook deliveries off the bus,
// normalizes and records them, and routes new events into the lifecycle
// services. Deduplication is synchronous so the ack tells the forwarder the
// event is durably logged; everything after the log rides on redelivery plus
// idempotency.
type WebhookEventHandler struct {
	registry    domain.ProviderRegistry
	eventLog    *service.EventLogService
	correlation *service.CorrelationService
	lifecycle   *service.LifecycleService
}

// NewWebhookEventHandler creates a new webhook event handler.
func NewWebhookEventHandler(
	registry domain.ProviderRegistry,
	eventLog *service.EventLogService,
	correlation *service.CorrelationService,
	lifecycle *service.LifecycleService,
) *WebhookEventHandler {
	return &WebhookEventHandler{
		registry:    registry,
		eventLog:    eventLog,
		correlation: correlation,
		lifecycle:   lifecycle,
	}
}

// HandlerReady checks if the handler and its services are ready.
func (h *WebhookEventHandler) HandlerReady() bool {
	return h.registry != nil &&
		h.eventLog != nil && h.eventLog.ServiceReady() &&
		h.correlation != nil && h.correlation.ServiceReady() &&
		h.lifecycle != nil && h.lifecycle.ServiceReady()
}

// HandleMessage normalizes and records one webhook delivery. The reply is sent
// only once the event is durably in the log; on any failure before that point
// no reply is sent, so the forwarder redelivers and the dedup guard absorbs
// the retry.
func (h *WebhookEventHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))

	platform, ok := platformFromSubject(subject)
	if !ok {
		slog.WarnContext(ctx, "webhook message on unrecognized subject, dropping")
		return
	}
	ctx = logging.AppendCtx(ctx, slog.String("platform", platform))

	adapter, err := h.registry.GetAdapter(platform)
	if err != nil {
		slog.ErrorContext(ctx, "no adapter registered for platform", logging.ErrKey, err)
		return
	}

	event, err := adapter.Normalize(ctx, msg.Data())
	if err != nil {
		// Malformed payloads never become parseable on redelivery; ack and drop.
		slog.WarnContext(ctx, "failed to normalize webhook payload, dropping", logging.ErrKey, err)
		h.respond(ctx, msg)
		return
	}
	ctx = logging.AppendCtx(ctx, slog.String("event_id", event.EventID))

	stored, isNew, err := h.eventLog.RecordEvent(ctx, event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to record webhook event, leaving for redelivery", logging.ErrKey, err)
		return
	}
	h.respond(ctx, msg)

	if !isNew {
		return
	}

	// Routing happens off the consumer goroutine so a slow lifecycle update
	// never stalls the subscription. WithoutCancel keeps the routing alive
	// through subscription teardown.
	go h.routeEvent(context.WithoutCancel(ctx), stored)
}

func (h *WebhookEventHandler) routeEvent(ctx context.Context, stored *models.StoredEvent) {
	meeting, revision, err := h.correlation.Resolve(ctx, &stored.CanonicalEvent)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			slog.WarnContext(ctx, "event matched no meeting record, dropping")
			return
		}
		slog.ErrorContext(ctx, "failed to correlate event", logging.ErrKey, err)
		return
	}

	if err := h.lifecycle.HandleEvent(ctx, meeting, revision, &stored.CanonicalEvent); err != nil {
		slog.ErrorContext(ctx, "failed to apply event to meeting", logging.ErrKey, err)
	}
}

func (h *WebhookEventHandler) respond(ctx context.Context, msg domain.Message) {
	if !msg.HasReply() {
		return
	}
	if err := msg.Respond(nil); err != nil {
		slog.ErrorContext(ctx, "failed to respond to message", logging.ErrKey, err)
	}
}

// platformFromSubject extracts the provider token from subjects of the form
// lifecycle.webhook.<provider>.<event>.
func platformFromSubject(subject string) (string, bool) {
	parts := strings.Split(subject, ".")
	if len(parts) != 4 || parts[0] != "lifecycle" || parts[1] != "webhook" {
		return "", false
	}
	switch parts[2] {
	case models.PlatformZoom, models.PlatformWebex:
		return parts[2], true
	default:
		return "", false
	}
}
