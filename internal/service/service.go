// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

// Package service contains the business logic of the meeting lifecycle
// service: the idempotent event log, correlation, state machine, delayed
// completion verification, duration computation, and the stale-meeting
// sweeper.
package service

import (
	"github.com/openconf/meeting-lifecycle-service/internal/domain"
	"github.com/openconf/meeting-lifecycle-service/internal/metrics"
)

// ServiceConfig holds the dependencies shared by the lifecycle services.
type ServiceConfig struct {
	MeetingRepository domain.MeetingRepository
	EventRepository   domain.EventRepository
	MessageBuilder    domain.MessageBuilder
	Metrics           metrics.Sink
}
