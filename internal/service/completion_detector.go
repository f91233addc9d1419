// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openconf/meeting-lifecycle-service/internal/logging"
	"github.com/openconf/meeting-lifecycle-service/internal/metrics"
	"github.com/openconf/meeting-lifecycle-service/pkg/constants"
)

// Finalizer is the callback a fired completion check invokes. The task ID lets
// the callee reject checks that a newer ended event has superseded.
type Finalizer interface {
	Finalize(ctx context.Context, meetingUID, taskID string) error
}

type delayedTask struct {
	meetingUID    string
	displayNumber string
	timer         *time.Timer
}

// CompletionDetector schedules cancellable delayed completion checks. An ended
// event does not finalize a meeting immediately: the check fires after a
// confirmation delay, and a restart in the meantime cancels it.
//
// Tasks live in process memory only. A restart of the service loses pending
// checks; the stale-meeting sweeper is the backstop for records stranded that
// way.
type CompletionDetector struct {
	mu      sync.Mutex
	tasks   map[string]*delayedTask
	stopped bool

	finalizer Finalizer
	metrics   metrics.Sink

	// delay and now are injectable for tests.
	delay time.Duration
	now   func() time.Time
}

// NewCompletionDetector creates a new completion detector. The finalizer is
// attached separately via SetFinalizer since the lifecycle service and the
// detector reference each other.
func NewCompletionDetector(sink metrics.Sink) *CompletionDetector {
	return &CompletionDetector{
		tasks:   make(map[string]*delayedTask),
		metrics: sink,
		delay:   constants.CompletionConfirmationDelay,
		now:     time.Now,
	}
}

// SetFinalizer attaches the callback invoked when a check fires. Must be
// called before the first Schedule.
func (d *CompletionDetector) SetFinalizer(finalizer Finalizer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.finalizer = finalizer
}

// Schedule registers a delayed completion check for the meeting and returns
// its task ID. The delay counts from referenceTime, the moment the ended event
// was observed, so late webhook deliveries do not stretch the wait; a
// reference already older than the delay fires near-immediately.
func (d *CompletionDetector) Schedule(ctx context.Context, meetingUID, displayNumber string, referenceTime time.Time) string {
	taskID := uuid.New().String()

	wait := d.delay - d.now().UTC().Sub(referenceTime.UTC())
	if wait < 0 {
		wait = 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		slog.WarnContext(ctx, "detector stopped, completion check not scheduled", "meeting_uid", meetingUID)
		return taskID
	}

	task := &delayedTask{meetingUID: meetingUID, displayNumber: displayNumber}
	task.timer = time.AfterFunc(wait, func() {
		d.fire(taskID)
	})
	d.tasks[taskID] = task
	d.metrics.TaskScheduled()

	slog.DebugContext(ctx, "completion check scheduled",
		"meeting_uid", meetingUID,
		"meeting_display_number", displayNumber,
		"task_id", taskID,
		"fire_in", wait.String(),
	)
	return taskID
}

// Cancel stops the pending check. Returns false when the task is unknown or
// already fired; cancelling such a task is a no-op, not an error, since the
// fired check independently verifies it is still current before finalizing.
func (d *CompletionDetector) Cancel(taskID string) bool {
	d.mu.Lock()
	task, ok := d.tasks[taskID]
	if ok {
		delete(d.tasks, taskID)
	}
	d.mu.Unlock()

	if !ok {
		return false
	}
	task.timer.Stop()
	d.metrics.TaskCancelled()
	return true
}

// Stop cancels all pending checks. Used on shutdown.
func (d *CompletionDetector) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for taskID, task := range d.tasks {
		task.timer.Stop()
		delete(d.tasks, taskID)
	}
}

func (d *CompletionDetector) fire(taskID string) {
	d.mu.Lock()
	task, ok := d.tasks[taskID]
	if ok {
		delete(d.tasks, taskID)
	}
	finalizer := d.finalizer
	d.mu.Unlock()

	if !ok {
		// Cancelled between the timer firing and this goroutine running.
		return
	}
	d.metrics.TaskFired()

	ctx := logging.AppendCtx(context.Background(), slog.String("meeting_uid", task.meetingUID))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_display_number", task.displayNumber))
	ctx = logging.AppendCtx(ctx, slog.String("task_id", taskID))

	if finalizer == nil {
		slog.ErrorContext(ctx, "completion check fired with no finalizer attached")
		return
	}

	if err := finalizer.Finalize(ctx, task.meetingUID, taskID); err != nil {
		slog.ErrorContext(ctx, "completion check failed to finalize meeting", logging.ErrKey, err)
	}
}
