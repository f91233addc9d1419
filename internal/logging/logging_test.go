// Copyright The OpenConf Authors.
// SPDX-License-Identifier: MIT

package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestErrKeyConstant(t *testing.T) {
	if ErrKey != "error" {
		t.Errorf("expected ErrKey to be 'error', got %q", ErrKey)
	}
}

func TestAppendCtx(t *testing.T) {
	attr := slog.String("meeting_uid", "m1")
	ctx := AppendCtx(context.TODO(), attr)

	if ctx == nil {
		t.Fatal("expected non-nil context")
	}

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	if !ok {
		t.Fatal("expected slog attributes in context")
	}
	if len(attrs) != 1 {
		t.Errorf("expected 1 attribute, got %d", len(attrs))
	}
	if attrs[0].Key != "meeting_uid" {
		t.Errorf("expected key 'meeting_uid', got %q", attrs[0].Key)
	}
}

func TestAppendCtx_WithParent(t *testing.T) {
	parentCtx := AppendCtx(context.Background(), slog.String("platform", "zoom"))
	childCtx := AppendCtx(parentCtx, slog.String("event_id", "e1"))

	attrs, ok := childCtx.Value(slogFields).([]slog.Attr)
	if !ok {
		t.Fatal("expected slog attributes in context")
	}
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "platform" || attrs[1].Key != "event_id" {
		t.Errorf("attributes out of order: %v", attrs)
	}

	// The parent context is not mutated.
	parentAttrs := parentCtx.Value(slogFields).([]slog.Attr)
	if len(parentAttrs) != 1 {
		t.Errorf("expected parent to keep 1 attribute, got %d", len(parentAttrs))
	}
}
