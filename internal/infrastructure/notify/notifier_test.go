package notify

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mkolari/procflow/internal/application/dispatcher"
	"github.com/mkolari/procflow/internal/domain/event"
)

func TestNotifier_Handle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewNotifier(zap.New(core))
	ctx := context.Background()

	if err := n.Handle(ctx, event.New(event.TypeProcessCreated, "p-1", map[string]interface{}{
		"assigned_to": "sarah",
	})); err != nil {
		t.Fatalf("Handle(created) error = %v", err)
	}
	if err := n.Handle(ctx, event.New(event.TypeProcessReassigned, "p-1", map[string]interface{}{
		"to": "mike",
	})); err != nil {
		t.Fatalf("Handle(reassigned) error = %v", err)
	}
	if err := n.Handle(ctx, event.New(event.TypeProcessCompleted, "p-1", nil)); err != nil {
		t.Fatalf("Handle(completed) error = %v", err)
	}

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("logged %d notifications, want 3", len(entries))
	}
	if entries[0].Message != "Notification: process awaiting action" {
		t.Errorf("first notification = %q", entries[0].Message)
	}
	if entries[1].Message != "Notification: process reassigned" {
		t.Errorf("second notification = %q", entries[1].Message)
	}
	if entries[2].Message != "Notification: process closed" {
		t.Errorf("third notification = %q", entries[2].Message)
	}
}

func TestNotifier_RegisterSubscribesToProcessEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewNotifier(zap.New(core))

	d := dispatcher.NewDispatcher()
	defer d.Close()
	n.Register(d)

	evt := event.New(event.TypeProcessAdvanced, "p-1", map[string]interface{}{"assigned_to": "mike"})
	if err := d.Dispatch(context.Background(), evt); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if logs.Len() != 1 {
		t.Fatalf("logged %d notifications, want 1", logs.Len())
	}
}
