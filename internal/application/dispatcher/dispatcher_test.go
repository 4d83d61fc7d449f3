package dispatcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mkolari/procflow/internal/domain/event"
)

func TestDispatcher_Dispatch(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	var order []string
	d.SubscribeNamed(event.TypeProcessCreated, "first", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "first")
		return nil
	})
	d.SubscribeNamed(event.TypeProcessCreated, "second", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "second")
		return nil
	})
	d.Subscribe(event.TypeProcessAdvanced, func(ctx context.Context, evt *event.Event) error {
		order = append(order, "unrelated")
		return nil
	})

	evt := event.New(event.TypeProcessCreated, "p-1", map[string]interface{}{"actor": "john"})
	if err := d.Dispatch(context.Background(), evt); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("handlers ran as %v, want [first second]", order)
	}
}

func TestDispatcher_DispatchReturnsHandlerError(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	boom := errors.New("boom")
	d.SubscribeNamed(event.TypeProcessCreated, "failing", func(ctx context.Context, evt *event.Event) error {
		return boom
	})
	var ran bool
	d.SubscribeNamed(event.TypeProcessCreated, "after", func(ctx context.Context, evt *event.Event) error {
		ran = true
		return nil
	})

	err := d.Dispatch(context.Background(), event.New(event.TypeProcessCreated, "p-1", nil))
	if !errors.Is(err, boom) {
		t.Errorf("Dispatch() error = %v, want wrapped boom", err)
	}
	if ran {
		t.Error("handler after the failing one still ran")
	}
}

func TestDispatcher_DispatchNilEvent(t *testing.T) {
	d := NewDispatcher()
	defer d.Close()

	if err := d.Dispatch(context.Background(), nil); err == nil {
		t.Error("Dispatch(nil) = nil, want error")
	}
}

func TestDispatcher_DispatchAsync(t *testing.T) {
	d := NewDispatcher()

	var calls atomic.Int32
	done := make(chan struct{})
	d.Subscribe(event.TypeProcessCompleted, func(ctx context.Context, evt *event.Event) error {
		calls.Add(1)
		close(done)
		return nil
	})

	d.DispatchAsync(context.Background(), event.New(event.TypeProcessCompleted, "p-1", nil))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler never ran")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("handler ran %d times, want 1", calls.Load())
	}
}

func TestDispatcher_AsyncSurvivesCancelledContext(t *testing.T) {
	d := NewDispatcher()

	done := make(chan struct{})
	d.Subscribe(event.TypeProcessRejected, func(ctx context.Context, evt *event.Event) error {
		if err := ctx.Err(); err != nil {
			t.Errorf("handler context already cancelled: %v", err)
		}
		close(done)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.DispatchAsync(ctx, event.New(event.TypeProcessRejected, "p-1", nil))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handler never ran")
	}
	_ = d.Close()
}

func TestDispatcher_CloseWaitsAndRejectsNewWork(t *testing.T) {
	d := NewDispatcher()

	var mu sync.Mutex
	var finished bool
	release := make(chan struct{})
	d.Subscribe(event.TypeProcessCreated, func(ctx context.Context, evt *event.Event) error {
		<-release
		mu.Lock()
		finished = true
		mu.Unlock()
		return nil
	})

	d.DispatchAsync(context.Background(), event.New(event.TypeProcessCreated, "p-1", nil))

	closed := make(chan struct{})
	go func() {
		_ = d.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close() returned before in-flight handler finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() never returned")
	}

	mu.Lock()
	defer mu.Unlock()
	if !finished {
		t.Error("in-flight handler did not finish before Close returned")
	}

	if err := d.Dispatch(context.Background(), event.New(event.TypeProcessCreated, "p-2", nil)); err == nil {
		t.Error("Dispatch() after Close = nil, want error")
	}
}
