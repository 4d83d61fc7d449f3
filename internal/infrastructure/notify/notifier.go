// Package notify contains the fire-and-forget notification handler that is
// subscribed to the event dispatcher by the composition root. Delivery is
// best effort and happens outside the engine's write path.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/mkolari/procflow/internal/application/dispatcher"
	"github.com/mkolari/procflow/internal/domain/event"
)

// Notifier logs assignment and terminal notifications for process events.
// A real deployment would swap the log sink for mail or chat delivery.
type Notifier struct {
	logger *zap.Logger
}

// NewNotifier creates a new logging notifier
func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// Register subscribes the notifier to the event types it cares about
func (n *Notifier) Register(d dispatcher.Dispatcher) {
	d.SubscribeNamed(event.TypeProcessCreated, "notifier", n.Handle)
	d.SubscribeNamed(event.TypeProcessAdvanced, "notifier", n.Handle)
	d.SubscribeNamed(event.TypeProcessCompleted, "notifier", n.Handle)
	d.SubscribeNamed(event.TypeProcessRejected, "notifier", n.Handle)
	d.SubscribeNamed(event.TypeProcessReassigned, "notifier", n.Handle)
}

// Handle delivers one notification
func (n *Notifier) Handle(ctx context.Context, evt *event.Event) error {
	switch evt.Type {
	case event.TypeProcessCreated, event.TypeProcessAdvanced:
		n.logger.Info("Notification: process awaiting action",
			zap.String("instance_id", evt.InstanceID),
			zap.String("assigned_to", evt.GetPayloadString("assigned_to")),
			zap.String("event", evt.Type.String()))
	case event.TypeProcessReassigned:
		n.logger.Info("Notification: process reassigned",
			zap.String("instance_id", evt.InstanceID),
			zap.String("to", evt.GetPayloadString("to")))
	default:
		n.logger.Info("Notification: process closed",
			zap.String("instance_id", evt.InstanceID),
			zap.String("event", evt.Type.String()))
	}
	return nil
}
