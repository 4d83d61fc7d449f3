package entity

import "time"

// TransitionRecord is one entry in the append-only audit trail of a process
// instance.
type TransitionRecord struct {
	ID         int64     `json:"id"`
	InstanceID string    `json:"instance_id"`
	ActorID    string    `json:"actor_id"`
	FromStep   string    `json:"from_step"`
	ToStep     string    `json:"to_step"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActionType string    `json:"action_type"`
	Comment    string    `json:"comment,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
