package workflow

import (
	"context"

	"github.com/mkolari/procflow/internal/domain/entity"
	domainwf "github.com/mkolari/procflow/internal/domain/workflow"
)

// Engine is the state machine core. It validates and applies step-to-step
// transitions, enforces checklist gating and role ownership, recomputes
// assignment and SLA deadlines, and detects terminal completion or rejection.
type Engine interface {
	// CreateInstance instantiates a process from a registered template. The
	// template's first step is treated as the originating submission and is
	// pre-completed; the instance starts at the second step.
	CreateInstance(ctx context.Context, templateName, submitter string, meta entity.Metadata) (*entity.ProcessInstance, error)

	// GetInstance returns a snapshot of an instance.
	GetInstance(ctx context.Context, id string) (*entity.ProcessInstance, error)

	// ListInstances returns snapshots of all instances.
	ListInstances(ctx context.Context) ([]*entity.ProcessInstance, error)

	// UpdateChecklistItem marks a checklist item of the active step complete
	// or incomplete. Checklists of completed steps are frozen history.
	UpdateChecklistItem(ctx context.Context, id, stepName, itemName string, completed bool) error

	// AdvanceStep completes the current step on behalf of actorID and moves
	// the instance to the next step, or to a terminal status when the
	// template sequence is exhausted. decision gates checklist-less steps
	// and selects the terminal status on the final step.
	AdvanceStep(ctx context.Context, id, actorID string, decision domainwf.Decision) (*entity.ProcessInstance, error)

	// Reassign is an administrative override of the current assignee.
	Reassign(ctx context.Context, id, newAssignee, actorID, comment string) error

	// SetStatus is an administrative status override.
	SetStatus(ctx context.Context, id string, status domainwf.Status, actorID, comment string) error

	// History returns the audit trail of an instance.
	History(ctx context.Context, id string) ([]*entity.TransitionRecord, error)

	// SLAStatus classifies the instance's current deadline against the clock.
	SLAStatus(ctx context.Context, id string) (domainwf.SLAStatus, error)
}
