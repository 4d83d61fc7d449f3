package workflow

import "errors"

var (
	// ErrNotFound is returned when a template, instance, or checklist item is absent
	ErrNotFound = errors.New("not found")

	// ErrDuplicateTemplate is returned when registering a template name that already exists
	ErrDuplicateTemplate = errors.New("template already registered")

	// ErrInvalidTemplate is returned for templates with no steps or duplicate step names
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrInvalidMetadata is returned when required metadata is missing at creation
	ErrInvalidMetadata = errors.New("invalid metadata")

	// ErrTerminalInstance is returned when mutating a completed or rejected instance
	ErrTerminalInstance = errors.New("instance is terminal")

	// ErrUnauthorized is returned when the actor's role does not own the current step
	ErrUnauthorized = errors.New("actor not authorized for step")

	// ErrChecklistIncomplete is returned when required checklist items remain open
	ErrChecklistIncomplete = errors.New("required checklist items incomplete")

	// ErrDecisionRequired is returned when a decision-gated step is advanced without a decision
	ErrDecisionRequired = errors.New("decision required")

	// ErrInvalidStep is returned when mutating a checklist outside the active step
	ErrInvalidStep = errors.New("step is not the active step")

	// ErrConflict is returned when a concurrent write race is lost
	ErrConflict = errors.New("concurrent modification conflict")
)
