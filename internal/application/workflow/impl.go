package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkolari/procflow/internal/application/dispatcher"
	"github.com/mkolari/procflow/internal/application/port"
	"github.com/mkolari/procflow/internal/domain/entity"
	"github.com/mkolari/procflow/internal/domain/event"
	domainwf "github.com/mkolari/procflow/internal/domain/workflow"
)

// engineImpl is the concrete implementation of Engine
type engineImpl struct {
	registry  port.TemplateRegistry
	store     port.InstanceStore
	audit     port.AuditLog
	directory port.Directory
	clock     port.Clock
	logger    *zap.Logger
	events    dispatcher.Dispatcher

	// Machines are immutable once built, so one per template is cached for
	// the registry's lifetime.
	mu       sync.RWMutex
	machines map[string]*domainwf.Machine
}

// EngineOption configures the workflow engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher for emitting events
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.events = d
	}
}

// WithClock overrides the time source, primarily for tests
func WithClock(c port.Clock) EngineOption {
	return func(e *engineImpl) {
		e.clock = c
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now
func SystemClock() port.Clock { return systemClock{} }

// NewEngine creates a new workflow engine
func NewEngine(
	registry port.TemplateRegistry,
	store port.InstanceStore,
	audit port.AuditLog,
	directory port.Directory,
	logger *zap.Logger,
	opts ...EngineOption,
) Engine {
	e := &engineImpl{
		registry:  registry,
		store:     store,
		audit:     audit,
		directory: directory,
		clock:     systemClock{},
		logger:    logger,
		machines:  make(map[string]*domainwf.Machine),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// machine returns the cached transition table for a template, building it on
// first use.
func (e *engineImpl) machine(ctx context.Context, templateName string) (*domainwf.Machine, error) {
	e.mu.RLock()
	m, ok := e.machines[templateName]
	e.mu.RUnlock()
	if ok {
		return m, nil
	}

	tmpl, err := e.registry.Get(ctx, templateName)
	if err != nil {
		return nil, err
	}
	m, err = domainwf.NewMachine(tmpl)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.machines[templateName] = m
	e.mu.Unlock()
	return m, nil
}

// CreateInstance instantiates a process from a registered template
func (e *engineImpl) CreateInstance(ctx context.Context, templateName, submitter string, meta entity.Metadata) (*entity.ProcessInstance, error) {
	if meta.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domainwf.ErrInvalidMetadata)
	}
	if meta.Description == "" {
		return nil, fmt.Errorf("%w: description is required", domainwf.ErrInvalidMetadata)
	}

	machine, err := e.machine(ctx, templateName)
	if err != nil {
		return nil, err
	}

	now := e.clock.Now()
	instance := &entity.ProcessInstance{
		ID:             uuid.NewString(),
		TemplateName:   templateName,
		Title:          meta.Title,
		Submitter:      submitter,
		CreatedAt:      now,
		StepsCompleted: []string{machine.SubmissionStep().Name},
		Checklists:     make(map[string][]entity.ChecklistItemInstance),
		Metadata:       meta,
		Version:        1,
	}

	starting, ok := machine.StartingStep()
	if !ok {
		// Single-step template: the submission itself is the whole process.
		instance.CurrentStep = domainwf.StepTerminal
		instance.Status = domainwf.StatusCompleted.String()
		instance.SLADue = now
	} else {
		assignee, err := e.directory.RouteForRole(ctx, starting.OwnerRole)
		if err != nil {
			return nil, fmt.Errorf("routing step %s: %w", starting.Name, err)
		}
		instance.CurrentStep = starting.Name
		instance.AssignedTo = assignee
		instance.Checklists[starting.Name] = domainwf.InstantiateChecklist(starting.Checklist)
		instance.SLADue = now.AddDate(0, 0, starting.SLADays)
		if machine.IsLast(starting.Name) {
			instance.Status = domainwf.StatusPendingApproval.String()
		} else {
			instance.Status = domainwf.StatusInProgress.String()
		}
	}

	if err := e.store.Create(ctx, instance); err != nil {
		return nil, err
	}

	e.appendAudit(ctx, &entity.TransitionRecord{
		InstanceID: instance.ID,
		ActorID:    submitter,
		FromStep:   machine.SubmissionStep().Name,
		ToStep:     instance.CurrentStep,
		ToStatus:   instance.Status,
		ActionType: entity.ActionCreate,
		Comment:    "instance created",
		Timestamp:  now,
	})

	e.logger.Info("Process instance created",
		zap.String("instance_id", instance.ID),
		zap.String("template", templateName),
		zap.String("current_step", instance.CurrentStep),
		zap.String("assigned_to", instance.AssignedTo))

	e.emit(ctx, event.New(event.TypeProcessCreated, instance.ID, map[string]interface{}{
		"template":     templateName,
		"submitter":    submitter,
		"current_step": instance.CurrentStep,
		"assigned_to":  instance.AssignedTo,
	}))

	return instance.Clone(), nil
}

// GetInstance returns a snapshot of an instance
func (e *engineImpl) GetInstance(ctx context.Context, id string) (*entity.ProcessInstance, error) {
	return e.store.Get(ctx, id)
}

// ListInstances returns snapshots of all instances
func (e *engineImpl) ListInstances(ctx context.Context) ([]*entity.ProcessInstance, error) {
	return e.store.List(ctx)
}

// UpdateChecklistItem marks a checklist item of the active step
func (e *engineImpl) UpdateChecklistItem(ctx context.Context, id, stepName, itemName string, completed bool) error {
	_, err := e.store.Update(ctx, id, func(inst *entity.ProcessInstance) error {
		if domainwf.Status(inst.Status).IsTerminal() {
			return fmt.Errorf("%w: instance %s is %s", domainwf.ErrTerminalInstance, id, inst.Status)
		}
		if stepName != inst.CurrentStep {
			return fmt.Errorf("%w: %s (active step is %s)", domainwf.ErrInvalidStep, stepName, inst.CurrentStep)
		}
		items := inst.Checklists[stepName]
		for i := range items {
			if items[i].Name == itemName {
				items[i].Completed = completed
				return nil
			}
		}
		return fmt.Errorf("%w: checklist item %s in step %s", domainwf.ErrNotFound, itemName, stepName)
	})
	return err
}

// AdvanceStep completes the current step and moves the instance forward
func (e *engineImpl) AdvanceStep(ctx context.Context, id, actorID string, decision domainwf.Decision) (*entity.ProcessInstance, error) {
	var fromStep, fromStatus string
	now := e.clock.Now()

	updated, err := e.store.Update(ctx, id, func(inst *entity.ProcessInstance) error {
		if domainwf.Status(inst.Status).IsTerminal() {
			return fmt.Errorf("%w: instance %s is %s", domainwf.ErrTerminalInstance, id, inst.Status)
		}
		fromStep = inst.CurrentStep
		fromStatus = inst.Status

		machine, err := e.machine(ctx, inst.TemplateName)
		if err != nil {
			return err
		}
		step, err := machine.Step(inst.CurrentStep)
		if err != nil {
			return err
		}

		actorRole, err := e.directory.ResolveRole(ctx, actorID)
		if err != nil {
			return fmt.Errorf("%w: unknown actor %s", domainwf.ErrUnauthorized, actorID)
		}
		if actorRole != step.OwnerRole {
			return fmt.Errorf("%w: step %s is owned by role %s, actor %s has role %s",
				domainwf.ErrUnauthorized, step.Name, step.OwnerRole, actorID, actorRole)
		}

		if items := inst.Checklists[inst.CurrentStep]; len(items) > 0 {
			if !domainwf.AllRequiredSatisfied(items) {
				return fmt.Errorf("%w: step %s still requires %v",
					domainwf.ErrChecklistIncomplete, step.Name, domainwf.RequiredRemaining(items))
			}
		} else if !decision.IsChosen() {
			// A step with no checklist is gated by an explicit decision.
			return fmt.Errorf("%w: step %s", domainwf.ErrDecisionRequired, step.Name)
		}

		inst.StepsCompleted = append(inst.StepsCompleted, inst.CurrentStep)

		next, ok, err := machine.Next(inst.CurrentStep)
		if err != nil {
			return err
		}
		if !ok {
			inst.CurrentStep = domainwf.StepTerminal
			if decision == domainwf.DecisionRejected {
				inst.Status = domainwf.StatusRejected.String()
			} else {
				inst.Status = domainwf.StatusCompleted.String()
			}
			return nil
		}

		assignee, err := e.directory.RouteForRole(ctx, next.OwnerRole)
		if err != nil {
			return fmt.Errorf("routing step %s: %w", next.Name, err)
		}
		inst.CurrentStep = next.Name
		inst.AssignedTo = assignee
		if _, exists := inst.Checklists[next.Name]; !exists {
			if inst.Checklists == nil {
				inst.Checklists = make(map[string][]entity.ChecklistItemInstance)
			}
			inst.Checklists[next.Name] = domainwf.InstantiateChecklist(next.Checklist)
		}
		inst.SLADue = now.AddDate(0, 0, next.SLADays)
		if machine.IsLast(next.Name) {
			inst.Status = domainwf.StatusPendingApproval.String()
		} else {
			inst.Status = domainwf.StatusInProgress.String()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.appendAudit(ctx, &entity.TransitionRecord{
		InstanceID: id,
		ActorID:    actorID,
		FromStep:   fromStep,
		ToStep:     updated.CurrentStep,
		FromStatus: fromStatus,
		ToStatus:   updated.Status,
		ActionType: entity.ActionAdvance,
		Comment:    decision.String(),
		Timestamp:  now,
	})

	e.logger.Info("Process instance advanced",
		zap.String("instance_id", id),
		zap.String("from_step", fromStep),
		zap.String("to_step", updated.CurrentStep),
		zap.String("status", updated.Status),
		zap.String("actor", actorID))

	e.emit(ctx, event.New(event.TypeProcessAdvanced, id, map[string]interface{}{
		"from_step":   fromStep,
		"to_step":     updated.CurrentStep,
		"status":      updated.Status,
		"actor":       actorID,
		"assigned_to": updated.AssignedTo,
	}))
	switch domainwf.Status(updated.Status) {
	case domainwf.StatusCompleted:
		e.emit(ctx, event.New(event.TypeProcessCompleted, id, map[string]interface{}{"actor": actorID}))
	case domainwf.StatusRejected:
		e.emit(ctx, event.New(event.TypeProcessRejected, id, map[string]interface{}{"actor": actorID}))
	}

	return updated, nil
}

// Reassign is an administrative override of the current assignee
func (e *engineImpl) Reassign(ctx context.Context, id, newAssignee, actorID, comment string) error {
	if comment == "" {
		return fmt.Errorf("%w: comment is required for reassignment", domainwf.ErrInvalidMetadata)
	}
	if _, err := e.directory.ResolveRole(ctx, newAssignee); err != nil {
		return fmt.Errorf("%w: assignee %s", domainwf.ErrNotFound, newAssignee)
	}

	var previous string
	updated, err := e.store.Update(ctx, id, func(inst *entity.ProcessInstance) error {
		if domainwf.Status(inst.Status).IsTerminal() {
			return fmt.Errorf("%w: instance %s is %s", domainwf.ErrTerminalInstance, id, inst.Status)
		}
		previous = inst.AssignedTo
		inst.AssignedTo = newAssignee
		return nil
	})
	if err != nil {
		return err
	}

	now := e.clock.Now()
	e.appendAudit(ctx, &entity.TransitionRecord{
		InstanceID: id,
		ActorID:    actorID,
		FromStep:   updated.CurrentStep,
		ToStep:     updated.CurrentStep,
		FromStatus: updated.Status,
		ToStatus:   updated.Status,
		ActionType: entity.ActionReassign,
		Comment:    comment,
		Timestamp:  now,
	})

	e.logger.Info("Process instance reassigned",
		zap.String("instance_id", id),
		zap.String("from", previous),
		zap.String("to", newAssignee),
		zap.String("actor", actorID))

	e.emit(ctx, event.New(event.TypeProcessReassigned, id, map[string]interface{}{
		"from":  previous,
		"to":    newAssignee,
		"actor": actorID,
	}))
	return nil
}

// SetStatus is an administrative status override
func (e *engineImpl) SetStatus(ctx context.Context, id string, status domainwf.Status, actorID, comment string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %s", domainwf.ErrInvalidMetadata, status)
	}
	if comment == "" {
		return fmt.Errorf("%w: comment is required for a status override", domainwf.ErrInvalidMetadata)
	}

	var fromStep, fromStatus string
	updated, err := e.store.Update(ctx, id, func(inst *entity.ProcessInstance) error {
		if domainwf.Status(inst.Status).IsTerminal() {
			return fmt.Errorf("%w: instance %s is %s", domainwf.ErrTerminalInstance, id, inst.Status)
		}
		fromStep = inst.CurrentStep
		fromStatus = inst.Status
		inst.Status = status.String()
		if status.IsTerminal() {
			inst.CurrentStep = domainwf.StepTerminal
		}
		return nil
	})
	if err != nil {
		return err
	}

	now := e.clock.Now()
	e.appendAudit(ctx, &entity.TransitionRecord{
		InstanceID: id,
		ActorID:    actorID,
		FromStep:   fromStep,
		ToStep:     updated.CurrentStep,
		FromStatus: fromStatus,
		ToStatus:   updated.Status,
		ActionType: entity.ActionStatusOverride,
		Comment:    comment,
		Timestamp:  now,
	})

	e.logger.Info("Process instance status overridden",
		zap.String("instance_id", id),
		zap.String("from_status", fromStatus),
		zap.String("to_status", updated.Status),
		zap.String("actor", actorID))

	e.emit(ctx, event.New(event.TypeStatusOverridden, id, map[string]interface{}{
		"from_status": fromStatus,
		"to_status":   updated.Status,
		"actor":       actorID,
	}))
	return nil
}

// History returns the audit trail of an instance
func (e *engineImpl) History(ctx context.Context, id string) ([]*entity.TransitionRecord, error) {
	if _, err := e.store.Get(ctx, id); err != nil {
		return nil, err
	}
	return e.audit.ListByInstance(ctx, id)
}

// SLAStatus classifies the instance's current deadline against the clock
func (e *engineImpl) SLAStatus(ctx context.Context, id string) (domainwf.SLAStatus, error) {
	inst, err := e.store.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return domainwf.ClassifySLA(inst.SLADue, e.clock.Now()), nil
}

// appendAudit writes a transition record; audit failures are surfaced in the
// log but do not roll back the already committed transition.
func (e *engineImpl) appendAudit(ctx context.Context, record *entity.TransitionRecord) {
	if err := e.audit.Append(ctx, record); err != nil {
		e.logger.Error("Failed to append audit record",
			zap.String("instance_id", record.InstanceID),
			zap.String("action", record.ActionType),
			zap.Error(err))
	}
}

func (e *engineImpl) emit(ctx context.Context, evt *event.Event) {
	if e.events != nil {
		e.events.DispatchAsync(ctx, evt)
	}
}
