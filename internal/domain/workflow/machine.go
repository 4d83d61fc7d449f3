package workflow

import (
	"fmt"

	"github.com/mkolari/procflow/internal/domain/entity"
)

// Machine is the transition table derived from one template: a strictly
// linear path through the template's declared step sequence, ending at the
// terminal sentinel. It is built once per template and shared read-only.
type Machine struct {
	template *entity.Template
	index    map[string]int
}

// NewMachine validates the template and builds its transition table.
func NewMachine(tmpl *entity.Template) (*Machine, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("%w: template is nil", ErrInvalidTemplate)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	index := make(map[string]int, len(tmpl.Steps))
	for i, step := range tmpl.Steps {
		index[step.Name] = i
	}
	return &Machine{template: tmpl, index: index}, nil
}

// Template returns the template this machine was built from.
func (m *Machine) Template() *entity.Template {
	return m.template
}

// StartingStep returns the step an instance actually begins at: the second
// step of the template, since the first step represents the originating
// submission and is pre-completed at creation. ok is false for single-step
// templates, which are terminal on arrival.
func (m *Machine) StartingStep() (*entity.StepDefinition, bool) {
	if len(m.template.Steps) < 2 {
		return nil, false
	}
	return &m.template.Steps[1], true
}

// SubmissionStep returns the first step of the template.
func (m *Machine) SubmissionStep() *entity.StepDefinition {
	return &m.template.Steps[0]
}

// Step resolves a step name to its definition. The terminal sentinel is not
// a step.
func (m *Machine) Step(name string) (*entity.StepDefinition, error) {
	i, ok := m.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: step %s not in template %s", ErrNotFound, name, m.template.Name)
	}
	return &m.template.Steps[i], nil
}

// Next returns the step following the named one in template order. ok is
// false when the named step is the last one, meaning the next state is the
// terminal sentinel.
func (m *Machine) Next(name string) (*entity.StepDefinition, bool, error) {
	i, ok := m.index[name]
	if !ok {
		return nil, false, fmt.Errorf("%w: step %s not in template %s", ErrNotFound, name, m.template.Name)
	}
	if i+1 >= len(m.template.Steps) {
		return nil, false, nil
	}
	return &m.template.Steps[i+1], true, nil
}

// IsLast reports whether the named step is the final step of the template.
func (m *Machine) IsLast(name string) bool {
	i, ok := m.index[name]
	return ok && i == len(m.template.Steps)-1
}

// Contains reports whether the name is a step of the template or the
// terminal sentinel.
func (m *Machine) Contains(name string) bool {
	if name == StepTerminal {
		return true
	}
	_, ok := m.index[name]
	return ok
}
