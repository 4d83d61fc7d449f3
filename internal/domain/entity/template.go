package entity

import "fmt"

// Template is a reusable ordered definition of the steps a process instance
// traverses. Templates are immutable once registered.
type Template struct {
	Name  string           `json:"name" mapstructure:"name"`
	Steps []StepDefinition `json:"steps" mapstructure:"steps"`
}

// StepDefinition describes one stage of a process: who owns it, how long it
// may take, and which checklist items gate its completion.
type StepDefinition struct {
	Name      string                    `json:"name" mapstructure:"name"`
	OwnerRole string                    `json:"owner_role" mapstructure:"owner_role"`
	SLADays   int                       `json:"sla_days" mapstructure:"sla_days"`
	Checklist []ChecklistItemDefinition `json:"checklist,omitempty" mapstructure:"checklist"`
}

// ChecklistItemDefinition describes a named condition attached to a step.
type ChecklistItemDefinition struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description,omitempty" mapstructure:"description"`
	Required    bool   `json:"required" mapstructure:"required"`
}

// Validate checks structural invariants: a non-empty name, at least one step
// (the first step represents the originating submission), and step names
// unique within the template.
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if len(t.Steps) == 0 {
		return fmt.Errorf("template %s has no steps", t.Name)
	}
	seen := make(map[string]bool, len(t.Steps))
	for _, step := range t.Steps {
		if step.Name == "" {
			return fmt.Errorf("template %s has a step with an empty name", t.Name)
		}
		if seen[step.Name] {
			return fmt.Errorf("template %s has duplicate step %s", t.Name, step.Name)
		}
		seen[step.Name] = true
		if step.OwnerRole == "" {
			return fmt.Errorf("template %s step %s has no owner role", t.Name, step.Name)
		}
		if step.SLADays < 0 {
			return fmt.Errorf("template %s step %s has negative SLA", t.Name, step.Name)
		}
	}
	return nil
}

// Step returns the definition of the named step, or nil if absent.
func (t *Template) Step(name string) *StepDefinition {
	for i := range t.Steps {
		if t.Steps[i].Name == name {
			return &t.Steps[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the template.
func (t *Template) Clone() *Template {
	cp := &Template{Name: t.Name, Steps: make([]StepDefinition, len(t.Steps))}
	for i, step := range t.Steps {
		s := step
		s.Checklist = append([]ChecklistItemDefinition(nil), step.Checklist...)
		cp.Steps[i] = s
	}
	return cp
}

// StepNames returns the ordered step names of the template.
func (t *Template) StepNames() []string {
	names := make([]string, len(t.Steps))
	for i, step := range t.Steps {
		names[i] = step.Name
	}
	return names
}
