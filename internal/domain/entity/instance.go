package entity

import "time"

// ProcessInstance is one in-flight execution of a template.
type ProcessInstance struct {
	ID             string                             `json:"id"`
	TemplateName   string                             `json:"template_name"`
	Title          string                             `json:"title"`
	Submitter      string                             `json:"submitter"`
	CreatedAt      time.Time                          `json:"created_at"`
	CurrentStep    string                             `json:"current_step"`
	AssignedTo     string                             `json:"assigned_to"`
	Status         string                             `json:"status"`
	SLADue         time.Time                          `json:"sla_due"`
	StepsCompleted []string                           `json:"steps_completed"`
	Checklists     map[string][]ChecklistItemInstance `json:"checklists"`
	Metadata       Metadata                           `json:"metadata"`
	// Version increments on every successful mutation; persistence adapters
	// use it for optimistic concurrency control.
	Version int64 `json:"version"`
}

// ChecklistItemInstance is a checklist item stamped out from its definition
// when the instance reaches the owning step.
type ChecklistItemInstance struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Completed   bool   `json:"completed"`
}

// Metadata carries the business payload of an instance. Beyond Title and
// Description, which are required at creation, the engine passes it through
// unmodified.
type Metadata struct {
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	BusinessRequirements string            `json:"business_requirements,omitempty"`
	Timeline             string            `json:"timeline,omitempty"`
	Budget               string            `json:"budget,omitempty"`
	Priority             string            `json:"priority,omitempty"`
	Comments             string            `json:"comments,omitempty"`
	Extra                map[string]string `json:"extra,omitempty"`
}

// Clone returns a deep copy of the instance. Stores hand out clones so
// callers can never alias internal state.
func (p *ProcessInstance) Clone() *ProcessInstance {
	cp := *p
	cp.StepsCompleted = append([]string(nil), p.StepsCompleted...)
	if p.Checklists != nil {
		cp.Checklists = make(map[string][]ChecklistItemInstance, len(p.Checklists))
		for step, items := range p.Checklists {
			cp.Checklists[step] = append([]ChecklistItemInstance(nil), items...)
		}
	}
	if p.Metadata.Extra != nil {
		cp.Metadata.Extra = make(map[string]string, len(p.Metadata.Extra))
		for k, v := range p.Metadata.Extra {
			cp.Metadata.Extra[k] = v
		}
	}
	return &cp
}

// HasCompletedStep reports whether the named step already appears in the
// completed-steps history.
func (p *ProcessInstance) HasCompletedStep(name string) bool {
	for _, s := range p.StepsCompleted {
		if s == name {
			return true
		}
	}
	return false
}
