package workflow

// Status represents the lifecycle status of a process instance
type Status string

const (
	StatusPending         Status = "Pending"
	StatusInProgress      Status = "In Progress"
	StatusPendingApproval Status = "Pending Approval"
	StatusCompleted       Status = "Completed"
	StatusRejected        Status = "Rejected"
)

// StepTerminal is the sentinel value of current_step once an instance has
// traversed its whole step sequence.
const StepTerminal = "Completed"

var validStatuses = map[Status]bool{
	StatusPending:         true,
	StatusInProgress:      true,
	StatusPendingApproval: true,
	StatusCompleted:       true,
	StatusRejected:        true,
}

var terminalStatuses = map[Status]bool{
	StatusCompleted: true,
	StatusRejected:  true,
}

// IsTerminal returns true if the status is terminal (no further transitions allowed)
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// IsValid returns true if the status is one of the enumerated values
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// Decision is the approval choice submitted on a decision-gated step (a step
// with no checklist).
type Decision string

const (
	DecisionNone                   Decision = ""
	DecisionApproved               Decision = "Approved"
	DecisionApprovedWithConditions Decision = "Approved with Conditions"
	DecisionRejected               Decision = "Rejected"
)

// IsChosen returns true once a concrete decision has been made.
func (d Decision) IsChosen() bool {
	switch d {
	case DecisionApproved, DecisionApprovedWithConditions, DecisionRejected:
		return true
	}
	return false
}

// String returns the string representation of the decision
func (d Decision) String() string {
	return string(d)
}
