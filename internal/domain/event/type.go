package event

// Type identifies the type of domain event
type Type string

const (
	TypeProcessCreated    Type = "process.created"
	TypeProcessAdvanced   Type = "process.advanced"
	TypeProcessCompleted  Type = "process.completed"
	TypeProcessRejected   Type = "process.rejected"
	TypeProcessReassigned Type = "process.reassigned"
	TypeStatusOverridden  Type = "process.status_overridden"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeProcessCreated,
		TypeProcessAdvanced,
		TypeProcessCompleted,
		TypeProcessRejected,
		TypeProcessReassigned,
		TypeStatusOverridden:
		return true
	default:
		return false
	}
}
