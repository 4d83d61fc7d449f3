package entity

// Action type constants for TransitionRecord
const (
	ActionCreate         = "CREATE"
	ActionAdvance        = "ADVANCE"
	ActionReassign       = "REASSIGN"
	ActionStatusOverride = "STATUS_OVERRIDE"
)

// Priority constants carried in Metadata
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)
