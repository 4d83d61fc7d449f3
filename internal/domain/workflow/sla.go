package workflow

import "time"

// SLAStatus classifies how a step's deadline relates to the current time.
type SLAStatus string

const (
	SLAOnTrack  SLAStatus = "On Track"
	SLACritical SLAStatus = "Critical"
	SLAOverdue  SLAStatus = "Overdue"
)

// criticalWindow is how close to the deadline a step is flagged as critical.
const criticalWindow = 24 * time.Hour

// ClassifySLA classifies a due date relative to now: past due is Overdue,
// due within the next day is Critical, anything later is On Track.
func ClassifySLA(due, now time.Time) SLAStatus {
	if due.Before(now) {
		return SLAOverdue
	}
	if due.Before(now.Add(criticalWindow)) {
		return SLACritical
	}
	return SLAOnTrack
}

// String returns the string representation of the SLA status
func (s SLAStatus) String() string {
	return string(s)
}
