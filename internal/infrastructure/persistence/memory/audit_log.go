package memory

import (
	"context"
	"sync"

	"github.com/mkolari/procflow/internal/application/port"
	"github.com/mkolari/procflow/internal/domain/entity"
)

// AuditLog is an in-memory implementation of port.AuditLog.
type AuditLog struct {
	mu      sync.Mutex
	nextID  int64
	records []*entity.TransitionRecord
}

// NewAuditLog creates an empty audit log
func NewAuditLog() *AuditLog {
	return &AuditLog{nextID: 1}
}

// Append stores a transition record
func (l *AuditLog) Append(ctx context.Context, record *entity.TransitionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	stored := *record
	stored.ID = l.nextID
	l.nextID++
	l.records = append(l.records, &stored)
	record.ID = stored.ID
	return nil
}

// ListByInstance returns the records for one instance in append order
func (l *AuditLog) ListByInstance(ctx context.Context, instanceID string) ([]*entity.TransitionRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []*entity.TransitionRecord
	for _, record := range l.records {
		if record.InstanceID == instanceID {
			cp := *record
			result = append(result, &cp)
		}
	}
	return result, nil
}

// Verify interface compliance
var _ port.AuditLog = (*AuditLog)(nil)
