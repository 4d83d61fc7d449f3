package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mkolari/procflow/internal/application/port"
	"github.com/mkolari/procflow/internal/domain/entity"
	"github.com/mkolari/procflow/pkg/database"
)

// AuditRepository implements port.AuditLog on SQLite.
type AuditRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewAuditRepository creates a new SQLite audit repository
func NewAuditRepository(db *database.DB, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		db:     db,
		logger: logger,
	}
}

// Append stores a transition record
func (r *AuditRepository) Append(ctx context.Context, record *entity.TransitionRecord) error {
	query := `
		INSERT INTO transition_records (
			instance_id, actor_id, from_step, to_step,
			from_status, to_status, action_type, comment, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		record.InstanceID,
		record.ActorID,
		record.FromStep,
		record.ToStep,
		record.FromStatus,
		record.ToStatus,
		record.ActionType,
		record.Comment,
		record.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to append transition record",
			zap.String("instance_id", record.InstanceID), zap.Error(err))
		return fmt.Errorf("failed to append transition record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	record.ID = id
	return nil
}

// ListByInstance returns the records for one instance in append order
func (r *AuditRepository) ListByInstance(ctx context.Context, instanceID string) ([]*entity.TransitionRecord, error) {
	query := `
		SELECT id, instance_id, actor_id, from_step, to_step,
			from_status, to_status, action_type, comment, timestamp
		FROM transition_records
		WHERE instance_id = ?
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, instanceID)
	if err != nil {
		r.logger.Error("Failed to list transition records",
			zap.String("instance_id", instanceID), zap.Error(err))
		return nil, fmt.Errorf("failed to list transition records: %w", err)
	}
	defer rows.Close()

	var records []*entity.TransitionRecord
	for rows.Next() {
		var record entity.TransitionRecord
		if err := rows.Scan(
			&record.ID,
			&record.InstanceID,
			&record.ActorID,
			&record.FromStep,
			&record.ToStep,
			&record.FromStatus,
			&record.ToStatus,
			&record.ActionType,
			&record.Comment,
			&record.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transition record: %w", err)
		}
		records = append(records, &record)
	}
	return records, rows.Err()
}

// Verify interface compliance
var _ port.AuditLog = (*AuditRepository)(nil)
