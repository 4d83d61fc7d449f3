// Package repository provides SQLite-backed implementations of the
// persistence ports, for deployments that need instances to survive a
// restart. The engine itself is storage-agnostic; the in-memory adapters
// remain the default.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mkolari/procflow/internal/application/port"
	"github.com/mkolari/procflow/internal/domain/entity"
	"github.com/mkolari/procflow/internal/domain/workflow"
	"github.com/mkolari/procflow/pkg/database"
)

// InstanceRepository implements port.InstanceStore on SQLite. The instance
// is stored as a JSON document with the version in its own column for the
// optimistic concurrency check.
type InstanceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInstanceRepository creates a new SQLite instance repository
func NewInstanceRepository(db *database.DB, logger *zap.Logger) *InstanceRepository {
	return &InstanceRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new instance
func (r *InstanceRepository) Create(ctx context.Context, instance *entity.ProcessInstance) error {
	doc, err := json.Marshal(instance)
	if err != nil {
		return fmt.Errorf("failed to marshal instance: %w", err)
	}

	query := `
		INSERT INTO process_instances (id, template_name, status, created_at, version, document)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		instance.ID,
		instance.TemplateName,
		instance.Status,
		instance.CreatedAt,
		instance.Version,
		string(doc),
	)
	if err != nil {
		r.logger.Error("Failed to create instance", zap.String("id", instance.ID), zap.Error(err))
		return fmt.Errorf("failed to create instance: %w", err)
	}
	return nil
}

// Get returns the instance by ID
func (r *InstanceRepository) Get(ctx context.Context, id string) (*entity.ProcessInstance, error) {
	return r.get(ctx, r.db.DB, id)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *InstanceRepository) get(ctx context.Context, q querier, id string) (*entity.ProcessInstance, error) {
	var doc string
	err := q.QueryRowContext(ctx, "SELECT document FROM process_instances WHERE id = ?", id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: instance %s", workflow.ErrNotFound, id)
	}
	if err != nil {
		r.logger.Error("Failed to get instance", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}

	var instance entity.ProcessInstance
	if err := json.Unmarshal([]byte(doc), &instance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instance %s: %w", id, err)
	}
	return &instance, nil
}

// List returns all instances, newest first
func (r *InstanceRepository) List(ctx context.Context) ([]*entity.ProcessInstance, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT document FROM process_instances")
	if err != nil {
		r.logger.Error("Failed to list instances", zap.Error(err))
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	defer rows.Close()

	var instances []*entity.ProcessInstance
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan instance: %w", err)
		}
		var instance entity.ProcessInstance
		if err := json.Unmarshal([]byte(doc), &instance); err != nil {
			return nil, fmt.Errorf("failed to unmarshal instance: %w", err)
		}
		instances = append(instances, &instance)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(instances, func(i, j int) bool {
		if instances[i].CreatedAt.Equal(instances[j].CreatedAt) {
			return instances[i].ID < instances[j].ID
		}
		return instances[i].CreatedAt.After(instances[j].CreatedAt)
	})
	return instances, nil
}

// Update applies the mutator inside a transaction with an optimistic version
// check: a concurrent writer that commits first makes the UPDATE match zero
// rows, and the loser observes ErrConflict.
func (r *InstanceRepository) Update(ctx context.Context, id string, mutate func(*entity.ProcessInstance) error) (*entity.ProcessInstance, error) {
	var updated *entity.ProcessInstance

	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		instance, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}
		previousVersion := instance.Version

		if err := mutate(instance); err != nil {
			return err
		}
		instance.Version = previousVersion + 1

		doc, err := json.Marshal(instance)
		if err != nil {
			return fmt.Errorf("failed to marshal instance: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			"UPDATE process_instances SET status = ?, version = ?, document = ? WHERE id = ? AND version = ?",
			instance.Status, instance.Version, string(doc), id, previousVersion,
		)
		if err != nil {
			return fmt.Errorf("failed to update instance: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: instance %s version %d", workflow.ErrConflict, id, previousVersion)
		}

		updated = instance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Verify interface compliance
var _ port.InstanceStore = (*InstanceRepository)(nil)
