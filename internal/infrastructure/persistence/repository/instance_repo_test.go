package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mkolari/procflow/internal/domain/entity"
	"github.com/mkolari/procflow/internal/domain/workflow"
	"github.com/mkolari/procflow/pkg/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrator := database.NewMigrator(db, zap.NewNop())
	require.NoError(t, migrator.RunMigrations(filepath.Join("..", "..", "..", "..", "migrations")))
	return db
}

func sampleInstance(id string) *entity.ProcessInstance {
	return &entity.ProcessInstance{
		ID:             id,
		TemplateName:   "IT Project Request",
		Title:          "New laptops",
		Submitter:      "john",
		CreatedAt:      time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		CurrentStep:    "PMO Review",
		AssignedTo:     "sarah",
		Status:         workflow.StatusInProgress.String(),
		StepsCompleted: []string{"Business User Submission"},
		Checklists: map[string][]entity.ChecklistItemInstance{
			"PMO Review": {{Name: "Budget approved", Required: true}},
		},
		Version: 1,
	}
}

func TestInstanceRepository_CreateAndGet(t *testing.T) {
	repo := NewInstanceRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleInstance("p-1")))

	got, err := repo.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "PMO Review", got.CurrentStep)
	assert.Equal(t, []string{"Business User Submission"}, got.StepsCompleted)
	assert.True(t, got.Checklists["PMO Review"][0].Required)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, workflow.ErrNotFound)

	// Duplicate primary key
	assert.Error(t, repo.Create(ctx, sampleInstance("p-1")))
}

func TestInstanceRepository_Update(t *testing.T) {
	repo := NewInstanceRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleInstance("p-1")))

	updated, err := repo.Update(ctx, "p-1", func(inst *entity.ProcessInstance) error {
		inst.CurrentStep = "Technical Team Review"
		inst.Status = workflow.StatusPendingApproval.String()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	got, err := repo.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Technical Team Review", got.CurrentStep)
	assert.Equal(t, workflow.StatusPendingApproval.String(), got.Status)
	assert.Equal(t, int64(2), got.Version)

	_, err = repo.Update(ctx, "missing", func(inst *entity.ProcessInstance) error { return nil })
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestInstanceRepository_UpdateErrorRollsBack(t *testing.T) {
	repo := NewInstanceRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleInstance("p-1")))

	_, err := repo.Update(ctx, "p-1", func(inst *entity.ProcessInstance) error {
		inst.Status = "Tampered"
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	got, err := repo.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusInProgress.String(), got.Status)
	assert.Equal(t, int64(1), got.Version)
}

func TestInstanceRepository_ListNewestFirst(t *testing.T) {
	repo := NewInstanceRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	older := sampleInstance("p-old")
	newer := sampleInstance("p-new")
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	instances, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "p-new", instances[0].ID)
	assert.Equal(t, "p-old", instances[1].ID)
}

func TestAuditRepository(t *testing.T) {
	repo := NewAuditRepository(newTestDB(t), zap.NewNop())
	ctx := context.Background()

	first := &entity.TransitionRecord{
		InstanceID: "p-1",
		ActorID:    "john",
		FromStep:   "Business User Submission",
		ToStep:     "PMO Review",
		ToStatus:   workflow.StatusInProgress.String(),
		ActionType: entity.ActionCreate,
		Timestamp:  time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	second := &entity.TransitionRecord{
		InstanceID: "p-1",
		ActorID:    "sarah",
		FromStep:   "PMO Review",
		ToStep:     "Technical Team Review",
		FromStatus: workflow.StatusInProgress.String(),
		ToStatus:   workflow.StatusInProgress.String(),
		ActionType: entity.ActionAdvance,
		Comment:    "looks good",
		Timestamp:  time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC),
	}
	other := &entity.TransitionRecord{
		InstanceID: "p-2",
		ActorID:    "john",
		FromStep:   "Business User Submission",
		ToStep:     "PMO Review",
		ToStatus:   workflow.StatusInProgress.String(),
		ActionType: entity.ActionCreate,
		Timestamp:  time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, second))
	require.NoError(t, repo.Append(ctx, other))
	assert.Positive(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	records, err := repo.ListByInstance(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, entity.ActionCreate, records[0].ActionType)
	assert.Equal(t, entity.ActionAdvance, records[1].ActionType)
	assert.Equal(t, "looks good", records[1].Comment)

	empty, err := repo.ListByInstance(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
