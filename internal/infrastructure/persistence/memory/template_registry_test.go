package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkolari/procflow/internal/domain/entity"
	"github.com/mkolari/procflow/internal/domain/workflow"
)

func sampleTemplate(name string) *entity.Template {
	return &entity.Template{
		Name: name,
		Steps: []entity.StepDefinition{
			{Name: "Submission", OwnerRole: "Business User", SLADays: 1},
			{Name: "Review", OwnerRole: "PMO", SLADays: 3, Checklist: []entity.ChecklistItemDefinition{
				{Name: "Budget approved", Required: true},
			}},
		},
	}
}

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, sampleTemplate("Purchase Request")))

	got, err := registry.Get(ctx, "Purchase Request")
	require.NoError(t, err)
	assert.Equal(t, "Purchase Request", got.Name)
	assert.Len(t, got.Steps, 2)

	_, err = registry.Get(ctx, "missing")
	assert.ErrorIs(t, err, workflow.ErrNotFound)
}

func TestTemplateRegistry_RejectsDuplicatesAndInvalid(t *testing.T) {
	registry := NewTemplateRegistry()
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, sampleTemplate("Purchase Request")))

	err := registry.Register(ctx, sampleTemplate("Purchase Request"))
	assert.ErrorIs(t, err, workflow.ErrDuplicateTemplate)

	assert.ErrorIs(t, registry.Register(ctx, nil), workflow.ErrInvalidTemplate)
	assert.ErrorIs(t, registry.Register(ctx, &entity.Template{Name: "empty"}), workflow.ErrInvalidTemplate)
}

func TestTemplateRegistry_SnapshotsAreIsolated(t *testing.T) {
	registry := NewTemplateRegistry()
	ctx := context.Background()

	original := sampleTemplate("Purchase Request")
	require.NoError(t, registry.Register(ctx, original))

	original.Steps[0].Name = "Tampered"
	got, err := registry.Get(ctx, "Purchase Request")
	require.NoError(t, err)
	assert.Equal(t, "Submission", got.Steps[0].Name)

	got.Steps[1].Checklist[0].Required = false
	again, err := registry.Get(ctx, "Purchase Request")
	require.NoError(t, err)
	assert.True(t, again.Steps[1].Checklist[0].Required)
}

func TestTemplateRegistry_ListIsSorted(t *testing.T) {
	registry := NewTemplateRegistry()
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, sampleTemplate("Vendor Onboarding")))
	require.NoError(t, registry.Register(ctx, sampleTemplate("Access Request")))

	templates, err := registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "Access Request", templates[0].Name)
	assert.Equal(t, "Vendor Onboarding", templates[1].Name)
}

func TestAuditLog_AppendAndList(t *testing.T) {
	log := NewAuditLog()
	ctx := context.Background()

	first := &entity.TransitionRecord{InstanceID: "p-1", ActionType: entity.ActionCreate}
	second := &entity.TransitionRecord{InstanceID: "p-1", ActionType: entity.ActionAdvance}
	other := &entity.TransitionRecord{InstanceID: "p-2", ActionType: entity.ActionCreate}

	require.NoError(t, log.Append(ctx, first))
	require.NoError(t, log.Append(ctx, second))
	require.NoError(t, log.Append(ctx, other))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	records, err := log.ListByInstance(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, entity.ActionCreate, records[0].ActionType)
	assert.Equal(t, entity.ActionAdvance, records[1].ActionType)

	// Returned records are copies.
	records[0].Comment = "tampered"
	again, err := log.ListByInstance(ctx, "p-1")
	require.NoError(t, err)
	assert.Empty(t, again[0].Comment)

	empty, err := log.ListByInstance(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
