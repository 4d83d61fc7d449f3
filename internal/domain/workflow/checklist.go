package workflow

import "github.com/mkolari/procflow/internal/domain/entity"

// AllRequiredSatisfied returns true iff every required item is completed.
// Optional items never block, and an empty checklist is vacuously satisfied.
func AllRequiredSatisfied(items []entity.ChecklistItemInstance) bool {
	for _, item := range items {
		if item.Required && !item.Completed {
			return false
		}
	}
	return true
}

// RequiredRemaining returns the names of required items still open, in
// checklist order.
func RequiredRemaining(items []entity.ChecklistItemInstance) []string {
	var remaining []string
	for _, item := range items {
		if item.Required && !item.Completed {
			remaining = append(remaining, item.Name)
		}
	}
	return remaining
}

// InstantiateChecklist stamps out checklist item instances from a step's
// definition, all initially incomplete.
func InstantiateChecklist(defs []entity.ChecklistItemDefinition) []entity.ChecklistItemInstance {
	if len(defs) == 0 {
		return nil
	}
	items := make([]entity.ChecklistItemInstance, len(defs))
	for i, def := range defs {
		items[i] = entity.ChecklistItemInstance{
			Name:        def.Name,
			Description: def.Description,
			Required:    def.Required,
			Completed:   false,
		}
	}
	return items
}
