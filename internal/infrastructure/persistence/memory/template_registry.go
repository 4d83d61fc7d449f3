package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mkolari/procflow/internal/application/port"
	"github.com/mkolari/procflow/internal/domain/entity"
	"github.com/mkolari/procflow/internal/domain/workflow"
)

// TemplateRegistry is an in-memory implementation of port.TemplateRegistry.
type TemplateRegistry struct {
	mu        sync.RWMutex
	templates map[string]*entity.Template
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]*entity.Template),
	}
}

// Register stores a template after validation. Re-registration under an
// existing name is an error, not an overwrite.
func (r *TemplateRegistry) Register(ctx context.Context, tmpl *entity.Template) error {
	if tmpl == nil {
		return fmt.Errorf("%w: template is nil", workflow.ErrInvalidTemplate)
	}
	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("%w: %v", workflow.ErrInvalidTemplate, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[tmpl.Name]; exists {
		return fmt.Errorf("%w: %s", workflow.ErrDuplicateTemplate, tmpl.Name)
	}
	r.templates[tmpl.Name] = tmpl.Clone()
	return nil
}

// Get returns the named template
func (r *TemplateRegistry) Get(ctx context.Context, name string) (*entity.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("%w: template %s", workflow.ErrNotFound, name)
	}
	return tmpl.Clone(), nil
}

// List returns all registered templates in name order
func (r *TemplateRegistry) List(ctx context.Context) ([]*entity.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	templates := make([]*entity.Template, 0, len(r.templates))
	for _, tmpl := range r.templates {
		templates = append(templates, tmpl.Clone())
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

// Verify interface compliance
var _ port.TemplateRegistry = (*TemplateRegistry)(nil)
