package port

import (
	"context"
	"time"

	"github.com/mkolari/procflow/internal/domain/entity"
)

// TemplateRegistry stores named process templates. Templates are immutable
// once registered: re-registration under the same name is an error, never an
// overwrite, so in-flight instances keep the semantics of the steps they
// occupy.
type TemplateRegistry interface {
	// Register stores a template, rejecting duplicates and structurally
	// invalid templates.
	Register(ctx context.Context, tmpl *entity.Template) error

	// Get returns the named template.
	Get(ctx context.Context, name string) (*entity.Template, error)

	// List returns all registered templates in name order.
	List(ctx context.Context) ([]*entity.Template, error)
}

// InstanceStore holds live process instances. Update must apply the mutator
// under a per-instance exclusive lock (or equivalent optimistic check) so a
// full read-check-mutate-write sequence is atomic for a single instance.
// There is no Delete: terminal instances remain queryable indefinitely.
type InstanceStore interface {
	Create(ctx context.Context, instance *entity.ProcessInstance) error
	Get(ctx context.Context, id string) (*entity.ProcessInstance, error)
	List(ctx context.Context) ([]*entity.ProcessInstance, error)

	// Update applies the mutator to the stored instance atomically. A mutator
	// error aborts the update and leaves the stored state unchanged.
	Update(ctx context.Context, id string, mutate func(*entity.ProcessInstance) error) (*entity.ProcessInstance, error)
}

// AuditLog is the append-only trail of instance transitions.
type AuditLog interface {
	Append(ctx context.Context, record *entity.TransitionRecord) error
	ListByInstance(ctx context.Context, instanceID string) ([]*entity.TransitionRecord, error)
}

// Directory is the external user/role collaborator: it resolves a user's
// role and routes work to a default user for a role.
type Directory interface {
	ResolveRole(ctx context.Context, userID string) (string, error)
	RouteForRole(ctx context.Context, role string) (string, error)
}

// Clock supplies the current time; injected for testability.
type Clock interface {
	Now() time.Time
}
