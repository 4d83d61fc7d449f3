// Package directory provides the user/role collaborator the engine depends
// on. The static implementation is backed by configuration; a deployment
// with a real identity provider supplies its own port.Directory.
package directory

import (
	"context"
	"fmt"

	"github.com/mkolari/procflow/internal/application/port"
	"github.com/mkolari/procflow/internal/domain/workflow"
)

// Static resolves roles and routes work from fixed configuration maps.
type Static struct {
	roles   map[string]string // user id -> role
	routing map[string]string // role -> default user id
}

// NewStatic creates a directory from user->role and role->user maps
func NewStatic(roles, routing map[string]string) *Static {
	d := &Static{
		roles:   make(map[string]string, len(roles)),
		routing: make(map[string]string, len(routing)),
	}
	for user, role := range roles {
		d.roles[user] = role
	}
	for role, user := range routing {
		d.routing[role] = user
	}
	return d
}

// ResolveRole returns the role held by a user
func (d *Static) ResolveRole(ctx context.Context, userID string) (string, error) {
	role, ok := d.roles[userID]
	if !ok {
		return "", fmt.Errorf("%w: user %s", workflow.ErrNotFound, userID)
	}
	return role, nil
}

// RouteForRole returns the default assignee for a role
func (d *Static) RouteForRole(ctx context.Context, role string) (string, error) {
	user, ok := d.routing[role]
	if !ok {
		return "", fmt.Errorf("%w: no route for role %s", workflow.ErrNotFound, role)
	}
	return user, nil
}

// Verify interface compliance
var _ port.Directory = (*Static)(nil)
