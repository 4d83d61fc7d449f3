// Package memory provides the in-process persistence adapters: the default
// instance store, template registry, and audit log.
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

// instanceEntry pairs an instance with its own lock so concurrent updates to
// different instances never contend.
type instanceEntry struct {
	mu       sync.Mutex
	instance *entity.ProcessInstance
}

// InstanceStore is an in-memory implementation of port.InstanceStore.
type InstanceStore struct {
	mu      sync.RWMutex
	entries map[string]*instanceEntry
}

// NewInstanceStore creates an empty in-memory instance store
func NewInstanceStore() *InstanceStore {
	return &InstanceStore{
		entries: make(map[string]*instanceEntry),
	}
}

// Create stores a new instance
func (s *InstanceStore) Create(ctx context.Context, instance *entity.ProcessInstance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[instance.ID]; exists {
		return fmt.Errorf("%w: instance %s already exists", workflow.ErrConflict, instance.ID)
	}
	s.entries[instance.ID] = &instanceEntry{instance: instance.Clone()}
	return nil
}

// Get returns a snapshot of the instance
func (s *InstanceStore) Get(ctx context.Context, id string) (*entity.ProcessInstance, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.instance.Clone(), nil
}

// List returns snapshots of all instances, newest first
func (s *InstanceStore) List(ctx context.Context) ([]*entity.ProcessInstance, error) {
	s.mu.RLock()
	entries := make([]*instanceEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	instances := make([]*entity.ProcessInstance, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		instances = append(instances, entry.instance.Clone())
		entry.mu.Unlock()
	}
	sort.Slice(instances, func(i, j int) bool {
		if instances[i].CreatedAt.Equal(instances[j].CreatedAt) {
			return instances[i].ID < instances[j].ID
		}
		return instances[i].CreatedAt.After(instances[j].CreatedAt)
	})
	return instances, nil
}

// Update applies the mutator under the instance's exclusive lock. The mutator
// works on a copy; an error discards the copy so the stored state is
// unchanged. On success the version is bumped and the new state committed.
func (s *InstanceStore) Update(ctx context.Context, id string, mutate func(*entity.ProcessInstance) error) (*entity.ProcessInstance, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.instance.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.Version = entry.instance.Version + 1
	entry.instance = working
	return working.Clone(), nil
}

func (s *InstanceStore) entry(id string) (*instanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: instance %s", workflow.ErrNotFound, id)
	}
	return entry, nil
}

// Verify interface compliance
var _ port.InstanceStore = (*InstanceStore)(nil)
