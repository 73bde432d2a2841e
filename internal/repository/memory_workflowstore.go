package repository

import (
	"context"
	"errors"
	"sync"

	"ai-automation/backend/pkg/models"
)

// MemoryWorkflowStore keeps workflow records for the lifetime of the process.
// There is no eviction.
type MemoryWorkflowStore struct {
	mu        sync.RWMutex
	workflows map[string]*models.WorkflowRecord
}

// NewMemoryWorkflowStore creates an empty MemoryWorkflowStore.
func NewMemoryWorkflowStore() *MemoryWorkflowStore {
	return &MemoryWorkflowStore{workflows: make(map[string]*models.WorkflowRecord)}
}

// Put stores a copy of record. An existing record with the same ID is replaced.
func (s *MemoryWorkflowStore) Put(ctx context.Context, record *models.WorkflowRecord) error {
	if record == nil || record.WorkflowID == "" {
		return errors.New("workflow record requires an id")
	}
	clone := record.Clone()

	s.mu.Lock()
	s.workflows[record.WorkflowID] = clone
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the record stored under id.
func (s *MemoryWorkflowStore) Get(ctx context.Context, id string) (*models.WorkflowRecord, error) {
	s.mu.RLock()
	record, ok := s.workflows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return record.Clone(), nil
}

// Len reports how many workflows are stored.
func (s *MemoryWorkflowStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workflows)
}
