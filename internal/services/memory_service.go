package services

import (
	"context"
	"errors"
	"strings"

	"ai-automation/backend/internal/repository"
)

// Defaults for keyword memory requests.
const (
	DefaultCollection = "default"
	DefaultQueryLimit = 5
)

// ErrEmptyContent is returned when there is nothing to remember or search for.
var ErrEmptyContent = errors.New("content must not be empty")

// MemoryService is a service for managing keyword memories.
type MemoryService struct {
	store repository.DocumentStore
}

// NewMemoryService creates a new MemoryService.
func NewMemoryService(store repository.DocumentStore) *MemoryService {
	return &MemoryService{store: store}
}

// Remember ingests content into a collection and returns the document ID.
func (s *MemoryService) Remember(ctx context.Context, collection, content string, metadata map[string]any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	return s.store.Ingest(ctx, collectionOrDefault(collection), content, metadata)
}

// Recall returns documents in a collection that contain query.
func (s *MemoryService) Recall(ctx context.Context, collection, query string, limit int) ([]repository.Document, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyContent
	}
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	return s.store.Query(ctx, collectionOrDefault(collection), query, limit)
}

// Forget drops a whole collection.
func (s *MemoryService) Forget(ctx context.Context, collection string) error {
	return s.store.DeleteCollection(ctx, collection)
}

func collectionOrDefault(c string) string {
	if strings.TrimSpace(c) == "" {
		return DefaultCollection
	}
	return c
}
