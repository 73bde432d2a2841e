package repository

import (
	"context"
	"maps"
	"strings"
	"sync"
)

// MemoryDocumentStore is an in-process keyword store. Matching is plain
// case-insensitive substring search.
type MemoryDocumentStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

// NewMemoryDocumentStore creates an empty MemoryDocumentStore.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{collections: make(map[string][]Document)}
}

// Ingest appends a copy of the document and returns its per-collection id.
func (s *MemoryDocumentStore) Ingest(ctx context.Context, collection, content string, metadata map[string]any) (string, error) {
	metadata = maps.Clone(metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	id := documentID(len(docs))
	s.collections[collection] = append(docs, Document{ID: id, Content: content, Metadata: metadata})
	return id, nil
}

// Query returns documents whose content contains query, in ingest order.
// A limit of zero or less returns every match. Metadata maps are copies.
func (s *MemoryDocumentStore) Query(ctx context.Context, collection, query string, limit int) ([]Document, error) {
	needle := strings.ToLower(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []Document{}
	for _, doc := range s.collections[collection] {
		if limit > 0 && len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(doc.Content), needle) {
			doc.Metadata = maps.Clone(doc.Metadata)
			results = append(results, doc)
		}
	}
	return results, nil
}

// DeleteCollection drops a collection. Unknown collections are not an error.
func (s *MemoryDocumentStore) DeleteCollection(ctx context.Context, collection string) error {
	s.mu.Lock()
	delete(s.collections, collection)
	s.mu.Unlock()
	return nil
}
