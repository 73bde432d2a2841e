package repository

import (
	"context"
	"errors"

	"ai-automation/backend/pkg/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// WorkflowStore is an interface for storing and retrieving completed workflows.
type WorkflowStore interface {
	// Put stores a workflow record under its WorkflowID.
	Put(ctx context.Context, record *models.WorkflowRecord) error
	// Get retrieves a workflow record, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.WorkflowRecord, error)
}

// Document is a piece of ingested content in a keyword collection.
type Document struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// DocumentStore keeps named collections of documents searchable by keyword.
type DocumentStore interface {
	// Ingest appends a document to a collection and returns its ID.
	Ingest(ctx context.Context, collection, content string, metadata map[string]any) (string, error)
	// Query returns up to limit documents containing query (case-insensitive).
	Query(ctx context.Context, collection, query string, limit int) ([]Document, error)
	// DeleteCollection removes a collection. Missing collections are not an error.
	DeleteCollection(ctx context.Context, collection string) error
}
