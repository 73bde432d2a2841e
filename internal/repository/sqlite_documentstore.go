package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const documentSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	content    TEXT NOT NULL,
	metadata   TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (collection, seq)
)`

// SQLiteDocumentStore persists keyword collections in a SQLite file.
// Matching lower-cases ASCII only, as SQLite's lower() does.
type SQLiteDocumentStore struct {
	db *sql.DB
}

// NewSQLiteDocumentStore opens (creating if needed) the database at dbPath.
// ":memory:" gives a private in-process database.
func NewSQLiteDocumentStore(dbPath string) (*SQLiteDocumentStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// one writer keeps sequence allocation race-free
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(documentSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	return &SQLiteDocumentStore{db: db}, nil
}

// Ingest stores the document under the next sequence number of collection.
func (s *SQLiteDocumentStore) Ingest(ctx context.Context, collection, content string, metadata map[string]any) (string, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = ?`, collection,
	).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to count collection %s: %w", collection, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (collection, seq, content, metadata) VALUES (?, ?, ?, ?)`,
		collection, seq, content, string(meta),
	); err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return documentID(seq), nil
}

// Query returns documents whose content contains query, ordered by
// sequence. A limit of zero or less returns every match.
func (s *SQLiteDocumentStore) Query(ctx context.Context, collection, query string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, content, metadata FROM documents
		WHERE collection = ? AND instr(lower(content), lower(?)) > 0
		ORDER BY seq
		LIMIT ?`, collection, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}
	defer rows.Close()

	results := []Document{}
	for rows.Next() {
		var (
			seq  int
			doc  Document
			meta string
		)
		if err := rows.Scan(&seq, &doc.Content, &meta); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(meta), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
		doc.ID = documentID(seq)
		results = append(results, doc)
	}
	return results, rows.Err()
}

// DeleteCollection removes every document in collection.
func (s *SQLiteDocumentStore) DeleteCollection(ctx context.Context, collection string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", collection, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteDocumentStore) Close() error {
	return s.db.Close()
}

func documentID(seq int) string {
	return fmt.Sprintf("doc-%d", seq)
}
