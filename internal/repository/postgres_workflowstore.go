package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ai-automation/backend/pkg/models"
)

const workflowSchema = `
CREATE TABLE IF NOT EXISTS workflows (
	workflow_id       TEXT PRIMARY KEY,
	request           JSONB NOT NULL,
	status            TEXT NOT NULL,
	actions           JSONB NOT NULL,
	messages          JSONB NOT NULL,
	jobs_found        JSONB NOT NULL,
	recovery_occurred BOOLEAN NOT NULL DEFAULT FALSE,
	agents_involved   TEXT[] NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresWorkflowStore is a PostgreSQL implementation of the WorkflowStore interface.
type PostgresWorkflowStore struct {
	db *pgxpool.Pool
}

// NewPostgresWorkflowStore creates a new PostgresWorkflowStore.
func NewPostgresWorkflowStore(db *pgxpool.Pool) *PostgresWorkflowStore {
	return &PostgresWorkflowStore{db: db}
}

// EnsureSchema creates the workflows table if it does not exist.
func (s *PostgresWorkflowStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, workflowSchema); err != nil {
		return fmt.Errorf("failed to create workflows table: %w", err)
	}
	return nil
}

// Put saves a workflow record. The last writer for an ID wins.
func (s *PostgresWorkflowStore) Put(ctx context.Context, record *models.WorkflowRecord) error {
	if record == nil || record.WorkflowID == "" {
		return errors.New("workflow record requires an id")
	}

	request, err := json.Marshal(record.Request)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	actions, err := json.Marshal(record.Actions)
	if err != nil {
		return fmt.Errorf("failed to marshal actions: %w", err)
	}
	messages, err := json.Marshal(record.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}
	jobs := record.JobsFound
	if jobs == nil {
		jobs = []models.Job{}
	}
	jobsFound, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("failed to marshal jobs: %w", err)
	}
	agents := record.AgentsInvolved
	if agents == nil {
		agents = []string{}
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO workflows (workflow_id, request, status, actions, messages, jobs_found, recovery_occurred, agents_involved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (workflow_id) DO UPDATE SET
			request = EXCLUDED.request,
			status = EXCLUDED.status,
			actions = EXCLUDED.actions,
			messages = EXCLUDED.messages,
			jobs_found = EXCLUDED.jobs_found,
			recovery_occurred = EXCLUDED.recovery_occurred,
			agents_involved = EXCLUDED.agents_involved`,
		record.WorkflowID, request, record.Status, actions, messages, jobsFound,
		record.RecoveryOccurred, agents, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save workflow %s: %w", record.WorkflowID, err)
	}
	return nil
}

// Get retrieves a workflow record by its ID.
func (s *PostgresWorkflowStore) Get(ctx context.Context, id string) (*models.WorkflowRecord, error) {
	var (
		record                               models.WorkflowRecord
		request, actions, messages, jobsJSON []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT workflow_id, request, status, actions, messages, jobs_found, recovery_occurred, agents_involved, created_at
		FROM workflows WHERE workflow_id = $1`, id).
		Scan(&record.WorkflowID, &request, &record.Status, &actions, &messages, &jobsJSON,
			&record.RecoveryOccurred, &record.AgentsInvolved, &record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
	}

	if err := json.Unmarshal(request, &record.Request); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	if err := json.Unmarshal(actions, &record.Actions); err != nil {
		return nil, fmt.Errorf("failed to decode actions: %w", err)
	}
	if err := json.Unmarshal(messages, &record.Messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	if err := json.Unmarshal(jobsJSON, &record.JobsFound); err != nil {
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}
	return &record, nil
}
