package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-automation/backend/pkg/models"
)

func sampleRecord(id string) *models.WorkflowRecord {
	return &models.WorkflowRecord{
		WorkflowID: id,
		Request: models.WorkflowRequest{
			UserID:         "user-1",
			WorkflowType:   models.WorkflowFailureRecoveryDemo,
			TargetRole:     "Python",
			TargetLocation: "London",
		},
		Status: models.WorkflowCompletedWithRecovery,
		Actions: []models.Action{
			models.NewAction("skill-gap-agent", "Analyzed user profile", 0.95, models.StatusSuccess, "first", "second"),
		},
		Messages: []models.Message{
			{ID: uuid.New().String(), FromAgent: "Skill-Gap Agent", ToAgent: "Job Matcher Agent", MessageType: models.MessageHandoff, Content: "search"},
		},
		JobsFound:        []models.Job{{ID: "1", Title: "Python Engineer", Company: "StartupAI", Location: "Remote"}},
		RecoveryOccurred: true,
		AgentsInvolved:   []string{"Skill-Gap Agent", "Job Matcher Agent"},
		CreatedAt:        time.Now().UTC(),
	}
}

func TestMemoryWorkflowStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryWorkflowStore()

	t.Run("Put and Get", func(t *testing.T) {
		id := uuid.New().String()
		record := sampleRecord(id)

		require.NoError(t, store.Put(ctx, record))

		retrieved, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, record.WorkflowID, retrieved.WorkflowID)
		assert.Equal(t, record.Actions, retrieved.Actions)
		assert.Equal(t, record.Messages, retrieved.Messages)
		assert.True(t, retrieved.RecoveryOccurred)
	})

	t.Run("Get unknown id", func(t *testing.T) {
		_, err := store.Get(ctx, "does-not-exist")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Put rejects missing id", func(t *testing.T) {
		assert.Error(t, store.Put(ctx, &models.WorkflowRecord{}))
		assert.Error(t, store.Put(ctx, nil))
	})

	t.Run("Stored records are isolated from callers", func(t *testing.T) {
		id := uuid.New().String()
		record := sampleRecord(id)
		require.NoError(t, store.Put(ctx, record))

		record.Actions[0].Reasoning[0] = "mutated"
		record.JobsFound = nil

		first, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "first", first.Actions[0].Reasoning[0])
		assert.Len(t, first.JobsFound, 1)

		first.Messages[0].Content = "mutated"
		second, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "search", second.Messages[0].Content)
	})
}

func TestMemoryWorkflowStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryWorkflowStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("wf-%d", i)
			assert.NoError(t, store.Put(ctx, sampleRecord(id)))
			_, err := store.Get(ctx, id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}
