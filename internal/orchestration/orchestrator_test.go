package orchestration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ai-automation/backend/internal/events"
	"ai-automation/backend/internal/repository"
	"ai-automation/backend/pkg/models"
)

// MockPublisher satisfies events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.WorkflowEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockPublisher) Close() error { return nil }

// MockWorkflowStore satisfies repository.WorkflowStore
type MockWorkflowStore struct {
	mock.Mock
}

func (m *MockWorkflowStore) Put(ctx context.Context, record *models.WorkflowRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockWorkflowStore) Get(ctx context.Context, id string) (*models.WorkflowRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowRecord), args.Error(1)
}

type recordedWorkflow struct {
	workflowType, status string
	recovered            bool
	jobs                 int
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedWorkflow
}

func (f *fakeRecorder) RecordWorkflow(_ context.Context, workflowType, status string, recovered bool, jobsFound int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedWorkflow{workflowType, status, recovered, jobsFound})
}

func newTestOrchestrator(store repository.WorkflowStore, opts ...Option) *Orchestrator {
	return NewOrchestrator(NewExecutor(NewMockJobSearch(), 0), store, opts...)
}

func TestOrchestrate_LondonRecovers(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryWorkflowStore()
	recorder := &fakeRecorder{}
	o := newTestOrchestrator(store, WithRecorder(recorder))

	resp, err := o.Orchestrate(ctx, models.WorkflowRequest{
		UserID:         "user-1",
		WorkflowType:   models.WorkflowFailureRecoveryDemo,
		TargetRole:     "Python",
		TargetLocation: "London",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.WorkflowID)
	assert.Equal(t, models.WorkflowCompletedWithRecovery, resp.Status)
	assert.True(t, resp.RecoveryOccurred)
	require.Len(t, resp.JobsFound, 3)
	for _, j := range resp.JobsFound {
		assert.Contains(t, j.Title, "Python")
	}
	assert.InDelta(t, 0.92, resp.ConfidenceScore, 1e-9)
	assert.Contains(t, resp.FinalRecommendation, "AUTONOMOUS RECOVERY SUCCESS")
	assert.Equal(t, []string{SkillGapAgentName, JobMatcherAgentName, OrchestrationAgentName}, resp.AgentsInvolved)

	// intent, failed search, recovery, retry, summary
	assert.Equal(t, []models.ActionStatus{
		models.StatusSuccess, models.StatusFailure, models.StatusRecovery, models.StatusSuccess, models.StatusSuccess,
	}, statuses(resp.Actions))
	assert.Equal(t, []models.MessageType{
		models.MessageHandoff, models.MessageFailure, models.MessageRecovery, models.MessageDecision,
	}, messageTypes(resp.Messages))

	summary := resp.Actions[len(resp.Actions)-1]
	assert.Equal(t, OrchestrationAgentID, summary.AgentID)
	assert.Equal(t, []string{
		"Initial attempt: FAILED (London)",
		"Recovery triggered: YES",
		"Human intervention required: NO",
		"Final results: 3 jobs found",
	}, summary.Reasoning)

	stored, err := store.Get(ctx, resp.WorkflowID)
	require.NoError(t, err)
	assert.Equal(t, resp.WorkflowID, stored.WorkflowID)
	assert.NotEmpty(t, stored.Actions)
	assert.NotEmpty(t, stored.Messages)
	assert.True(t, stored.RecoveryOccurred)
	assert.Equal(t, "London", stored.Request.TargetLocation)

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, recordedWorkflow{"failure_recovery_demo", models.WorkflowCompletedWithRecovery, true, 3}, recorder.calls[0])
}

func TestOrchestrate_BerlinCompletesDirectly(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryWorkflowStore()
	o := newTestOrchestrator(store)

	resp, err := o.Orchestrate(ctx, models.WorkflowRequest{
		UserID:         "user-2",
		WorkflowType:   models.WorkflowFullAnalysis,
		TargetRole:     "Java",
		TargetLocation: "Berlin",
	})
	require.NoError(t, err)

	assert.Equal(t, models.WorkflowCompleted, resp.Status)
	assert.False(t, resp.RecoveryOccurred)
	require.Len(t, resp.JobsFound, 1)
	assert.Equal(t, "Java Developer", resp.JobsFound[0].Title)
	assert.Equal(t, []models.ActionStatus{models.StatusSuccess, models.StatusSuccess, models.StatusSuccess}, statuses(resp.Actions))
	for _, a := range resp.Actions {
		assert.NotEqual(t, models.StatusFailure, a.Status)
		assert.NotEqual(t, models.StatusRecovery, a.Status)
	}
}

func TestOrchestrate_Defaults(t *testing.T) {
	store := repository.NewMemoryWorkflowStore()
	o := newTestOrchestrator(store)

	resp, err := o.Orchestrate(context.Background(), models.WorkflowRequest{
		UserID:       "user-3",
		WorkflowType: models.WorkflowJobMatchOnly,
	})
	require.NoError(t, err)

	// default location London fails and recovers
	assert.True(t, resp.RecoveryOccurred)
	stored, err := store.Get(context.Background(), resp.WorkflowID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTargetRole, stored.Request.TargetRole)
	assert.Equal(t, models.DefaultTargetLocation, stored.Request.TargetLocation)
}

func TestOrchestrate_NoRecoveryForSkillGapOnly(t *testing.T) {
	o := newTestOrchestrator(repository.NewMemoryWorkflowStore())

	resp, err := o.Orchestrate(context.Background(), models.WorkflowRequest{
		UserID:         "user-4",
		WorkflowType:   models.WorkflowSkillGapOnly,
		TargetRole:     "Python",
		TargetLocation: "London",
	})
	require.NoError(t, err)

	assert.Equal(t, models.WorkflowCompleted, resp.Status)
	assert.False(t, resp.RecoveryOccurred)
	assert.Empty(t, resp.JobsFound)
	assert.InDelta(t, 0.30, resp.ConfidenceScore, 1e-9)
	// failed search is followed by a terminal failure summary
	assert.Equal(t, []models.ActionStatus{models.StatusSuccess, models.StatusFailure, models.StatusFailure}, statuses(resp.Actions))
}

func TestOrchestrate_InvalidWorkflowType(t *testing.T) {
	store := new(MockWorkflowStore)
	o := newTestOrchestrator(store)

	_, err := o.Orchestrate(context.Background(), models.WorkflowRequest{UserID: "u", WorkflowType: "everything"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestOrchestrate_StepErrorPersistsNothing(t *testing.T) {
	boom := errors.New("provider exploded")
	searcher := new(MockJobSearcher)
	searcher.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	store := new(MockWorkflowStore)
	publisher := new(MockPublisher)
	o := NewOrchestrator(NewExecutor(searcher, 0), store, WithPublisher(publisher))

	resp, err := o.Orchestrate(context.Background(), models.WorkflowRequest{UserID: "u", WorkflowType: models.WorkflowFullAnalysis})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, resp)
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrchestrate_StoreErrorFailsCall(t *testing.T) {
	store := new(MockWorkflowStore)
	store.On("Put", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	o := newTestOrchestrator(store)
	_, err := o.Orchestrate(context.Background(), models.WorkflowRequest{UserID: "u", WorkflowType: models.WorkflowFullAnalysis})
	assert.Error(t, err)
	store.AssertExpectations(t)
}

func TestOrchestrate_PublishesEvent(t *testing.T) {
	publisher := new(MockPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.WorkflowEvent) bool {
		return e.Type == events.TypeWorkflowCompleted &&
			e.WorkflowID == "wf-fixed" &&
			e.UserID == "user-5" &&
			e.RecoveryOccurred &&
			e.JobsFound == 3
	})).Return(errors.New("broker offline"))

	o := newTestOrchestrator(repository.NewMemoryWorkflowStore(),
		WithPublisher(publisher),
		WithIDGenerator(func() string { return "wf-fixed" }),
	)

	// a failing publisher never fails the workflow
	resp, err := o.Orchestrate(context.Background(), models.WorkflowRequest{
		UserID:         "user-5",
		WorkflowType:   models.WorkflowFailureRecoveryDemo,
		TargetRole:     "Go",
		TargetLocation: "london",
	})
	require.NoError(t, err)
	assert.Equal(t, "wf-fixed", resp.WorkflowID)
	publisher.AssertExpectations(t)
}

func TestOrchestrate_ConcurrentWorkflowsShareStore(t *testing.T) {
	store := repository.NewMemoryWorkflowStore()
	o := newTestOrchestrator(store)

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := o.Orchestrate(context.Background(), models.WorkflowRequest{
				UserID:       "user",
				WorkflowType: models.WorkflowFullAnalysis,
			})
			if assert.NoError(t, err) {
				ids[i] = resp.WorkflowID
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
	for _, id := range ids {
		_, err := o.Workflow(context.Background(), id)
		assert.NoError(t, err)
	}
}

func TestWorkflow_UnknownID(t *testing.T) {
	o := newTestOrchestrator(repository.NewMemoryWorkflowStore())
	_, err := o.Workflow(context.Background(), "never-issued")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
