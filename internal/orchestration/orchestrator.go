package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-automation/backend/internal/events"
	"ai-automation/backend/internal/repository"
	"ai-automation/backend/pkg/models"
)

// ErrInvalidRequest wraps request validation failures.
var ErrInvalidRequest = errors.New("invalid workflow request")

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Recorder receives workflow outcomes for metrics.
type Recorder interface {
	RecordWorkflow(ctx context.Context, workflowType, status string, recovered bool, jobsFound int)
}

// Agents taking part in every orchestration.
var agentsInvolved = []string{SkillGapAgentName, JobMatcherAgentName, OrchestrationAgentName}

// Orchestrator sequences the workflow steps and persists the result.
type Orchestrator struct {
	executor  StepExecutor
	policy    *RecoveryPolicy
	store     repository.WorkflowStore
	publisher events.Publisher
	recorder  Recorder
	logger    Logger
	newID     func() string
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPolicy overrides the recovery policy.
func WithPolicy(p *RecoveryPolicy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithPublisher sets the event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(o *Orchestrator) { o.publisher = p }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithIDGenerator overrides workflow id generation.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) { o.newID = fn }
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(executor StepExecutor, store repository.WorkflowStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		executor:  executor,
		policy:    NewRecoveryPolicy(""),
		store:     store,
		publisher: events.NoopPublisher{},
		logger:    nopLogger{},
		newID:     func() string { return uuid.New().String() },
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Orchestrate runs one workflow end to end. Errors from any step abort the
// call and nothing is stored.
func (o *Orchestrator) Orchestrate(ctx context.Context, req models.WorkflowRequest) (*models.OrchestrationResponse, error) {
	if err := req.Normalize(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	workflowID := o.newID()
	skill, location := req.TargetRole, req.TargetLocation
	o.logger.Info("workflow started", "workflow_id", workflowID, "type", req.WorkflowType, "skill", skill, "location", location)

	actions := []models.Action{intentAction(req)}
	messages := []models.Message{newMessage(SkillGapAgentName, JobMatcherAgentName, models.MessageHandoff,
		fmt.Sprintf("User wants %s jobs in %s. Please search.", skill, location))}

	outcome, err := o.policy.Run(ctx, o.executor, req.WorkflowType, SearchParams{Skill: skill, Location: location})
	if err != nil {
		o.logger.Error("workflow aborted", "workflow_id", workflowID, "error", err)
		return nil, fmt.Errorf("workflow %s: %w", workflowID, err)
	}
	actions = append(actions, outcome.Actions...)
	messages = append(messages, outcome.Messages...)
	actions = append(actions, summaryAction(outcome))

	status := models.WorkflowCompleted
	if outcome.RecoveryOccurred {
		status = models.WorkflowCompletedWithRecovery
	}

	record := &models.WorkflowRecord{
		WorkflowID:       workflowID,
		Request:          req,
		Status:           status,
		Actions:          actions,
		Messages:         messages,
		JobsFound:        outcome.Jobs,
		RecoveryOccurred: outcome.RecoveryOccurred,
		AgentsInvolved:   append([]string(nil), agentsInvolved...),
		CreatedAt:        o.now(),
	}
	if err := o.store.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to store workflow %s: %w", workflowID, err)
	}

	o.logger.Info("workflow completed",
		"workflow_id", workflowID,
		"status", status,
		"attempts", outcome.Attempts,
		"jobs_found", len(outcome.Jobs),
	)
	o.notify(ctx, record)

	return &models.OrchestrationResponse{
		WorkflowID:          workflowID,
		Status:              status,
		AgentsInvolved:      record.AgentsInvolved,
		Actions:             actions,
		Messages:            messages,
		FinalRecommendation: recommendation(outcome),
		ConfidenceScore:     confidence(outcome),
		JobsFound:           outcome.Jobs,
		RecoveryOccurred:    outcome.RecoveryOccurred,
	}, nil
}

// Workflow returns a stored workflow record.
func (o *Orchestrator) Workflow(ctx context.Context, id string) (*models.WorkflowRecord, error) {
	return o.store.Get(ctx, id)
}

func (o *Orchestrator) notify(ctx context.Context, record *models.WorkflowRecord) {
	if o.recorder != nil {
		o.recorder.RecordWorkflow(ctx, string(record.Request.WorkflowType), record.Status, record.RecoveryOccurred, len(record.JobsFound))
	}
	err := o.publisher.Publish(ctx, events.WorkflowEvent{
		Type:             events.TypeWorkflowCompleted,
		WorkflowID:       record.WorkflowID,
		UserID:           record.Request.UserID,
		Status:           record.Status,
		RecoveryOccurred: record.RecoveryOccurred,
		JobsFound:        len(record.JobsFound),
		OccurredAt:       record.CreatedAt,
	})
	if err != nil {
		o.logger.Warn("failed to publish workflow event", "workflow_id", record.WorkflowID, "error", err)
	}
}

func intentAction(req models.WorkflowRequest) models.Action {
	resume := "No resume provided, using stated preferences"
	if req.ResumeText != nil && *req.ResumeText != "" {
		resume = fmt.Sprintf("Resume provided (%d characters)", len(*req.ResumeText))
	}
	return models.NewAction(SkillGapAgentID, "Analyzed user profile and job preferences", 0.95, models.StatusSuccess,
		fmt.Sprintf("User is searching for: %s roles", req.TargetRole),
		fmt.Sprintf("Preferred location: %s", req.TargetLocation),
		resume,
		"Passing requirements to Job Matcher Agent",
	)
}

func summaryAction(o *Outcome) models.Action {
	initial := fmt.Sprintf("Initial attempt: SUCCEEDED (%s)", o.Initial.Location)
	if o.InitialFailed {
		initial = fmt.Sprintf("Initial attempt: FAILED (%s)", o.Initial.Location)
	}
	triggered := "Recovery triggered: NO"
	description := "Workflow completed"
	if o.RecoveryOccurred {
		triggered = "Recovery triggered: YES"
		description = "Workflow completed with autonomous recovery"
	}

	status, conf := models.StatusSuccess, 0.95
	if len(o.Jobs) == 0 {
		status, conf = models.StatusFailure, 0.30
	}
	return models.NewAction(OrchestrationAgentID, description, conf, status,
		initial,
		triggered,
		"Human intervention required: NO",
		fmt.Sprintf("Final results: %d jobs found", len(o.Jobs)),
	)
}

func recommendation(o *Outcome) string {
	skill := o.Initial.Skill
	switch {
	case o.RecoveryOccurred && len(o.Jobs) > 0:
		return fmt.Sprintf("AUTONOMOUS RECOVERY SUCCESS!\n\n"+
			"Initial search '%s in %s' failed with 0 results.\n"+
			"Agent autonomously pivoted to '%s' and found %d opportunities.\n"+
			"No human intervention was required.",
			skill, o.Initial.Location, o.Final.Location, len(o.Jobs))
	case o.RecoveryOccurred:
		return fmt.Sprintf("Search '%s in %s' returned no results and the autonomous retry in '%s' found none either.\n"+
			"Consider broadening the target role or location.",
			skill, o.Initial.Location, o.Final.Location)
	case len(o.Jobs) == 0:
		return fmt.Sprintf("Search '%s in %s' returned no results. Recovery is not enabled for this workflow type.",
			skill, o.Initial.Location)
	default:
		return fmt.Sprintf("Found %d %s opportunities in %s on the first attempt.",
			len(o.Jobs), skill, o.Initial.Location)
	}
}

func confidence(o *Outcome) float64 {
	switch {
	case len(o.Jobs) == 0:
		return 0.30
	case o.RecoveryOccurred:
		return 0.92
	default:
		return 0.95
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
