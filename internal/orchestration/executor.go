package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-automation/backend/pkg/models"
)

// ErrInvalidParams is returned when a step is invoked with malformed input.
var ErrInvalidParams = errors.New("invalid step parameters")

// StepName identifies the unit of work a step performs.
type StepName string

const (
	StepSearch      StepName = "search_jobs"
	StepRetrySearch StepName = "retry_search_jobs"
)

// Agent identifiers and display names used in the action and message logs.
const (
	SkillGapAgentID      = "skill-gap-agent"
	JobMatcherAgentID    = "job-matcher-agent"
	OrchestrationAgentID = "orchestration-agent"

	SkillGapAgentName      = "Skill-Gap Agent"
	JobMatcherAgentName    = "Job Matcher Agent"
	OrchestrationAgentName = "Orchestration Agent"
)

// SearchParams are the inputs of a job search step.
type SearchParams struct {
	Skill    string
	Location string
}

// StepResult is everything one step produced.
type StepResult struct {
	Action   models.Action
	Messages []models.Message
	Jobs     []models.Job
}

// Empty reports whether the step found nothing.
func (r StepResult) Empty() bool {
	return len(r.Jobs) == 0
}

// StepExecutor runs a single workflow step.
type StepExecutor interface {
	Execute(ctx context.Context, step StepName, agentID string, params SearchParams) (StepResult, error)
}

// Executor runs job search steps against a JobSearcher.
type Executor struct {
	searcher JobSearcher
	delay    time.Duration
}

// NewExecutor creates an Executor. delay is waited before every search to
// model provider latency; zero disables it.
func NewExecutor(searcher JobSearcher, delay time.Duration) *Executor {
	return &Executor{searcher: searcher, delay: delay}
}

// Execute runs one search step. A search with no results still returns an
// Action (status failure); only malformed input and provider errors fail.
func (e *Executor) Execute(ctx context.Context, step StepName, agentID string, params SearchParams) (StepResult, error) {
	if strings.TrimSpace(params.Skill) == "" || strings.TrimSpace(params.Location) == "" {
		return StepResult{}, fmt.Errorf("%w: skill and location are required", ErrInvalidParams)
	}
	if step != StepSearch && step != StepRetrySearch {
		return StepResult{}, fmt.Errorf("%w: unknown step %q", ErrInvalidParams, step)
	}

	if err := wait(ctx, e.delay); err != nil {
		return StepResult{}, err
	}

	jobs, err := e.searcher.Search(ctx, params.Skill, params.Location)
	if err != nil {
		return StepResult{}, fmt.Errorf("step %s: job search failed: %w", step, err)
	}
	if jobs == nil {
		jobs = []models.Job{}
	}

	result := StepResult{Jobs: jobs}
	if step == StepSearch {
		result.Action, result.Messages = describeSearch(agentID, params, jobs)
	} else {
		result.Action, result.Messages = describeRetry(agentID, params, jobs)
	}
	return result, nil
}

func describeSearch(agentID string, p SearchParams, jobs []models.Job) (models.Action, []models.Message) {
	query := fmt.Sprintf("Query: skill='%s', location='%s'", p.Skill, p.Location)
	returned := fmt.Sprintf("Results returned: %d jobs", len(jobs))

	if len(jobs) == 0 {
		action := models.NewAction(agentID,
			fmt.Sprintf("Searched for %s jobs in %s", p.Skill, p.Location),
			0.30, models.StatusFailure,
			query, returned, "FAILURE: Zero results found!", "Constraint may be too restrictive",
		)
		msg := newMessage(JobMatcherAgentName, "Self", models.MessageFailure,
			fmt.Sprintf("Search failed: 0 jobs found for '%s' in '%s'. Need to re-strategize.", p.Skill, p.Location))
		return action, []models.Message{msg}
	}

	action := models.NewAction(agentID,
		fmt.Sprintf("Searched for %s jobs in %s", p.Skill, p.Location),
		0.90, models.StatusSuccess,
		query, returned, "SUCCESS: Found matching opportunities on the first attempt",
	)
	msg := newMessage(JobMatcherAgentName, "User", models.MessageDecision,
		fmt.Sprintf("Found %d jobs for '%s' in '%s'.", len(jobs), p.Skill, p.Location))
	return action, []models.Message{msg}
}

func describeRetry(agentID string, p SearchParams, jobs []models.Job) (models.Action, []models.Message) {
	query := fmt.Sprintf("New query: skill='%s', location='%s'", p.Skill, p.Location)
	returned := fmt.Sprintf("Results returned: %d jobs", len(jobs))

	if len(jobs) == 0 {
		action := models.NewAction(agentID, "Retried search with adjusted constraints",
			0.20, models.StatusFailure,
			query, returned, "FAILURE: Adjusted search also returned zero results", "No further retries will be attempted",
		)
		msg := newMessage(JobMatcherAgentName, "User", models.MessageFailure,
			fmt.Sprintf("Retry failed: 0 jobs found for '%s' in '%s'.", p.Skill, p.Location))
		return action, []models.Message{msg}
	}

	action := models.NewAction(agentID, "Retried search with adjusted constraints",
		0.92, models.StatusSuccess,
		query, returned, "SUCCESS: Found matching opportunities!", "Recovery strategy validated",
	)
	msg := newMessage(JobMatcherAgentName, "User", models.MessageDecision,
		fmt.Sprintf("SUCCESS: Found %d jobs after autonomous strategy adjustment. No human input was required!", len(jobs)))
	return action, []models.Message{msg}
}

func newMessage(from, to string, kind models.MessageType, content string) models.Message {
	return models.Message{
		ID:          uuid.New().String(),
		FromAgent:   from,
		ToAgent:     to,
		MessageType: kind,
		Content:     content,
		Timestamp:   time.Now().UTC(),
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
