package orchestration

import (
	"context"
	"fmt"

	"ai-automation/backend/pkg/models"
)

// RecoveryState is a state of the recovery state machine.
type RecoveryState string

const (
	StateInitial    RecoveryState = "INITIAL"
	StateRecovering RecoveryState = "RECOVERING"
	StateResolved   RecoveryState = "RESOLVED"
)

// DefaultFallbackLocation replaces the requested location on recovery.
const DefaultFallbackLocation = "Remote"

// Outcome is the result of running the recovery policy over a search.
type Outcome struct {
	Jobs        []models.Job
	Actions     []models.Action
	Messages    []models.Message
	Transitions []RecoveryState
	Initial     SearchParams
	Final       SearchParams
	Attempts    int
	// InitialFailed is true when the first search returned no jobs.
	InitialFailed bool
	// RecoveryOccurred is true iff INITIAL -> RECOVERING fired.
	RecoveryOccurred bool
}

// State is the state the machine finished in.
func (o *Outcome) State() RecoveryState {
	return o.Transitions[len(o.Transitions)-1]
}

// RecoveryPolicy retries an empty search exactly once with the location
// swapped for FallbackLocation.
type RecoveryPolicy struct {
	FallbackLocation string
}

// NewRecoveryPolicy creates a RecoveryPolicy. An empty fallback uses
// DefaultFallbackLocation.
func NewRecoveryPolicy(fallback string) *RecoveryPolicy {
	if fallback == "" {
		fallback = DefaultFallbackLocation
	}
	return &RecoveryPolicy{FallbackLocation: fallback}
}

// Adjust returns the parameter set used for the retry.
func (p *RecoveryPolicy) Adjust(params SearchParams) SearchParams {
	params.Location = p.FallbackLocation
	return params
}

// Run executes the initial search and, when it is empty and the workflow
// permits it, a single adjusted retry. Executor errors abort the run.
func (p *RecoveryPolicy) Run(ctx context.Context, exec StepExecutor, workflow models.WorkflowType, params SearchParams) (*Outcome, error) {
	out := &Outcome{
		Transitions: []RecoveryState{StateInitial},
		Initial:     params,
		Final:       params,
	}

	first, err := exec.Execute(ctx, StepSearch, JobMatcherAgentID, params)
	if err != nil {
		return nil, err
	}
	out.Attempts = 1
	out.record(first)

	if !first.Empty() {
		out.Transitions = append(out.Transitions, StateResolved)
		return out, nil
	}
	out.InitialFailed = true

	if !workflow.PermitsRecovery() {
		out.Transitions = append(out.Transitions, StateResolved)
		return out, nil
	}

	out.Transitions = append(out.Transitions, StateRecovering)
	out.RecoveryOccurred = true

	adjusted := p.Adjust(params)
	out.Actions = append(out.Actions, models.NewAction(JobMatcherAgentID,
		"AUTONOMOUS RECOVERY: Analyzing failure and adjusting strategy",
		0.75, models.StatusRecovery,
		"Step 1: Detected failure condition (0 results)",
		"Step 2: Analyzing constraints...",
		fmt.Sprintf("Step 3: Hypothesis - '%s' is too restrictive", params.Location),
		fmt.Sprintf("Step 4: Decision - Remove location constraint, try '%s'", adjusted.Location),
		"Step 5: No human intervention needed - proceeding autonomously",
	))
	out.Messages = append(out.Messages, newMessage(JobMatcherAgentName, "Self", models.MessageRecovery,
		fmt.Sprintf("AUTONOMOUS PIVOT: Location '%s' yielded 0 results. Switching to '%s' without human approval.",
			params.Location, adjusted.Location)))

	retry, err := exec.Execute(ctx, StepRetrySearch, JobMatcherAgentID, adjusted)
	if err != nil {
		return nil, err
	}
	out.Attempts++
	out.Final = adjusted
	out.record(retry)
	out.Transitions = append(out.Transitions, StateResolved)
	return out, nil
}

func (o *Outcome) record(r StepResult) {
	o.Jobs = r.Jobs
	o.Actions = append(o.Actions, r.Action)
	o.Messages = append(o.Messages, r.Messages...)
}
