package orchestration

import (
	"errors"
	"fmt"
	"sort"

	"ai-automation/backend/pkg/models"
)

// ErrUnknownAgent is returned when an ad hoc action targets an agent that
// is not registered.
var ErrUnknownAgent = errors.New("agent not found")

type agentProfile struct {
	name      string
	action    func(task string) string
	reasoning func(task string) []string
}

// AgentRegistry triggers single agent actions outside a full orchestration.
type AgentRegistry struct {
	agents map[string]agentProfile
}

// NewAgentRegistry returns the registry of ad hoc agents.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{agents: map[string]agentProfile{
		"skill-gap": {
			name:   "Skill-Gap Analyzer",
			action: func(task string) string { return "Analyzing: " + task },
			reasoning: func(task string) []string {
				return []string{"Received task: " + task, "Processing..."}
			},
		},
		"job-matcher": {
			name:   "Job Matcher",
			action: func(task string) string { return "Searching for: " + task },
			reasoning: func(task string) []string {
				return []string{"Query: " + task, "Executing search..."}
			},
		},
	}}
}

// Trigger records a single action for agentID.
func (r *AgentRegistry) Trigger(agentID, task string) (models.Action, error) {
	profile, ok := r.agents[agentID]
	if !ok {
		return models.Action{}, fmt.Errorf("%w: %s", ErrUnknownAgent, agentID)
	}
	return models.NewAction(agentID, profile.action(task), 0.85, models.StatusSuccess, profile.reasoning(task)...), nil
}

// Agents lists the registered agent ids.
func (r *AgentRegistry) Agents() []string {
	ids := make([]string, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Name returns the display name of agentID.
func (r *AgentRegistry) Name(agentID string) (string, bool) {
	p, ok := r.agents[agentID]
	return p.name, ok
}
