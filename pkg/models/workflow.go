// Package models defines the domain models shared by the agent service
package models

import (
	"fmt"
	"time"
)

// WorkflowType selects which orchestration flow a request runs.
type WorkflowType string

const (
	WorkflowFullAnalysis        WorkflowType = "full_analysis"
	WorkflowSkillGapOnly        WorkflowType = "skill_gap_only"
	WorkflowJobMatchOnly        WorkflowType = "job_match_only"
	WorkflowAssessmentOnly      WorkflowType = "assessment_only"
	WorkflowFailureRecoveryDemo WorkflowType = "failure_recovery_demo"
)

// Valid reports whether t is one of the supported flows.
func (t WorkflowType) Valid() bool {
	switch t {
	case WorkflowFullAnalysis, WorkflowSkillGapOnly, WorkflowJobMatchOnly,
		WorkflowAssessmentOnly, WorkflowFailureRecoveryDemo:
		return true
	}
	return false
}

// PermitsRecovery reports whether an empty search may be retried.
func (t WorkflowType) PermitsRecovery() bool {
	switch t {
	case WorkflowFullAnalysis, WorkflowJobMatchOnly, WorkflowFailureRecoveryDemo:
		return true
	}
	return false
}

// ActionStatus is the outcome of an agent step.
type ActionStatus string

const (
	StatusSuccess  ActionStatus = "success"
	StatusFailure  ActionStatus = "failure"
	StatusRecovery ActionStatus = "recovery"
	StatusThinking ActionStatus = "thinking"
)

// MessageType classifies an inter-agent message.
type MessageType string

const (
	MessageRequest  MessageType = "request"
	MessageResponse MessageType = "response"
	MessageDecision MessageType = "decision"
	MessageHandoff  MessageType = "handoff"
	MessageFailure  MessageType = "failure"
	MessageRecovery MessageType = "recovery"
)

// Action is one agent's logged decision.
type Action struct {
	AgentID    string       `json:"agent_id"`
	Action     string       `json:"action"`
	Reasoning  []string     `json:"reasoning"`
	Confidence float64      `json:"confidence"`
	Status     ActionStatus `json:"status"`
	Timestamp  time.Time    `json:"timestamp"`
}

// NewAction builds an Action stamped with the current time.
func NewAction(agentID, description string, confidence float64, status ActionStatus, reasoning ...string) Action {
	return Action{
		AgentID:    agentID,
		Action:     description,
		Reasoning:  reasoning,
		Confidence: clamp01(confidence),
		Status:     status,
		Timestamp:  time.Now().UTC(),
	}
}

// Message is a directed note between two named agents.
type Message struct {
	ID          string      `json:"id"`
	FromAgent   string      `json:"from_agent"`
	ToAgent     string      `json:"to_agent"`
	MessageType MessageType `json:"message_type"`
	Content     string      `json:"content"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Job is a synthetic job listing returned by a job search.
type Job struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Salary   string `json:"salary"`
	Location string `json:"location"`
}

// Defaults applied to a WorkflowRequest when the caller omits them.
const (
	DefaultTargetRole     = "Python Developer"
	DefaultTargetLocation = "London"
)

// WorkflowRequest starts an orchestration.
type WorkflowRequest struct {
	UserID         string       `json:"user_id"`
	WorkflowType   WorkflowType `json:"workflow_type"`
	ResumeText     *string      `json:"resume_text,omitempty"`
	TargetRole     string       `json:"target_role"`
	TargetLocation string       `json:"target_location"`
}

// Normalize fills omitted fields with their defaults and validates the
// workflow type.
func (r *WorkflowRequest) Normalize() error {
	if r.TargetRole == "" {
		r.TargetRole = DefaultTargetRole
	}
	if r.TargetLocation == "" {
		r.TargetLocation = DefaultTargetLocation
	}
	if !r.WorkflowType.Valid() {
		return fmt.Errorf("unsupported workflow_type %q", r.WorkflowType)
	}
	return nil
}

// Workflow statuses reported to callers.
const (
	WorkflowCompleted             = "completed"
	WorkflowCompletedWithRecovery = "completed_with_recovery"
)

// WorkflowRecord is the persisted result of one orchestration call.
type WorkflowRecord struct {
	WorkflowID       string          `json:"workflow_id"`
	Request          WorkflowRequest `json:"request"`
	Status           string          `json:"status"`
	Actions          []Action        `json:"actions"`
	Messages         []Message       `json:"messages"`
	JobsFound        []Job           `json:"jobs_found"`
	RecoveryOccurred bool            `json:"recovery_occurred"`
	AgentsInvolved   []string        `json:"agents_involved"`
	CreatedAt        time.Time       `json:"created_at"`
}

// Clone returns a deep copy so stored records cannot be mutated by callers.
func (r *WorkflowRecord) Clone() *WorkflowRecord {
	out := *r
	if r.Request.ResumeText != nil {
		text := *r.Request.ResumeText
		out.Request.ResumeText = &text
	}
	out.Actions = make([]Action, len(r.Actions))
	for i, a := range r.Actions {
		a.Reasoning = append([]string(nil), a.Reasoning...)
		out.Actions[i] = a
	}
	out.Messages = append([]Message(nil), r.Messages...)
	out.JobsFound = append([]Job(nil), r.JobsFound...)
	out.AgentsInvolved = append([]string(nil), r.AgentsInvolved...)
	return &out
}

// OrchestrationResponse is returned from an orchestration call.
type OrchestrationResponse struct {
	WorkflowID          string    `json:"workflow_id"`
	Status              string    `json:"status"`
	AgentsInvolved      []string  `json:"agents_involved"`
	Actions             []Action  `json:"actions"`
	Messages            []Message `json:"messages"`
	FinalRecommendation string    `json:"final_recommendation"`
	ConfidenceScore     float64   `json:"confidence_score"`
	JobsFound           []Job     `json:"jobs_found"`
	RecoveryOccurred    bool      `json:"recovery_occurred"`
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
