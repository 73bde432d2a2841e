// Package orchestration runs the multi-agent job matching workflow: a
// linear pipeline of agent steps with a one-shot recovery when the first
// search comes back empty.
package orchestration

import (
	"context"
	"fmt"
	"strings"

	"ai-automation/backend/pkg/models"
)

// JobSearcher finds jobs for a skill in a location. An empty result is a
// valid answer, not an error.
type JobSearcher interface {
	Search(ctx context.Context, skill, location string) ([]models.Job, error)
}

// ResultFunc produces the canned result for one location key.
type ResultFunc func(skill, location string) []models.Job

// LocationTable is a JobSearcher that answers from a lookup table keyed by
// lower-cased location. Locations without an entry use Default.
type LocationTable struct {
	Entries map[string]ResultFunc
	Default ResultFunc
}

// NewMockJobSearch returns the demo table: London never has jobs, Remote
// always has three, anywhere else has one.
func NewMockJobSearch() *LocationTable {
	return &LocationTable{
		Entries: map[string]ResultFunc{
			"london": func(string, string) []models.Job { return []models.Job{} },
			"remote": remoteJobs,
		},
		Default: localJob,
	}
}

// Search implements JobSearcher.
func (t *LocationTable) Search(ctx context.Context, skill, location string) ([]models.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(location))
	if fn, ok := t.Entries[key]; ok {
		return fn(skill, location), nil
	}
	if t.Default == nil {
		return []models.Job{}, nil
	}
	return t.Default(skill, location), nil
}

func remoteJobs(skill, _ string) []models.Job {
	return []models.Job{
		{ID: "1", Title: fmt.Sprintf("Senior %s Developer", skill), Company: "TechCorp", Salary: "₹25 LPA", Location: "Remote"},
		{ID: "2", Title: fmt.Sprintf("%s Engineer", skill), Company: "StartupAI", Salary: "₹20 LPA", Location: "Remote"},
		{ID: "3", Title: fmt.Sprintf("Full Stack %s", skill), Company: "GlobalTech", Salary: "₹22 LPA", Location: "Remote"},
	}
}

func localJob(skill, location string) []models.Job {
	return []models.Job{
		{ID: "1", Title: fmt.Sprintf("%s Developer", skill), Company: "LocalCo", Salary: "₹15 LPA", Location: location},
	}
}
