package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ai-automation/backend/internal/tools"
	"ai-automation/backend/pkg/models"
)

// RecommendedPace is reported with every learning path.
const RecommendedPace = "10 hours/week"

// ResumeReader extracts structured data from an uploaded resume.
type ResumeReader interface {
	Parse(ctx context.Context, encoded, objectKey, mime string) (models.ResumeData, error)
}

// DefaultJobDescription is the target role when the request names none.
func DefaultJobDescription() models.JobDescription {
	return models.JobDescription{
		Title:        "Senior Full-Stack Developer",
		Requirements: []string{"React", "Node.js", "TypeScript", "AWS"},
		Preferred:    []string{"Docker", "Kubernetes", "GraphQL"},
	}
}

// SkillGapService compares a resume with a job description and builds a
// gamified learning path over the gaps.
type SkillGapService struct {
	llm       LLMClient
	resumes   ResumeReader
	resources tools.ResourceFinder
	logger    Logger
}

// NewSkillGapService creates a new SkillGapService. llm may be nil, in which
// case gaps are computed by a plain set difference.
func NewSkillGapService(llm LLMClient, resumes ResumeReader, resources tools.ResourceFinder, logger Logger) *SkillGapService {
	return &SkillGapService{llm: llm, resumes: resumes, resources: resources, logger: orNop(logger)}
}

// Analyze runs the full skill-gap pipeline.
func (s *SkillGapService) Analyze(ctx context.Context, req models.SkillGapRequest) (*models.SkillGapResponse, error) {
	resume, err := s.resumes.Parse(ctx, req.ResumeFile, req.ResumeObjectKey, req.ResumeMime)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("resume parsing failed, using defaults", "error", err)
		resume = tools.DefaultResume()
	}

	job := DefaultJobDescription()
	if req.JobDescription != nil {
		job = *req.JobDescription
	}

	analysis := s.analyzeGaps(ctx, resume, job)
	path := s.buildLearningPath(ctx, analysis.Gaps)

	total := 0
	for _, stage := range path {
		total += stage.EstimatedHours
	}

	s.logger.Info("skill gap analysis complete", "gaps", len(analysis.Gaps), "stages", len(path))
	return &models.SkillGapResponse{
		ResumeData:          resume,
		JobDescription:      job,
		Analysis:            analysis,
		LearningPath:        path,
		TotalEstimatedHours: total,
		RecommendedPace:     RecommendedPace,
	}, nil
}

// GenerateStages turns aptitude weaknesses into locked remediation stages.
// Recommendations are accepted alongside but do not shape the stages.
func (s *SkillGapService) GenerateStages(ctx context.Context, req models.GenerateStagesRequest) []models.LearningStage {
	stages := make([]models.LearningStage, 0, len(req.Weaknesses))
	for i, weakness := range req.Weaknesses {
		stages = append(stages, models.LearningStage{
			ID:             "feedback-" + shortID(),
			Stage:          100 + i,
			Skill:          "Improve: " + weakness,
			EstimatedHours: 15,
			Resources:      top(s.resources.Find(ctx, weakness), 2),
			Milestones: []string{
				fmt.Sprintf("Review %s fundamentals", weakness),
				fmt.Sprintf("Practice %s exercises", weakness),
				"Pass remediation assessment",
			},
			XPReward: 400,
			Status:   models.StageLocked,
		})
	}
	return stages
}

type gapPayload struct {
	CurrentSkills  []string `json:"current_skills"`
	RequiredSkills []string `json:"required_skills"`
	Gaps           []struct {
		Skill    string `json:"skill"`
		Priority string `json:"priority"`
		Reason   string `json:"reason"`
	} `json:"gaps"`
}

func (s *SkillGapService) analyzeGaps(ctx context.Context, resume models.ResumeData, job models.JobDescription) models.SkillGapAnalysis {
	if s.llm == nil {
		return DiffSkills(resume, job)
	}

	raw, err := s.llm.Generate(ctx, gapPrompt(resume, job), GenerateOptions{Temperature: 0.3})
	if err != nil {
		s.logger.Warn("gap analysis request failed, using fallback comparison", "error", err)
		return DiffSkills(resume, job)
	}
	payload, err := DecodeJSON[gapPayload](raw)
	if err != nil {
		s.logger.Warn("gap analysis parsing failed, using fallback comparison", "error", err)
		return DiffSkills(resume, job)
	}

	analysis := models.SkillGapAnalysis{
		CurrentSkills:  payload.CurrentSkills,
		RequiredSkills: payload.RequiredSkills,
		Gaps:           make([]models.SkillGap, 0, len(payload.Gaps)),
	}
	if len(analysis.CurrentSkills) == 0 {
		analysis.CurrentSkills = resume.Skills
	}
	if len(analysis.RequiredSkills) == 0 {
		analysis.RequiredSkills = job.Requirements
	}
	for _, g := range payload.Gaps {
		gap := models.SkillGap{Skill: g.Skill, Priority: normalizePriority(g.Priority), Reason: g.Reason}
		if gap.Skill == "" {
			gap.Skill = "Unknown"
		}
		if gap.Reason == "" {
			gap.Reason = "Identified gap"
		}
		analysis.Gaps = append(analysis.Gaps, gap)
	}
	return analysis
}

// DiffSkills is the deterministic gap analysis: missing requirements are high
// priority, missing preferred skills medium. Matching ignores case.
func DiffSkills(resume models.ResumeData, job models.JobDescription) models.SkillGapAnalysis {
	have := make(map[string]bool, len(resume.Skills))
	for _, skill := range resume.Skills {
		have[strings.ToLower(strings.TrimSpace(skill))] = true
	}

	gaps := []models.SkillGap{}
	add := func(skills []string, priority, reason string) {
		for _, skill := range skills {
			key := strings.ToLower(strings.TrimSpace(skill))
			if key == "" || have[key] {
				continue
			}
			have[key] = true
			gaps = append(gaps, models.SkillGap{Skill: skill, Priority: priority, Reason: reason})
		}
	}
	add(job.Requirements, models.PriorityHigh, "Required for "+job.Title)
	add(job.Preferred, models.PriorityMedium, "Preferred for "+job.Title)

	return models.SkillGapAnalysis{
		CurrentSkills:  resume.Skills,
		RequiredSkills: job.Requirements,
		Gaps:           gaps,
	}
}

func (s *SkillGapService) buildLearningPath(ctx context.Context, gaps []models.SkillGap) []models.LearningStage {
	path := make([]models.LearningStage, 0, len(gaps))
	for i, gap := range gaps {
		status := models.StageLocked
		if i == 0 {
			status = models.StageAvailable
		}
		path = append(path, models.LearningStage{
			ID:             "stage-" + shortID(),
			Stage:          i + 1,
			Skill:          gap.Skill,
			EstimatedHours: 15 + 5*i,
			Resources:      top(s.resources.Find(ctx, gap.Skill), 3),
			Milestones: []string{
				fmt.Sprintf("Complete %s fundamentals", gap.Skill),
				fmt.Sprintf("Build a project using %s", gap.Skill),
				fmt.Sprintf("Pass %s assessment", gap.Skill),
			},
			XPReward: 300 + 100*i,
			Status:   status,
		})
	}
	return path
}

func gapPrompt(resume models.ResumeData, job models.JobDescription) string {
	return fmt.Sprintf(`You are an expert career advisor and skills analyst.

Analyze the skill gap between this candidate's resume and the target job.

Resume Data:
- Skills: %s
- Experience: %s
- Education: %s

Target Job:
- Title: %s
- Required Skills: %s
- Preferred Skills: %s

Identify the skills the candidate already has, the required skills they are
missing, a priority (high/medium/low) and a reason for each gap.

Output only JSON with this structure:
{"current_skills": ["skill1"], "required_skills": ["skill1"], "gaps": [{"skill": "TypeScript", "priority": "high", "reason": "Required for code quality"}]}`,
		strings.Join(resume.Skills, ", "),
		strings.Join(resume.Experience, ", "),
		strings.Join(resume.Education, ", "),
		job.Title,
		strings.Join(job.Requirements, ", "),
		strings.Join(job.Preferred, ", "),
	)
}

func normalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case models.PriorityHigh:
		return models.PriorityHigh
	case models.PriorityLow:
		return models.PriorityLow
	default:
		return models.PriorityMedium
	}
}

func top(res []models.Resource, n int) []models.Resource {
	if len(res) > n {
		return res[:n]
	}
	if res == nil {
		return []models.Resource{}
	}
	return res
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
