package models

// ResourceType classifies a learning resource.
type ResourceType string

const (
	ResourceCourse        ResourceType = "course"
	ResourceTutorial      ResourceType = "tutorial"
	ResourceArticle       ResourceType = "article"
	ResourceVideo         ResourceType = "video"
	ResourceDocumentation ResourceType = "documentation"
)

// Resource is a link to learning material.
type Resource struct {
	Title    string       `json:"title"`
	URL      string       `json:"url"`
	Type     ResourceType `json:"type"`
	Duration *string      `json:"duration,omitempty"`
}

// Priority levels for a skill gap.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// SkillGap is a required skill the candidate lacks.
type SkillGap struct {
	Skill    string `json:"skill"`
	Priority string `json:"priority"`
	Reason   string `json:"reason"`
}

// Stage statuses.
const (
	StageAvailable = "available"
	StageLocked    = "locked"
)

// LearningStage is one step of a gamified learning path.
type LearningStage struct {
	ID             string     `json:"id"`
	Stage          int        `json:"stage"`
	Skill          string     `json:"skill"`
	EstimatedHours int        `json:"estimated_hours"`
	Resources      []Resource `json:"resources"`
	Milestones     []string   `json:"milestones"`
	XPReward       int        `json:"xp_reward"`
	Status         string     `json:"status"`
}

// ResumeData is the structured content of a parsed resume.
type ResumeData struct {
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
}

// JobDescription describes the target role of a skill-gap analysis.
type JobDescription struct {
	Title        string   `json:"title"`
	Company      *string  `json:"company,omitempty"`
	Requirements []string `json:"requirements"`
	Preferred    []string `json:"preferred"`
}

// SkillGapAnalysis compares a resume against a job description.
type SkillGapAnalysis struct {
	CurrentSkills  []string   `json:"current_skills"`
	RequiredSkills []string   `json:"required_skills"`
	Gaps           []SkillGap `json:"gaps"`
}

// SkillGapRequest carries a resume either inline (base64) or as an object
// storage key.
type SkillGapRequest struct {
	ResumeFile       string          `json:"resume_file"`
	ResumeObjectKey  string          `json:"resume_object_key,omitempty"`
	ResumeMime       string          `json:"resume_mime,omitempty"`
	JobDescriptionID *string         `json:"job_description_id,omitempty"`
	JobDescription   *JobDescription `json:"job_description,omitempty"`
}

// SkillGapResponse is the output of a skill-gap analysis.
type SkillGapResponse struct {
	ResumeData          ResumeData       `json:"resume_data"`
	JobDescription      JobDescription   `json:"job_description"`
	Analysis            SkillGapAnalysis `json:"analysis"`
	LearningPath        []LearningStage  `json:"learning_path"`
	TotalEstimatedHours int              `json:"total_estimated_hours"`
	RecommendedPace     string           `json:"recommended_pace"`
}

// GenerateStagesRequest feeds aptitude weaknesses back into the roadmap.
type GenerateStagesRequest struct {
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
}
