package models

// Aptitude question types.
const (
	QuestionConceptual = "conceptual"
	QuestionCoding     = "coding"
	QuestionScenario   = "scenario"
)

// AptitudeQuestion is one adaptive interview question.
type AptitudeQuestion struct {
	ID           string  `json:"id"`
	Question     string  `json:"question"`
	QuestionType string  `json:"question_type"`
	Difficulty   int     `json:"difficulty"`
	CodeTemplate *string `json:"code_template,omitempty"`
}

// AptitudeEvaluation scores a candidate's answer.
type AptitudeEvaluation struct {
	QuestionID    string  `json:"question_id"`
	Score         int     `json:"score"`
	Feedback      string  `json:"feedback"`
	CorrectAnswer *string `json:"correct_answer,omitempty"`
}

// AptitudeAnalysis summarises a whole aptitude session.
type AptitudeAnalysis struct {
	OverallScore            int      `json:"overall_score"`
	Strengths               []string `json:"strengths"`
	Weaknesses              []string `json:"weaknesses"`
	Recommendations         []string `json:"recommendations"`
	SuggestedRoadmapUpdates []string `json:"suggested_roadmap_updates"`
}

// GenerateQuestionRequest asks for a new question.
type GenerateQuestionRequest struct {
	TargetRole string `json:"target_role"`
	Difficulty int    `json:"difficulty"`
}

// EvaluateResponseRequest submits an answer for scoring.
type EvaluateResponseRequest struct {
	Question AptitudeQuestion `json:"question"`
	Response string           `json:"response"`
	Code     *string          `json:"code,omitempty"`
}

// SessionQuestion is an answered question as recorded by the client.
type SessionQuestion struct {
	Question   *AptitudeQuestion   `json:"question,omitempty"`
	Evaluation *AptitudeEvaluation `json:"evaluation,omitempty"`
}

// AnalyzeSessionRequest carries every answered question of a session.
type AnalyzeSessionRequest struct {
	Questions []SessionQuestion `json:"questions"`
}
