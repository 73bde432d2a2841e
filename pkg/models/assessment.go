package models

// QuizQuestion is a multiple choice question inside a quiz quest.
type QuizQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Points       int      `json:"points"`
	Explanation  string   `json:"explanation"`
}

// CodingChallenge is the payload of a challenge quest.
type CodingChallenge struct {
	Description string           `json:"description"`
	StarterCode string           `json:"starter_code"`
	TestCases   []map[string]any `json:"test_cases"`
	TimeLimit   int              `json:"time_limit"`
}

// Quest types.
const (
	QuestQuiz       = "quiz"
	QuestChallenge  = "challenge"
	QuestBossBattle = "boss_battle"
)

// Quest is one unit of a gamified assessment.
type Quest struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Type         string           `json:"type"`
	Questions    []QuizQuestion   `json:"questions,omitempty"`
	Challenge    *CodingChallenge `json:"challenge,omitempty"`
	TotalPoints  int              `json:"total_points"`
	EarnedPoints int              `json:"earned_points"`
	Status       string           `json:"status"`
}

// Content source types.
const (
	SourcePDF     = "pdf"
	SourceYouTube = "youtube"
	SourceText    = "text"
	SourceURL     = "url"
)

// ContentSource is a piece of learning content an assessment is built from.
type ContentSource struct {
	Type    string  `json:"type"`
	Data    *string `json:"data,omitempty"`
	URL     *string `json:"url,omitempty"`
	Content *string `json:"content,omitempty"`
}

// AssessmentRequest asks for an assessment generated from content.
type AssessmentRequest struct {
	ContentSources []ContentSource `json:"content_sources"`
	Difficulty     string          `json:"difficulty"`
}

// AssessmentResponse is a generated assessment module.
type AssessmentResponse struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	TotalXP     int     `json:"total_xp"`
	Quests      []Quest `json:"quests"`
}

// EvaluateCodeRequest submits code for a challenge.
type EvaluateCodeRequest struct {
	Code      string         `json:"code"`
	Challenge map[string]any `json:"challenge"`
}

// CodeEvaluation is the verdict on a code submission.
type CodeEvaluation struct {
	Passed   bool   `json:"passed"`
	Feedback string `json:"feedback"`
}
