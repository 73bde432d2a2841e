package services

import (
	"context"
	"fmt"

	"ai-automation/backend/internal/tools"
	"ai-automation/backend/pkg/models"
)

// maxPromptContent bounds the learning content sent to the model.
const maxPromptContent = 4000

// ContentExtractor flattens content sources into text.
type ContentExtractor interface {
	Process(ctx context.Context, sources []models.ContentSource) string
}

// AssessmentService generates gamified assessments from learning content
// and grades code submissions.
type AssessmentService struct {
	llm     LLMClient
	content ContentExtractor
	logger  Logger
}

// NewAssessmentService creates a new AssessmentService. llm may be nil;
// generation then always yields the template assessment.
func NewAssessmentService(llm LLMClient, content ContentExtractor, logger Logger) *AssessmentService {
	return &AssessmentService{llm: llm, content: content, logger: orNop(logger)}
}

type assessmentPayload struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Quests      []models.Quest `json:"quests"`
}

// Generate builds an assessment for the given content.
func (s *AssessmentService) Generate(ctx context.Context, req models.AssessmentRequest) (*models.AssessmentResponse, error) {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "intermediate"
	}
	content := s.content.Process(ctx, req.ContentSources)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.llm != nil {
		resp, err := s.generateWithLLM(ctx, content, difficulty)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn("assessment generation failed, using template", "error", err)
	}
	return TemplateAssessment(), nil
}

func (s *AssessmentService) generateWithLLM(ctx context.Context, content, difficulty string) (*models.AssessmentResponse, error) {
	raw, err := s.llm.Generate(ctx, assessmentPrompt(tools.Truncate(content, maxPromptContent), difficulty), GenerateOptions{Temperature: 0.5})
	if err != nil {
		return nil, err
	}
	payload, err := DecodeJSON[assessmentPayload](raw)
	if err != nil {
		return nil, err
	}
	if len(payload.Quests) == 0 {
		return nil, fmt.Errorf("%w: no quests", ErrDecode)
	}

	for i := range payload.Quests {
		q := &payload.Quests[i]
		q.ID = "quest-" + shortID()
		for j := range q.Questions {
			q.Questions[j].ID = "q-" + shortID()
		}
		if q.TotalPoints == 0 {
			for _, question := range q.Questions {
				q.TotalPoints += question.Points
			}
		}
		q.EarnedPoints = 0
		q.Status = models.StageLocked
		if i == 0 {
			q.Status = models.StageAvailable
		}
	}
	if payload.Title == "" {
		payload.Title = "Generated Assessment Module"
	}
	if payload.Description == "" {
		payload.Description = "AI-generated assessment based on your learning content"
	}
	return newAssessment(payload.Title, payload.Description, payload.Quests), nil
}

// TemplateAssessment is served when no model output is usable.
func TemplateAssessment() *models.AssessmentResponse {
	quests := []models.Quest{
		{
			ID:    "quest-" + shortID(),
			Title: "Core Concepts Quiz",
			Type:  models.QuestQuiz,
			Questions: []models.QuizQuestion{
				{
					ID:           "q-" + shortID(),
					Question:     "Based on the content, what is the main concept?",
					Options:      []string{"Option A - Incorrect", "Option B - Correct answer", "Option C - Incorrect", "Option D - Incorrect"},
					CorrectIndex: 1,
					Points:       50,
					Explanation:  "This is the correct answer because it captures the central idea of the material.",
				},
				{
					ID:           "q-" + shortID(),
					Question:     "Which approach is recommended?",
					Options:      []string{"First approach", "Second approach", "Best practice approach", "Legacy approach"},
					CorrectIndex: 2,
					Points:       50,
					Explanation:  "Best practices are recommended for maintainability and correctness.",
				},
			},
			TotalPoints: 100,
			Status:      models.StageAvailable,
		},
		{
			ID:    "quest-" + shortID(),
			Title: "Implementation Challenge",
			Type:  models.QuestChallenge,
			Challenge: &models.CodingChallenge{
				Description: "Implement the concept you learned in a practical example.",
				StarterCode: "// Implement your solution here\nfunction solution() {\n  \n}",
				TestCases: []map[string]any{
					{"input": "test1", "expected": "result1"},
					{"input": "test2", "expected": "result2"},
				},
				TimeLimit: 20,
			},
			TotalPoints: 200,
			Status:      models.StageLocked,
		},
		{
			ID:          "quest-" + shortID(),
			Title:       "The Final Boss",
			Type:        models.QuestBossBattle,
			TotalPoints: 500,
			Status:      models.StageLocked,
		},
	}
	return newAssessment("Generated Assessment Module", "AI-generated assessment based on your learning content", quests)
}

func newAssessment(title, description string, quests []models.Quest) *models.AssessmentResponse {
	total := 0
	for _, q := range quests {
		total += q.TotalPoints
	}
	return &models.AssessmentResponse{Title: title, Description: description, TotalXP: total, Quests: quests}
}

// EvaluateCode asks the model to grade a submission against a challenge.
func (s *AssessmentService) EvaluateCode(ctx context.Context, req models.EvaluateCodeRequest) (*models.CodeEvaluation, error) {
	if s.llm == nil {
		return nil, ErrLLMUnavailable
	}
	description, _ := req.Challenge["description"].(string)
	testCases := req.Challenge["test_cases"]
	if testCases == nil {
		testCases = []any{}
	}

	raw, err := s.llm.Generate(ctx, fmt.Sprintf(`Evaluate this code submission:

Challenge: %s
Expected behavior: %v

Submitted code:
%s

Does the code solve the problem correctly? Are there bugs or unhandled edge
cases? Is the code readable and efficient?

Return only JSON: {"passed": true/false, "feedback": "detailed feedback"}`, description, testCases, fence(req.Code)), GenerateOptions{Temperature: 0})
	if err != nil {
		return nil, err
	}
	eval, err := DecodeJSON[models.CodeEvaluation](raw)
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func assessmentPrompt(content, difficulty string) string {
	return fmt.Sprintf(`You are an expert educational content designer specializing in gamified learning.

Given this educational content:
%s

Difficulty level: %s

Create a gamified assessment module with a title, a description and 2-3
quests of type "quiz" (3-5 multiple choice questions), "challenge" (a coding
challenge with starter code) and "boss_battle" (a complex scenario). Use
point values between 50 and 500 and explain every quiz answer.

Output only JSON:
{"title": "", "description": "", "quests": [{"title": "", "type": "quiz", "total_points": 100,
  "questions": [{"question": "", "options": ["", "", "", ""], "correct_index": 0, "points": 50, "explanation": ""}],
  "challenge": {"description": "", "starter_code": "", "test_cases": [{"input": "", "expected": ""}], "time_limit": 20}}]}`,
		content, difficulty)
}

func fence(code string) string {
	return "```\n" + code + "\n```"
}
