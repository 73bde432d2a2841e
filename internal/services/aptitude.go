package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"ai-automation/backend/pkg/models"
)

// DefaultAptitudeRole is the question bank used for unknown roles.
const DefaultAptitudeRole = "Full-Stack Developer"

const codingTemplate = "// Write your solution here\nfunction solution() {\n  \n}"

var questionBank = map[string]map[string][]string{
	DefaultAptitudeRole: {
		models.QuestionConceptual: {
			"Explain how the JavaScript event loop works and why it's important.",
			"What is the difference between SQL and NoSQL databases?",
			"Describe the request lifecycle in a Node.js Express application.",
			"What are React hooks and why were they introduced?",
		},
		models.QuestionCoding: {
			"Write a function that implements debouncing.",
			"Create a simple Promise-based sleep function.",
			"Implement a function to deep clone an object.",
		},
		models.QuestionScenario: {
			"How would you design a real-time chat application?",
			"Describe how you would implement authentication in a microservices architecture.",
			"How would you optimize a slow database query?",
		},
	},
}

var strengthLabels = map[string]string{
	models.QuestionConceptual: "Strong theoretical understanding",
	models.QuestionCoding:     "Good coding skills",
	models.QuestionScenario:   "Strong system design thinking",
}

var weaknessLabels = map[string]string{
	models.QuestionConceptual: "Conceptual foundations need work",
	models.QuestionCoding:     "Coding practice recommended",
	models.QuestionScenario:   "System design knowledge gaps",
}

// AptitudeService runs adaptive interview sessions.
type AptitudeService struct {
	llm    LLMClient
	logger Logger
	pick   func(n int) int
}

// NewAptitudeService creates a new AptitudeService. llm may be nil, in
// which case Evaluate returns ErrLLMUnavailable.
func NewAptitudeService(llm LLMClient, logger Logger) *AptitudeService {
	return &AptitudeService{llm: llm, logger: orNop(logger), pick: rand.IntN}
}

// GenerateQuestion draws a question whose type follows the difficulty:
// up to 4 conceptual, up to 7 conceptual or coding, above that coding or
// scenario.
func (s *AptitudeService) GenerateQuestion(req models.GenerateQuestionRequest) models.AptitudeQuestion {
	bank, ok := questionBank[req.TargetRole]
	if !ok {
		bank = questionBank[DefaultAptitudeRole]
	}

	var qType string
	switch {
	case req.Difficulty <= 4:
		qType = models.QuestionConceptual
	case req.Difficulty <= 7:
		qType = []string{models.QuestionConceptual, models.QuestionCoding}[s.pick(2)]
	default:
		qType = []string{models.QuestionCoding, models.QuestionScenario}[s.pick(2)]
	}

	questions, ok := bank[qType]
	if !ok || len(questions) == 0 {
		questions = bank[models.QuestionConceptual]
	}

	q := models.AptitudeQuestion{
		ID:           "aptq-" + shortID(),
		Question:     questions[s.pick(len(questions))],
		QuestionType: qType,
		Difficulty:   req.Difficulty,
	}
	if qType == models.QuestionCoding {
		tmpl := codingTemplate
		q.CodeTemplate = &tmpl
	}
	return q
}

// Evaluate scores a response with the model.
func (s *AptitudeService) Evaluate(ctx context.Context, req models.EvaluateResponseRequest) (*models.AptitudeEvaluation, error) {
	if s.llm == nil {
		return nil, ErrLLMUnavailable
	}

	raw, err := s.llm.Generate(ctx, evaluationPrompt(req), GenerateOptions{Temperature: 0.3})
	if err != nil {
		return nil, err
	}
	score, err := ExtractScore(raw)
	if err != nil {
		s.logger.Warn("could not read score from evaluation", "question_id", req.Question.ID, "error", err)
		return nil, err
	}

	return &models.AptitudeEvaluation{
		QuestionID: req.Question.ID,
		Score:      score,
		Feedback:   FeedbackForScore(score),
	}, nil
}

// FeedbackForScore maps a 1..10 score onto canned feedback.
func FeedbackForScore(score int) string {
	switch {
	case score >= 9:
		return "Excellent response! You demonstrated deep understanding and clear communication."
	case score == 8:
		return "Very good! Your explanation was accurate with minor areas for improvement."
	case score == 7:
		return "Good response. You understood the core concepts but could elaborate more."
	case score == 6:
		return "Adequate response. Consider exploring the topic deeper."
	default:
		return "Good attempt. Keep learning!"
	}
}

// AnalyzeSession summarises a session into strengths, weaknesses and
// suggested roadmap updates. Missing scores count as 5.
func (s *AptitudeService) AnalyzeSession(req models.AnalyzeSessionRequest) models.AptitudeAnalysis {
	sum, n := 0, 0
	strengths := map[string]bool{}
	weaknesses := map[string]bool{}

	for _, q := range req.Questions {
		score := 5
		if q.Evaluation != nil {
			if q.Evaluation.Score != 0 {
				score = q.Evaluation.Score
			}
			sum += score
			n++
		}
		qType := models.QuestionConceptual
		if q.Question != nil && q.Question.QuestionType != "" {
			qType = q.Question.QuestionType
		}

		switch {
		case score >= 7:
			if label, ok := strengthLabels[qType]; ok {
				strengths[label] = true
			}
		case score <= 5:
			if label, ok := weaknessLabels[qType]; ok {
				weaknesses[label] = true
			}
		}
	}

	overall := 50
	if n > 0 {
		overall = int(float64(sum*10) / float64(n))
	}

	analysis := models.AptitudeAnalysis{
		OverallScore: overall,
		Strengths:    sortedKeys(strengths, "Problem-solving approach"),
		Weaknesses:   sortedKeys(weaknesses, "Advanced topics"),
	}
	for i, w := range analysis.Weaknesses {
		if i < 3 {
			analysis.Recommendations = append(analysis.Recommendations, "Focus on improving: "+w)
		}
		update := strings.ReplaceAll(w, "need work", "")
		update = strings.ReplaceAll(update, "recommended", "")
		analysis.SuggestedRoadmapUpdates = append(analysis.SuggestedRoadmapUpdates, strings.TrimSpace(update))
	}
	return analysis
}

func sortedKeys(set map[string]bool, fallback string) []string {
	if len(set) == 0 {
		return []string{fallback}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func evaluationPrompt(req models.EvaluateResponseRequest) string {
	codeSection := ""
	if req.Code != nil && *req.Code != "" {
		codeSection = "Code Submitted:\n" + fence(*req.Code)
	}
	return fmt.Sprintf(`You are an expert technical interviewer evaluating a candidate's response.

Question (%s, difficulty %d/10):
%s

Candidate's Response:
%s

%s

Evaluate the response on a scale of 1-10 considering accuracy, depth of
understanding, communication clarity and, for coding, code quality and edge
case handling. Be fair but rigorous. A score of 7+ means excellent
understanding.

Answer in exactly this format:
Score: <1-10>
Feedback: <2-3 sentences>`,
		req.Question.QuestionType, req.Question.Difficulty, req.Question.Question, req.Response, codeSection)
}
