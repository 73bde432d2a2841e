package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ai-automation/backend/pkg/models"
)

func TestAssessment_TemplateWithoutLLM(t *testing.T) {
	svc := NewAssessmentService(nil, staticContent("goroutines and channels"), nil)

	resp, err := svc.Generate(context.Background(), models.AssessmentRequest{Difficulty: "beginner"})
	require.NoError(t, err)

	require.Len(t, resp.Quests, 3)
	assert.Equal(t, 800, resp.TotalXP)
	assert.Equal(t, []string{models.QuestQuiz, models.QuestChallenge, models.QuestBossBattle},
		[]string{resp.Quests[0].Type, resp.Quests[1].Type, resp.Quests[2].Type})
	assert.Equal(t, models.StageAvailable, resp.Quests[0].Status)
	assert.Equal(t, models.StageLocked, resp.Quests[2].Status)
	assert.Equal(t, 500, resp.Quests[2].TotalPoints)
	require.NotNil(t, resp.Quests[1].Challenge)
	assert.Len(t, resp.Quests[1].Challenge.TestCases, 2)
}

func TestAssessment_LLMQuests(t *testing.T) {
	content := strings.Repeat("x", maxPromptContent+500)
	llm := new(MockLLMClient)
	llm.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
		// content is truncated before prompting
		return !strings.Contains(p, strings.Repeat("x", maxPromptContent+1)) && strings.Contains(p, "Difficulty level: intermediate")
	}), GenerateOptions{Temperature: 0.5}).Return(`{"title": "Go Basics", "quests": [
		{"title": "Quiz", "type": "quiz", "questions": [{"question": "?", "options": ["a","b"], "correct_index": 0, "points": 30}, {"question": "?", "options": ["a","b"], "correct_index": 1, "points": 20}]},
		{"title": "Boss", "type": "boss_battle", "total_points": 300}
	]}`, nil)

	resp, err := NewAssessmentService(llm, staticContent(content), nil).Generate(context.Background(), models.AssessmentRequest{})
	require.NoError(t, err)
	llm.AssertExpectations(t)

	assert.Equal(t, "Go Basics", resp.Title)
	assert.NotEmpty(t, resp.Description)
	require.Len(t, resp.Quests, 2)
	assert.Equal(t, 50, resp.Quests[0].TotalPoints)
	assert.Equal(t, 350, resp.TotalXP)
	assert.Regexp(t, `^quest-[0-9a-f]{8}$`, resp.Quests[0].ID)
	assert.Regexp(t, `^q-[0-9a-f]{8}$`, resp.Quests[0].Questions[0].ID)
	assert.Equal(t, models.StageAvailable, resp.Quests[0].Status)
	assert.Equal(t, models.StageLocked, resp.Quests[1].Status)
}

func TestAssessment_UnusableLLMOutputFallsBack(t *testing.T) {
	for name, out := range map[string]string{"prose": "Here is a great quiz!", "no quests": `{"title": "Empty"}`} {
		t.Run(name, func(t *testing.T) {
			llm := new(MockLLMClient)
			llm.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return(out, nil)

			resp, err := NewAssessmentService(llm, staticContent(""), nil).Generate(context.Background(), models.AssessmentRequest{})
			require.NoError(t, err)
			assert.Equal(t, 800, resp.TotalXP)
		})
	}
}

func TestAssessment_EvaluateCode(t *testing.T) {
	req := models.EvaluateCodeRequest{
		Code:      "func add(a, b int) int { return a + b }",
		Challenge: map[string]any{"description": "add two ints", "test_cases": []any{map[string]any{"input": "1,2", "expected": "3"}}},
	}

	t.Run("no llm", func(t *testing.T) {
		_, err := NewAssessmentService(nil, staticContent(""), nil).EvaluateCode(context.Background(), req)
		assert.ErrorIs(t, err, ErrLLMUnavailable)
	})

	t.Run("verdict", func(t *testing.T) {
		llm := new(MockLLMClient)
		llm.On("Generate", mock.Anything, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "Challenge: add two ints") && strings.Contains(p, req.Code)
		}), GenerateOptions{Temperature: 0}).Return("```json\n{\"passed\": false, \"feedback\": \"overflow\"}\n```", nil)

		eval, err := NewAssessmentService(llm, staticContent(""), nil).EvaluateCode(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, &models.CodeEvaluation{Passed: false, Feedback: "overflow"}, eval)
	})

	t.Run("llm error", func(t *testing.T) {
		boom := errors.New("timeout")
		llm := new(MockLLMClient)
		llm.On("Generate", mock.Anything, mock.Anything, mock.Anything).Return("", boom)

		_, err := NewAssessmentService(llm, staticContent(""), nil).EvaluateCode(context.Background(), req)
		assert.ErrorIs(t, err, boom)
	})
}
