package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ai-automation/backend/pkg/models"
)

// AnalyzeSkillGap compares a resume with a job description
// (POST /api/v1/agents/skill-gap/analyze)
func (s *Server) AnalyzeSkillGap(c echo.Context) error {
	var req models.SkillGapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.ResumeFile == "" && req.ResumeObjectKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "resume_file or resume_object_key is required")
	}

	resp, err := s.SkillGap.Analyze(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GenerateStages turns aptitude weaknesses into roadmap stages
// (POST /api/v1/agents/skill-gap/generate-stages)
func (s *Server) GenerateStages(c echo.Context) error {
	var req models.GenerateStagesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	return c.JSON(http.StatusOK, s.SkillGap.GenerateStages(c.Request().Context(), req))
}

// GenerateAssessment builds a gamified assessment from content sources
// (POST /api/v1/agents/assessment/generate)
func (s *Server) GenerateAssessment(c echo.Context) error {
	var req models.AssessmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	resp, err := s.Assessment.Generate(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// EvaluateCode grades a challenge submission
// (POST /api/v1/agents/assessment/evaluate-code)
func (s *Server) EvaluateCode(c echo.Context) error {
	var req models.EvaluateCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	eval, err := s.Assessment.EvaluateCode(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, eval)
}

// GenerateAptitudeQuestion draws an adaptive question
// (POST /api/v1/agents/aptitude/generate-question)
func (s *Server) GenerateAptitudeQuestion(c echo.Context) error {
	req := models.GenerateQuestionRequest{Difficulty: 5}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.Difficulty < 1 || req.Difficulty > 10 {
		return echo.NewHTTPError(http.StatusBadRequest, "difficulty must be between 1 and 10")
	}
	return c.JSON(http.StatusOK, s.Aptitude.GenerateQuestion(req))
}

// EvaluateAptitudeResponse scores a candidate's answer
// (POST /api/v1/agents/aptitude/evaluate)
func (s *Server) EvaluateAptitudeResponse(c echo.Context) error {
	var req models.EvaluateResponseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	eval, err := s.Aptitude.Evaluate(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, eval)
}

// AnalyzeAptitudeSession summarises a finished session
// (POST /api/v1/agents/aptitude/analyze)
func (s *Server) AnalyzeAptitudeSession(c echo.Context) error {
	var req models.AnalyzeSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	return c.JSON(http.StatusOK, s.Aptitude.AnalyzeSession(req))
}
