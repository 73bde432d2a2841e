package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterHandlers mounts the versioned REST API on g (normally /api/v1).
func RegisterHandlers(g *echo.Group, s *Server) {
	orch := g.Group("/agents/orchestration")
	orch.POST("/orchestrate", s.Orchestrate)
	orch.GET("/workflow/:workflow_id", s.GetWorkflow)
	orch.POST("/agent/:agent_id/action", s.TriggerAgentAction)

	skill := g.Group("/agents/skill-gap")
	skill.POST("/analyze", s.AnalyzeSkillGap)
	skill.POST("/generate-stages", s.GenerateStages)

	assessment := g.Group("/agents/assessment")
	assessment.POST("/generate", s.GenerateAssessment)
	assessment.POST("/evaluate-code", s.EvaluateCode)

	aptitude := g.Group("/agents/aptitude")
	aptitude.POST("/generate-question", s.GenerateAptitudeQuestion)
	aptitude.POST("/evaluate", s.EvaluateAptitudeResponse)
	aptitude.POST("/analyze", s.AnalyzeAptitudeSession)

	emb := g.Group("/embeddings")
	emb.POST("/ingest", s.IngestContent)
	emb.GET("/query", s.QueryContent)
	emb.DELETE("/collection/:collection_name", s.DeleteCollection)
}

// RegisterRoot mounts the unversioned health, index and docs routes.
func RegisterRoot(e *echo.Echo, s *Server) {
	e.GET("/", s.HandleRoot)
	e.GET("/health", s.HandleHealth)
	e.GET("/openapi.yaml", SpecHandler)
	e.GET("/docs", SwaggerHandler)
}
