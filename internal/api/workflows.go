package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"ai-automation/backend/internal/orchestration"
	"ai-automation/backend/internal/services"
	"ai-automation/backend/pkg/models"
)

// WorkflowRunner runs and looks up orchestration workflows.
type WorkflowRunner interface {
	Orchestrate(ctx context.Context, req models.WorkflowRequest) (*models.OrchestrationResponse, error)
	Workflow(ctx context.Context, id string) (*models.WorkflowRecord, error)
}

// Server holds the dependencies for the API server.
type Server struct {
	Workflows  WorkflowRunner
	Agents     *orchestration.AgentRegistry
	SkillGap   *services.SkillGapService
	Assessment *services.AssessmentService
	Aptitude   *services.AptitudeService
	Memory     *services.MemoryService
	Logger     Logger
}

// Orchestrate runs a multi-agent workflow
// (POST /api/v1/agents/orchestration/orchestrate)
func (s *Server) Orchestrate(c echo.Context) error {
	var req models.WorkflowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	resp, err := s.Workflows.Orchestrate(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetWorkflow returns a stored workflow
// (GET /api/v1/agents/orchestration/workflow/{workflow_id})
func (s *Server) GetWorkflow(c echo.Context) error {
	var workflowID string
	err := runtime.BindStyledParameterWithOptions("simple", "workflow_id", c.Param("workflow_id"), &workflowID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter workflow_id: "+err.Error())
	}

	record, err := s.Workflows.Workflow(c.Request().Context(), workflowID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// TriggerAgentAction runs a single ad hoc agent action
// (POST /api/v1/agents/orchestration/agent/{agent_id}/action?task=...)
func (s *Server) TriggerAgentAction(c echo.Context) error {
	var agentID, task string
	err := runtime.BindStyledParameterWithOptions("simple", "agent_id", c.Param("agent_id"), &agentID,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter agent_id: "+err.Error())
	}
	if err := runtime.BindQueryParameter("form", true, true, "task", c.QueryParams(), &task); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter task: "+err.Error())
	}

	action, err := s.Agents.Trigger(agentID, task)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, action)
}
