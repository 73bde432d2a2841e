// Package mcp exposes the orchestration agents and the keyword memory as
// Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ai-automation/backend/internal/orchestration"
	"ai-automation/backend/internal/services"
	"ai-automation/backend/pkg/models"
)

// WorkflowRunner runs and looks up orchestration workflows.
type WorkflowRunner interface {
	Orchestrate(ctx context.Context, req models.WorkflowRequest) (*models.OrchestrationResponse, error)
	Workflow(ctx context.Context, id string) (*models.WorkflowRecord, error)
}

type Server struct {
	mcpServer     *server.MCPServer
	workflows     WorkflowRunner
	agents        *orchestration.AgentRegistry
	memoryService *services.MemoryService
}

func NewServer(workflows WorkflowRunner, agents *orchestration.AgentRegistry, memoryService *services.MemoryService) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"AI Agent Orchestrator",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		workflows:     workflows,
		agents:        agents,
		memoryService: memoryService,
	}

	s.registerTools()
	return s
}

func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"orchestrate",
			mcp.WithDescription("Run a multi-agent job search workflow with autonomous failure recovery"),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("Caller identity")),
			mcp.WithString("workflow_type", mcp.Required(),
				mcp.Enum(
					string(models.WorkflowFullAnalysis),
					string(models.WorkflowSkillGapOnly),
					string(models.WorkflowJobMatchOnly),
					string(models.WorkflowAssessmentOnly),
					string(models.WorkflowFailureRecoveryDemo),
				),
				mcp.Description("Which workflow to run"),
			),
			mcp.WithString("target_role", mcp.Description("Skill or role to search for")),
			mcp.WithString("target_location", mcp.Description("Where to search")),
		),
		s.handleOrchestrate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_workflow",
			mcp.WithDescription("Fetch a stored workflow by id"),
			mcp.WithString("workflow_id", mcp.Required(), mcp.Description("The workflow id returned by orchestrate")),
		),
		s.handleGetWorkflow,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"trigger_agent",
			mcp.WithDescription("Trigger a single agent action"),
			mcp.WithString("agent_id", mcp.Required(), mcp.Enum(s.agents.Agents()...), mcp.Description("The agent to act")),
			mcp.WithString("task", mcp.Required(), mcp.Description("What the agent should do")),
		),
		s.handleTriggerAgent,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"remember",
			mcp.WithDescription("Store content in a keyword collection"),
			mcp.WithString("content", mcp.Required(), mcp.Description("The content to store")),
			mcp.WithString("collection", mcp.Description("Collection name")),
		),
		s.handleRemember,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"recall",
			mcp.WithDescription("Search a keyword collection"),
			mcp.WithString("query", mcp.Required(), mcp.Description("The query to search for")),
			mcp.WithString("collection", mcp.Description("Collection name")),
		),
		s.handleRecall,
	)
}

func (s *Server) handleOrchestrate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	userID, _ := args["user_id"].(string)
	if userID == "" {
		return mcp.NewToolResultError("Missing required parameter: user_id"), nil
	}
	workflowType, _ := args["workflow_type"].(string)
	role, _ := args["target_role"].(string)
	location, _ := args["target_location"].(string)

	resp, err := s.workflows.Orchestrate(ctx, models.WorkflowRequest{
		UserID:         userID,
		WorkflowType:   models.WorkflowType(workflowType),
		TargetRole:     role,
		TargetLocation: location,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Workflow failed: %v", err)), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleGetWorkflow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	id, ok := args["workflow_id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("Missing required parameter: workflow_id"), nil
	}

	record, err := s.workflows.Workflow(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Workflow %s: %v", id, err)), nil
	}
	return jsonResult(record)
}

func (s *Server) handleTriggerAgent(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	agentID, _ := args["agent_id"].(string)
	task, _ := args["task"].(string)
	if agentID == "" || task == "" {
		return mcp.NewToolResultError("Missing required parameters: agent_id, task"), nil
	}

	action, err := s.agents.Trigger(agentID, task)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(action)
}

func (s *Server) handleRemember(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	content, ok := args["content"].(string)
	if !ok || content == "" {
		return mcp.NewToolResultError("Missing required parameter: content"), nil
	}
	collection, _ := args["collection"].(string)

	id, err := s.memoryService.Remember(ctx, collection, content, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to remember: %v", err)), nil
	}
	return mcp.NewToolResultText(id), nil
}

func (s *Server) handleRecall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("Missing required parameter: query"), nil
	}
	collection, _ := args["collection"].(string)

	docs, err := s.memoryService.Recall(ctx, collection, query, services.DefaultQueryLimit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to recall: %v", err)), nil
	}
	return jsonResult(docs)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

// MountHTTPHandlers serves streamable HTTP at /mcp and the legacy SSE
// transport at /mcp/sse and /mcp/message.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))
	streamable := server.NewStreamableHTTPServer(mcpServer, server.WithEndpointPath("/mcp"))

	mux.Handle("/mcp", streamable)
	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
