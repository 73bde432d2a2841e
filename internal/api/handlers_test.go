package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ai-automation/backend/internal/orchestration"
	"ai-automation/backend/internal/repository"
	"ai-automation/backend/internal/services"
	"ai-automation/backend/internal/tools"
	"ai-automation/backend/pkg/models"
)

type captureLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *captureLogger) Info(string, ...any) {}
func (l *captureLogger) Warn(string, ...any) {}
func (l *captureLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

// MockWorkflowRunner satisfies WorkflowRunner
type MockWorkflowRunner struct {
	mock.Mock
}

func (m *MockWorkflowRunner) Orchestrate(ctx context.Context, req models.WorkflowRequest) (*models.OrchestrationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrchestrationResponse), args.Error(1)
}

func (m *MockWorkflowRunner) Workflow(ctx context.Context, id string) (*models.WorkflowRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowRecord), args.Error(1)
}

func newTestServer(runner WorkflowRunner) *Server {
	if runner == nil {
		exec := orchestration.NewExecutor(orchestration.NewMockJobSearch(), 0)
		runner = orchestration.NewOrchestrator(exec, repository.NewMemoryWorkflowStore())
	}
	return &Server{
		Workflows:  runner,
		Agents:     orchestration.NewAgentRegistry(),
		SkillGap:   services.NewSkillGapService(nil, tools.NewResumeParser(nil), tools.NewCuratedResources(), nil),
		Assessment: services.NewAssessmentService(nil, tools.NewContentProcessor(nil, nil), nil),
		Aptitude:   services.NewAptitudeService(nil, nil),
		Memory:     services.NewMemoryService(repository.NewMemoryDocumentStore()),
		Logger:     &captureLogger{},
	}
}

func newTestEcho(s *Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ProblemHandler(s.Logger)
	RegisterRoot(e, s)
	RegisterHandlers(e.Group("/api/v1"), s)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	assert.Equal(t, MIMEProblemJSON, rec.Header().Get(echo.HeaderContentType))
	var p ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, rec.Code, p.Status)
	return p
}

func TestOrchestrate_RecoveryScenario(t *testing.T) {
	e := newTestEcho(newTestServer(nil))

	rec := do(t, e, http.MethodPost, "/api/v1/agents/orchestration/orchestrate",
		`{"user_id":"u1","workflow_type":"failure_recovery_demo","target_role":"Python","target_location":"London"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.OrchestrationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.WorkflowCompletedWithRecovery, resp.Status)
	assert.True(t, resp.RecoveryOccurred)
	assert.Len(t, resp.JobsFound, 3)

	rec = do(t, e, http.MethodGet, "/api/v1/agents/orchestration/workflow/"+resp.WorkflowID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var record models.WorkflowRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, resp.WorkflowID, record.WorkflowID)
	assert.Len(t, record.Actions, len(resp.Actions))
	assert.True(t, record.RecoveryOccurred)
}

func TestOrchestrate_BadRequests(t *testing.T) {
	s := newTestServer(nil)
	e := newTestEcho(s)

	for name, body := range map[string]string{
		"unknown workflow": `{"user_id":"u1","workflow_type":"everything"}`,
		"missing user":     `{"workflow_type":"full_analysis"}`,
		"malformed json":   `{"user_id":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, "/api/v1/agents/orchestration/orchestrate", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			p := decodeProblem(t, rec)
			assert.Equal(t, "Bad Request", p.Title)
			assert.Equal(t, "/api/v1/agents/orchestration/orchestrate", p.Instance)
		})
	}
	assert.Empty(t, s.Logger.(*captureLogger).errors)
}

func TestOrchestrate_StepFailureIs500(t *testing.T) {
	runner := new(MockWorkflowRunner)
	runner.On("Orchestrate", mock.Anything, mock.Anything).Return(nil, errors.New("job search backend down"))
	s := newTestServer(runner)
	e := newTestEcho(s)

	rec := do(t, e, http.MethodPost, "/api/v1/agents/orchestration/orchestrate", `{"user_id":"u1","workflow_type":"full_analysis"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeProblem(t, rec).Detail, "job search backend down")
	assert.Len(t, s.Logger.(*captureLogger).errors, 1)
}

func TestGetWorkflow_NotFound(t *testing.T) {
	s := newTestServer(nil)
	e := newTestEcho(s)

	rec := do(t, e, http.MethodGet, "/api/v1/agents/orchestration/workflow/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	decodeProblem(t, rec)
	// not-found is never logged as an error
	assert.Empty(t, s.Logger.(*captureLogger).errors)
}

func TestTriggerAgentAction(t *testing.T) {
	e := newTestEcho(newTestServer(nil))

	rec := do(t, e, http.MethodPost, "/api/v1/agents/orchestration/agent/job-matcher/action?task=go+jobs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var action models.Action
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &action))
	assert.Equal(t, "Searching for: go jobs", action.Action)
	assert.Equal(t, models.StatusSuccess, action.Status)

	rec = do(t, e, http.MethodPost, "/api/v1/agents/orchestration/agent/pilot/action?task=fly", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/agents/orchestration/agent/skill-gap/action", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSkillGapHandlers(t *testing.T) {
	e := newTestEcho(newTestServer(nil))

	resume := base64.StdEncoding.EncodeToString([]byte("React developer, 2 years of JavaScript and AWS"))
	rec := do(t, e, http.MethodPost, "/api/v1/agents/skill-gap/analyze", `{"resume_file":"`+resume+`","resume_mime":"text/plain"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.SkillGapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"JavaScript", "React", "AWS"}, resp.ResumeData.Skills)
	assert.NotEmpty(t, resp.LearningPath)
	assert.Equal(t, "Node.js", resp.LearningPath[0].Skill)

	rec = do(t, e, http.MethodPost, "/api/v1/agents/skill-gap/analyze", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/agents/skill-gap/generate-stages", `{"weaknesses":["Coding practice"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var stages []models.LearningStage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stages))
	require.Len(t, stages, 1)
	assert.Equal(t, 100, stages[0].Stage)
}

func TestAssessmentHandlers(t *testing.T) {
	e := newTestEcho(newTestServer(nil))

	rec := do(t, e, http.MethodPost, "/api/v1/agents/assessment/generate",
		`{"content_sources":[{"type":"text","content":"Go channels"}],"difficulty":"beginner"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.AssessmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 800, resp.TotalXP)

	rec = do(t, e, http.MethodPost, "/api/v1/agents/assessment/evaluate-code", `{"code":"x := 1","challenge":{}}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	decodeProblem(t, rec)
}

func TestAptitudeHandlers(t *testing.T) {
	e := newTestEcho(newTestServer(nil))

	rec := do(t, e, http.MethodPost, "/api/v1/agents/aptitude/generate-question", `{"target_role":"Full-Stack Developer","difficulty":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var q models.AptitudeQuestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Equal(t, models.QuestionConceptual, q.QuestionType)

	rec = do(t, e, http.MethodPost, "/api/v1/agents/aptitude/generate-question", `{"difficulty":11}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPost, "/api/v1/agents/aptitude/analyze",
		`{"questions":[{"question":{"question_type":"coding"},"evaluation":{"score":9}}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var analysis models.AptitudeAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, 90, analysis.OverallScore)
	assert.Equal(t, []string{"Good coding skills"}, analysis.Strengths)
}

func TestEmbeddingsHandlers(t *testing.T) {
	e := newTestEcho(newTestServer(nil))

	rec := do(t, e, http.MethodPost, "/api/v1/embeddings/ingest", `{"content":"Goroutines multiplex onto threads","collection_name":"go"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var ing IngestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ing))
	assert.Equal(t, IngestResponse{Success: true, DocumentID: "doc-0", Collection: "go"}, ing)

	rec = do(t, e, http.MethodGet, "/api/v1/embeddings/query?query=goroutines&collection_name=go&n_results=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var q QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	require.Len(t, q.Results, 1)
	assert.Equal(t, "doc-0", q.Results[0].ID)

	rec = do(t, e, http.MethodGet, "/api/v1/embeddings/query?query=x&n_results=lots", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodDelete, "/api/v1/embeddings/collection/go", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/embeddings/query?query=goroutines&collection_name=go", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	assert.Empty(t, q.Results)

	rec = do(t, e, http.MethodPost, "/api/v1/embeddings/ingest", `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRootHealthAndDocs(t *testing.T) {
	e := newTestEcho(newTestServer(nil))

	rec := do(t, e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var h HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, ServiceName, h.Service)

	rec = do(t, e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "orchestration")

	rec = do(t, e, http.MethodGet, "/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/agents/orchestration/orchestrate")

	rec = do(t, e, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `url: "/openapi.yaml"`)

	rec = do(t, e, http.MethodGet, "/no/such/route", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	decodeProblem(t, rec)
}
