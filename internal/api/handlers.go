// Package api contains the HTTP handlers for the AI agent service
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"ai-automation/backend/internal/orchestration"
	"ai-automation/backend/internal/repository"
	"ai-automation/backend/internal/services"
	"ai-automation/backend/internal/tools"
)

// MIMEProblemJSON is the content type of error responses.
const MIMEProblemJSON = "application/problem+json"

// Service identity reported by the health endpoints.
const (
	ServiceName    = "ai-service"
	ServiceVersion = "1.0.0"
)

// Logger is the logging surface the handlers use.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
}

// HandleHealth returns basic health status (always returns 200 OK)
// (GET /health)
func (s *Server) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   ServiceName,
		Version:   ServiceVersion,
	})
}

// HandleRoot describes the service and its agents
// (GET /)
func (s *Server) HandleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service": ServiceName,
		"version": ServiceVersion,
		"agents": []string{
			"skill-gap",
			"assessment",
			"aptitude",
			"orchestration",
		},
		"docs": "/docs",
	})
}

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance,omitempty"`
}

// httpError maps a domain error onto an HTTP status. The original error is
// kept as the internal cause.
func httpError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, orchestration.ErrUnknownAgent):
		status = http.StatusNotFound
	case errors.Is(err, orchestration.ErrInvalidRequest),
		errors.Is(err, orchestration.ErrInvalidParams),
		errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, tools.ErrNoResume):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrLLMUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, services.ErrDecode):
		status = http.StatusBadGateway
	}
	return echo.NewHTTPError(status, err.Error()).SetInternal(err)
}

// ProblemHandler renders every error as application/problem+json. Server
// errors are logged; client errors are not.
func ProblemHandler(logger Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he := httpError(err)
		detail := fmt.Sprint(he.Message)
		if he.Code >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", he.Code,
				"error", err,
			)
		}

		problem := ProblemDetails{
			Type:     "about:blank",
			Title:    http.StatusText(he.Code),
			Status:   he.Code,
			Detail:   detail,
			Instance: c.Request().URL.Path,
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			body, _ := json.Marshal(problem)
			err = c.Blob(he.Code, MIMEProblemJSON, body)
		}
		if err != nil {
			logger.Warn("failed to write error response", "error", err)
		}
	}
}
