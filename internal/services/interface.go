// Package services holds the LLM-backed agents and the clients they talk to.
package services

import (
	"context"
	"errors"
)

// ErrLLMUnavailable is returned when an operation needs a model and none is
// configured.
var ErrLLMUnavailable = errors.New("llm unavailable")

// GenerateOptions tunes a single completion.
type GenerateOptions struct {
	Temperature float64
}

// LLMClient is an interface for communicating with a text-generation model.
type LLMClient interface {
	// Generate returns the model's text completion for prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Logger is the logging surface the services use.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func orNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}
