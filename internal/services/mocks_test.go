package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ai-automation/backend/pkg/models"
)

// MockLLMClient satisfies LLMClient
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

// MockResumeReader satisfies ResumeReader
type MockResumeReader struct {
	mock.Mock
}

func (m *MockResumeReader) Parse(ctx context.Context, encoded, objectKey, mime string) (models.ResumeData, error) {
	args := m.Called(ctx, encoded, objectKey, mime)
	return args.Get(0).(models.ResumeData), args.Error(1)
}

type staticContent string

func (s staticContent) Process(context.Context, []models.ContentSource) string { return string(s) }
