package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", `  {"a":1} `, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around fence", "Here you go:\n```json\n{\"a\":1}\n```\nEnjoy", `{"a":1}`},
		{"unterminated", "```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Passed bool `json:"passed"`
	}

	got, err := DecodeJSON[payload]("```json\n{\"passed\": true}\n```")
	require.NoError(t, err)
	assert.True(t, got.Passed)

	got, err = DecodeJSON[payload](`Sure! {"passed": true} hope that helps`)
	require.NoError(t, err)
	assert.True(t, got.Passed)

	_, err = DecodeJSON[payload]("I cannot answer that")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestExtractScore(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"Score: 8\nFeedback: solid", 8},
		{"**Score**: 7/10", 7},
		{"score=9", 9},
		{"I'd give this 6/10 overall.", 6},
		{"Score: 14", 10},
		{"Score: 0", 1},
	}
	for _, tt := range tests {
		got, err := ExtractScore(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ExtractScore("no number here")
	assert.ErrorIs(t, err, ErrDecode)
}
