package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)

	l.Debug("hidden")
	assert.Empty(t, buf.String())

	l.Info("workflow completed", "workflow_id", "wf-1", "status", "completed_with_recovery")
	assert.Contains(t, buf.String(), "INFO: workflow completed workflow_id=wf-1 status=completed_with_recovery")

	buf.Reset()
	l.Error("request failed", "error", errors.New("job search backend down"))
	assert.Contains(t, buf.String(), `error="job search backend down"`)

	buf.Reset()
	l.Warn("odd", "dangling")
	assert.Contains(t, buf.String(), "!BADKEY=dangling")

	buf.Reset()
	l.SetLevel(LevelError)
	l.Warn("suppressed")
	assert.Empty(t, buf.String())
}
