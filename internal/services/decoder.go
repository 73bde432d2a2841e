package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrDecode is returned when model output cannot be turned into the
// expected shape.
var ErrDecode = errors.New("cannot decode llm output")

var (
	fencedBlock = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\n?(.*?)```")
	// "score: 8", "Score - 8/10", "**Score**: 8"
	labelledScore = regexp.MustCompile(`(?i)score[*\s]*[:=\-]?[*\s]*(\d{1,2})(?:\s*/\s*10)?`)
	outOfTen      = regexp.MustCompile(`\b(\d{1,2})\s*/\s*10\b`)
)

// StripFences returns the content of the first fenced code block in s, or s
// trimmed when it carries no fence.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fencedBlock.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	// unterminated fence
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
	}
	return strings.TrimSpace(s)
}

// DecodeJSON parses model output as a T. Fenced blocks are unwrapped and,
// failing that, the outermost {...} span is tried.
func DecodeJSON[T any](raw string) (T, error) {
	var out T
	body := StripFences(raw)
	err := json.Unmarshal([]byte(body), &out)
	if err == nil {
		return out, nil
	}
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		var retry T
		if json.Unmarshal([]byte(body[start:end+1]), &retry) == nil {
			return retry, nil
		}
	}
	return out, fmt.Errorf("%w: %v", ErrDecode, err)
}

// ExtractScore finds a 1..10 score in free-form evaluation text. Values
// outside the range are clamped.
func ExtractScore(text string) (int, error) {
	m := labelledScore.FindStringSubmatch(text)
	if m == nil {
		m = outOfTen.FindStringSubmatch(text)
	}
	if m == nil {
		return 0, fmt.Errorf("%w: no score in response", ErrDecode)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return clampScore(n), nil
}

func clampScore(n int) int {
	switch {
	case n < 1:
		return 1
	case n > 10:
		return 10
	default:
		return n
	}
}
