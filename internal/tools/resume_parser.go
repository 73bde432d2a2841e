// Package tools holds the non-LLM helpers the agents lean on: resume text
// extraction, learning resource lookup and content source processing.
package tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"ai-automation/backend/pkg/models"
)

// Supported resume MIME types.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// ErrNoResume is returned when a request carries neither an inline file nor
// an object key.
var ErrNoResume = errors.New("no resume supplied")

// ErrUnsupportedType is returned for resume formats we cannot read.
var ErrUnsupportedType = errors.New("unsupported resume type")

// skillVocabulary is matched case-insensitively against resume text. Order
// is the order skills are reported in.
var skillVocabulary = []string{
	"JavaScript", "TypeScript", "Python", "Go", "Java", "C#", "C++", "Rust", "Ruby", "PHP", "Kotlin", "Swift",
	"React", "Angular", "Vue", "Next.js", "Node.js", "Express", "Django", "Flask", "FastAPI", "Spring",
	"HTML", "CSS", "Tailwind", "GraphQL", "REST",
	"SQL", "PostgreSQL", "MySQL", "MongoDB", "Redis",
	"AWS", "GCP", "Azure", "Docker", "Kubernetes", "Terraform", "CI/CD",
	"Git", "Linux", "Machine Learning", "System Design",
}

var (
	xmlTag        = regexp.MustCompile(`<[^>]+>`)
	blankRun      = regexp.MustCompile(`[ \t]+`)
	educationWord = regexp.MustCompile(`(?i)\b(bachelor|master|b\.?sc|m\.?sc|bs|ms|ba|phd|degree|university|college)\b`)
	yearsWord     = regexp.MustCompile(`(?i)\b\d+\+?\s*(years?|yrs?)\b`)
)

// DefaultResume is used when a resume cannot be read.
func DefaultResume() models.ResumeData {
	return models.ResumeData{
		Skills:     []string{"General Programming"},
		Experience: []string{"Entry Level"},
		Education:  []string{"Unknown"},
	}
}

// ResumeParser turns an uploaded resume into ResumeData.
type ResumeParser struct {
	fetcher ObjectFetcher
}

// NewResumeParser creates a parser. fetcher may be nil, in which case
// object keys cannot be resolved.
func NewResumeParser(fetcher ObjectFetcher) *ResumeParser {
	return &ResumeParser{fetcher: fetcher}
}

// Parse reads the resume from the base64 payload, or from object storage
// when only a key is given. mime may be empty; the format is then sniffed.
func (p *ResumeParser) Parse(ctx context.Context, encoded, objectKey, mime string) (models.ResumeData, error) {
	var data []byte
	switch {
	case strings.TrimSpace(encoded) != "":
		raw, err := DecodeBase64(encoded)
		if err != nil {
			return models.ResumeData{}, err
		}
		data = raw
	case objectKey != "":
		if p.fetcher == nil {
			return models.ResumeData{}, fmt.Errorf("resume %s: object storage not configured", objectKey)
		}
		obj, err := p.fetcher.Fetch(ctx, objectKey)
		if err != nil {
			return models.ResumeData{}, err
		}
		data = obj.Data
		if mime == "" {
			mime = obj.ContentType
		}
	default:
		return models.ResumeData{}, ErrNoResume
	}

	text, err := ExtractText(mime, data)
	if err != nil {
		return models.ResumeData{}, err
	}
	return StructureResume(text), nil
}

// DecodeBase64 decodes standard base64, tolerating a data URL prefix and
// embedded whitespace.
func DecodeBase64(s string) ([]byte, error) {
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	s = strings.Join(strings.Fields(s), "")
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return data, nil
}

// ExtractText returns the plain text of a PDF, DOCX or text document.
func ExtractText(mime string, data []byte) (string, error) {
	if mime == "" || mime == "application/octet-stream" {
		mime = sniffMime(data)
	}
	switch mime {
	case MimeText:
		return string(data), nil
	case MimePDF:
		return extractPDFText(data)
	case MimeDOCX:
		return extractDocxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}
}

func sniffMime(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF")):
		return MimePDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return MimeDOCX
	default:
		return MimeText
	}
}

func extractPDFText(data []byte) (text string, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, perr := page.GetPlainText(nil)
		if perr != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	return xmlTag.ReplaceAllString(content, ""), nil
}

// StructureResume pulls skills, experience and education lines out of raw
// resume text. Empty sections get the DefaultResume values.
func StructureResume(text string) models.ResumeData {
	def := DefaultResume()
	out := models.ResumeData{
		Skills:     ExtractSkills(text),
		Experience: matchingLines(text, yearsWord, 5),
		Education:  matchingLines(text, educationWord, 3),
	}
	if len(out.Skills) == 0 {
		out.Skills = def.Skills
	}
	if len(out.Experience) == 0 {
		out.Experience = def.Experience
	}
	if len(out.Education) == 0 {
		out.Education = def.Education
	}
	return out
}

// ExtractSkills returns the known skills mentioned in text.
func ExtractSkills(text string) []string {
	lower := " " + strings.ToLower(text) + " "
	var skills []string
	for _, skill := range skillVocabulary {
		if containsWord(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}
	return skills
}

// containsWord reports whether word appears in text bounded by
// non-alphanumeric characters, so "go" does not match "google".
func containsWord(text, word string) bool {
	for start := 0; ; {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		if !isWordByte(text[i-1]) && (end >= len(text) || !isWordByte(text[end])) {
			return true
		}
		start = i + 1
	}
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func matchingLines(text string, re *regexp.Regexp, limit int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(blankRun.ReplaceAllString(line, " "))
		if line == "" || !re.MatchString(line) {
			continue
		}
		lines = append(lines, line)
		if len(lines) == limit {
			break
		}
	}
	return lines
}

// readAll is io.ReadAll with a wrapped error.
func readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return data, nil
}
