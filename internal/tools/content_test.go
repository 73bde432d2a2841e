package tools

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-automation/backend/pkg/models"
)

func ptr(s string) *string { return &s }

type stubTranscripts map[string]string

func (s stubTranscripts) Transcript(_ context.Context, id string) (string, error) {
	if text, ok := s[id]; ok {
		return text, nil
	}
	return "", errors.New("captions disabled")
}

func TestVisibleText(t *testing.T) {
	page := `<html><head><style>body{color:red}</style><script>alert(1)</script></head>
<body><h1>Goroutines</h1>
<p>Lightweight   threads
managed by the runtime.</p></body></html>`

	text, err := VisibleText(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Goroutines\nLightweight threads\nmanaged by the runtime.", text)
}

func TestVisibleText_Truncates(t *testing.T) {
	text, err := VisibleText(strings.NewReader("<p>" + strings.Repeat("é", MaxScrapedChars+10) + "</p>"))
	require.NoError(t, err)
	assert.Equal(t, MaxScrapedChars, len([]rune(text)))
}

func TestContentProcessor_Process(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<p>Channels connect goroutines.</p>"))
	}))
	defer srv.Close()

	p := NewContentProcessor(srv.Client(), stubTranscripts{"abc123": "select waits on channels"})
	out := p.Process(context.Background(), []models.ContentSource{
		{Type: models.SourceText, Content: ptr("Go has interfaces.")},
		{Type: models.SourceURL, URL: ptr(srv.URL + "/article")},
		{Type: models.SourceYouTube, URL: ptr("https://www.youtube.com/watch?v=abc123&t=5")},
		{Type: models.SourceYouTube, URL: ptr("https://youtu.be/nocaptions")},
		{Type: models.SourceYouTube, URL: ptr("https://vimeo.com/1")},
		{Type: models.SourceURL, URL: ptr(srv.URL + "/missing")},
		{Type: models.SourcePDF, Data: ptr(base64.StdEncoding.EncodeToString([]byte("not a pdf")))},
		// unusable sources are skipped
		{Type: models.SourceText},
		{Type: "podcast", URL: ptr("https://example.com")},
	})

	parts := strings.Split(out, "\n\n")
	require.Len(t, parts, 7)
	assert.Equal(t, "Go has interfaces.", parts[0])
	assert.Equal(t, "Channels connect goroutines.", parts[1])
	assert.Equal(t, "select waits on channels", parts[2])
	assert.Equal(t, "[YouTube transcript unavailable: captions disabled]", parts[3])
	assert.Equal(t, "[Invalid YouTube URL]", parts[4])
	assert.Contains(t, parts[5], "[URL content unavailable: unexpected status 404]")
	assert.Contains(t, parts[6], "[PDF content - extraction failed")
}

func TestScrape_BoundsBody(t *testing.T) {
	chunk := []byte("<p>" + strings.Repeat("goroutine ", 1000) + "</p>\n")
	var written int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// far more than any page should be; stops when the client hangs up
		for written < 64*MaxScrapeBytes {
			n, err := w.Write(chunk)
			written += int64(n)
			if err != nil || r.Context().Err() != nil {
				return
			}
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	text, err := NewContentProcessor(srv.Client(), stubTranscripts{}).Scrape(ctx, srv.URL)
	srv.Close()
	require.NoError(t, err)
	assert.Equal(t, MaxScrapedChars, len([]rune(text)))
	assert.Less(t, written, int64(64*MaxScrapeBytes), "client stopped reading early")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "go", Truncate("go", 4))
}

func TestYouTubeID(t *testing.T) {
	assert.Equal(t, "xyz", youTubeID("https://youtu.be/xyz?si=1"))
	assert.Equal(t, "abc", youTubeID("https://youtube.com/watch?v=abc"))
	assert.Equal(t, "", youTubeID("https://youtube.com/channel/abc"))
}

func TestCuratedResources(t *testing.T) {
	r := NewCuratedResources()

	res := r.Find(context.Background(), "typescript")
	require.Len(t, res, 3)
	assert.Equal(t, models.ResourceDocumentation, res[0].Type)

	// callers may mutate what they get back
	res[0].Title = "changed"
	assert.Equal(t, "TypeScript Official Docs", r.Find(context.Background(), "TypeScript")[0].Title)

	res = r.Find(context.Background(), "Elixir OTP")
	require.Len(t, res, 2)
	assert.Equal(t, "Elixir OTP Tutorial", res[0].Title)
	assert.Equal(t, "https://www.google.com/search?q=Elixir+OTP+tutorial", res[0].URL)
	assert.Equal(t, models.ResourceTutorial, res[0].Type)
	assert.Equal(t, models.ResourceDocumentation, res[1].Type)
}

func TestClassifyURL(t *testing.T) {
	assert.Equal(t, models.ResourceVideo, ClassifyURL("https://youtu.be/x"))
	assert.Equal(t, models.ResourceCourse, ClassifyURL("https://www.coursera.org/learn/go"))
	assert.Equal(t, models.ResourceTutorial, ClassifyURL("https://example.com/Tutorial/go"))
	assert.Equal(t, models.ResourceDocumentation, ClassifyURL("https://docs.python.org"))
	assert.Equal(t, models.ResourceArticle, ClassifyURL("https://blog.example.com/post"))
}
