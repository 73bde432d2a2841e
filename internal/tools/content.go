package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"ai-automation/backend/pkg/models"
)

const (
	// MaxScrapedChars bounds the text kept from a scraped page.
	MaxScrapedChars = 5000
	// MaxScrapeBytes bounds how much of a page body is read and parsed.
	MaxScrapeBytes = 2 << 20
)

// ContentProcessor flattens assessment content sources into one text blob.
type ContentProcessor struct {
	client      *http.Client
	transcripts TranscriptFetcher
}

// NewContentProcessor creates a processor. A nil client gets a 10s timeout
// default and nil transcripts fetch from YouTube with that client.
func NewContentProcessor(client *http.Client, transcripts TranscriptFetcher) *ContentProcessor {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if transcripts == nil {
		transcripts = NewYouTubeTranscripts(client)
	}
	return &ContentProcessor{client: client, transcripts: transcripts}
}

// Process extracts text from every usable source and joins the pieces with
// a blank line. Sources that fail contribute a bracketed note instead.
func (p *ContentProcessor) Process(ctx context.Context, sources []models.ContentSource) string {
	var parts []string
	for _, src := range sources {
		switch {
		case src.Type == models.SourcePDF && src.Data != nil:
			parts = append(parts, p.pdfText(*src.Data))
		case src.Type == models.SourceYouTube && src.URL != nil:
			parts = append(parts, p.youTubeText(ctx, *src.URL))
		case src.Type == models.SourceText && src.Content != nil:
			parts = append(parts, *src.Content)
		case src.Type == models.SourceURL && src.URL != nil:
			text, err := p.Scrape(ctx, *src.URL)
			if err != nil {
				text = fmt.Sprintf("[URL content unavailable: %v]", err)
			}
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (p *ContentProcessor) pdfText(encoded string) string {
	data, err := DecodeBase64(encoded)
	if err == nil {
		var text string
		if text, err = extractPDFText(data); err == nil {
			return text
		}
	}
	return fmt.Sprintf("[PDF content - extraction failed: %v]", err)
}

// Scrape fetches a page and returns its visible text.
func (p *ContentProcessor) Scrape(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return VisibleText(io.LimitReader(resp.Body, MaxScrapeBytes))
}

// VisibleText parses HTML and returns its text nodes, one trimmed chunk per
// line, skipping script and style content.
func VisibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			for _, line := range strings.Split(n.Data, "\n") {
				if line = strings.Join(strings.Fields(line), " "); line != "" {
					lines = append(lines, line)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return Truncate(strings.Join(lines, "\n"), MaxScrapedChars), nil
}

// youTubeText returns the transcript of the linked video, or a bracketed
// note when the link or the fetch is unusable.
func (p *ContentProcessor) youTubeText(ctx context.Context, link string) string {
	id := youTubeID(link)
	if id == "" {
		return "[Invalid YouTube URL]"
	}
	text, err := p.transcripts.Transcript(ctx, id)
	if err != nil {
		return fmt.Sprintf("[YouTube transcript unavailable: %v]", err)
	}
	return text
}

func youTubeID(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	switch strings.TrimPrefix(u.Host, "www.") {
	case "youtube.com", "m.youtube.com":
		if u.Path == "/watch" {
			return u.Query().Get("v")
		}
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	}
	return ""
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
