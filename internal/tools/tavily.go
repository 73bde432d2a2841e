package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai-automation/backend/pkg/models"
)

// DefaultTavilyURL is the Tavily search endpoint.
const DefaultTavilyURL = "https://api.tavily.com/search"

const tavilyMaxResults = 5

// Warner receives search failures before the fallback is used.
type Warner interface {
	Warn(msg string, args ...any)
}

// TavilyResources searches the web for learning material and falls back to
// another finder when search is not configured, fails or finds nothing.
type TavilyResources struct {
	apiKey   string
	endpoint string
	client   *http.Client
	fallback ResourceFinder
	logger   Warner
}

// TavilyOptions configures TavilyResources. Empty fields get defaults.
type TavilyOptions struct {
	APIKey   string
	Endpoint string
	Client   *http.Client
	Fallback ResourceFinder
	Logger   Warner
}

// NewTavilyResources creates a web-backed finder. Without a Fallback the
// curated catalogue is used.
func NewTavilyResources(opts TavilyOptions) *TavilyResources {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultTavilyURL
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Fallback == nil {
		opts.Fallback = NewCuratedResources()
	}
	return &TavilyResources{
		apiKey:   opts.APIKey,
		endpoint: opts.Endpoint,
		client:   opts.Client,
		fallback: opts.Fallback,
		logger:   opts.Logger,
	}
}

type tavilyRequest struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"results"`
}

// Find returns up to five search results typed by ClassifyURL.
func (t *TavilyResources) Find(ctx context.Context, skill string) []models.Resource {
	if t.apiKey == "" {
		return t.fallback.Find(ctx, skill)
	}
	res, err := t.search(ctx, skill)
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("Resource search failed, using curated list", "skill", skill, "error", err)
		}
		return t.fallback.Find(ctx, skill)
	}
	if len(res) == 0 {
		return t.fallback.Find(ctx, skill)
	}
	return res
}

func (t *TavilyResources) search(ctx context.Context, skill string) ([]models.Resource, error) {
	body, err := json.Marshal(tavilyRequest{
		Query:       fmt.Sprintf("best %s tutorial course for developers", skill),
		SearchDepth: "advanced",
		MaxResults:  tavilyMaxResults,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	resources := make([]models.Resource, 0, len(out.Results))
	for _, r := range out.Results {
		if r.URL == "" {
			continue
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = skill + " Resource"
		}
		resources = append(resources, models.Resource{Title: title, URL: r.URL, Type: ClassifyURL(r.URL)})
		if len(resources) == tavilyMaxResults {
			break
		}
	}
	return resources, nil
}
