package tools

import (
	"context"
	"net/url"
	"strings"

	"ai-automation/backend/pkg/models"
)

// ResourceFinder looks up learning material for a skill.
type ResourceFinder interface {
	Find(ctx context.Context, skill string) []models.Resource
}

// CuratedResources serves a fixed catalogue, falling back to generated
// search links for skills it does not know.
type CuratedResources struct {
	catalogue map[string][]models.Resource
}

// NewCuratedResources returns the built-in catalogue.
func NewCuratedResources() *CuratedResources {
	c := &CuratedResources{catalogue: map[string][]models.Resource{}}
	for skill, res := range defaultCatalogue {
		c.catalogue[strings.ToLower(skill)] = res
	}
	return c
}

// Find returns a copy of the curated entries for skill.
func (c *CuratedResources) Find(_ context.Context, skill string) []models.Resource {
	skill = strings.TrimSpace(skill)
	if res, ok := c.catalogue[strings.ToLower(skill)]; ok {
		return append([]models.Resource(nil), res...)
	}
	q := url.QueryEscape(skill)
	return []models.Resource{
		{Title: skill + " Tutorial", URL: "https://www.google.com/search?q=" + q + "+tutorial", Type: models.ResourceTutorial},
		{Title: skill + " Documentation", URL: "https://www.google.com/search?q=" + q + "+documentation", Type: models.ResourceDocumentation},
	}
}

// ClassifyURL guesses the resource type from where a link points.
func ClassifyURL(link string) models.ResourceType {
	lower := strings.ToLower(link)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return models.ResourceVideo
	case strings.Contains(lower, "udemy.com"), strings.Contains(lower, "coursera.org"):
		return models.ResourceCourse
	case strings.Contains(lower, "tutorial"):
		return models.ResourceTutorial
	case strings.Contains(lower, "docs."), strings.Contains(lower, "documentation"):
		return models.ResourceDocumentation
	default:
		return models.ResourceArticle
	}
}

var defaultCatalogue = map[string][]models.Resource{
	"TypeScript": {
		{Title: "TypeScript Official Docs", URL: "https://www.typescriptlang.org/docs/", Type: models.ResourceDocumentation},
		{Title: "TypeScript Deep Dive", URL: "https://basarat.gitbook.io/typescript/", Type: models.ResourceTutorial},
		{Title: "TypeScript Full Course", URL: "https://www.youtube.com/watch?v=BwuLxPH8IDs", Type: models.ResourceVideo},
	},
	"React": {
		{Title: "React Official Docs", URL: "https://react.dev/learn", Type: models.ResourceDocumentation},
		{Title: "React Crash Course", URL: "https://www.youtube.com/watch?v=w7ejDZ8SWv8", Type: models.ResourceVideo},
	},
	"Node.js": {
		{Title: "Node.js Official Docs", URL: "https://nodejs.org/en/docs/", Type: models.ResourceDocumentation},
		{Title: "Node.js Tutorial", URL: "https://www.tutorialspoint.com/nodejs/", Type: models.ResourceTutorial},
	},
	"AWS": {
		{Title: "AWS Free Training", URL: "https://aws.amazon.com/training/", Type: models.ResourceCourse},
		{Title: "AWS Fundamentals", URL: "https://www.coursera.org/specializations/aws-fundamentals", Type: models.ResourceCourse},
	},
	"System Design": {
		{Title: "System Design Primer", URL: "https://github.com/donnemartin/system-design-primer", Type: models.ResourceTutorial},
		{Title: "Grokking System Design", URL: "https://www.designgurus.io/course/grokking-the-system-design-interview", Type: models.ResourceCourse},
	},
}
