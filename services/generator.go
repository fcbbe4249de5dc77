package services

import (
	"context"
	"fmt"
	"net/url"

	"social-publisher-platform/internal/ai"
	"social-publisher-platform/internal/logger"
	"social-publisher-platform/internal/scrape"
	"social-publisher-platform/models"
)

// ContentGenerator runs the full generation pipeline: optional link-context
// scraping, post text generation, and an image for the post.
type ContentGenerator struct {
	gemini      *ai.GeminiClient
	fetcher     *scrape.Fetcher
	imageAPIURL string
}

func NewContentGenerator(gemini *ai.GeminiClient, fetcher *scrape.Fetcher, imageAPIURL string) *ContentGenerator {
	return &ContentGenerator{
		gemini:      gemini,
		fetcher:     fetcher,
		imageAPIURL: imageAPIURL,
	}
}

// Generate produces an unsaved draft for the request. Scrape and image
// failures degrade the result instead of failing it; only text generation
// errors are returned.
func (g *ContentGenerator) Generate(ctx context.Context, req models.GenerateContentRequest) (models.GeneratedContent, error) {
	var pageContext []string
	if req.SourceURL != "" && g.fetcher != nil {
		summary, err := g.fetcher.Summarize(ctx, req.SourceURL)
		if err != nil {
			logger.Warn("source url scrape failed, generating without link context", "url", req.SourceURL, "error", err)
		} else {
			pageContext = summary.Lines()
		}
	}

	post, err := g.gemini.GeneratePost(ctx, req.Prompt, req.Category, pageContext)
	if err != nil {
		return models.GeneratedContent{}, fmt.Errorf("content generation failed: %w", err)
	}

	content := models.GeneratedContent{
		GeneratedContent: post,
		Category:         req.Category,
		Prompt:           req.Prompt,
		SourceURL:        req.SourceURL,
		Status:           models.ContentStatusDraft,
	}

	imagePrompt, err := g.gemini.GenerateImagePrompt(ctx, post)
	if err != nil {
		logger.Warn("image prompt generation failed, returning text only", "error", err)
		return content, nil
	}

	content.ImageDescription = imagePrompt
	content.GeneratedImageURL = g.imageURL(imagePrompt)

	return content, nil
}

// imageURL builds the image service URL for a visual description. The
// service renders the image on first fetch.
func (g *ContentGenerator) imageURL(description string) string {
	return g.imageAPIURL + url.PathEscape(description) + "?width=1024&height=1024&nologo=true"
}
