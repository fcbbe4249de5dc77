package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	fetchTimeout = 15 * time.Second
	userAgent    = "SocialPublisherBot/1.0"
	maxTitleLen  = 200
	maxDescLen   = 500
)

// PageSummary is the link context extracted from a source URL. It is fed
// into the generation prompt so posts can reference the linked page.
type PageSummary struct {
	Title       string
	Description string
	ImageURL    string
}

// Lines renders the summary as prompt context lines.
func (s PageSummary) Lines() []string {
	var lines []string
	if s.Title != "" {
		lines = append(lines, "Title: "+s.Title)
	}
	if s.Description != "" {
		lines = append(lines, "Description: "+s.Description)
	}
	return lines
}

// Fetcher downloads a page and extracts its summary.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: fetchTimeout}}
}

// Summarize fetches the URL and pulls out title, description and a lead
// image, preferring Open Graph tags over document fallbacks.
func (f *Fetcher) Summarize(ctx context.Context, pageURL string) (PageSummary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return PageSummary{}, fmt.Errorf("invalid source url: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return PageSummary{}, fmt.Errorf("failed to fetch source url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PageSummary{}, fmt.Errorf("source url returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return PageSummary{}, fmt.Errorf("failed to parse source page: %w", err)
	}

	return summarizeDocument(doc), nil
}

func summarizeDocument(doc *goquery.Document) PageSummary {
	summary := PageSummary{
		Title:       metaContent(doc, `meta[property="og:title"]`),
		Description: metaContent(doc, `meta[property="og:description"]`),
		ImageURL:    metaContent(doc, `meta[property="og:image"]`),
	}

	if summary.Title == "" {
		summary.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if summary.Title == "" {
		summary.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	if summary.Description == "" {
		summary.Description = metaContent(doc, `meta[name="description"]`)
	}
	if summary.Description == "" {
		summary.Description = strings.TrimSpace(doc.Find("p").First().Text())
	}

	summary.Title = truncate(summary.Title, maxTitleLen)
	summary.Description = truncate(summary.Description, maxDescLen)

	return summary
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
