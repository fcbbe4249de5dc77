package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizePrefersOpenGraph(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<title>Doc Title</title>
			<meta property="og:title" content="OG Title">
			<meta property="og:description" content="OG description of the page.">
			<meta property="og:image" content="https://cdn.example/lead.jpg">
			<meta name="description" content="Meta description.">
		</head><body><h1>Heading</h1><p>First paragraph.</p></body></html>`))
	}))
	defer server.Close()

	summary, err := NewFetcher().Summarize(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "OG Title", summary.Title)
	assert.Equal(t, "OG description of the page.", summary.Description)
	assert.Equal(t, "https://cdn.example/lead.jpg", summary.ImageURL)
}

func TestSummarizeFallsBackToDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Plain Title</title></head>
			<body><p>  Intro paragraph text.  </p></body></html>`))
	}))
	defer server.Close()

	summary, err := NewFetcher().Summarize(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Plain Title", summary.Title)
	assert.Equal(t, "Intro paragraph text.", summary.Description)
	assert.Empty(t, summary.ImageURL)
}

func TestSummarizeNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewFetcher().Summarize(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestSummaryLines(t *testing.T) {
	lines := PageSummary{Title: "T", Description: "D"}.Lines()
	assert.Equal(t, []string{"Title: T", "Description: D"}, lines)

	assert.Empty(t, PageSummary{}.Lines())
}
