package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter  metric.Int64Counter
	RequestDuration metric.Float64Histogram
	PublishCounter  metric.Int64Counter
	GenerationTime  metric.Float64Histogram
	TokensUsed      metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("social-publisher-platform")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	publishCounter, err := meter.Int64Counter(
		"publish.attempts.total",
		metric.WithDescription("Publish attempts by platform and outcome"),
	)
	if err != nil {
		return nil, err
	}

	generationTime, err := meter.Float64Histogram(
		"content.generation.duration",
		metric.WithDescription("Content generation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	tokensUsed, err := meter.Int64Counter(
		"gemini.tokens.used",
		metric.WithDescription("Total Gemini tokens used"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:  requestCounter,
		RequestDuration: requestDuration,
		PublishCounter:  publishCounter,
		GenerationTime:  generationTime,
		TokensUsed:      tokensUsed,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordPublish records one publish attempt
func (m *Metrics) RecordPublish(platform, status string) {
	attrs := []attribute.KeyValue{
		attribute.String("publish.platform", platform),
		attribute.String("publish.status", status),
	}

	m.PublishCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordGeneration records content generation metrics
func (m *Metrics) RecordGeneration(duration float64, status string) {
	attrs := []attribute.KeyValue{
		attribute.String("generation.status", status),
	}

	m.GenerationTime.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordTokensUsed records Gemini token usage
func (m *Metrics) RecordTokensUsed(tokens int64, model string) {
	attrs := []attribute.KeyValue{
		attribute.String("gemini.model", model),
	}

	m.TokensUsed.Add(context.Background(), tokens, metric.WithAttributes(attrs...))
}
