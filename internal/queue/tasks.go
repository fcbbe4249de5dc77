package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-publisher-platform/internal/logger"
	"social-publisher-platform/internal/store"
	"social-publisher-platform/models"
	"social-publisher-platform/services"
)

const TaskGenerateContent = "content:generate"

type GeneratePayload struct {
	UserID    string `json:"user_id"`
	ContentID string `json:"content_id"`
	Prompt    string `json:"prompt"`
	Category  string `json:"category,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// NewGenerateContentTask enqueues async generation for a placeholder
// content record already inserted with status generating.
func NewGenerateContentTask(userID, contentID string, req models.GenerateContentRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(GeneratePayload{
		UserID:    userID,
		ContentID: contentID,
		Prompt:    req.Prompt,
		Category:  req.Category,
		SourceURL: req.SourceURL,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskGenerateContent,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
		asynq.Queue("default"),
	), nil
}

// TaskProcessor holds the worker-side handlers.
type TaskProcessor struct {
	generator *services.ContentGenerator
	content   *store.ContentStore
}

func NewTaskProcessor(generator *services.ContentGenerator, content *store.ContentStore) *TaskProcessor {
	return &TaskProcessor{
		generator: generator,
		content:   content,
	}
}

// HandleGenerateContent runs the generation pipeline and fills in the
// placeholder record. Transient generation errors are retried by asynq;
// the record is only marked failed once retries are exhausted.
func (p *TaskProcessor) HandleGenerateContent(ctx context.Context, t *asynq.Task) error {
	var payload GeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal failed: %w", asynq.SkipRetry)
	}

	contentID, err := primitive.ObjectIDFromHex(payload.ContentID)
	if err != nil {
		return fmt.Errorf("invalid content id %q: %w", payload.ContentID, asynq.SkipRetry)
	}

	logger.Info("generating content", "content_id", payload.ContentID, "user_id", payload.UserID)

	generated, err := p.generator.Generate(ctx, models.GenerateContentRequest{
		Prompt:    payload.Prompt,
		Category:  payload.Category,
		SourceURL: payload.SourceURL,
	})
	if err != nil {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		if retried >= maxRetry {
			if markErr := p.content.MarkGenerationFailed(ctx, contentID, err.Error()); markErr != nil {
				logger.Error("failed to mark generation failed", "content_id", payload.ContentID, "error", markErr)
			}
		}
		return err
	}

	if err := p.content.FinishGeneration(ctx, contentID, generated); err != nil {
		return err
	}

	logger.Info("content generated", "content_id", payload.ContentID)
	return nil
}
