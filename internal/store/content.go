package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-publisher-platform/models"
)

// ContentStore persists generated posts and their publish state.
type ContentStore struct {
	col *mongo.Collection
}

func NewContentStore(db *mongo.Database) *ContentStore {
	return &ContentStore{col: db.Collection("generated_content")}
}

// Save inserts a new content record and returns it with the generated ID.
func (s *ContentStore) Save(ctx context.Context, content models.GeneratedContent) (models.GeneratedContent, error) {
	now := time.Now()
	content.ID = primitive.NewObjectID()
	content.CreatedAt = now
	content.UpdatedAt = now
	if content.Status == "" {
		content.Status = models.ContentStatusDraft
	}

	if _, err := s.col.InsertOne(ctx, content); err != nil {
		return models.GeneratedContent{}, fmt.Errorf("failed to save content: %w", err)
	}

	return content, nil
}

// Get returns a single content record owned by the user.
func (s *ContentStore) Get(ctx context.Context, userID, id primitive.ObjectID) (models.GeneratedContent, error) {
	var content models.GeneratedContent
	err := s.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&content)
	if err != nil {
		return models.GeneratedContent{}, fmt.Errorf("failed to load content: %w", err)
	}
	return content, nil
}

// MarkPublished flips an existing record to published and records the
// vendor post ID and target platform.
func (s *ContentStore) MarkPublished(ctx context.Context, userID, id primitive.ObjectID, platform, postID string) error {
	update := bson.M{"$set": bson.M{
		"status":     models.ContentStatusPublished,
		"post_id":    postID,
		"platform":   platform,
		"updated_at": time.Now(),
	}}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("content %s not found", id.Hex())
	}

	return nil
}

// FinishGeneration fills in the generated fields on an async placeholder
// record and moves it to draft.
func (s *ContentStore) FinishGeneration(ctx context.Context, id primitive.ObjectID, content models.GeneratedContent) error {
	update := bson.M{"$set": bson.M{
		"generated_content":   content.GeneratedContent,
		"generated_image_url": content.GeneratedImageURL,
		"image_description":   content.ImageDescription,
		"status":              models.ContentStatusDraft,
		"updated_at":          time.Now(),
	}}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("content %s not found", id.Hex())
	}

	return nil
}

// MarkGenerationFailed records a terminal async generation failure.
func (s *ContentStore) MarkGenerationFailed(ctx context.Context, id primitive.ObjectID, reason string) error {
	update := bson.M{"$set": bson.M{
		"status":           models.ContentStatusFailed,
		"generation_error": reason,
		"updated_at":       time.Now(),
	}}

	if _, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}

	return nil
}

// ListByUser returns the user's content newest first, optionally filtered
// by status ("" means all). limit <= 0 means no limit.
func (s *ContentStore) ListByUser(ctx context.Context, userID primitive.ObjectID, status string, limit int64) ([]models.GeneratedContent, error) {
	filter := bson.M{"user_id": userID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.GeneratedContent
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	return items, nil
}
