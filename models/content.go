package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content lifecycle states. Generating and failed only occur for async
// generation; sync generation saves straight to draft.
const (
	ContentStatusGenerating = "generating"
	ContentStatusDraft      = "draft"
	ContentStatusPublished  = "published"
	ContentStatusFailed     = "failed"
)

// ContentCategories are the selectable categories offered by the UI.
var ContentCategories = []string{
	"General",
	"Product Launch",
	"Promotion",
	"Behind the Scenes",
	"Tips & Advice",
	"Company News",
}

// GeneratedContent records one AI-generated post and its publish outcome.
// Records are never deleted; a successful publish flips status to published
// and fills post_id/platform.
type GeneratedContent struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"user_id" json:"user_id"`
	GeneratedContent  string             `bson:"generated_content" json:"generated_content"`
	GeneratedImageURL string             `bson:"generated_image_url,omitempty" json:"generated_image_url,omitempty"`
	ImageDescription  string             `bson:"image_description,omitempty" json:"image_description,omitempty"`
	Category          string             `bson:"category,omitempty" json:"category,omitempty"`
	Prompt            string             `bson:"prompt" json:"prompt"`
	SourceURL         string             `bson:"source_url,omitempty" json:"source_url,omitempty"`
	Status            string             `bson:"status" json:"status"`
	PostID            string             `bson:"post_id,omitempty" json:"post_id,omitempty"`
	Platform          string             `bson:"platform,omitempty" json:"platform,omitempty"`
	GenerationError   string             `bson:"generation_error,omitempty" json:"generation_error,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

type GenerateContentRequest struct {
	Prompt    string `json:"prompt" binding:"required,min=3,max=1000"`
	Category  string `json:"category,omitempty"`
	SourceURL string `json:"source_url,omitempty" binding:"omitempty,url"`
}

type PublishContentRequest struct {
	Platform  string `json:"platform" binding:"required,oneof=facebook instagram linkedin"`
	ContentID string `json:"content_id,omitempty" binding:"omitempty,hexadecimal,len=24"`
	Content   string `json:"content,omitempty"`
	ImageURL  string `json:"image_url,omitempty" binding:"omitempty,url"`
	Category  string `json:"category,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
}
