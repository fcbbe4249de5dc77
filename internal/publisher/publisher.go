package publisher

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-publisher-platform/internal/logger"
	"social-publisher-platform/internal/platform"
	"social-publisher-platform/models"
)

// Outcome statuses reported back to the caller.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// CredentialSource resolves the user's stored platform credentials.
type CredentialSource interface {
	List(ctx context.Context, userID primitive.ObjectID) ([]models.Credential, error)
}

// ContentRecorder persists the publish outcome. Recording failures do not
// fail the publish: the post is already live at that point.
type ContentRecorder interface {
	Save(ctx context.Context, content models.GeneratedContent) (models.GeneratedContent, error)
	MarkPublished(ctx context.Context, userID, id primitive.ObjectID, platformName, postID string) error
}

// AdCreator promotes a published Facebook post as an ad. Optional; nil
// disables ad creation.
type AdCreator interface {
	CreateAd(ctx context.Context, postID, imageURL, content string, creds models.Credential) error
}

// Input is one publish request, already authenticated and validated at the
// transport layer.
type Input struct {
	Platform  string
	Content   string
	ImageURL  string
	Category  string
	Prompt    string
	ContentID string
}

// Outcome is the uniform result of a publish attempt. Status is StatusError
// when the platform rejected the post; Message carries the platform error
// verbatim in that case.
type Outcome struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	PostID    string `json:"post_id,omitempty"`
	ContentID string `json:"content_id,omitempty"`
}

// Publisher runs the publish flow: resolve credentials, dispatch to the
// platform adapter, optionally promote Facebook posts as ads, and record
// the result.
type Publisher struct {
	registry    *platform.Registry
	credentials CredentialSource
	content     ContentRecorder
	ads         AdCreator
}

func New(registry *platform.Registry, credentials CredentialSource, content ContentRecorder, ads AdCreator) *Publisher {
	return &Publisher{
		registry:    registry,
		credentials: credentials,
		content:     content,
		ads:         ads,
	}
}

// Publish posts the content to the requested platform on behalf of the user.
// All failure modes come back as an Outcome with StatusError; the error
// return is reserved for credential lookup failures.
func (p *Publisher) Publish(ctx context.Context, userID primitive.ObjectID, input Input) (Outcome, error) {
	display := platform.DisplayName(input.Platform)

	if strings.TrimSpace(input.Content) == "" {
		return Outcome{
			Status:  StatusError,
			Message: "Nothing to publish. Generate or enter content first.",
		}, nil
	}

	creds, err := p.credentials.List(ctx, userID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load credentials: %w", err)
	}

	cred, ok := findCredential(creds, input.Platform)
	if !ok {
		return Outcome{
			Status:  StatusError,
			Message: fmt.Sprintf("Please add your %s credentials in the Credential Vault to publish content.", display),
		}, nil
	}

	adapter, ok := p.registry.Adapter(input.Platform)
	if !ok {
		return Outcome{
			Status:  StatusError,
			Message: fmt.Sprintf("Publishing to %s is not supported.", display),
		}, nil
	}

	result := adapter.Publish(ctx, platform.PublishRequest{
		Content:  input.Content,
		ImageURL: input.ImageURL,
	}, cred)
	if !result.Success {
		logger.Warn("publish rejected", "platform", input.Platform, "user_id", userID.Hex(), "error", result.Error)
		return Outcome{Status: StatusError, Message: result.Error}, nil
	}

	message := fmt.Sprintf("Published to %s successfully!", display)

	if input.Platform == models.PlatformFacebook && p.ads != nil {
		if adsCred, ok := findCredential(creds, models.PlatformFacebookAds); ok {
			if err := p.ads.CreateAd(ctx, result.PostID, input.ImageURL, input.Content, adsCred); err != nil {
				logger.Warn("ad creation failed after publish", "user_id", userID.Hex(), "post_id", result.PostID, "error", err)
				message = "Published to Facebook successfully, but ad creation failed."
			} else {
				message = "Published to Facebook and ad created successfully!"
			}
		}
	}

	contentID := p.record(ctx, userID, input, result.PostID)

	logger.Info("content published", "platform", input.Platform, "user_id", userID.Hex(), "post_id", result.PostID)

	return Outcome{
		Status:    StatusSuccess,
		Message:   message,
		PostID:    result.PostID,
		ContentID: contentID,
	}, nil
}

// record persists the publish outcome, updating the existing draft when a
// content ID was supplied and inserting a new record otherwise. Returns the
// record ID, or "" when persistence failed.
func (p *Publisher) record(ctx context.Context, userID primitive.ObjectID, input Input, postID string) string {
	if input.ContentID != "" {
		id, err := primitive.ObjectIDFromHex(input.ContentID)
		if err == nil {
			err = p.content.MarkPublished(ctx, userID, id, input.Platform, postID)
		}
		if err != nil {
			logger.Error("failed to record publish", "content_id", input.ContentID, "error", err)
			return ""
		}
		return input.ContentID
	}

	saved, err := p.content.Save(ctx, models.GeneratedContent{
		UserID:            userID,
		GeneratedContent:  input.Content,
		GeneratedImageURL: input.ImageURL,
		Category:          input.Category,
		Prompt:            input.Prompt,
		Status:            models.ContentStatusPublished,
		PostID:            postID,
		Platform:          input.Platform,
	})
	if err != nil {
		logger.Error("failed to record publish", "error", err)
		return ""
	}

	return saved.ID.Hex()
}

func findCredential(creds []models.Credential, credType string) (models.Credential, bool) {
	for _, c := range creds {
		if c.Type == credType {
			return c, true
		}
	}
	return models.Credential{}, false
}
