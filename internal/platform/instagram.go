package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"social-publisher-platform/internal/logger"
	"social-publisher-platform/models"
)

// InstagramAdapter publishes image posts to an Instagram business account
// through the Graph API content-publishing flow: create a media container,
// then publish it.
type InstagramAdapter struct {
	httpClient *http.Client
	baseURL    string
}

var instagramValidateMessages = map[int]string{
	http.StatusUnauthorized:        "Instagram access token is invalid or expired",
	http.StatusForbidden:           "Insufficient permissions to access this Instagram account",
	http.StatusNotFound:            "Instagram account not found or you don't have access to it",
	http.StatusUnprocessableEntity: "Invalid request data. Please check the account ID.",
}

var instagramPublishMessages = map[int]string{
	http.StatusUnauthorized:        "Instagram access token is invalid or expired. Please re-authenticate.",
	http.StatusForbidden:           "Insufficient permissions to publish to this Instagram account. Please check your app permissions.",
	http.StatusNotFound:            "Instagram account not found or you don't have access to it",
	http.StatusUnprocessableEntity: "Invalid request data. Please check the content format and account ID.",
}

func NewInstagramAdapter(baseURL string) *InstagramAdapter {
	if baseURL == "" {
		baseURL = defaultGraphAPIURL
	}
	return &InstagramAdapter{
		httpClient: newHTTPClient(),
		baseURL:    baseURL,
	}
}

func (a *InstagramAdapter) Name() string {
	return models.PlatformInstagram
}

// ValidateCredentials reads the business account with the supplied token.
func (a *InstagramAdapter) ValidateCredentials(ctx context.Context, creds models.Credential) ValidationResult {
	endpoint := fmt.Sprintf("%s/%s?fields=id,username&access_token=%s",
		a.baseURL, creds.InstagramUserID, url.QueryEscape(creds.AccessToken))

	status, body, err := doJSON(ctx, a.httpClient, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return ValidationResult{Success: false, Error: err.Error()}
	}

	if !is2xx(status) {
		return ValidationResult{
			Success: false,
			Error:   apiError(status, instagramValidateMessages, body, "Failed to validate Instagram credentials"),
		}
	}

	var profile map[string]interface{}
	if err := json.Unmarshal(body, &profile); err != nil {
		return ValidationResult{Success: false, Error: "Failed to parse Instagram validation response"}
	}

	return ValidationResult{Success: true, Profile: profile}
}

type igMediaRequest struct {
	ImageURL    string `json:"image_url"`
	Caption     string `json:"caption"`
	AccessToken string `json:"access_token"`
}

type igMediaPublishRequest struct {
	CreationID  string `json:"creation_id"`
	AccessToken string `json:"access_token"`
}

type igMediaResponse struct {
	ID string `json:"id"`
}

// Publish validates the credentials, creates the media container and
// publishes it. Both Graph calls share the same error mapping.
func (a *InstagramAdapter) Publish(ctx context.Context, req PublishRequest, creds models.Credential) PublishResult {
	if req.ImageURL == "" {
		return PublishResult{Success: false, Error: "An image is required to publish to Instagram."}
	}

	validation := a.ValidateCredentials(ctx, creds)
	if !validation.Success {
		return PublishResult{Success: false, Error: validation.Error}
	}

	// Step 1: media container
	containerEndpoint := fmt.Sprintf("%s/%s/media", a.baseURL, creds.InstagramUserID)
	containerPayload := igMediaRequest{
		ImageURL:    req.ImageURL,
		Caption:     req.Content,
		AccessToken: creds.AccessToken,
	}

	status, body, err := doJSON(ctx, a.httpClient, http.MethodPost, containerEndpoint, nil, containerPayload)
	if err != nil {
		return PublishResult{Success: false, Error: err.Error()}
	}
	if !is2xx(status) {
		return PublishResult{
			Success: false,
			Error:   apiError(status, instagramPublishMessages, body, "Failed to publish to Instagram"),
		}
	}

	var container igMediaResponse
	if err := json.Unmarshal(body, &container); err != nil || container.ID == "" {
		return PublishResult{Success: false, Error: "Failed to parse Instagram media response"}
	}

	// Step 2: publish the container
	publishEndpoint := fmt.Sprintf("%s/%s/media_publish", a.baseURL, creds.InstagramUserID)
	publishPayload := igMediaPublishRequest{
		CreationID:  container.ID,
		AccessToken: creds.AccessToken,
	}

	status, body, err = doJSON(ctx, a.httpClient, http.MethodPost, publishEndpoint, nil, publishPayload)
	if err != nil {
		return PublishResult{Success: false, Error: err.Error()}
	}
	if !is2xx(status) {
		return PublishResult{
			Success: false,
			Error:   apiError(status, instagramPublishMessages, body, "Failed to publish to Instagram"),
		}
	}

	var media igMediaResponse
	if err := json.Unmarshal(body, &media); err != nil {
		return PublishResult{Success: false, Error: "Failed to parse Instagram publish response"}
	}

	logger.Debug("Instagram media published", "ig_user_id", creds.InstagramUserID, "media_id", media.ID)
	return PublishResult{Success: true, PostID: media.ID}
}
