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

const defaultGraphAPIURL = "https://graph.facebook.com"

// FacebookAdapter publishes photo posts to a Facebook Page through the
// Graph API.
type FacebookAdapter struct {
	httpClient *http.Client
	baseURL    string
}

var facebookValidateMessages = map[int]string{
	http.StatusUnauthorized:        "Facebook access token is invalid or expired",
	http.StatusForbidden:           "Insufficient permissions to access this Facebook Page",
	http.StatusNotFound:            "Facebook Page not found or you don't have access to it",
	http.StatusUnprocessableEntity: "Invalid request data. Please check the Page ID.",
}

var facebookPublishMessages = map[int]string{
	http.StatusUnauthorized:        "Facebook access token is invalid or expired. Please re-authenticate.",
	http.StatusForbidden:           "Insufficient permissions to post to this Facebook Page. Please check your app permissions.",
	http.StatusNotFound:            "Facebook Page not found or you don't have access to it",
	http.StatusUnprocessableEntity: "Invalid request data. Please check the content format and Page ID.",
}

func NewFacebookAdapter(baseURL string) *FacebookAdapter {
	if baseURL == "" {
		baseURL = defaultGraphAPIURL
	}
	return &FacebookAdapter{
		httpClient: newHTTPClient(),
		baseURL:    baseURL,
	}
}

func (a *FacebookAdapter) Name() string {
	return models.PlatformFacebook
}

// ValidateCredentials reads the Page with the supplied token. The response
// includes the page-scoped access token when the token has pages_manage_posts.
func (a *FacebookAdapter) ValidateCredentials(ctx context.Context, creds models.Credential) ValidationResult {
	endpoint := fmt.Sprintf("%s/%s?fields=id,name,access_token&access_token=%s",
		a.baseURL, creds.PageID, url.QueryEscape(creds.AccessToken))

	status, body, err := doJSON(ctx, a.httpClient, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return ValidationResult{Success: false, Error: err.Error()}
	}

	if !is2xx(status) {
		return ValidationResult{
			Success: false,
			Error:   apiError(status, facebookValidateMessages, body, "Failed to validate Facebook credentials"),
		}
	}

	var profile map[string]interface{}
	if err := json.Unmarshal(body, &profile); err != nil {
		return ValidationResult{Success: false, Error: "Failed to parse Facebook validation response"}
	}

	return ValidationResult{Success: true, Profile: profile}
}

type facebookPhotoRequest struct {
	URL         string `json:"url"`
	Caption     string `json:"caption"`
	AccessToken string `json:"access_token"`
}

type facebookPhotoResponse struct {
	ID string `json:"id"`
}

// Publish validates the credentials, then posts the image with caption to
// the Page's photos edge.
func (a *FacebookAdapter) Publish(ctx context.Context, req PublishRequest, creds models.Credential) PublishResult {
	validation := a.ValidateCredentials(ctx, creds)
	if !validation.Success {
		return PublishResult{Success: false, Error: validation.Error}
	}

	// Prefer the page-scoped token from validation.
	// TODO: confirm that publishing with the user token when the Graph API
	// returns no page token is intended; a user token here may lack
	// pages_manage_posts.
	pageToken := creds.AccessToken
	if t, ok := validation.Profile["access_token"].(string); ok && t != "" {
		pageToken = t
	}

	endpoint := fmt.Sprintf("%s/%s/photos", a.baseURL, creds.PageID)
	payload := facebookPhotoRequest{
		URL:         req.ImageURL,
		Caption:     req.Content,
		AccessToken: pageToken,
	}

	status, body, err := doJSON(ctx, a.httpClient, http.MethodPost, endpoint, nil, payload)
	if err != nil {
		return PublishResult{Success: false, Error: err.Error()}
	}

	if !is2xx(status) {
		return PublishResult{
			Success: false,
			Error:   apiError(status, facebookPublishMessages, body, "Failed to publish to Facebook"),
		}
	}

	var result facebookPhotoResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return PublishResult{Success: false, Error: "Failed to parse Facebook publish response"}
	}

	logger.Debug("Facebook post published", "page_id", creds.PageID, "post_id", result.ID)
	return PublishResult{Success: true, PostID: result.ID}
}
