package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"social-publisher-platform/internal/logger"
	"social-publisher-platform/models"
)

const defaultLinkedInAPIURL = "https://api.linkedin.com"

// LinkedInAdapter publishes UGC posts for a member profile or an
// organization page through the LinkedIn API v2.
type LinkedInAdapter struct {
	httpClient *http.Client
	baseURL    string
}

var linkedInValidateMessages = map[int]string{
	http.StatusUnauthorized:        "LinkedIn access token is invalid or expired",
	http.StatusForbidden:           "Insufficient permissions to access LinkedIn profile/company",
	http.StatusUnprocessableEntity: "Invalid request data. Please check the user/company ID.",
}

var linkedInPublishMessages = map[int]string{
	http.StatusUnauthorized:        "LinkedIn access token is invalid or expired. Please re-authenticate.",
	http.StatusForbidden:           "Insufficient permissions to post to LinkedIn. Please check your app permissions.",
	http.StatusNotFound:            "LinkedIn profile or company page not found",
	http.StatusUnprocessableEntity: "Invalid request data. Please check the content format and user/company ID.",
}

func NewLinkedInAdapter(baseURL string) *LinkedInAdapter {
	if baseURL == "" {
		baseURL = defaultLinkedInAPIURL
	}
	return &LinkedInAdapter{
		httpClient: newHTTPClient(),
		baseURL:    baseURL,
	}
}

func (a *LinkedInAdapter) Name() string {
	return models.PlatformLinkedIn
}

// authorURN derives the post author from the credential: organization URN
// for company pages, person URN otherwise.
func authorURN(creds models.Credential) string {
	if creds.IsCompanyPage {
		return fmt.Sprintf("urn:li:organization:%s", creds.LinkedInUserID)
	}
	return fmt.Sprintf("urn:li:person:%s", creds.LinkedInUserID)
}

func (a *LinkedInAdapter) authHeaders(creds models.Credential) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + creds.AccessToken,
	}
}

// ValidateCredentials reads the organization or the member profile the
// credential points at.
func (a *LinkedInAdapter) ValidateCredentials(ctx context.Context, creds models.Credential) ValidationResult {
	var endpoint string
	if creds.IsCompanyPage {
		endpoint = fmt.Sprintf("%s/v2/organizations/%s?projection=(id,name,localizedName)", a.baseURL, creds.LinkedInUserID)
	} else {
		endpoint = fmt.Sprintf("%s/v2/people/(id:%s)?projection=(id,firstName,lastName,profilePicture(displayImage~:playableStreams))", a.baseURL, creds.LinkedInUserID)
	}

	status, body, err := doJSON(ctx, a.httpClient, http.MethodGet, endpoint, a.authHeaders(creds), nil)
	if err != nil {
		return ValidationResult{Success: false, Error: err.Error()}
	}

	if !is2xx(status) {
		// The not-found wording depends on what the credential points at.
		if status == http.StatusNotFound {
			msg := "LinkedIn profile not found or you don't have access to it"
			if creds.IsCompanyPage {
				msg = "Company page not found or you don't have access to it"
			}
			return ValidationResult{Success: false, Error: msg}
		}
		return ValidationResult{
			Success: false,
			Error:   apiError(status, linkedInValidateMessages, body, "Failed to validate LinkedIn credentials"),
		}
	}

	var profile map[string]interface{}
	if err := json.Unmarshal(body, &profile); err != nil {
		return ValidationResult{Success: false, Error: "Failed to parse LinkedIn validation response"}
	}

	return ValidationResult{Success: true, Profile: profile}
}

type ugcPostRequest struct {
	Author          string                 `json:"author"`
	LifecycleState  string                 `json:"lifecycleState"`
	SpecificContent map[string]interface{} `json:"specificContent"`
	Visibility      map[string]string      `json:"visibility"`
}

type ugcPostResponse struct {
	ID string `json:"id"`
}

// Publish validates the credentials, then creates a PUBLISHED text-only UGC
// post authored by the stored profile or organization.
func (a *LinkedInAdapter) Publish(ctx context.Context, req PublishRequest, creds models.Credential) PublishResult {
	validation := a.ValidateCredentials(ctx, creds)
	if !validation.Success {
		return PublishResult{Success: false, Error: validation.Error}
	}

	payload := ugcPostRequest{
		Author:         authorURN(creds),
		LifecycleState: "PUBLISHED",
		SpecificContent: map[string]interface{}{
			"com.linkedin.ugc.ShareContent": map[string]interface{}{
				"shareCommentary": map[string]string{
					"text": req.Content,
				},
				"shareMediaCategory": "NONE",
			},
		},
		Visibility: map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	headers := a.authHeaders(creds)
	headers["X-Restli-Protocol-Version"] = "2.0.0"

	endpoint := a.baseURL + "/v2/ugcPosts"
	status, body, err := doJSON(ctx, a.httpClient, http.MethodPost, endpoint, headers, payload)
	if err != nil {
		return PublishResult{Success: false, Error: err.Error()}
	}

	if !is2xx(status) {
		return PublishResult{
			Success: false,
			Error:   apiError(status, linkedInPublishMessages, body, "Failed to publish to LinkedIn"),
		}
	}

	var result ugcPostResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return PublishResult{Success: false, Error: "Failed to parse LinkedIn publish response"}
	}

	postID := result.ID
	if postID == "" {
		postID = "unknown"
	}

	logger.Debug("LinkedIn post published", "author", authorURN(creds), "post_id", postID)
	return PublishResult{Success: true, PostID: postID}
}
