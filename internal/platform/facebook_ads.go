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

// FacebookAdsClient promotes an existing page post as an ad through the
// Marketing API. It validates like the other adapters but does not publish
// posts itself; the orchestrator calls CreateAd after a successful
// Facebook publish.
type FacebookAdsClient struct {
	httpClient *http.Client
	baseURL    string
}

var facebookAdsMessages = map[int]string{
	http.StatusUnauthorized:        "Facebook Ads access token is invalid or expired. Please re-authenticate.",
	http.StatusForbidden:           "Insufficient permissions to manage ads on this ad account.",
	http.StatusNotFound:            "Ad account not found or you don't have access to it",
	http.StatusUnprocessableEntity: "Invalid request data. Please check the ad account and campaign IDs.",
}

func NewFacebookAdsClient(baseURL string) *FacebookAdsClient {
	if baseURL == "" {
		baseURL = defaultGraphAPIURL
	}
	return &FacebookAdsClient{
		httpClient: newHTTPClient(),
		baseURL:    baseURL,
	}
}

func (c *FacebookAdsClient) Name() string {
	return models.PlatformFacebookAds
}

// ValidateCredentials reads the ad account with the supplied token.
func (c *FacebookAdsClient) ValidateCredentials(ctx context.Context, creds models.Credential) ValidationResult {
	endpoint := fmt.Sprintf("%s/act_%s?fields=id,name,account_status&access_token=%s",
		c.baseURL, creds.AdAccountID, url.QueryEscape(creds.AccessToken))

	status, body, err := doJSON(ctx, c.httpClient, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return ValidationResult{Success: false, Error: err.Error()}
	}

	if !is2xx(status) {
		return ValidationResult{
			Success: false,
			Error:   apiError(status, facebookAdsMessages, body, "Failed to validate Facebook Ads credentials"),
		}
	}

	var profile map[string]interface{}
	if err := json.Unmarshal(body, &profile); err != nil {
		return ValidationResult{Success: false, Error: "Failed to parse ad account response"}
	}

	return ValidationResult{Success: true, Profile: profile}
}

type adCreativeRequest struct {
	Name          string `json:"name"`
	ObjectStoryID string `json:"object_story_id"`
	AccessToken   string `json:"access_token"`
}

type adRequest struct {
	Name        string            `json:"name"`
	AdsetID     string            `json:"adset_id,omitempty"`
	Creative    map[string]string `json:"creative"`
	Status      string            `json:"status"`
	AccessToken string            `json:"access_token"`
}

type graphIDResponse struct {
	ID string `json:"id"`
}

// CreateAd builds an ad creative from the published page post and attaches
// it to the configured campaign. Ads start PAUSED so the user can review
// budget and targeting before spend begins.
func (c *FacebookAdsClient) CreateAd(ctx context.Context, postID, imageURL, content string, creds models.Credential) error {
	creativeEndpoint := fmt.Sprintf("%s/act_%s/adcreatives", c.baseURL, creds.AdAccountID)
	creativePayload := adCreativeRequest{
		Name:          "Auto creative for post " + postID,
		ObjectStoryID: postID,
		AccessToken:   creds.AccessToken,
	}

	status, body, err := doJSON(ctx, c.httpClient, http.MethodPost, creativeEndpoint, nil, creativePayload)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return fmt.Errorf("%s", apiError(status, facebookAdsMessages, body, "Failed to create ad creative"))
	}

	var creative graphIDResponse
	if err := json.Unmarshal(body, &creative); err != nil || creative.ID == "" {
		return fmt.Errorf("failed to parse ad creative response")
	}

	adEndpoint := fmt.Sprintf("%s/act_%s/ads", c.baseURL, creds.AdAccountID)
	adPayload := adRequest{
		Name:        "Auto ad for post " + postID,
		AdsetID:     creds.CampaignID,
		Creative:    map[string]string{"creative_id": creative.ID},
		Status:      "PAUSED",
		AccessToken: creds.AccessToken,
	}

	status, body, err = doJSON(ctx, c.httpClient, http.MethodPost, adEndpoint, nil, adPayload)
	if err != nil {
		return err
	}
	if !is2xx(status) {
		return fmt.Errorf("%s", apiError(status, facebookAdsMessages, body, "Failed to create ad"))
	}

	var ad graphIDResponse
	if err := json.Unmarshal(body, &ad); err != nil {
		return fmt.Errorf("failed to parse ad response")
	}

	logger.Debug("Facebook ad created", "ad_id", ad.ID, "post_id", postID)
	return nil
}
