package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Platform identifiers used as the credential "type" and as adapter registry keys.
const (
	PlatformFacebook    = "facebook"
	PlatformInstagram   = "instagram"
	PlatformLinkedIn    = "linkedin"
	PlatformFacebookAds = "facebook_ads"
)

// Credential is one stored integration credential. A user holds at most one
// record per type; which of the optional identifier fields is meaningful
// depends on the type (page_id for facebook, linkedin_user_id for linkedin,
// instagram_user_id for instagram, ad_account_id/campaign_id for facebook_ads).
type Credential struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type            string             `bson:"type" json:"type"`
	AccessToken     string             `bson:"access_token" json:"-"`
	PageID          string             `bson:"page_id,omitempty" json:"page_id,omitempty"`
	LinkedInUserID  string             `bson:"linkedin_user_id,omitempty" json:"linkedin_user_id,omitempty"`
	InstagramUserID string             `bson:"instagram_user_id,omitempty" json:"instagram_user_id,omitempty"`
	AdAccountID     string             `bson:"ad_account_id,omitempty" json:"ad_account_id,omitempty"`
	CampaignID      string             `bson:"campaign_id,omitempty" json:"campaign_id,omitempty"`
	IsCompanyPage   bool               `bson:"is_company_page,omitempty" json:"is_company_page,omitempty"`
	ExpiryDate      *time.Time         `bson:"expiry_date,omitempty" json:"expiry_date,omitempty"`
	ExpiryAlertedAt *time.Time         `bson:"expiry_alerted_at,omitempty" json:"-"`
	LastValidated   time.Time          `bson:"last_validated" json:"last_validated"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

type SaveCredentialRequest struct {
	Type            string     `json:"type" binding:"required,oneof=facebook instagram linkedin facebook_ads"`
	AccessToken     string     `json:"access_token" binding:"required"`
	PageID          string     `json:"page_id,omitempty"`
	LinkedInUserID  string     `json:"linkedin_user_id,omitempty"`
	InstagramUserID string     `json:"instagram_user_id,omitempty"`
	AdAccountID     string     `json:"ad_account_id,omitempty"`
	CampaignID      string     `json:"campaign_id,omitempty"`
	IsCompanyPage   bool       `json:"is_company_page,omitempty"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
}

// Credential builds the storable record from the request. Timestamps are set
// by the store on save.
func (r SaveCredentialRequest) Credential() Credential {
	return Credential{
		Type:            r.Type,
		AccessToken:     r.AccessToken,
		PageID:          r.PageID,
		LinkedInUserID:  r.LinkedInUserID,
		InstagramUserID: r.InstagramUserID,
		AdAccountID:     r.AdAccountID,
		CampaignID:      r.CampaignID,
		IsCompanyPage:   r.IsCompanyPage,
		ExpiryDate:      r.ExpiryDate,
	}
}
