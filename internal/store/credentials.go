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

// CredentialStore persists per-user platform credentials. One record per
// (user, type); Save upserts so re-entering credentials overwrites the
// previous record. Last write wins on concurrent saves.
type CredentialStore struct {
	col *mongo.Collection
}

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{col: db.Collection("credentials")}
}

// Save upserts the credential keyed by (user_id, type) and returns the
// stored record.
func (s *CredentialStore) Save(ctx context.Context, userID primitive.ObjectID, cred models.Credential) (models.Credential, error) {
	now := time.Now()

	update := bson.M{
		"$set": bson.M{
			"access_token":      cred.AccessToken,
			"page_id":           cred.PageID,
			"linkedin_user_id":  cred.LinkedInUserID,
			"instagram_user_id": cred.InstagramUserID,
			"ad_account_id":     cred.AdAccountID,
			"campaign_id":       cred.CampaignID,
			"is_company_page":   cred.IsCompanyPage,
			"expiry_date":       cred.ExpiryDate,
			"last_validated":    cred.LastValidated,
			"updated_at":        now,
		},
		"$unset": bson.M{
			// Re-saving a credential restarts the expiry alert cycle.
			"expiry_alerted_at": "",
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"type":       cred.Type,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.Credential
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "type": cred.Type},
		update, opts).Decode(&saved)
	if err != nil {
		return models.Credential{}, fmt.Errorf("failed to save credential: %w", err)
	}

	return saved, nil
}

// List returns all credentials stored for the user, unordered.
func (s *CredentialStore) List(ctx context.Context, userID primitive.ObjectID) ([]models.Credential, error) {
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer cursor.Close(ctx)

	var creds []models.Credential
	if err := cursor.All(ctx, &creds); err != nil {
		return nil, fmt.Errorf("failed to decode credentials: %w", err)
	}

	return creds, nil
}

// Get is a convenience filter over List for a single platform type.
func (s *CredentialStore) Get(ctx context.Context, userID primitive.ObjectID, credType string) (models.Credential, bool, error) {
	creds, err := s.List(ctx, userID)
	if err != nil {
		return models.Credential{}, false, err
	}

	for _, c := range creds {
		if c.Type == credType {
			return c, true, nil
		}
	}

	return models.Credential{}, false, nil
}

// TouchValidated updates the last_validated timestamp after a successful
// on-demand validation.
func (s *CredentialStore) TouchValidated(ctx context.Context, userID primitive.ObjectID, credType string) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"user_id": userID, "type": credType},
		bson.M{"$set": bson.M{"last_validated": time.Now(), "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to update credential: %w", err)
	}
	return nil
}

// ExpiringBefore returns credentials whose expiry date falls before the
// deadline and that have not been alerted yet. Used by the expiry scan.
func (s *CredentialStore) ExpiringBefore(ctx context.Context, deadline time.Time) ([]models.Credential, error) {
	filter := bson.M{
		"expiry_date":       bson.M{"$ne": nil, "$lte": deadline},
		"expiry_alerted_at": nil,
	}

	cursor, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring credentials: %w", err)
	}
	defer cursor.Close(ctx)

	var creds []models.Credential
	if err := cursor.All(ctx, &creds); err != nil {
		return nil, fmt.Errorf("failed to decode expiring credentials: %w", err)
	}

	return creds, nil
}

// MarkExpiryAlerted records that the expiry notification went out so the
// scan does not re-send it.
func (s *CredentialStore) MarkExpiryAlerted(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"expiry_alerted_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to mark credential alerted: %w", err)
	}
	return nil
}
