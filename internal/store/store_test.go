package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"social-publisher-platform/models"
)

// These tests need a running MongoDB instance. Set MONGO_TEST_URI to run
// them, e.g. MONGO_TEST_URI=mongodb://localhost:27017 go test ./internal/store/
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("social_publisher_test")
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

func TestCredentialStoreSaveUpserts(t *testing.T) {
	db := testDatabase(t)
	store := NewCredentialStore(db)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	first, err := store.Save(ctx, userID, models.Credential{
		Type:        models.PlatformFacebook,
		AccessToken: "token-1",
		PageID:      "page-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "token-1", first.AccessToken)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := store.Save(ctx, userID, models.Credential{
		Type:        models.PlatformFacebook,
		AccessToken: "token-2",
		PageID:      "page-2",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-saving the same type should overwrite, not insert")
	assert.Equal(t, "token-2", second.AccessToken)
	assert.Equal(t, "page-2", second.PageID)

	creds, err := store.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, creds, 1)
}

func TestCredentialStoreGet(t *testing.T) {
	db := testDatabase(t)
	store := NewCredentialStore(db)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	_, err := store.Save(ctx, userID, models.Credential{
		Type:           models.PlatformLinkedIn,
		AccessToken:    "li-token",
		LinkedInUserID: "li-user",
	})
	require.NoError(t, err)

	cred, found, err := store.Get(ctx, userID, models.PlatformLinkedIn)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "li-user", cred.LinkedInUserID)

	_, found, err = store.Get(ctx, userID, models.PlatformInstagram)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCredentialStoreExpiryScan(t *testing.T) {
	db := testDatabase(t)
	store := NewCredentialStore(db)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	soon := time.Now().Add(48 * time.Hour)
	later := time.Now().Add(30 * 24 * time.Hour)

	expiring, err := store.Save(ctx, userID, models.Credential{
		Type:        models.PlatformFacebook,
		AccessToken: "t",
		ExpiryDate:  &soon,
	})
	require.NoError(t, err)

	_, err = store.Save(ctx, userID, models.Credential{
		Type:        models.PlatformLinkedIn,
		AccessToken: "t",
		ExpiryDate:  &later,
	})
	require.NoError(t, err)

	found, err := store.ExpiringBefore(ctx, time.Now().Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, models.PlatformFacebook, found[0].Type)

	require.NoError(t, store.MarkExpiryAlerted(ctx, expiring.ID))

	found, err = store.ExpiringBefore(ctx, time.Now().Add(7*24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, found, "alerted credentials should not be returned again")
}

func TestContentStoreRoundTrip(t *testing.T) {
	db := testDatabase(t)
	store := NewContentStore(db)
	ctx := context.Background()
	userID := primitive.NewObjectID()

	saved, err := store.Save(ctx, models.GeneratedContent{
		UserID:           userID,
		GeneratedContent: "A post about Go.",
		Category:         "technology",
		Prompt:           "write about go",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ContentStatusDraft, saved.Status)
	assert.False(t, saved.ID.IsZero())

	require.NoError(t, store.MarkPublished(ctx, userID, saved.ID, models.PlatformFacebook, "page_post_1"))

	got, err := store.Get(ctx, userID, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContentStatusPublished, got.Status)
	assert.Equal(t, "page_post_1", got.PostID)
	assert.Equal(t, models.PlatformFacebook, got.Platform)

	published, err := store.ListByUser(ctx, userID, models.ContentStatusPublished, 0)
	require.NoError(t, err)
	assert.Len(t, published, 1)

	err = store.MarkPublished(ctx, primitive.NewObjectID(), saved.ID, models.PlatformFacebook, "x")
	assert.Error(t, err, "other users must not be able to update the record")
}
