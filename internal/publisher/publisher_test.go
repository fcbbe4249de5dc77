package publisher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-publisher-platform/internal/platform"
	"social-publisher-platform/models"
)

type fakeAdapter struct {
	name    string
	result  platform.PublishResult
	calls   int
	lastReq platform.PublishRequest
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) ValidateCredentials(ctx context.Context, creds models.Credential) platform.ValidationResult {
	return platform.ValidationResult{Success: true}
}

func (f *fakeAdapter) Publish(ctx context.Context, req platform.PublishRequest, creds models.Credential) platform.PublishResult {
	f.calls++
	f.lastReq = req
	return f.result
}

type fakeCredentials struct {
	creds []models.Credential
	err   error
}

func (f *fakeCredentials) List(ctx context.Context, userID primitive.ObjectID) ([]models.Credential, error) {
	return f.creds, f.err
}

type fakeRecorder struct {
	saved     []models.GeneratedContent
	marked    []string
	saveErr   error
	markedErr error
}

func (f *fakeRecorder) Save(ctx context.Context, content models.GeneratedContent) (models.GeneratedContent, error) {
	if f.saveErr != nil {
		return models.GeneratedContent{}, f.saveErr
	}
	content.ID = primitive.NewObjectID()
	f.saved = append(f.saved, content)
	return content, nil
}

func (f *fakeRecorder) MarkPublished(ctx context.Context, userID, id primitive.ObjectID, platformName, postID string) error {
	if f.markedErr != nil {
		return f.markedErr
	}
	f.marked = append(f.marked, id.Hex())
	return nil
}

type fakeAds struct {
	err   error
	calls int
}

func (f *fakeAds) CreateAd(ctx context.Context, postID, imageURL, content string, creds models.Credential) error {
	f.calls++
	return f.err
}

func newTestPublisher(adapter *fakeAdapter, creds []models.Credential, recorder *fakeRecorder, ads *fakeAds) *Publisher {
	registry := platform.NewRegistry()
	if adapter != nil {
		registry.Register(adapter)
	}
	var adCreator AdCreator
	if ads != nil {
		adCreator = ads
	}
	return New(registry, &fakeCredentials{creds: creds}, recorder, adCreator)
}

func TestPublishEmptyContent(t *testing.T) {
	p := newTestPublisher(&fakeAdapter{name: models.PlatformFacebook}, nil, &fakeRecorder{}, nil)

	out, err := p.Publish(context.Background(), primitive.NewObjectID(), Input{
		Platform: models.PlatformFacebook,
		Content:  "   ",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusError, out.Status)
	assert.Equal(t, "Nothing to publish. Generate or enter content first.", out.Message)
}

func TestPublishMissingCredentials(t *testing.T) {
	p := newTestPublisher(&fakeAdapter{name: models.PlatformLinkedIn}, nil, &fakeRecorder{}, nil)

	out, err := p.Publish(context.Background(), primitive.NewObjectID(), Input{
		Platform: models.PlatformLinkedIn,
		Content:  "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusError, out.Status)
	assert.Equal(t, "Please add your LinkedIn credentials in the Credential Vault to publish content.", out.Message)
}

func TestPublishAdapterErrorPassedVerbatim(t *testing.T) {
	adapter := &fakeAdapter{
		name:   models.PlatformInstagram,
		result: platform.PublishResult{Success: false, Error: "Instagram access token is invalid or expired. Please re-authenticate."},
	}
	recorder := &fakeRecorder{}
	p := newTestPublisher(adapter, []models.Credential{{Type: models.PlatformInstagram}}, recorder, nil)

	out, err := p.Publish(context.Background(), primitive.NewObjectID(), Input{
		Platform: models.PlatformInstagram,
		Content:  "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusError, out.Status)
	assert.Equal(t, adapter.result.Error, out.Message)
	assert.Empty(t, recorder.saved, "failed publishes must not be recorded")
}

func TestPublishSuccessRecordsContent(t *testing.T) {
	adapter := &fakeAdapter{
		name:   models.PlatformLinkedIn,
		result: platform.PublishResult{Success: true, PostID: "ugc-123"},
	}
	recorder := &fakeRecorder{}
	p := newTestPublisher(adapter, []models.Credential{{Type: models.PlatformLinkedIn}}, recorder, nil)

	out, err := p.Publish(context.Background(), primitive.NewObjectID(), Input{
		Platform: models.PlatformLinkedIn,
		Content:  "Hello LinkedIn",
		ImageURL: "https://img.example/pic.png",
		Category: "Promotion",
		Prompt:   "write a promo post",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, "Published to LinkedIn successfully!", out.Message)
	assert.Equal(t, "ugc-123", out.PostID)

	require.Len(t, recorder.saved, 1)
	saved := recorder.saved[0]
	assert.Equal(t, models.ContentStatusPublished, saved.Status)
	assert.Equal(t, "ugc-123", saved.PostID)
	assert.Equal(t, models.PlatformLinkedIn, saved.Platform)
	assert.Equal(t, "Promotion", saved.Category)
	assert.Equal(t, saved.ID.Hex(), out.ContentID)
}

func TestPublishExistingContentMarkedPublished(t *testing.T) {
	adapter := &fakeAdapter{
		name:   models.PlatformFacebook,
		result: platform.PublishResult{Success: true, PostID: "fb-1"},
	}
	recorder := &fakeRecorder{}
	p := newTestPublisher(adapter, []models.Credential{{Type: models.PlatformFacebook}}, recorder, nil)

	contentID := primitive.NewObjectID().Hex()
	out, err := p.Publish(context.Background(), primitive.NewObjectID(), Input{
		Platform:  models.PlatformFacebook,
		Content:   "Hello",
		ContentID: contentID,
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, contentID, out.ContentID)
	assert.Equal(t, []string{contentID}, recorder.marked)
	assert.Empty(t, recorder.saved)
}

func TestPublishFacebookCreatesAd(t *testing.T) {
	adapter := &fakeAdapter{
		name:   models.PlatformFacebook,
		result: platform.PublishResult{Success: true, PostID: "fb-post"},
	}
	ads := &fakeAds{}
	creds := []models.Credential{
		{Type: models.PlatformFacebook},
		{Type: models.PlatformFacebookAds, AdAccountID: "act-1"},
	}
	p := newTestPublisher(adapter, creds, &fakeRecorder{}, ads)

	out, err := p.Publish(context.Background(), primitive.NewObjectID(), Input{
		Platform: models.PlatformFacebook,
		Content:  "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, "Published to Facebook and ad created successfully!", out.Message)
	assert.Equal(t, 1, ads.calls)
}

func TestPublishAdFailureKeepsSuccess(t *testing.T) {
	adapter := &fakeAdapter{
		name:   models.PlatformFacebook,
		result: platform.PublishResult{Success: true, PostID: "fb-post"},
	}
	ads := &fakeAds{err: errors.New("Facebook Ads access token is invalid or expired")}
	creds := []models.Credential{
		{Type: models.PlatformFacebook},
		{Type: models.PlatformFacebookAds, AdAccountID: "act-1"},
	}
	recorder := &fakeRecorder{}
	p := newTestPublisher(adapter, creds, recorder, ads)

	out, err := p.Publish(context.Background(), primitive.NewObjectID(), Input{
		Platform: models.PlatformFacebook,
		Content:  "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Status, "ad failure must not fail the publish")
	assert.Equal(t, "Published to Facebook successfully, but ad creation failed.", out.Message)
	assert.Equal(t, "fb-post", out.PostID)
	assert.Len(t, recorder.saved, 1, "the publish is still recorded")
}

func TestPublishNoAdWithoutAdsCredential(t *testing.T) {
	adapter := &fakeAdapter{
		name:   models.PlatformFacebook,
		result: platform.PublishResult{Success: true, PostID: "fb-post"},
	}
	ads := &fakeAds{}
	p := newTestPublisher(adapter, []models.Credential{{Type: models.PlatformFacebook}}, &fakeRecorder{}, ads)

	out, err := p.Publish(context.Background(), primitive.NewObjectID(), Input{
		Platform: models.PlatformFacebook,
		Content:  "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, "Published to Facebook successfully!", out.Message)
	assert.Equal(t, 0, ads.calls)
}

func TestPublishRecordFailureDoesNotFailPublish(t *testing.T) {
	adapter := &fakeAdapter{
		name:   models.PlatformLinkedIn,
		result: platform.PublishResult{Success: true, PostID: "ugc-9"},
	}
	recorder := &fakeRecorder{saveErr: errors.New("write concern error")}
	p := newTestPublisher(adapter, []models.Credential{{Type: models.PlatformLinkedIn}}, recorder, nil)

	out, err := p.Publish(context.Background(), primitive.NewObjectID(), Input{
		Platform: models.PlatformLinkedIn,
		Content:  "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, out.Status)
	assert.Empty(t, out.ContentID)
}

func TestPublishUnknownPlatform(t *testing.T) {
	p := newTestPublisher(nil, []models.Credential{{Type: "myspace"}}, &fakeRecorder{}, nil)

	out, err := p.Publish(context.Background(), primitive.NewObjectID(), Input{
		Platform: "myspace",
		Content:  "Hello",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusError, out.Status)
	assert.Equal(t, "Publishing to myspace is not supported.", out.Message)
}
