package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-publisher-platform/models"
)

func instagramCreds() models.Credential {
	return models.Credential{
		Type:            models.PlatformInstagram,
		AccessToken:     "ig-token",
		InstagramUserID: "ig99",
	}
}

func TestInstagramAdapter_Publish(t *testing.T) {
	t.Run("container then publish", func(t *testing.T) {
		var containerBody igMediaRequest
		var publishBody igMediaPublishRequest

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, "/media_publish"):
				require.NoError(t, json.NewDecoder(r.Body).Decode(&publishBody))
				json.NewEncoder(w).Encode(map[string]string{"id": "media77"})
			case strings.HasSuffix(r.URL.Path, "/media"):
				require.NoError(t, json.NewDecoder(r.Body).Decode(&containerBody))
				json.NewEncoder(w).Encode(map[string]string{"id": "container5"})
			default:
				json.NewEncoder(w).Encode(map[string]string{"id": "ig99", "username": "brand"})
			}
		}))
		defer server.Close()

		adapter := NewInstagramAdapter(server.URL)
		result := adapter.Publish(context.Background(), PublishRequest{
			Content:  "caption text",
			ImageURL: "https://x/img.png",
		}, instagramCreds())

		require.True(t, result.Success)
		assert.Equal(t, "media77", result.PostID)
		assert.Equal(t, "https://x/img.png", containerBody.ImageURL)
		assert.Equal(t, "caption text", containerBody.Caption)
		assert.Equal(t, "container5", publishBody.CreationID)
	})

	t.Run("container failure stops the flow", func(t *testing.T) {
		publishCalls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, "/media_publish"):
				publishCalls++
			case strings.HasSuffix(r.URL.Path, "/media"):
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":{"message":"ignored"}}`))
			default:
				json.NewEncoder(w).Encode(map[string]string{"id": "ig99"})
			}
		}))
		defer server.Close()

		adapter := NewInstagramAdapter(server.URL)
		result := adapter.Publish(context.Background(), PublishRequest{Content: "c", ImageURL: "https://x/a.png"}, instagramCreds())

		assert.False(t, result.Success)
		assert.Equal(t, "Insufficient permissions to publish to this Instagram account. Please check your app permissions.", result.Error)
		assert.Zero(t, publishCalls)
	})

	t.Run("validation failure short-circuits", func(t *testing.T) {
		mediaCalls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.URL.Path, "/media") {
				mediaCalls++
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		adapter := NewInstagramAdapter(server.URL)
		result := adapter.Publish(context.Background(), PublishRequest{Content: "c", ImageURL: "https://x/a.png"}, instagramCreds())

		assert.False(t, result.Success)
		assert.Equal(t, "Instagram access token is invalid or expired", result.Error)
		assert.Zero(t, mediaCalls)
	})

	t.Run("missing image rejected without any call", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))
		defer server.Close()

		adapter := NewInstagramAdapter(server.URL)
		result := adapter.Publish(context.Background(), PublishRequest{Content: "text only"}, instagramCreds())

		assert.False(t, result.Success)
		assert.Equal(t, "An image is required to publish to Instagram.", result.Error)
		assert.Zero(t, calls)
	})
}

func TestInstagramAdapter_ValidateCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ig99", r.URL.Path)
		assert.Equal(t, "id,username", r.URL.Query().Get("fields"))
		json.NewEncoder(w).Encode(map[string]string{"id": "ig99", "username": "brand"})
	}))
	defer server.Close()

	adapter := NewInstagramAdapter(server.URL)
	result := adapter.ValidateCredentials(context.Background(), instagramCreds())

	require.True(t, result.Success)
	assert.Equal(t, "brand", result.Profile["username"])
}
