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

func linkedInCreds(companyPage bool) models.Credential {
	return models.Credential{
		Type:           models.PlatformLinkedIn,
		AccessToken:    "li-token",
		LinkedInUserID: "42",
		IsCompanyPage:  companyPage,
	}
}

func TestAuthorURN(t *testing.T) {
	assert.Equal(t, "urn:li:organization:42", authorURN(linkedInCreds(true)))
	assert.Equal(t, "urn:li:person:42", authorURN(linkedInCreds(false)))
}

func TestLinkedInAdapter_ValidateCredentials(t *testing.T) {
	t.Run("company page uses organizations endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/organizations/42", r.URL.Path)
			assert.Equal(t, "Bearer li-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]interface{}{"id": 42, "localizedName": "Acme"})
		}))
		defer server.Close()

		adapter := NewLinkedInAdapter(server.URL)
		result := adapter.ValidateCredentials(context.Background(), linkedInCreds(true))

		require.True(t, result.Success)
		assert.Equal(t, "Acme", result.Profile["localizedName"])
	})

	t.Run("personal profile uses people endpoint", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasPrefix(r.URL.Path, "/v2/people/"))
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "42"})
		}))
		defer server.Close()

		adapter := NewLinkedInAdapter(server.URL)
		result := adapter.ValidateCredentials(context.Background(), linkedInCreds(false))

		require.True(t, result.Success)
	})

	t.Run("not found message depends on credential kind", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"ignored"}`))
		}))
		defer server.Close()

		adapter := NewLinkedInAdapter(server.URL)

		company := adapter.ValidateCredentials(context.Background(), linkedInCreds(true))
		assert.Equal(t, "Company page not found or you don't have access to it", company.Error)

		person := adapter.ValidateCredentials(context.Background(), linkedInCreds(false))
		assert.Equal(t, "LinkedIn profile not found or you don't have access to it", person.Error)
	})

	t.Run("401 returns fixed validation message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"vendor detail"}`))
		}))
		defer server.Close()

		adapter := NewLinkedInAdapter(server.URL)
		result := adapter.ValidateCredentials(context.Background(), linkedInCreds(false))

		assert.Equal(t, "LinkedIn access token is invalid or expired", result.Error)
	})
}

func TestLinkedInAdapter_Publish(t *testing.T) {
	t.Run("publishes UGC post with organization author", func(t *testing.T) {
		var ugcBody map[string]interface{}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v2/ugcPosts" {
				assert.Equal(t, "Bearer li-token", r.Header.Get("Authorization"))
				assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&ugcBody))
				json.NewEncoder(w).Encode(map[string]string{"id": "urn:li:share:9"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"id": 42})
		}))
		defer server.Close()

		adapter := NewLinkedInAdapter(server.URL)
		result := adapter.Publish(context.Background(), PublishRequest{Content: "hello network"}, linkedInCreds(true))

		require.True(t, result.Success)
		assert.Equal(t, "urn:li:share:9", result.PostID)
		assert.Equal(t, "urn:li:organization:42", ugcBody["author"])
		assert.Equal(t, "PUBLISHED", ugcBody["lifecycleState"])

		share := ugcBody["specificContent"].(map[string]interface{})["com.linkedin.ugc.ShareContent"].(map[string]interface{})
		assert.Equal(t, "hello network", share["shareCommentary"].(map[string]interface{})["text"])
		assert.Equal(t, "NONE", share["shareMediaCategory"])
		assert.Equal(t, "PUBLIC", ugcBody["visibility"].(map[string]interface{})["com.linkedin.ugc.MemberNetworkVisibility"])
	})

	t.Run("missing post id falls back to unknown", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v2/ugcPosts" {
				w.Write([]byte(`{}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "42"})
		}))
		defer server.Close()

		adapter := NewLinkedInAdapter(server.URL)
		result := adapter.Publish(context.Background(), PublishRequest{Content: "hi"}, linkedInCreds(false))

		require.True(t, result.Success)
		assert.Equal(t, "unknown", result.PostID)
	})

	t.Run("401 returns fixed message regardless of body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v2/ugcPosts" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"something else entirely","error_description":"also ignored"}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "42"})
		}))
		defer server.Close()

		adapter := NewLinkedInAdapter(server.URL)
		result := adapter.Publish(context.Background(), PublishRequest{Content: "hi"}, linkedInCreds(false))

		assert.False(t, result.Success)
		assert.Equal(t, "LinkedIn access token is invalid or expired. Please re-authenticate.", result.Error)
	})

	t.Run("unmapped status honors message precedence", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v2/ugcPosts" {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"message":"from message","error_description":"from description"}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "42"})
		}))
		defer server.Close()

		adapter := NewLinkedInAdapter(server.URL)
		result := adapter.Publish(context.Background(), PublishRequest{Content: "hi"}, linkedInCreds(false))

		assert.Equal(t, "from message", result.Error)
	})

	t.Run("validation failure short-circuits without ugc call", func(t *testing.T) {
		ugcCalls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v2/ugcPosts" {
				ugcCalls++
				return
			}
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		adapter := NewLinkedInAdapter(server.URL)
		result := adapter.Publish(context.Background(), PublishRequest{Content: "hi"}, linkedInCreds(false))

		assert.False(t, result.Success)
		assert.Equal(t, "Insufficient permissions to access LinkedIn profile/company", result.Error)
		assert.Zero(t, ugcCalls)
	})
}
