package vision

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huracan-ai/huracan/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *Client {
	return NewClient(config.VisionConfig{
		Endpoint: serverURL,
		APIKey:   "test-key",
		Timeout:  5 * time.Second,
	})
}

func TestClient_Analyze(t *testing.T) {
	t.Run("normalizes a full response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
			assert.Contains(t, r.URL.RawQuery, "features=caption,denseCaptions,objects,tags,read")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"captionResult": {"text": "a damaged roof", "confidence": 0.92},
				"denseCaptionsResult": {"values": [{"text": "missing shingles", "confidence": 0.81}]},
				"objectsResult": {"values": [
					{"boundingBox": {"x": 1, "y": 2, "w": 3, "h": 4},
					 "tags": [{"name": "roof", "confidence": 0.9}]},
					{"tags": []}
				]},
				"tagsResult": {"values": [{"name": "damage", "confidence": 0.7}]}
			}`))
		}))
		defer server.Close()

		analysis, err := testClient(server.URL).Analyze(context.Background(), "http://img/1")
		require.NoError(t, err)

		require.Len(t, analysis.Objects, 2)
		assert.Equal(t, "roof", analysis.Objects[0].Object)
		assert.Equal(t, 3, analysis.Objects[0].Rectangle.W)
		assert.Equal(t, "unknown", analysis.Objects[1].Object)

		require.Len(t, analysis.Tags, 1)
		assert.Equal(t, "damage", analysis.Tags[0].Name)

		// Top caption first, dense captions after
		require.Len(t, analysis.Captions, 2)
		assert.Equal(t, "a damaged roof", analysis.Captions[0].Text)
		assert.Equal(t, "missing shingles", analysis.Captions[1].Text)
	})

	t.Run("absent features normalize to empty lists", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		analysis, err := testClient(server.URL).Analyze(context.Background(), "http://img/1")
		require.NoError(t, err)
		assert.NotNil(t, analysis.Objects)
		assert.NotNil(t, analysis.Tags)
		assert.NotNil(t, analysis.Captions)
		assert.Empty(t, analysis.Objects)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := testClient(server.URL).Analyze(context.Background(), "http://img/1")
		assert.Error(t, err)
	})

	t.Run("unconfigured client refuses", func(t *testing.T) {
		client := NewClient(config.VisionConfig{})
		_, err := client.Analyze(context.Background(), "http://img/1")
		assert.Error(t, err)
	})
}
