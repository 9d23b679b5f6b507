package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "test-cx", r.URL.Query().Get("cx"))
		assert.Equal(t, "gym in Indore contact number", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("num"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{"title": "ABC Fitness Gym", "snippet": "Call 9876543210", "link": "https://example.com/abc"},
				{"title": "XYZ Gym", "snippet": "Open 24x7", "link": "https://example.com/xyz"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "test-cx", WithBaseURL(server.URL))
	results, err := client.Search(context.Background(), "gym in Indore contact number", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "ABC Fitness Gym", results[0].Title)
	assert.Equal(t, "Call 9876543210", results[0].Snippet)
	assert.Equal(t, "https://example.com/abc", results[0].Link)
}

func TestSearch_MissingCredentials(t *testing.T) {
	client := NewClient("", "")
	_, err := client.Search(context.Background(), "anything", 5)
	assert.Error(t, err)
}

func TestSearch_CapsResultCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("num"))
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "test-cx", WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), "anything", 25)
	require.NoError(t, err)
}

func TestSearch_DefaultsResultCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("num"))
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "test-cx", WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
}

func TestSearch_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "test-cx", WithBaseURL(server.URL))
	_, err := client.Search(context.Background(), "anything", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearch_NoItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "test-cx", WithBaseURL(server.URL))
	results, err := client.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", "test-cx", WithBaseURL(server.URL))
	_, err := client.Search(ctx, "anything", 5)
	assert.Error(t, err)
}
