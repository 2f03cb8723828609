package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchArticles(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":        q.Get("q"),
			"language": q.Get("language"),
			"pageSize": q.Get("pageSize"),
			"sortBy":   q.Get("sortBy"),
			"apiKey":   q.Get("apiKey"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"title": "Markets rally on rate cut hopes",
					"description": "Stocks climbed on Monday.",
					"source": {"name": "Reuters"},
					"author": "Jane Smith",
					"url": "https://example.com/markets",
					"publishedAt": "2026-08-24T08:00:00Z",
					"urlToImage": "https://example.com/markets.jpg"
				},
				{
					"title": "",
					"description": "No headline here",
					"source": {"name": "CNN"},
					"url": "https://example.com/untitled"
				},
				{
					"title": "Local festival draws crowds",
					"description": "",
					"source": {"name": ""},
					"url": "https://example.com/festival",
					"publishedAt": "2026-08-23T10:00:00Z"
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	articles, err := client.FetchArticles(context.Background(), "economy")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"q":        "economy",
		"language": "en",
		"pageSize": "20",
		"sortBy":   "publishedAt",
		"apiKey":   "test-key",
	}, gotQuery)

	// Title-less record dropped, order preserved.
	require.Len(t, articles, 2)
	assert.Equal(t, "Markets rally on rate cut hopes", articles[0].Title)
	assert.Equal(t, "Reuters", articles[0].Source)
	assert.Equal(t, "Jane Smith", articles[0].Author)
	assert.Equal(t, "https://example.com/markets.jpg", articles[0].ImageURL)

	// Missing source name defaults to Unknown, missing image stays empty.
	assert.Equal(t, "Unknown", articles[1].Source)
	assert.Empty(t, articles[1].ImageURL)
	assert.Zero(t, articles[0].PriorityScore)
}

func TestFetchArticlesMissingKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call expected when the API key is missing")
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.FetchArticles(context.Background(), "economy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing news API key")
}

func TestFetchArticlesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"apiKey invalid"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key")
	_, err := client.FetchArticles(context.Background(), "economy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKey invalid")
}
