package news

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/bilgisen/newscast/internal/logger"
	"github.com/bilgisen/newscast/internal/models"
	"github.com/go-resty/resty/v2"
)

const (
	pageSize     = 20
	language     = "en"
	previewCount = 5
)

// Client fetches recent articles for a topic from a NewsAPI-compatible endpoint.
type Client struct {
	client  *resty.Client
	apiKey  string
	baseURL string
}

type apiResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		URLToImage  string `json:"urlToImage"`
	} `json:"articles"`
}

// NewClient builds a client for the given base URL and API credential.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second),
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// FetchArticles retrieves up to one page of recent articles for the topic,
// newest first. Records without a title are dropped; a missing source name
// defaults to "Unknown". The upstream order is preserved.
func (c *Client) FetchArticles(ctx context.Context, topic string) ([]models.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("missing news API key")
	}

	log := logger.Get()
	log.Info().Str("topic", topic).Msg("Fetching top news")

	var result apiResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        topic,
			"language": language,
			"pageSize": strconv.Itoa(pageSize),
			"sortBy":   "publishedAt",
			"apiKey":   c.apiKey,
		}).
		SetResult(&result).
		SetError(&result).
		Get(c.baseURL)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		if result.Message != "" {
			return nil, fmt.Errorf("news API error (status %d): %s", resp.StatusCode(), result.Message)
		}
		return nil, fmt.Errorf("unexpected status code %d from news API", resp.StatusCode())
	}

	articles := make([]models.Article, 0, len(result.Articles))
	for _, raw := range result.Articles {
		if raw.Title == "" {
			continue
		}
		source := raw.Source.Name
		if source == "" {
			source = "Unknown"
		}
		articles = append(articles, models.Article{
			Title:       raw.Title,
			Description: raw.Description,
			Source:      source,
			Author:      raw.Author,
			URL:         raw.URL,
			PublishedAt: raw.PublishedAt,
			ImageURL:    raw.URLToImage,
		})
	}

	log.Info().
		Str("topic", topic).
		Int("fetched", len(articles)).
		Msg("Fetched articles")
	for i, art := range articles {
		if i >= previewCount {
			break
		}
		log.Info().
			Int("rank", i+1).
			Str("source", art.Source).
			Str("title", truncate(art.Title, 80)).
			Msg("Fetched article preview")
	}

	return articles, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
