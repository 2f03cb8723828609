package social

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
)

const (
	defaultAPIBaseURL    = "https://api.twitter.com"
	defaultUploadBaseURL = "https://upload.twitter.com"
)

// Config carries the OAuth 1.0a user-context credentials for the platform.
type Config struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
	Handle       string

	// Overridable for tests; defaults applied when empty.
	APIBaseURL    string
	UploadBaseURL string
}

// Client posts to the X API: media upload on the v1.1 endpoint, post
// creation on v2. All requests are signed with OAuth 1.0a.
type Client struct {
	api    *resty.Client
	upload *resty.Client
	handle string
}

type mediaUploadResponse struct {
	MediaIDString string `json:"media_id_string"`
}

type createPostRequest struct {
	Text  string     `json:"text"`
	Media *postMedia `json:"media,omitempty"`
}

type postMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type createPostResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// NewClient builds a signed client. All four credentials are required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" || cfg.AccessToken == "" || cfg.AccessSecret == "" {
		return nil, fmt.Errorf("incomplete platform credentials")
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.UploadBaseURL == "" {
		cfg.UploadBaseURL = defaultUploadBaseURL
	}
	if cfg.Handle == "" {
		cfg.Handle = "user"
	}

	oauthCfg := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
	httpClient := oauthCfg.Client(oauth1.NoContext, token)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		api:    resty.NewWithClient(httpClient).SetBaseURL(cfg.APIBaseURL),
		upload: resty.NewWithClient(httpClient).SetBaseURL(cfg.UploadBaseURL),
		handle: cfg.Handle,
	}, nil
}

// UploadMedia uploads the image file at path and returns the platform media id.
func (c *Client) UploadMedia(ctx context.Context, path string) (string, error) {
	var result mediaUploadResponse
	resp, err := c.upload.R().
		SetContext(ctx).
		SetFile("media", path).
		SetResult(&result).
		Post("/1.1/media/upload.json")

	if err != nil {
		return "", fmt.Errorf("media upload failed: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return "", fmt.Errorf("media upload error: status %d", resp.StatusCode())
	}
	if result.MediaIDString == "" {
		return "", fmt.Errorf("media upload returned no media id")
	}

	return result.MediaIDString, nil
}

// CreatePost publishes text with optional attached media and returns the
// platform-assigned post id.
func (c *Client) CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error) {
	req := createPostRequest{Text: text}
	if len(mediaIDs) > 0 {
		req.Media = &postMedia{MediaIDs: mediaIDs}
	}

	var result createPostResponse
	resp, err := c.api.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result).
		SetError(&result).
		Post("/2/tweets")

	if err != nil {
		return "", fmt.Errorf("create post failed: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		if result.Detail != "" {
			return "", fmt.Errorf("create post error: %s", result.Detail)
		}
		return "", fmt.Errorf("create post error: status %d", resp.StatusCode())
	}
	if result.Data.ID == "" {
		return "", fmt.Errorf("create post returned no id")
	}

	return result.Data.ID, nil
}

// PostURL builds the canonical public URL for a post id.
func (c *Client) PostURL(id string) string {
	return fmt.Sprintf("https://x.com/%s/status/%s", c.handle, id)
}
