package publish

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bilgisen/newscast/internal/logger"
	"github.com/bilgisen/newscast/internal/models"
	"github.com/go-resty/resty/v2"
)

// PreviewError is the error recorded on every result when auto-post is off.
const PreviewError = "Auto-post disabled"

const imageFetchTimeout = 10 * time.Second

// MediaState tracks the per-item image fallback progression.
type MediaState string

const (
	MediaNotAttempted MediaState = "not_attempted"
	MediaFetched      MediaState = "fetched"
	MediaSkipped      MediaState = "skipped"
)

// SocialClient is the platform surface the publisher needs.
type SocialClient interface {
	UploadMedia(ctx context.Context, path string) (string, error)
	CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error)
	PostURL(id string) string
}

// Options bound one publish invocation.
type Options struct {
	AutoPost bool
	MaxPosts int
}

// Publisher posts rewritten pairs to the platform with image-attachment
// fallback and per-item failure isolation.
type Publisher struct {
	social SocialClient
	images *resty.Client
}

func NewPublisher(social SocialClient) *Publisher {
	return &Publisher{
		social: social,
		images: resty.New().SetTimeout(imageFetchTimeout),
	}
}

// Publish attempts at most min(opts.MaxPosts, len(pairs)) pairs from the
// front, in order, and returns exactly one result per attempted pair.
//
// With auto-post disabled it never touches the platform: every attempted pair
// gets a preview result carrying the original text with no URL appended. With
// auto-post enabled an uninitialized platform client is a fatal configuration
// error; a failed post is not, and never affects sibling pairs.
func (p *Publisher) Publish(ctx context.Context, pairs []models.PublishPair, opts Options) ([]models.PublishResult, error) {
	log := logger.Get()

	limit := opts.MaxPosts
	if limit > len(pairs) {
		limit = len(pairs)
	}
	if limit < 0 {
		limit = 0
	}
	attempts := pairs[:limit]

	if !opts.AutoPost {
		log.Warn().Msg("Auto-post disabled, showing preview only")
		results := make([]models.PublishResult, 0, len(attempts))
		for _, pair := range attempts {
			results = append(results, models.PublishResult{
				Text:  pair.Text,
				Error: PreviewError,
			})
		}
		return results, nil
	}

	if p.social == nil {
		return nil, fmt.Errorf("platform client not initialized")
	}

	log.Info().Int("limit", limit).Msg("Posting with image fallback")

	results := make([]models.PublishResult, 0, len(attempts))
	for i, pair := range attempts {
		fullText := pair.Text + "\n\n" + pair.Article.URL

		mediaID, state := p.resolveMedia(ctx, pair.Article)

		var mediaIDs []string
		if mediaID != "" {
			mediaIDs = []string{mediaID}
		}

		postID, err := p.social.CreatePost(ctx, fullText, mediaIDs)
		if err != nil {
			log.Error().
				Err(err).
				Int("item", i+1).
				Msg("Error posting")
			results = append(results, models.PublishResult{
				Text:  fullText,
				Error: err.Error(),
			})
			continue
		}

		log.Info().
			Int("item", i+1).
			Str("post_id", postID).
			Str("media_state", string(state)).
			Msg("Posted")
		results = append(results, models.PublishResult{
			Text:    fullText,
			PostID:  postID,
			PostURL: p.social.PostURL(postID),
			Success: true,
		})
	}

	return results, nil
}

// resolveMedia runs the best-effort image chain: fetch the article image with
// a bounded timeout, spill it to a scoped temp file, upload it, and return the
// media id. Every failure degrades to a text-only post; nothing here is fatal.
func (p *Publisher) resolveMedia(ctx context.Context, article models.Article) (string, MediaState) {
	log := logger.Get()

	if article.ImageURL == "" {
		return "", MediaNotAttempted
	}

	resp, err := p.images.R().SetContext(ctx).Get(article.ImageURL)
	if err != nil {
		log.Warn().
			Err(err).
			Str("image_url", article.ImageURL).
			Msg("Image fetch failed, using text-only fallback")
		return "", MediaSkipped
	}
	if resp.StatusCode() != http.StatusOK {
		log.Warn().
			Int("status", resp.StatusCode()).
			Str("image_url", article.ImageURL).
			Msg("Image fetch failed, using text-only fallback")
		return "", MediaSkipped
	}

	tmp, err := os.CreateTemp("", "newscast-media-*.jpg")
	if err != nil {
		log.Warn().Err(err).Msg("Temp file failed, using text-only fallback")
		return "", MediaSkipped
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(resp.Body()); err != nil {
		tmp.Close()
		log.Warn().Err(err).Msg("Temp file write failed, using text-only fallback")
		return "", MediaSkipped
	}
	if err := tmp.Close(); err != nil {
		log.Warn().Err(err).Msg("Temp file close failed, using text-only fallback")
		return "", MediaSkipped
	}

	mediaID, err := p.social.UploadMedia(ctx, tmp.Name())
	if err != nil {
		log.Warn().
			Err(err).
			Str("image_url", article.ImageURL).
			Msg("Image upload failed, using text-only fallback")
		return "", MediaSkipped
	}

	log.Info().Str("media_id", mediaID).Msg("Uploaded image")
	return mediaID, MediaFetched
}
