package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bilgisen/newscast/internal/cache"
	"github.com/bilgisen/newscast/internal/models"
	"github.com/bilgisen/newscast/internal/publish"
	"github.com/bilgisen/newscast/internal/rank"
	"github.com/bilgisen/newscast/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	articles []models.Article
	err      error
}

func (f *fakeFetcher) FetchArticles(ctx context.Context, topic string) ([]models.Article, error) {
	return f.articles, f.err
}

type fakeRewriter struct {
	err error
}

func (f *fakeRewriter) Rewrite(ctx context.Context, articles []models.Article) ([]models.PublishPair, error) {
	if f.err != nil {
		return nil, f.err
	}
	pairs := make([]models.PublishPair, 0, len(articles))
	for _, a := range articles {
		pairs = append(pairs, models.PublishPair{Article: a, Text: "post: " + a.Title})
	}
	return pairs, nil
}

type fakeSocial struct {
	nextID int
}

func (f *fakeSocial) UploadMedia(ctx context.Context, path string) (string, error) {
	return "media-1", nil
}

func (f *fakeSocial) CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error) {
	f.nextID++
	return fmt.Sprintf("%d", f.nextID), nil
}

func (f *fakeSocial) PostURL(id string) string {
	return "https://x.com/newsbot/status/" + id
}

func fixtureArticles() []models.Article {
	return []models.Article{
		{
			Title:       "stale obscure item",
			Source:      "Random Site",
			URL:         "https://example.com/stale",
			PublishedAt: now.Add(-240 * time.Hour).Format(time.RFC3339),
		},
		{
			Title:       "fresh bbc item",
			Source:      "BBC News",
			URL:         "https://example.com/fresh",
			PublishedAt: now.Add(-time.Hour).Format(time.RFC3339),
		},
	}
}

func newTestPipeline(t *testing.T, fetcher Fetcher, rewriter Rewriter, c cache.Cache) *Pipeline {
	t.Helper()
	store, err := storage.NewStorage(t.TempDir())
	require.NoError(t, err)

	return New(Deps{
		Fetcher:   fetcher,
		Ranker:    rank.NewRankerAt(now),
		Rewriter:  rewriter,
		Publisher: publish.NewPublisher(&fakeSocial{}),
		Cache:     c,
		Archiver:  store,
	})
}

func TestRunPreviewMode(t *testing.T) {
	p := newTestPipeline(t, &fakeFetcher{articles: fixtureArticles()}, &fakeRewriter{}, nil)

	report, err := p.Run(context.Background(), Options{Topic: "economy", AutoPost: false, MaxPosts: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, report.FetchedCount)
	assert.Equal(t, 2, report.RankedCount)
	assert.Equal(t, 2, report.RewrittenCount)
	assert.Equal(t, 0, report.PostedCount)
	require.Len(t, report.Results, 2)
	for _, res := range report.Results {
		assert.False(t, res.Success)
		assert.Equal(t, publish.PreviewError, res.Error)
	}
	assert.NotEmpty(t, report.FilePath, "report archived to disk")
}

func TestRunLiveModeOrdersByScore(t *testing.T) {
	p := newTestPipeline(t, &fakeFetcher{articles: fixtureArticles()}, &fakeRewriter{}, nil)

	report, err := p.Run(context.Background(), Options{Topic: "economy", AutoPost: true, MaxPosts: 2})
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, 2, report.PostedCount)

	// BBC item outranks the stale unlisted one, so it is posted first.
	assert.Contains(t, report.Results[0].Text, "fresh bbc item")
	assert.Contains(t, report.Results[0].Text, "https://example.com/fresh")
	assert.Contains(t, report.Results[1].Text, "stale obscure item")
	assert.Equal(t, "https://x.com/newsbot/status/1", report.Results[0].PostURL)
}

func TestRunMarksAndSkipsPostedArticles(t *testing.T) {
	c := cache.NewMemoryCache()
	p := newTestPipeline(t, &fakeFetcher{articles: fixtureArticles()}, &fakeRewriter{}, c)

	ctx := context.Background()
	opts := Options{Topic: "economy", AutoPost: true, MaxPosts: 2, CacheTTL: time.Hour}

	first, err := p.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, first.PostedCount)

	second, err := p.Run(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, second.FetchedCount)
	assert.Equal(t, 0, second.RankedCount, "both URLs already posted")
	assert.Empty(t, second.Results)
}

func TestRunFetchFailureIsFatal(t *testing.T) {
	p := newTestPipeline(t, &fakeFetcher{err: fmt.Errorf("upstream down")}, &fakeRewriter{}, nil)

	_, err := p.Run(context.Background(), Options{Topic: "economy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch stage")
}

func TestRunRewriteFailureIsFatal(t *testing.T) {
	p := newTestPipeline(t, &fakeFetcher{articles: fixtureArticles()}, &fakeRewriter{err: fmt.Errorf("model down")}, nil)

	_, err := p.Run(context.Background(), Options{Topic: "economy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rewrite stage")
}
