package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/bilgisen/newscast/internal/cache"
	"github.com/bilgisen/newscast/internal/logger"
	"github.com/bilgisen/newscast/internal/models"
	"github.com/bilgisen/newscast/internal/publish"
	"github.com/bilgisen/newscast/internal/storage"
)

// Fetcher pulls recent articles for a topic.
type Fetcher interface {
	FetchArticles(ctx context.Context, topic string) ([]models.Article, error)
}

// Ranker scores and selects the top articles.
type Ranker interface {
	Rank(articles []models.Article) []models.Article
}

// Rewriter turns ranked articles into publishable pairs.
type Rewriter interface {
	Rewrite(ctx context.Context, articles []models.Article) ([]models.PublishPair, error)
}

// Publisher posts pairs to the platform.
type Publisher interface {
	Publish(ctx context.Context, pairs []models.PublishPair, opts publish.Options) ([]models.PublishResult, error)
}

// Archiver persists run reports.
type Archiver interface {
	SaveReport(ctx context.Context, report *models.RunReport) error
}

// Mirror uploads run reports to remote storage.
type Mirror interface {
	UploadReport(ctx context.Context, report *models.RunReport) error
}

// Options bound one pipeline run.
type Options struct {
	Topic    string
	AutoPost bool
	MaxPosts int
	CacheTTL time.Duration
}

// Deps wires the stage implementations into the pipeline. Cache, Archiver,
// and Mirror are optional; the four stages are required.
type Deps struct {
	Fetcher   Fetcher
	Ranker    Ranker
	Rewriter  Rewriter
	Publisher Publisher
	Cache     cache.Cache
	Archiver  Archiver
	Mirror    Mirror
}

// Pipeline runs the fixed linear flow: fetch, rank, rewrite, publish.
type Pipeline struct {
	fetcher   Fetcher
	ranker    Ranker
	rewriter  Rewriter
	publisher Publisher
	cache     cache.Cache
	archiver  Archiver
	mirror    Mirror
}

func New(deps Deps) *Pipeline {
	return &Pipeline{
		fetcher:   deps.Fetcher,
		ranker:    deps.Ranker,
		rewriter:  deps.Rewriter,
		publisher: deps.Publisher,
		cache:     deps.Cache,
		archiver:  deps.Archiver,
		mirror:    deps.Mirror,
	}
}

// Run executes one full pipeline pass and returns its report. Stage failures
// (fetch, rewrite, publish preconditions) abort the run; archive and mirror
// failures are logged and swallowed.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*models.RunReport, error) {
	log := logger.Get()
	start := time.Now().UTC()

	report := &models.RunReport{
		ID:        storage.NewReportID(start),
		Topic:     opts.Topic,
		AutoPost:  opts.AutoPost,
		StartedAt: start,
	}

	log.Info().
		Str("run_id", report.ID).
		Str("topic", opts.Topic).
		Bool("auto_post", opts.AutoPost).
		Msg("Starting pipeline run")

	articles, err := p.fetcher.FetchArticles(ctx, opts.Topic)
	if err != nil {
		return nil, fmt.Errorf("fetch stage: %w", err)
	}
	report.FetchedCount = len(articles)

	articles = p.filterAlreadyPosted(ctx, articles)

	top := p.ranker.Rank(articles)
	report.RankedCount = len(top)

	pairs, err := p.rewriter.Rewrite(ctx, top)
	if err != nil {
		return nil, fmt.Errorf("rewrite stage: %w", err)
	}
	report.RewrittenCount = len(pairs)

	results, err := p.publisher.Publish(ctx, pairs, publish.Options{
		AutoPost: opts.AutoPost,
		MaxPosts: opts.MaxPosts,
	})
	if err != nil {
		return nil, fmt.Errorf("publish stage: %w", err)
	}
	report.Results = results

	for i, res := range results {
		if !res.Success {
			continue
		}
		report.PostedCount++
		p.markPosted(ctx, pairs[i].Article.URL, opts.CacheTTL)
	}

	report.FinishedAt = time.Now().UTC()
	p.archive(ctx, report)

	log.Info().
		Str("run_id", report.ID).
		Int("generated", report.RewrittenCount).
		Int("posted", report.PostedCount).
		Dur("duration", report.FinishedAt.Sub(report.StartedAt)).
		Msg("Flow finished")

	return report, nil
}

// filterAlreadyPosted drops articles published in a previous run. Cache
// failures degrade to "not seen"; dedupe is never run-fatal.
func (p *Pipeline) filterAlreadyPosted(ctx context.Context, articles []models.Article) []models.Article {
	if p.cache == nil {
		return articles
	}

	log := logger.Get()
	fresh := make([]models.Article, 0, len(articles))
	skipped := 0

	for _, article := range articles {
		if article.URL == "" {
			fresh = append(fresh, article)
			continue
		}
		posted, err := p.cache.IsPosted(ctx, article.URL)
		if err != nil {
			log.Warn().
				Err(err).
				Str("url", article.URL).
				Msg("Cache lookup failed, treating as unseen")
			fresh = append(fresh, article)
			continue
		}
		if posted {
			skipped++
			continue
		}
		fresh = append(fresh, article)
	}

	if skipped > 0 {
		log.Info().
			Int("skipped", skipped).
			Int("remaining", len(fresh)).
			Msg("Filtered already-posted articles")
	}

	return fresh
}

func (p *Pipeline) markPosted(ctx context.Context, url string, ttl time.Duration) {
	if p.cache == nil || url == "" {
		return
	}
	if err := p.cache.MarkPosted(ctx, url, ttl); err != nil {
		logger.Get().Warn().
			Err(err).
			Str("url", url).
			Msg("Failed to mark article as posted")
	}
}

func (p *Pipeline) archive(ctx context.Context, report *models.RunReport) {
	log := logger.Get()

	if p.archiver != nil {
		if err := p.archiver.SaveReport(ctx, report); err != nil {
			log.Error().
				Err(err).
				Str("run_id", report.ID).
				Msg("Failed to archive run report")
		}
	}

	if p.mirror != nil {
		if err := p.mirror.UploadReport(ctx, report); err != nil {
			log.Error().
				Err(err).
				Str("run_id", report.ID).
				Msg("Failed to mirror run report")
		}
	}
}
