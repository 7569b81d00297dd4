// Package pipeline orchestrates one digest run: fetch, extract, filter,
// summarize, score, rank, format. Item-level failures are absorbed into
// per-article status; only an invalid profile, an unreachable listing or
// cancellation terminate a run without a digest.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hn-digest/digest"
	"hn-digest/events"
	"hn-digest/internal/logger"
	"hn-digest/models"
	"hn-digest/ranker"
	"hn-digest/scoring"
)

// ErrCancelled is returned when the run's context is cancelled. No digest
// is produced, not even a partial one.
var ErrCancelled = errors.New("digest run cancelled")

// Lister fetches the story listing for a profile's fetch type.
type Lister interface {
	FetchStories(ctx context.Context, storyType models.StoryType, count int) ([]models.Story, error)
}

// Extractor turns one story into an Article. It never returns an error;
// failures are carried in the Article's status.
type Extractor interface {
	Extract(ctx context.Context, story models.Story) models.Article
}

// Summarizer summarizes extracted articles in batches.
type Summarizer interface {
	SummarizeAll(ctx context.Context, articles []models.Article) ([]models.SummarizedArticle, error)
}

// Config controls the run's concurrency and scoring.
type Config struct {
	MaxConcurrentExtractions int
	Scoring                  scoring.Config
}

// Pipeline wires the stages together. Construct once, Run per digest.
type Pipeline struct {
	lister     Lister
	extractor  Extractor
	summarizer Summarizer
	scorer     *scoring.Scorer
	sink       events.Sink
	cfg        Config
}

// New builds a Pipeline. A nil sink is replaced by a no-op one.
func New(lister Lister, extractor Extractor, summarizer Summarizer, sink events.Sink, cfg Config) (*Pipeline, error) {
	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentExtractions <= 0 {
		cfg.MaxConcurrentExtractions = 10
	}
	if sink == nil {
		sink = events.NopSink{}
	}
	return &Pipeline{
		lister:     lister,
		extractor:  extractor,
		summarizer: summarizer,
		scorer:     scoring.New(cfg.Scoring),
		sink:       sink,
		cfg:        cfg,
	}, nil
}

// Run produces one digest for the given profile. The profile is validated
// before any network I/O. On success the digest is also delivered to the
// sink; on a fatal error or cancellation the matching terminal record is
// emitted and no digest is returned.
func (p *Pipeline) Run(ctx context.Context, profile models.Profile) (*models.Digest, error) {
	started := time.Now()

	profile.Normalize()
	if err := profile.Validate(); err != nil {
		err = fmt.Errorf("invalid profile: %w", err)
		p.sink.OnError(err.Error())
		return nil, err
	}

	stories, err := p.lister.FetchStories(ctx, profile.FetchType, profile.FetchCount)
	if err != nil {
		if cancelled(ctx, err) {
			p.sink.OnCancelled()
			return nil, ErrCancelled
		}
		err = fmt.Errorf("fetch listing: %w", err)
		p.sink.OnError(err.Error())
		return nil, err
	}
	p.sink.OnStage(events.StageFetching, fmt.Sprintf("fetched %d stories", len(stories)))

	articles, err := p.extractAll(ctx, stories)
	if err != nil {
		p.sink.OnCancelled()
		return nil, ErrCancelled
	}
	extractionErrors := countExtractionFailures(articles)
	p.sink.OnStage(events.StageExtracting,
		fmt.Sprintf("extracted %d/%d stories", len(articles)-extractionErrors, len(articles)))

	filtered := Filter(articles)
	p.sink.OnStage(events.StageFiltering,
		fmt.Sprintf("%d articles with content", len(filtered)))

	summarized, err := p.summarizer.SummarizeAll(ctx, filtered)
	if err != nil {
		p.sink.OnCancelled()
		return nil, ErrCancelled
	}
	summarizationErrors := countSummarizationFailures(summarized)
	p.sink.OnStage(events.StageSummarizing,
		fmt.Sprintf("summarized %d/%d articles", len(summarized)-summarizationErrors, len(summarized)))

	scored := p.scorer.ScoreAll(summarized, profile)
	p.sink.OnStage(events.StageScoring, fmt.Sprintf("scored %d articles", len(scored)))

	ranked := ranker.Apply(scored, profile)
	p.sink.OnStage(events.StageRanking,
		fmt.Sprintf("%d articles above score %.2f", len(ranked), profile.MinScore))

	if err := ctx.Err(); err != nil {
		p.sink.OnCancelled()
		return nil, ErrCancelled
	}

	result := digest.Build(ranked, models.DigestStats{
		Fetched:          len(stories),
		Filtered:         len(filtered),
		Errors:           extractionErrors + summarizationErrors,
		GenerationTimeMS: time.Since(started).Milliseconds(),
	})
	p.sink.OnStage(events.StageFormatting, fmt.Sprintf("digest with %d articles", result.Stats.Final))

	logger.InfoWithFields("digest run finished", logger.Fields{
		"fetched":    result.Stats.Fetched,
		"filtered":   result.Stats.Filtered,
		"final":      result.Stats.Final,
		"errors":     result.Stats.Errors,
		"elapsed_ms": result.Stats.GenerationTimeMS,
	})
	p.sink.OnComplete(result)
	return result, nil
}

// extractAll fans the stories out over a bounded worker pool and collects
// results back into story order. Returns an error only on cancellation;
// results of in-flight tasks are discarded with the run.
func (p *Pipeline) extractAll(ctx context.Context, stories []models.Story) ([]models.Article, error) {
	if len(stories) == 0 {
		return nil, ctx.Err()
	}

	workers := p.cfg.MaxConcurrentExtractions
	if workers > len(stories) {
		workers = len(stories)
	}

	type job struct {
		index int
		story models.Story
	}
	jobs := make(chan job)
	results := make([]models.Article, len(stories))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					return
				}
				results[j.index] = p.extractor.Extract(ctx, j.story)
			}
		}()
	}

dispatch:
	for i, story := range stories {
		select {
		case jobs <- job{index: i, story: story}:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Filter keeps only the articles whose extraction succeeded with content.
// Filtering is idempotent: running it twice yields the same result.
func Filter(articles []models.Article) []models.Article {
	kept := make([]models.Article, 0, len(articles))
	for _, article := range articles {
		if article.Status == models.ExtractionSuccess && article.Content != "" {
			kept = append(kept, article)
		}
	}
	return kept
}

func countExtractionFailures(articles []models.Article) int {
	n := 0
	for _, article := range articles {
		if article.Status != models.ExtractionSuccess {
			n++
		}
	}
	return n
}

func countSummarizationFailures(articles []models.SummarizedArticle) int {
	n := 0
	for _, article := range articles {
		if article.Status != models.SummarizeSuccess {
			n++
		}
	}
	return n
}

func cancelled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
