// Package scoring assigns deterministic relevance and popularity scores to
// summarized articles. No randomness and no model calls; the same inputs
// always produce the same scores.
package scoring

import (
	"fmt"
	"sort"
	"strings"

	"hn-digest/models"
)

const weightEpsilon = 1e-9

// Score levels for tag-based relevance. A disinterest match dominates any
// interest overlap.
const (
	neutralScore     = 0.5
	disinterestScore = 0.1
)

// Config holds the scoring weights and the popularity normalization cap
// used when a batch has a single article.
type Config struct {
	RelevanceWeight  float64
	PopularityWeight float64
	PopularityCap    int
}

// Validate checks that the two weights form a weighted average.
func (c Config) Validate() error {
	sum := c.RelevanceWeight + c.PopularityWeight
	if sum < 1-weightEpsilon || sum > 1+weightEpsilon {
		return fmt.Errorf("scoring weights must sum to 1, got %g", sum)
	}
	if c.RelevanceWeight < 0 || c.PopularityWeight < 0 {
		return fmt.Errorf("scoring weights must be non-negative")
	}
	if c.PopularityCap <= 0 {
		return fmt.Errorf("popularity cap must be positive, got %d", c.PopularityCap)
	}
	return nil
}

// Scorer scores articles against a reader profile.
type Scorer struct {
	cfg Config
}

// New builds a Scorer. The config must already be validated.
func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Relevance scores one article's tags against the profile's interest and
// disinterest lists. Articles without tags, and profiles without
// preferences, score neutral.
func (s *Scorer) Relevance(article models.SummarizedArticle, profile models.Profile) models.RelevanceScore {
	tags := article.Tags()
	if len(tags) == 0 {
		return models.RelevanceScore{Score: neutralScore, Reason: "no tags to match"}
	}
	if !profile.HasPreferences() {
		return models.RelevanceScore{Score: neutralScore, Reason: "no preferences configured"}
	}

	matchedDisinterest := matchTags(tags, profile.DisinterestTags)
	if len(matchedDisinterest) > 0 {
		return models.RelevanceScore{
			Score:                  disinterestScore,
			Reason:                 "contains avoided topics: " + strings.Join(matchedDisinterest, ", "),
			MatchedDisinterestTags: matchedDisinterest,
		}
	}

	matchedInterest := matchTags(tags, profile.InterestTags)
	if len(matchedInterest) > 0 {
		score := neutralScore + 0.5*float64(len(matchedInterest))/float64(len(profile.InterestTags))
		return models.RelevanceScore{
			Score:               score,
			Reason:              "matches interests: " + strings.Join(matchedInterest, ", "),
			MatchedInterestTags: matchedInterest,
		}
	}

	return models.RelevanceScore{Score: neutralScore, Reason: "no specific interest match"}
}

// matchTags returns the profile tags present in the article's tag set, in
// sorted order so reasons are stable.
func matchTags(articleTags, profileTags []string) []string {
	if len(profileTags) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(articleTags))
	for _, tag := range articleTags {
		set[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}

	var matched []string
	for _, tag := range profileTags {
		if _, ok := set[tag]; ok {
			matched = append(matched, tag)
		}
	}
	sort.Strings(matched)
	return matched
}

// NormalizePopularity maps raw HN scores to [0,1] with min-max scaling over
// the batch. A batch of equal scores normalizes to 0.5 for everyone; a
// single article is scaled against the configured cap instead.
func (s *Scorer) NormalizePopularity(scores []int) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}
	if len(scores) == 1 {
		normalized := float64(scores[0]) / float64(s.cfg.PopularityCap)
		if normalized > 1 {
			normalized = 1
		}
		out[0] = normalized
		return out
	}

	min, max := scores[0], scores[0]
	for _, score := range scores[1:] {
		if score < min {
			min = score
		}
		if score > max {
			max = score
		}
	}
	if min == max {
		for i := range out {
			out[i] = neutralScore
		}
		return out
	}

	for i, score := range scores {
		out[i] = float64(score-min) / float64(max-min)
	}
	return out
}

// ScoreAll computes relevance, popularity and the final weighted score for
// every article in the batch. Input order is preserved.
func (s *Scorer) ScoreAll(articles []models.SummarizedArticle, profile models.Profile) []models.ScoredArticle {
	raw := make([]int, len(articles))
	for i, article := range articles {
		raw[i] = article.Article.HNScore
	}
	popularity := s.NormalizePopularity(raw)

	scored := make([]models.ScoredArticle, len(articles))
	for i, article := range articles {
		relevance := s.Relevance(article, profile)
		scored[i] = models.ScoredArticle{
			Article:         article,
			Relevance:       relevance,
			PopularityScore: popularity[i],
			FinalScore:      s.cfg.RelevanceWeight*relevance.Score + s.cfg.PopularityWeight*popularity[i],
		}
	}
	return scored
}
