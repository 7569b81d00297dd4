package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hn-digest/models"
)

func defaultConfig() Config {
	return Config{RelevanceWeight: 0.7, PopularityWeight: 0.3, PopularityCap: 500}
}

func summarized(id int64, hnScore int, tags ...string) models.SummarizedArticle {
	sa := models.SummarizedArticle{
		Article: models.Article{StoryID: id, HNScore: hnScore, Status: models.ExtractionSuccess},
		Status:  models.SummarizeSuccess,
	}
	if len(tags) > 0 {
		sa.Summary = &models.ArticleSummary{
			Summary:   "A summary long enough to pass validation checks.",
			KeyPoints: []string{"point"},
			TechTags:  tags,
		}
	}
	return sa
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, defaultConfig().Validate())
	assert.NoError(t, Config{RelevanceWeight: 0.5, PopularityWeight: 0.5, PopularityCap: 100}.Validate())

	assert.Error(t, Config{RelevanceWeight: 0.7, PopularityWeight: 0.7, PopularityCap: 500}.Validate())
	assert.Error(t, Config{RelevanceWeight: 1.5, PopularityWeight: -0.5, PopularityCap: 500}.Validate())
	assert.Error(t, Config{RelevanceWeight: 0.7, PopularityWeight: 0.3}.Validate())
}

func TestRelevance(t *testing.T) {
	scorer := New(defaultConfig())
	profile := models.Profile{
		InterestTags:    []string{"golang", "databases"},
		DisinterestTags: []string{"crypto"},
	}

	t.Run("no tags", func(t *testing.T) {
		rel := scorer.Relevance(summarized(1, 100), profile)
		assert.Equal(t, 0.5, rel.Score)
		assert.Equal(t, "no tags to match", rel.Reason)
	})

	t.Run("no preferences", func(t *testing.T) {
		rel := scorer.Relevance(summarized(1, 100, "golang"), models.Profile{})
		assert.Equal(t, 0.5, rel.Score)
		assert.Equal(t, "no preferences configured", rel.Reason)
	})

	t.Run("disinterest dominates interest", func(t *testing.T) {
		rel := scorer.Relevance(summarized(1, 100, "golang", "crypto"), profile)
		assert.Equal(t, 0.1, rel.Score)
		assert.Equal(t, "contains avoided topics: crypto", rel.Reason)
		assert.Equal(t, []string{"crypto"}, rel.MatchedDisinterestTags)
	})

	t.Run("partial interest match", func(t *testing.T) {
		rel := scorer.Relevance(summarized(1, 100, "golang", "kubernetes"), profile)
		assert.InDelta(t, 0.75, rel.Score, 1e-9)
		assert.Equal(t, "matches interests: golang", rel.Reason)
		assert.Equal(t, []string{"golang"}, rel.MatchedInterestTags)
	})

	t.Run("full interest match", func(t *testing.T) {
		rel := scorer.Relevance(summarized(1, 100, "databases", "golang"), profile)
		assert.InDelta(t, 1.0, rel.Score, 1e-9)
		assert.Equal(t, "matches interests: databases, golang", rel.Reason)
	})

	t.Run("no overlap", func(t *testing.T) {
		rel := scorer.Relevance(summarized(1, 100, "rust", "gamedev"), profile)
		assert.Equal(t, 0.5, rel.Score)
		assert.Equal(t, "no specific interest match", rel.Reason)
	})
}

func TestRelevanceMoreMatchesScoreHigher(t *testing.T) {
	scorer := New(defaultConfig())
	profile := models.Profile{InterestTags: []string{"golang", "databases", "security"}}

	one := scorer.Relevance(summarized(1, 0, "golang"), profile)
	two := scorer.Relevance(summarized(2, 0, "golang", "databases"), profile)
	three := scorer.Relevance(summarized(3, 0, "golang", "databases", "security"), profile)

	assert.Less(t, one.Score, two.Score)
	assert.Less(t, two.Score, three.Score)
	assert.InDelta(t, 1.0, three.Score, 1e-9)
}

func TestNormalizePopularity(t *testing.T) {
	scorer := New(defaultConfig())

	t.Run("min max scaling", func(t *testing.T) {
		out := scorer.NormalizePopularity([]int{100, 800, 450})
		assert.Equal(t, 0.0, out[0])
		assert.Equal(t, 1.0, out[1])
		assert.InDelta(t, 0.5, out[2], 1e-9)
	})

	t.Run("all equal", func(t *testing.T) {
		out := scorer.NormalizePopularity([]int{300, 300, 300})
		for _, v := range out {
			assert.Equal(t, 0.5, v)
		}
	})

	t.Run("single article uses cap", func(t *testing.T) {
		assert.InDelta(t, 0.2, scorer.NormalizePopularity([]int{100})[0], 1e-9)
		assert.Equal(t, 1.0, scorer.NormalizePopularity([]int{2000})[0])
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, scorer.NormalizePopularity(nil))
	})
}

func TestScoreAll(t *testing.T) {
	scorer := New(defaultConfig())
	profile := models.Profile{
		InterestTags:    []string{"golang"},
		DisinterestTags: []string{"crypto"},
	}

	articles := []models.SummarizedArticle{
		summarized(1, 200, "golang"),
		summarized(2, 800, "crypto"),
		summarized(3, 100, "rust"),
	}
	scored := scorer.ScoreAll(articles, profile)
	require.Len(t, scored, 3)

	assert.InDelta(t, 1.0, scored[0].Relevance.Score, 1e-9)
	assert.InDelta(t, 1.0/7.0, scored[0].PopularityScore, 1e-9)
	assert.InDelta(t, 0.743, scored[0].FinalScore, 1e-3)

	assert.InDelta(t, 0.1, scored[1].Relevance.Score, 1e-9)
	assert.InDelta(t, 1.0, scored[1].PopularityScore, 1e-9)
	assert.InDelta(t, 0.37, scored[1].FinalScore, 1e-3)

	assert.InDelta(t, 0.5, scored[2].Relevance.Score, 1e-9)
	assert.InDelta(t, 0.0, scored[2].PopularityScore, 1e-9)
	assert.InDelta(t, 0.35, scored[2].FinalScore, 1e-3)
}

func TestScoreAllWorkedExample(t *testing.T) {
	scorer := New(defaultConfig())
	profile := models.Profile{
		InterestTags:    []string{"python", "ai"},
		DisinterestTags: []string{"crypto"},
		MinScore:        0.3,
		MaxArticles:     2,
	}

	scored := scorer.ScoreAll([]models.SummarizedArticle{
		summarized(1, 100, "python", "ai"),
		summarized(2, 400, "crypto"),
		summarized(3, 50),
	}, profile)

	assert.InDelta(t, 1.0, scored[0].Relevance.Score, 1e-9)
	assert.InDelta(t, 0.1, scored[1].Relevance.Score, 1e-9)
	assert.InDelta(t, 0.5, scored[2].Relevance.Score, 1e-9)

	// min-max over [100, 400, 50], range 350
	assert.InDelta(t, 0.143, scored[0].PopularityScore, 1e-3)
	assert.InDelta(t, 1.0, scored[1].PopularityScore, 1e-9)
	assert.InDelta(t, 0.0, scored[2].PopularityScore, 1e-9)

	assert.InDelta(t, 0.743, scored[0].FinalScore, 1e-3)
	assert.InDelta(t, 0.37, scored[1].FinalScore, 1e-3)
	assert.InDelta(t, 0.35, scored[2].FinalScore, 1e-3)
}

func TestScoreAllEmptyProfileFollowsPopularity(t *testing.T) {
	scorer := New(defaultConfig())

	scored := scorer.ScoreAll([]models.SummarizedArticle{
		summarized(1, 50, "golang"),
		summarized(2, 400, "crypto"),
		summarized(3, 100, "rust"),
	}, models.Profile{})

	for _, s := range scored {
		assert.Equal(t, 0.5, s.Relevance.Score)
	}
	// With relevance flat, the final ordering is popularity alone.
	assert.Greater(t, scored[1].FinalScore, scored[2].FinalScore)
	assert.Greater(t, scored[2].FinalScore, scored[0].FinalScore)
}

func TestScoreAllDeterministic(t *testing.T) {
	scorer := New(defaultConfig())
	profile := models.Profile{InterestTags: []string{"golang", "ai"}}
	articles := []models.SummarizedArticle{
		summarized(1, 120, "golang", "compilers"),
		summarized(2, 340, "ai"),
		summarized(3, 45),
	}

	first := scorer.ScoreAll(articles, profile)
	second := scorer.ScoreAll(articles, profile)
	assert.Equal(t, first, second)

	for _, s := range first {
		assert.GreaterOrEqual(t, s.FinalScore, 0.0)
		assert.LessOrEqual(t, s.FinalScore, 1.0)
	}
}
