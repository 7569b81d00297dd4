package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hn-digest/models"
)

func scored(id int64, final float64) models.ScoredArticle {
	return models.ScoredArticle{
		Article: models.SummarizedArticle{
			Article: models.Article{StoryID: id},
		},
		FinalScore: final,
	}
}

func ids(articles []models.ScoredArticle) []int64 {
	out := make([]int64, len(articles))
	for i, a := range articles {
		out[i] = a.StoryID()
	}
	return out
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	input := []models.ScoredArticle{
		scored(1, 0.35),
		scored(2, 0.91),
		scored(3, 0.62),
	}
	ranked := Rank(input)

	assert.Equal(t, []int64{2, 3, 1}, ids(ranked))
	assert.Equal(t, []int64{1, 2, 3}, ids(input), "input left untouched")
}

func TestRankTieBreaksOnStoryID(t *testing.T) {
	ranked := Rank([]models.ScoredArticle{
		scored(42, 0.5),
		scored(7, 0.5),
		scored(19, 0.5),
	})
	assert.Equal(t, []int64{7, 19, 42}, ids(ranked))
}

func TestApplyFiltersBeforeCapping(t *testing.T) {
	// Five qualify, cap is three: the cap must keep the top three of the
	// qualifying set, not of the raw ranking.
	input := []models.ScoredArticle{
		scored(1, 0.9),
		scored(2, 0.2),
		scored(3, 0.8),
		scored(4, 0.7),
		scored(5, 0.6),
		scored(6, 0.5),
	}
	profile := models.Profile{MinScore: 0.4, MaxArticles: 3}

	kept := Apply(input, profile)
	require.Len(t, kept, 3)
	assert.Equal(t, []int64{1, 3, 4}, ids(kept))
}

func TestApplyMinScoreInclusive(t *testing.T) {
	kept := Apply([]models.ScoredArticle{scored(1, 0.4), scored(2, 0.39)}, models.Profile{MinScore: 0.4, MaxArticles: 10})
	assert.Equal(t, []int64{1}, ids(kept))
}

func TestApplyAllFilteredOut(t *testing.T) {
	kept := Apply([]models.ScoredArticle{scored(1, 0.1), scored(2, 0.2)}, models.Profile{MinScore: 0.9, MaxArticles: 10})
	assert.Empty(t, kept)
}

func TestApplyEmptyInput(t *testing.T) {
	assert.Empty(t, Apply(nil, models.Profile{MinScore: 0, MaxArticles: 5}))
}
