// Package ranker orders scored articles and applies the profile's
// minimum-score and article-count limits.
package ranker

import (
	"sort"

	"hn-digest/models"
)

// Rank sorts articles by final score, highest first. Ties break on story
// ID ascending so equal scores still rank deterministically.
func Rank(articles []models.ScoredArticle) []models.ScoredArticle {
	ranked := make([]models.ScoredArticle, len(articles))
	copy(ranked, articles)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		return ranked[i].StoryID() < ranked[j].StoryID()
	})
	return ranked
}

// Apply ranks the articles, drops everything below the profile's minimum
// score, and then caps the result at the profile's article limit. The
// score filter runs before the cap so a low-scoring tail never displaces
// qualifying articles.
func Apply(articles []models.ScoredArticle, profile models.Profile) []models.ScoredArticle {
	ranked := Rank(articles)

	kept := make([]models.ScoredArticle, 0, len(ranked))
	for _, article := range ranked {
		if article.FinalScore >= profile.MinScore {
			kept = append(kept, article)
		}
	}

	if profile.MaxArticles > 0 && len(kept) > profile.MaxArticles {
		kept = kept[:profile.MaxArticles]
	}
	return kept
}
