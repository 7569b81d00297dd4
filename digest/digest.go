// Package digest assembles the final output of a pipeline run.
package digest

import (
	"fmt"
	"strings"
	"time"

	"hn-digest/models"
)

// Build assembles the digest from the ranked, capped article list and the
// run's funnel statistics.
func Build(articles []models.ScoredArticle, stats models.DigestStats) *models.Digest {
	if articles == nil {
		articles = []models.ScoredArticle{}
	}
	stats.Final = len(articles)
	return &models.Digest{
		Articles:  articles,
		Timestamp: time.Now().UTC(),
		Stats:     stats,
	}
}

// Markdown renders a digest as a human-readable markdown document, one
// section per article.
func Markdown(d *models.Digest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Hacker News Digest — %s\n\n", d.Timestamp.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "%d articles (fetched %d, filtered %d, errors %d) in %dms\n\n",
		d.Stats.Final, d.Stats.Fetched, d.Stats.Filtered, d.Stats.Errors, d.Stats.GenerationTimeMS)

	if len(d.Articles) == 0 {
		b.WriteString("No articles matched your profile this run.\n")
		return b.String()
	}

	for i, scored := range d.Articles {
		article := scored.Article.Article
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, article.Title)

		link := article.URL
		if link == "" {
			link = article.HNURL
		}
		fmt.Fprintf(&b, "%s | %d points, %d comments | score %.2f (%s)\n\n",
			link, article.HNScore, article.HNComments, scored.FinalScore, scored.Relevance.Reason)

		if summary := scored.Article.Summary; summary != nil {
			fmt.Fprintf(&b, "%s\n\n", summary.Summary)
			for _, point := range summary.KeyPoints {
				fmt.Fprintf(&b, "- %s\n", point)
			}
			if len(summary.TechTags) > 0 {
				fmt.Fprintf(&b, "\nTags: %s\n", strings.Join(summary.TechTags, ", "))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
