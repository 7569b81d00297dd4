package models

// RelevanceScore is the tag-matching result for one article against the
// profile. It is a pure derived value recomputed on every run.
type RelevanceScore struct {
	Score                  float64  `json:"score"`
	Reason                 string   `json:"reason"`
	MatchedInterestTags    []string `json:"matched_interest_tags,omitempty"`
	MatchedDisinterestTags []string `json:"matched_disinterest_tags,omitempty"`
}

// HasInterestMatches reports whether any interest tag matched.
func (r RelevanceScore) HasInterestMatches() bool {
	return len(r.MatchedInterestTags) > 0
}

// HasDisinterestMatches reports whether any disinterest tag matched.
func (r RelevanceScore) HasDisinterestMatches() bool {
	return len(r.MatchedDisinterestTags) > 0
}

// ScoredArticle wraps a SummarizedArticle with its relevance, normalized
// popularity, and composite final score, all in [0,1].
type ScoredArticle struct {
	Article         SummarizedArticle `json:"article"`
	Relevance       RelevanceScore    `json:"relevance"`
	PopularityScore float64           `json:"popularity_score"`
	FinalScore      float64           `json:"final_score"`
}

// StoryID is a convenience accessor for the underlying story ID.
func (s ScoredArticle) StoryID() int64 {
	return s.Article.Article.StoryID
}

// Title is a convenience accessor for the underlying title.
func (s ScoredArticle) Title() string {
	return s.Article.Article.Title
}
