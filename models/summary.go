package models

import (
	"fmt"
	"strings"
)

// SummarizationStatus records the outcome of summarizing one article.
type SummarizationStatus string

const (
	SummarizeSuccess    SummarizationStatus = "success"
	SummarizeNoContent  SummarizationStatus = "no_content"
	SummarizeAPIError   SummarizationStatus = "api_error"
	SummarizeParseError SummarizationStatus = "parse_error"
	SummarizeSkipped    SummarizationStatus = "skipped"
)

const minSummaryLen = 20

// ArticleSummary is the structured output of one summarization result.
type ArticleSummary struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	TechTags  []string `json:"tags"`
}

// Validate checks the structural constraints on a model-produced summary and
// normalizes its tags. A summary failing validation marks only its own
// article as parse_error.
func (s *ArticleSummary) Validate() error {
	s.Summary = strings.TrimSpace(s.Summary)
	if len(s.Summary) < minSummaryLen {
		return fmt.Errorf("summary too short (%d chars, need %d)", len(s.Summary), minSummaryLen)
	}

	points := make([]string, 0, len(s.KeyPoints))
	for _, p := range s.KeyPoints {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return fmt.Errorf("key_points must contain at least one non-empty item")
	}
	s.KeyPoints = points

	s.TechTags = normalizeTags(s.TechTags)
	return nil
}

// SummarizedArticle wraps an Article with its optional summary.
type SummarizedArticle struct {
	Article      Article             `json:"article"`
	Summary      *ArticleSummary     `json:"summary,omitempty"`
	Status       SummarizationStatus `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
}

// HasSummary reports whether summarization produced a usable summary.
func (s SummarizedArticle) HasSummary() bool {
	return s.Summary != nil && s.Status == SummarizeSuccess
}

// Tags returns the topical tags of the summary, or nil when absent.
func (s SummarizedArticle) Tags() []string {
	if s.Summary == nil {
		return nil
	}
	return s.Summary.TechTags
}
