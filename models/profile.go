package models

import (
	"fmt"
	"sort"
	"strings"
)

// Profile holds the user preferences a digest run is personalized with.
// Normalize must be called before Validate; the pipeline does both before
// any network I/O happens.
type Profile struct {
	InterestTags    []string  `yaml:"interest_tags" json:"interest_tags"`
	DisinterestTags []string  `yaml:"disinterest_tags" json:"disinterest_tags"`
	MinScore        float64   `yaml:"min_score" json:"min_score"`
	MaxArticles     int       `yaml:"max_articles" json:"max_articles"`
	FetchType       StoryType `yaml:"fetch_type" json:"fetch_type"`
	FetchCount      int       `yaml:"fetch_count" json:"fetch_count"`
}

// Normalize trims, lowercases and deduplicates both tag sets, preserving
// first-seen order, and fills in defaults for zero-valued fetch fields.
func (p *Profile) Normalize() {
	p.InterestTags = normalizeTags(p.InterestTags)
	p.DisinterestTags = normalizeTags(p.DisinterestTags)
	if p.FetchType == "" {
		p.FetchType = StoryTypeTop
	}
	if p.MaxArticles == 0 {
		p.MaxArticles = 10
	}
	if p.FetchCount == 0 {
		p.FetchCount = 30
	}
}

// Validate rejects profiles that must not reach the pipeline: overlapping
// interest/disinterest tags, out-of-range thresholds and counts.
func (p Profile) Validate() error {
	if p.MinScore < 0 || p.MinScore > 1 {
		return fmt.Errorf("min_score must be in [0,1], got %v", p.MinScore)
	}
	if p.MaxArticles < 1 {
		return fmt.Errorf("max_articles must be at least 1, got %d", p.MaxArticles)
	}
	if p.FetchCount < 1 {
		return fmt.Errorf("fetch_count must be at least 1, got %d", p.FetchCount)
	}
	if _, err := ParseStoryType(string(p.FetchType)); err != nil {
		return err
	}

	if len(p.InterestTags) > 0 && len(p.DisinterestTags) > 0 {
		interest := make(map[string]struct{}, len(p.InterestTags))
		for _, tag := range p.InterestTags {
			interest[tag] = struct{}{}
		}
		var overlap []string
		for _, tag := range p.DisinterestTags {
			if _, ok := interest[tag]; ok {
				overlap = append(overlap, tag)
			}
		}
		if len(overlap) > 0 {
			sort.Strings(overlap)
			return fmt.Errorf("tags cannot be in both interest and disinterest lists: %s",
				strings.Join(overlap, ", "))
		}
	}
	return nil
}

// HasPreferences reports whether the user configured any tags at all.
func (p Profile) HasPreferences() bool {
	return len(p.InterestTags) > 0 || len(p.DisinterestTags) > 0
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
