package models

import "fmt"

// StoryType selects which HackerNews listing endpoint to fetch from.
type StoryType string

const (
	StoryTypeTop  StoryType = "top"
	StoryTypeNew  StoryType = "new"
	StoryTypeBest StoryType = "best"
	StoryTypeAsk  StoryType = "ask"
	StoryTypeShow StoryType = "show"
	StoryTypeJob  StoryType = "job"
)

// Endpoint returns the listing endpoint path for this story type,
// e.g. "/topstories.json" for StoryTypeTop.
func (t StoryType) Endpoint() string {
	return fmt.Sprintf("/%sstories.json", string(t))
}

// ParseStoryType validates a story type string from configuration.
func ParseStoryType(s string) (StoryType, error) {
	switch StoryType(s) {
	case StoryTypeTop, StoryTypeNew, StoryTypeBest, StoryTypeAsk, StoryTypeShow, StoryTypeJob:
		return StoryType(s), nil
	}
	return "", fmt.Errorf("unknown story type %q", s)
}

// Story is a single candidate news entry from the HackerNews API.
// It is immutable once fetched; later pipeline stages wrap it instead of
// mutating it.
type Story struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Descendants int    `json:"descendants"`
	Type        string `json:"type"`
	Text        string `json:"text"`
	Dead        bool   `json:"dead"`
	Deleted     bool   `json:"deleted"`
}

// HNURL returns the discussion page URL for this story.
func (s Story) HNURL() string {
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", s.ID)
}

// HasExternalURL reports whether the story links to an external article.
// Ask HN posts and job listings usually do not.
func (s Story) HasExternalURL() bool {
	return s.URL != ""
}
