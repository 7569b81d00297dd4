package models

// ExtractionStatus records the outcome of extracting content for one story.
type ExtractionStatus string

const (
	ExtractionSuccess   ExtractionStatus = "success"
	ExtractionSkipped   ExtractionStatus = "skipped"
	ExtractionFailed    ExtractionStatus = "failed"
	ExtractionPaywalled ExtractionStatus = "paywalled"
	ExtractionNoURL     ExtractionStatus = "no_url"
	ExtractionEmpty     ExtractionStatus = "empty"
)

// Article is the extraction result for a single story. The extractor creates
// exactly one Article per story and it is never mutated afterwards; failures
// are carried in Status/ErrorMessage instead of aborting the run.
type Article struct {
	StoryID    int64  `json:"story_id"`
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
	HNURL      string `json:"hn_url"`
	HNScore    int    `json:"hn_score"`
	HNComments int    `json:"hn_comments"`
	Author     string `json:"author"`
	Domain     string `json:"domain,omitempty"`

	Content   string `json:"content,omitempty"`
	HNText    string `json:"hn_text,omitempty"`
	WordCount int    `json:"word_count"`

	Status       ExtractionStatus `json:"status"`
	ErrorMessage string           `json:"error_message,omitempty"`
}

// HasContent reports whether there is any text to summarize, either the
// extracted article body or the HN post text (Ask HN, jobs).
func (a Article) HasContent() bool {
	return a.Content != "" || a.HNText != ""
}

// DisplayContent prefers the extracted article body over the HN post text.
func (a Article) DisplayContent() string {
	if a.Content != "" {
		return a.Content
	}
	return a.HNText
}
