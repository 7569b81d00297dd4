package models

import "time"

// DigestStats tracks the funnel from fetched stories to final articles.
type DigestStats struct {
	Fetched          int   `json:"fetched"`
	Filtered         int   `json:"filtered"`
	Final            int   `json:"final"`
	Errors           int   `json:"errors"`
	GenerationTimeMS int64 `json:"generation_time_ms"`
}

// Digest is the final ranked, capped output of one pipeline run. Nothing in
// it survives the run; callers own the returned value exclusively.
type Digest struct {
	Articles  []ScoredArticle `json:"articles"`
	Timestamp time.Time       `json:"timestamp"`
	Stats     DigestStats     `json:"stats"`
}
