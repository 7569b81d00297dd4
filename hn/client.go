package hn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"hn-digest/internal/logger"
	"hn-digest/models"
)

const defaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// ErrUnreachable marks a listing failure that aborts the whole run, as
// opposed to an empty (but successful) listing.
var ErrUnreachable = errors.New("hacker news api unreachable")

// Client fetches stories from the HackerNews Firebase API.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	maxConcurrent int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxConcurrent bounds parallel story fetches.
func WithMaxConcurrent(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxConcurrent = n
		}
	}
}

// NewClient builds a Client with a 30 second default timeout.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		maxConcurrent: 10,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StoryIDs fetches the listing for the given story type, capped to limit.
func (c *Client) StoryIDs(ctx context.Context, storyType models.StoryType, limit int) ([]int64, error) {
	var ids []int64
	if err := c.getJSON(ctx, c.baseURL+storyType.Endpoint(), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// Story fetches one story by ID. It returns nil (no error) for deleted,
// dead, missing, or non-story items.
func (c *Client) Story(ctx context.Context, id int64) (*models.Story, error) {
	var story models.Story
	url := fmt.Sprintf("%s/item/%d.json", c.baseURL, id)

	raw := json.RawMessage{}
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return nil, err
	}
	// Deleted items come back as JSON null.
	if string(raw) == "null" {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &story); err != nil {
		return nil, fmt.Errorf("decode story %d: %w", id, err)
	}
	if story.Dead || story.Deleted {
		return nil, nil
	}
	if story.Type != "story" && story.Type != "job" {
		return nil, nil
	}
	return &story, nil
}

// FetchStories fetches up to count stories of the given type, in parallel
// with a bounded number of in-flight requests. Individual story failures
// are logged and skipped; only a failed listing call is fatal. Results are
// sorted by HN score descending.
func (c *Client) FetchStories(ctx context.Context, storyType models.StoryType, count int) ([]models.Story, error) {
	// Over-fetch so dead, deleted and comment-type items don't shrink the
	// result below count.
	limit := count
	if limit > 0 {
		limit *= 2
	}
	ids, err := c.StoryIDs(ctx, storyType, limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		logger.Log.Warnf("no story ids returned for type %s", storyType)
		return nil, nil
	}

	results := make([]*models.Story, len(ids))
	sem := make(chan struct{}, c.maxConcurrent)
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			story, err := c.Story(ctx, id)
			if err != nil {
				logger.Log.Warnf("failed to fetch story %d: %v", id, err)
				return
			}
			results[i] = story
		}(i, id)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	stories := make([]models.Story, 0, len(results))
	for _, s := range results {
		if s != nil {
			stories = append(stories, *s)
		}
	}

	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].Score > stories[j].Score
	})
	if count > 0 && len(stories) > count {
		stories = stories[:count]
	}

	logger.InfoWithFields("fetched stories", logger.Fields{
		"type":    string(storyType),
		"ids":     len(ids),
		"stories": len(stories),
	})
	return stories, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
