// Package feeder provides an RSS-backed story listing over hnrss.org,
// satisfying the same listing contract as the HackerNews API client. It is
// useful where the Firebase API is blocked or a lighter single-request
// listing is preferred.
package feeder

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"

	"hn-digest/internal/logger"
	"hn-digest/models"
)

const defaultFeedBaseURL = "https://hnrss.org"

var (
	itemIDRe   = regexp.MustCompile(`item\?id=(\d+)`)
	pointsRe   = regexp.MustCompile(`Points:\s*(\d+)`)
	commentsRe = regexp.MustCompile(`#\s*Comments:\s*(\d+)`)
)

// Feeder fetches story listings from hnrss.org feeds.
type Feeder struct {
	baseURL string
	parser  *gofeed.Parser
}

// New builds a Feeder. An empty baseURL selects hnrss.org.
func New(baseURL string, httpClient *http.Client) *Feeder {
	if baseURL == "" {
		baseURL = defaultFeedBaseURL
	}
	fp := gofeed.NewParser()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	fp.Client = httpClient
	return &Feeder{baseURL: baseURL, parser: fp}
}

// feedPath maps a story type to its hnrss.org feed path.
func feedPath(storyType models.StoryType) string {
	switch storyType {
	case models.StoryTypeNew:
		return "/newest"
	case models.StoryTypeBest:
		return "/best"
	case models.StoryTypeAsk:
		return "/ask"
	case models.StoryTypeShow:
		return "/show"
	case models.StoryTypeJob:
		return "/jobs"
	default:
		return "/frontpage"
	}
}

// FetchStories fetches up to count stories of the given type from the RSS
// feed. A fetch or parse failure is returned as-is; the pipeline treats any
// listing error as fatal, exactly like the API client's unreachable case.
func (f *Feeder) FetchStories(ctx context.Context, storyType models.StoryType, count int) ([]models.Story, error) {
	feedURL := fmt.Sprintf("%s%s?count=%d", f.baseURL, feedPath(storyType), count)

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}

	stories := make([]models.Story, 0, len(feed.Items))
	for _, item := range feed.Items {
		story, ok := storyFromItem(item)
		if !ok {
			logger.Log.Debugf("skipping feed item without story id: %s", item.Title)
			continue
		}
		stories = append(stories, story)
		if count > 0 && len(stories) >= count {
			break
		}
	}

	logger.InfoWithFields("fetched stories from feed", logger.Fields{
		"type":    string(storyType),
		"stories": len(stories),
	})
	return stories, nil
}

// storyFromItem maps one RSS item onto a Story. The story ID and the
// discussion URL come from the item GUID; points and comment counts are
// parsed out of the hnrss description block.
func storyFromItem(item *gofeed.Item) (models.Story, bool) {
	id := parseItemID(item.GUID)
	if id == 0 {
		id = parseItemID(item.Link)
	}
	if id == 0 {
		return models.Story{}, false
	}

	story := models.Story{
		ID:    id,
		Title: item.Title,
		Type:  "story",
	}
	if item.Author != nil {
		story.By = item.Author.Name
	}
	if item.PublishedParsed != nil {
		story.Time = item.PublishedParsed.Unix()
	}
	// hnrss links self-posts (Ask HN) back to the discussion page; those
	// have no external URL.
	if parseItemID(item.Link) == 0 {
		story.URL = item.Link
	}
	if m := pointsRe.FindStringSubmatch(item.Description); len(m) == 2 {
		story.Score, _ = strconv.Atoi(m[1])
	}
	if m := commentsRe.FindStringSubmatch(item.Description); len(m) == 2 {
		story.Descendants, _ = strconv.Atoi(m[1])
	}
	return story, true
}

func parseItemID(raw string) int64 {
	if raw == "" {
		return 0
	}
	if _, err := url.Parse(raw); err != nil {
		return 0
	}
	m := itemIDRe.FindStringSubmatch(raw)
	if len(m) != 2 {
		return 0
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	return id
}
