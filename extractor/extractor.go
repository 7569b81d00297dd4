// Package extractor turns stories into extracted articles. Every story
// yields exactly one Article; failures are recorded in the article status
// and never abort the surrounding run.
package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hn-digest/internal/logger"
	"hn-digest/models"
	"hn-digest/parser"
)

// Domains that are skipped outright: JS-only walls, no text content, or
// auth required.
var blockedDomains = map[string]struct{}{
	"twitter.com":       {},
	"x.com":             {},
	"reddit.com":        {},
	"old.reddit.com":    {},
	"facebook.com":      {},
	"instagram.com":     {},
	"youtube.com":       {},
	"youtu.be":          {},
	"vimeo.com":         {},
	"tiktok.com":        {},
	"github.com":        {},
	"gitlab.com":        {},
	"bitbucket.org":     {},
	"docs.google.com":   {},
	"drive.google.com":  {},
	"sheets.google.com": {},
	"linkedin.com":      {},
}

// Domains behind hard paywalls; reported with their own status so the
// digest stats can distinguish them from plain failures.
var paywalledDomains = map[string]struct{}{
	"medium.com":         {},
	"bloomberg.com":      {},
	"wsj.com":            {},
	"nytimes.com":        {},
	"ft.com":             {},
	"economist.com":      {},
	"washingtonpost.com": {},
}

var blockedExtensions = []string{
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".zip", ".tar", ".gz", ".rar", ".7z",
	".mp4", ".mp3", ".wav", ".avi", ".mov", ".mkv", ".webm",
	".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".bmp", ".ico",
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"

// maxBodyBytes caps response reads to keep a hostile page from ballooning
// memory during fan-out.
const maxBodyBytes = 4 << 20

// Renderer produces rendered HTML for pages that serve nothing without
// JavaScript. Implemented by the renderer package.
type Renderer interface {
	RenderHTML(ctx context.Context, url string) (string, error)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(ctx context.Context, url string) (string, error)

func (f RendererFunc) RenderHTML(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Config controls extraction behavior.
type Config struct {
	Timeout         time.Duration
	MaxContentChars int
	Renderer        Renderer // optional render fallback
}

// Extractor fetches story URLs and extracts their plain text content.
// Safe for concurrent use; the pipeline runs many Extract calls at once.
type Extractor struct {
	httpClient      *http.Client
	maxContentChars int
	renderer        Renderer
}

// New builds an Extractor.
func New(cfg Config) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxChars := cfg.MaxContentChars
	if maxChars <= 0 {
		maxChars = 8000
	}
	return &Extractor{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxContentChars: maxChars,
		renderer:        cfg.Renderer,
	}
}

// Extract fetches and parses the story's linked content. The returned
// Article always carries a terminal status; an error status stands in for
// an error return.
func (e *Extractor) Extract(ctx context.Context, story models.Story) models.Article {
	article := models.Article{
		StoryID:    story.ID,
		Title:      story.Title,
		URL:        story.URL,
		HNURL:      story.HNURL(),
		HNScore:    story.Score,
		HNComments: story.Descendants,
		Author:     story.By,
		Domain:     ExtractDomain(story.URL),
	}
	if story.Text != "" {
		article.HNText = parser.StripHTML(story.Text)
	}

	// Ask HN posts and jobs have no external URL; the HN text is all
	// there is.
	if !story.HasExternalURL() {
		article.Status = models.ExtractionNoURL
		article.WordCount = parser.WordCount(article.HNText)
		return article
	}

	if status, reason := classifyURL(story.URL); status != models.ExtractionSuccess {
		article.Status = status
		article.ErrorMessage = reason
		return article
	}

	htmlStr, fetchErr := e.fetchHTML(ctx, story.URL)
	if fetchErr != nil {
		article.Status = models.ExtractionFailed
		article.ErrorMessage = fetchErr.Error()
		return article
	}
	if htmlStr == "" {
		article.Status = models.ExtractionEmpty
		article.ErrorMessage = "response was not an html page"
		return article
	}

	content, err := parser.ExtractText(htmlStr)
	if (err != nil || content == "") && e.renderer != nil && ctx.Err() == nil {
		// Static fetch produced nothing; try a rendered page before
		// giving up.
		if rendered, rerr := e.renderer.RenderHTML(ctx, story.URL); rerr == nil {
			content, err = parser.ExtractText(rendered)
		} else {
			logger.Log.Debugf("render fallback failed for story %d: %v", story.ID, rerr)
		}
	}
	if err != nil {
		article.Status = models.ExtractionFailed
		article.ErrorMessage = err.Error()
		return article
	}
	if content == "" {
		article.Status = models.ExtractionEmpty
		article.ErrorMessage = "no content could be extracted"
		return article
	}

	content = parser.TruncateAtSentence(content, e.maxContentChars)
	article.Status = models.ExtractionSuccess
	article.Content = content
	article.WordCount = parser.WordCount(content)
	return article
}

func (e *Extractor) fetchHTML(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("http %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml") {
		// Not an error: the page exists but carries nothing to parse.
		return "", nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// classifyURL decides whether a URL should be fetched at all. It returns
// ExtractionSuccess when fetching should proceed.
func classifyURL(rawURL string) (models.ExtractionStatus, string) {
	domain := ExtractDomain(rawURL)
	if domain != "" {
		if _, ok := blockedDomains[domain]; ok {
			return models.ExtractionSkipped, fmt.Sprintf("blocked domain: %s", domain)
		}
		if _, ok := paywalledDomains[domain]; ok {
			return models.ExtractionPaywalled, fmt.Sprintf("paywalled domain: %s", domain)
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return models.ExtractionFailed, fmt.Sprintf("invalid url: %v", err)
	}
	pathLower := strings.ToLower(parsed.Path)
	for _, ext := range blockedExtensions {
		if strings.HasSuffix(pathLower, ext) {
			return models.ExtractionSkipped, fmt.Sprintf("blocked file type: %s", ext)
		}
	}
	return models.ExtractionSuccess, ""
}

// ExtractDomain returns the lowercase host of a URL without a leading
// "www.", or "" when the URL cannot be parsed.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	domain := strings.ToLower(parsed.Host)
	return strings.TrimPrefix(domain, "www.")
}
