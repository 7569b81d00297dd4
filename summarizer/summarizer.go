// Package summarizer produces structured article summaries through the
// Gemini API, batching articles per request to keep call counts down.
package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"hn-digest/internal/logger"
	"hn-digest/models"
)

const systemInstruction = `
You are a summarization assistant for Hacker News articles. You receive a JSON array of articles, each with keys "id", "title" and "content". Your task is to summarize every article in the input.
The response MUST be a valid JSON array with one object per input article, each with four keys:
1.  id: The id of the input article, unchanged.
2.  summary: A 2-3 sentence summary of the article.
3.  key_points: An array of 2-4 short strings, each naming one key takeaway.
4.  tech_tags: An array of 1-5 lowercase technology topic tags (e.g. "golang", "databases", "security").
You MUST NOT wrap the JSON output in a markdown code block (e.g. ` + "```json ... ```" + `). The response should contain ONLY the raw JSON string.
Base every summary only on the provided content. Never invent facts that are not in the text.
`

// Generator is the single LLM call the service depends on. The production
// implementation talks to Gemini; tests substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a Generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &geminiGenerator{client: client, model: model}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		},
	)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

// Config controls batching behavior.
type Config struct {
	BatchSize       int
	MaxContentChars int
}

// Service summarizes extracted articles in sequential batches.
type Service struct {
	gen             Generator
	batchSize       int
	maxContentChars int
}

// New builds a summarization Service.
func New(gen Generator, cfg Config) *Service {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 5
	}
	maxChars := cfg.MaxContentChars
	if maxChars <= 0 {
		maxChars = 8000
	}
	return &Service{gen: gen, batchSize: batchSize, maxContentChars: maxChars}
}

type promptArticle struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type responseArticle struct {
	ID        int64    `json:"id"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	TechTags  []string `json:"tech_tags"`
}

// SummarizeAll summarizes every article, batch by batch. A failed batch
// marks its own articles as failed and the run continues; the only error
// returned is context cancellation.
func (s *Service) SummarizeAll(ctx context.Context, articles []models.Article) ([]models.SummarizedArticle, error) {
	results := make([]models.SummarizedArticle, 0, len(articles))

	for start := 0; start < len(articles); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		end := start + s.batchSize
		if end > len(articles) {
			end = len(articles)
		}
		batch := articles[start:end]

		results = append(results, s.summarizeBatch(ctx, batch)...)
	}

	return results, nil
}

func (s *Service) summarizeBatch(ctx context.Context, batch []models.Article) []models.SummarizedArticle {
	results := make([]models.SummarizedArticle, len(batch))
	prompt := make([]promptArticle, 0, len(batch))

	for i, article := range batch {
		results[i] = models.SummarizedArticle{Article: article}
		content := article.DisplayContent()
		if content == "" {
			results[i].Status = models.SummarizeNoContent
			results[i].ErrorMessage = "article has no content to summarize"
			continue
		}
		if len(content) > s.maxContentChars {
			content = content[:s.maxContentChars]
		}
		prompt = append(prompt, promptArticle{ID: article.StoryID, Title: article.Title, Content: content})
	}
	if len(prompt) == 0 {
		return results
	}

	parsed, err := s.callBatch(ctx, prompt)
	if err != nil {
		logger.ErrorWithFields("summarization batch failed", logger.Fields{
			"batch_size": len(prompt),
			"error":      err.Error(),
		})
		markPending(results, models.SummarizeAPIError, err.Error())
		return results
	}

	byID := make(map[int64]responseArticle, len(parsed))
	for _, item := range parsed {
		byID[item.ID] = item
	}

	for i := range results {
		if results[i].Status != "" {
			continue
		}
		item, ok := byID[results[i].Article.StoryID]
		if !ok {
			results[i].Status = models.SummarizeParseError
			results[i].ErrorMessage = fmt.Sprintf("story %d missing from model response", results[i].Article.StoryID)
			continue
		}

		summary := &models.ArticleSummary{
			Summary:   strings.TrimSpace(item.Summary),
			KeyPoints: item.KeyPoints,
			TechTags:  item.TechTags,
		}
		if err := summary.Validate(); err != nil {
			results[i].Status = models.SummarizeParseError
			results[i].ErrorMessage = err.Error()
			continue
		}
		results[i].Summary = summary
		results[i].Status = models.SummarizeSuccess
	}

	return results
}

func (s *Service) callBatch(ctx context.Context, prompt []promptArticle) ([]responseArticle, error) {
	payload, err := json.Marshal(prompt)
	if err != nil {
		return nil, fmt.Errorf("marshal prompt: %w", err)
	}

	raw, err := s.gen.Generate(ctx, string(payload))
	if err != nil {
		return nil, err
	}

	var parsed []responseArticle
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	return parsed, nil
}

// markPending sets a failure status on every result that has none yet.
func markPending(results []models.SummarizedArticle, status models.SummarizationStatus, msg string) {
	for i := range results {
		if results[i].Status == "" {
			results[i].Status = status
			results[i].ErrorMessage = msg
		}
	}
}

// stripCodeFence removes a markdown code fence when the model ignores the
// raw-JSON instruction.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
