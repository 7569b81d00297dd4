package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hn-digest/models"
)

type fakeGenerator struct {
	calls   []string
	respond func(prompt string) (string, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls = append(f.calls, prompt)
	return f.respond(prompt)
}

func testArticle(id int64, content string) models.Article {
	return models.Article{
		StoryID: id,
		Title:   fmt.Sprintf("Story %d", id),
		Content: content,
		Status:  models.ExtractionSuccess,
	}
}

// echoResponder answers every prompt with a valid summary per input article.
func echoResponder(prompt string) (string, error) {
	var in []promptArticle
	if err := json.Unmarshal([]byte(prompt), &in); err != nil {
		return "", err
	}
	out := make([]responseArticle, 0, len(in))
	for _, a := range in {
		out = append(out, responseArticle{
			ID:        a.ID,
			Summary:   fmt.Sprintf("A detailed summary of story %d covering its main argument.", a.ID),
			KeyPoints: []string{"first takeaway", "second takeaway"},
			TechTags:  []string{"golang", "testing"},
		})
	}
	raw, _ := json.Marshal(out)
	return string(raw), nil
}

func TestSummarizeAllBatches(t *testing.T) {
	gen := &fakeGenerator{respond: echoResponder}
	svc := New(gen, Config{BatchSize: 2})

	articles := []models.Article{
		testArticle(1, "content one"),
		testArticle(2, "content two"),
		testArticle(3, "content three"),
		testArticle(4, "content four"),
		testArticle(5, "content five"),
	}
	results, err := svc.SummarizeAll(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, results, 5)

	// 5 articles at batch size 2 means 3 sequential calls.
	assert.Len(t, gen.calls, 3)
	for i, result := range results {
		assert.Equal(t, models.SummarizeSuccess, result.Status, "article %d", i)
		require.NotNil(t, result.Summary)
		assert.Equal(t, []string{"golang", "testing"}, result.Summary.TechTags)
		assert.Equal(t, articles[i].StoryID, result.Article.StoryID, "input order preserved")
	}
}

func TestSummarizeAllTruncatesContent(t *testing.T) {
	var sentLen int
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		var in []promptArticle
		require.NoError(t, json.Unmarshal([]byte(prompt), &in))
		sentLen = len(in[0].Content)
		return echoResponder(prompt)
	}}
	svc := New(gen, Config{MaxContentChars: 100})

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	_, err := svc.SummarizeAll(context.Background(), []models.Article{testArticle(1, string(long))})
	require.NoError(t, err)
	assert.Equal(t, 100, sentLen)
}

func TestSummarizeAllAPIError(t *testing.T) {
	calls := 0
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("rate limited")
		}
		return echoResponder(prompt)
	}}
	svc := New(gen, Config{BatchSize: 2})

	results, err := svc.SummarizeAll(context.Background(), []models.Article{
		testArticle(1, "a"), testArticle(2, "b"), testArticle(3, "c"),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// First batch failed as a unit, second batch still ran.
	assert.Equal(t, models.SummarizeAPIError, results[0].Status)
	assert.Equal(t, "rate limited", results[0].ErrorMessage)
	assert.Equal(t, models.SummarizeAPIError, results[1].Status)
	assert.Equal(t, models.SummarizeSuccess, results[2].Status)
	assert.Equal(t, 2, calls)
}

func TestSummarizeAllMalformedItem(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		var in []promptArticle
		require.NoError(t, json.Unmarshal([]byte(prompt), &in))
		out := make([]responseArticle, 0, len(in))
		for _, a := range in {
			item := responseArticle{
				ID:        a.ID,
				Summary:   fmt.Sprintf("A detailed summary of story %d covering its main argument.", a.ID),
				KeyPoints: []string{"takeaway"},
				TechTags:  []string{"golang"},
			}
			if a.ID == 3 {
				item.Summary = "too short"
				item.KeyPoints = nil
			}
			out = append(out, item)
		}
		raw, _ := json.Marshal(out)
		return string(raw), nil
	}}
	svc := New(gen, Config{BatchSize: 5})

	results, err := svc.SummarizeAll(context.Background(), []models.Article{
		testArticle(1, "a"), testArticle(2, "b"), testArticle(3, "c"), testArticle(4, "d"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.SummarizeSuccess, results[0].Status)
	assert.Equal(t, models.SummarizeSuccess, results[1].Status)
	assert.Equal(t, models.SummarizeParseError, results[2].Status)
	assert.Nil(t, results[2].Summary)
	assert.Equal(t, models.SummarizeSuccess, results[3].Status)
}

func TestSummarizeAllMissingID(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		// Model dropped story 2 from its response.
		return `[{"id":1,"summary":"A detailed summary covering the main argument at length.","key_points":["one"],"tech_tags":["go"]}]`, nil
	}}
	svc := New(gen, Config{})

	results, err := svc.SummarizeAll(context.Background(), []models.Article{
		testArticle(1, "a"), testArticle(2, "b"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SummarizeSuccess, results[0].Status)
	assert.Equal(t, models.SummarizeParseError, results[1].Status)
	assert.Contains(t, results[1].ErrorMessage, "missing from model response")
}

func TestSummarizeAllUnparseableResponse(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		return "I'm sorry, I cannot summarize these articles.", nil
	}}
	svc := New(gen, Config{})

	results, err := svc.SummarizeAll(context.Background(), []models.Article{testArticle(1, "a")})
	require.NoError(t, err)
	assert.Equal(t, models.SummarizeAPIError, results[0].Status)
	assert.Contains(t, results[0].ErrorMessage, "parse model response")
}

func TestSummarizeAllCodeFencedResponse(t *testing.T) {
	gen := &fakeGenerator{respond: func(prompt string) (string, error) {
		body, err := echoResponder(prompt)
		if err != nil {
			return "", err
		}
		return "```json\n" + body + "\n```", nil
	}}
	svc := New(gen, Config{})

	results, err := svc.SummarizeAll(context.Background(), []models.Article{testArticle(1, "a")})
	require.NoError(t, err)
	assert.Equal(t, models.SummarizeSuccess, results[0].Status)
}

func TestSummarizeAllNoContent(t *testing.T) {
	gen := &fakeGenerator{respond: echoResponder}
	svc := New(gen, Config{})

	empty := models.Article{StoryID: 9, Title: "Empty", Status: models.ExtractionEmpty}
	results, err := svc.SummarizeAll(context.Background(), []models.Article{empty})
	require.NoError(t, err)
	assert.Equal(t, models.SummarizeNoContent, results[0].Status)
	assert.Empty(t, gen.calls, "no API call for an all-empty batch")
}

func TestSummarizeAllCancelled(t *testing.T) {
	gen := &fakeGenerator{respond: echoResponder}
	svc := New(gen, Config{BatchSize: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SummarizeAll(ctx, []models.Article{testArticle(1, "a")})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, gen.calls)
}
