package parser

import (
	"fmt"
	"strings"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// ParsedArticle is the plain-text result of one extraction attempt.
type ParsedArticle struct {
	PlainTextContent string
	TopImage         string
}

// ParseHTMLWithReadability is the main parser.
func ParseHTMLWithReadability(htmlStr string) (*ParsedArticle, error) {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}

	article, err := readability.FromDocument(doc, nil)
	if err != nil {
		return nil, err
	}
	return &ParsedArticle{
		PlainTextContent: article.TextContent,
		TopImage:         article.Image,
	}, nil
}

// ParseHTMLWithTrafilatura is the second parser in the cascade.
func ParseHTMLWithTrafilatura(htmlStr string) (*ParsedArticle, error) {
	opts := trafilatura.Options{
		IncludeImages: true,
	}

	article, err := trafilatura.Extract(strings.NewReader(htmlStr), opts)
	if err != nil {
		return nil, err
	}

	return &ParsedArticle{
		PlainTextContent: article.ContentText,
		TopImage:         article.Metadata.Image,
	}, nil
}

// ParseHTMLWithGoose is the last-resort parser.
func ParseHTMLWithGoose(htmlStr string) (*ParsedArticle, error) {
	g := goose.New()
	article, err := g.ExtractFromRawHTML(htmlStr, "")
	if err != nil {
		return nil, err
	}
	return &ParsedArticle{
		PlainTextContent: article.CleanedText,
		TopImage:         article.TopImage,
	}, nil
}

// minExtractedLen guards against boilerplate-only extractions; anything
// shorter is treated as an empty result and the next parser is tried.
const minExtractedLen = 100

// ExtractText runs the parser cascade (readability, trafilatura, goose)
// and returns the first cleaned result with usable length. It returns an
// error only when every parser fails or produces too little text.
func ExtractText(htmlStr string) (string, error) {
	parsers := []func(string) (*ParsedArticle, error){
		ParseHTMLWithReadability,
		ParseHTMLWithTrafilatura,
		ParseHTMLWithGoose,
	}

	var lastErr error
	for _, parse := range parsers {
		article, err := parse(htmlStr)
		if err != nil {
			lastErr = err
			continue
		}
		cleaned := CleanText(article.PlainTextContent)
		if len(cleaned) >= minExtractedLen {
			return cleaned, nil
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("all parsers failed: %w", lastErr)
	}
	return "", nil
}
