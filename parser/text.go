package parser

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var whitespaceRe = regexp.MustCompile(`[ \t\r\f]+`)

// CleanText normalizes whitespace and drops empty lines from extracted text.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// TruncateAtSentence cuts content to at most max characters, preferring a
// sentence or line boundary past the halfway point over a hard cut.
func TruncateAtSentence(content string, max int) string {
	if max <= 0 || len(content) <= max {
		return content
	}

	truncated := content[:max]
	lastPeriod := strings.LastIndex(truncated, ". ")
	lastNewline := strings.LastIndex(truncated, "\n")

	boundary := lastPeriod
	if lastNewline > boundary {
		boundary = lastNewline
	}
	if boundary > max/2 {
		return strings.TrimSpace(truncated[:boundary+1])
	}
	return strings.TrimSpace(truncated)
}

// StripHTML converts an HTML fragment (e.g. an Ask HN post body) to plain
// text by concatenating its text nodes.
func StripHTML(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				b.WriteString(text)
				b.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return CleanText(b.String())
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
