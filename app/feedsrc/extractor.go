package feedsrc

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Run extracts readable plain text from an HTML fragment or document.
func (e *Extractor) Run(data string, pageURL *url.URL) (string, error) {
	if data == "" {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(data), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(text))

	return text, nil
}
