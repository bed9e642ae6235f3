package feedsrc

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/ideacomb/idea-comb/app/reddit"
)

// Feed sources are third-party servers with no published quota, so fetches
// are kept polite with a small per-host token bucket.
const (
	hostRPS   = 1
	hostBurst = 2
)

// Fetcher pulls an RSS/Atom feed and normalizes its items into posts so feed
// sources flow through the same scoring pipeline as subreddits. Feed items
// carry no engagement data; their summaries lean on keywords and length.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	parser     *gofeed.Parser
	extractor  *Extractor

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		parser:     gofeed.NewParser(),
		extractor:  NewExtractor(),
		limiters:   make(map[string]*rate.Limiter),
	}
}

// Fetch retrieves and parses a feed, returning at most limit normalized
// posts in feed order.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string, limit int) ([]reddit.Post, error) {
	parsed, err := url.Parse(feedURL)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL: %w", err)
	}

	if err := f.hostLimiter(parsed.Host).Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	posts := make([]reddit.Post, 0, len(feed.Items))
	for _, item := range feed.Items {
		posts = append(posts, f.normalizeItem(feed, item))
		if limit > 0 && len(posts) >= limit {
			break
		}
	}

	slog.Debug("Fetched feed", "url", feedURL, "items", len(feed.Items), "posts", len(posts))

	return posts, nil
}

func (f *Fetcher) normalizeItem(feed *gofeed.Feed, item *gofeed.Item) reddit.Post {
	post := reddit.Post{
		ID:        coalesce(item.GUID, item.Link),
		Title:     item.Title,
		Subreddit: feed.Title,
		Permalink: item.Link,
	}

	if item.PublishedParsed != nil {
		post.CreatedAt = item.PublishedParsed.UTC()
	}
	if item.Author != nil {
		post.Author = item.Author.Name
	}

	post.Body = f.itemBody(item)

	return post
}

// itemBody prefers the full content over the description and strips HTML
// through the extractor; extraction failures fall back to the raw text.
func (f *Fetcher) itemBody(item *gofeed.Item) string {
	body := coalesce(item.Content, item.Description)
	if body == "" {
		return ""
	}

	if strings.Contains(body, "<") {
		var pageURL *url.URL
		if item.Link != "" {
			pageURL, _ = url.Parse(item.Link)
		}

		if text, err := f.extractor.Run(body, pageURL); err == nil {
			return text
		}
	}

	return strings.TrimSpace(body)
}

func (f *Fetcher) hostLimiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	limiter, ok := f.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(hostRPS), hostBurst)
		f.limiters[host] = limiter
	}
	return limiter
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
