package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ideacomb/idea-comb/app/cfg"
)

// imageSuffixes mark media URLs whose posts are dropped from the pipeline.
var imageSuffixes = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Client fetches subreddit listings and normalizes them into text posts.
// Authenticated requests go through the token cache and the local rate
// limiter; public requests hit the public JSON endpoint with only a
// User-Agent header.
type Client struct {
	apiURL     string
	publicURL  string
	userAgent  string
	httpClient *http.Client
	tokens     *TokenCache
	limiter    *RateLimiter
}

func NewClient(c *cfg.Cfg, httpClient *http.Client) *Client {
	creds := credentials{
		ClientID:     c.RedditClientID,
		ClientSecret: c.RedditClientSecret,
		Username:     c.RedditUsername,
		Password:     c.RedditPassword,
	}

	return &Client{
		apiURL:     strings.TrimRight(c.RedditAPIURL, "/"),
		publicURL:  strings.TrimRight(c.RedditPublicURL, "/"),
		userAgent:  c.UserAgent,
		httpClient: httpClient,
		tokens:     NewTokenCache(c.RedditAuthURL, creds, time.Duration(c.TokenMarginSeconds)*time.Second, httpClient, c.UserAgent),
		limiter:    NewRateLimiter(c.RateBudget, time.Duration(c.RateWindowSeconds)*time.Second),
	}
}

// FetchPosts retrieves one page of a subreddit listing through the
// authenticated API. The local rate limiter is consulted before any network
// call; an exhausted budget surfaces ErrRateLimited without touching the
// network.
func (c *Client) FetchPosts(ctx context.Context, source string, limit int, mode Mode, after string) (*Page, error) {
	if err := c.limiter.TryAcquire(); err != nil {
		return nil, err
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/r/%s/%s", c.apiURL, url.PathEscape(source), mode)

	req, err := c.newListingRequest(ctx, endpoint, limit, after)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.doListing(req, source)
}

// FetchPostsPublic retrieves one page of a subreddit listing through the
// public JSON endpoint. No authentication and no local rate limiting.
func (c *Client) FetchPostsPublic(ctx context.Context, source string, limit int, mode Mode, after string) (*Page, error) {
	endpoint := fmt.Sprintf("%s/r/%s/%s.json", c.publicURL, url.PathEscape(source), mode)

	req, err := c.newListingRequest(ctx, endpoint, limit, after)
	if err != nil {
		return nil, err
	}

	return c.doListing(req, source)
}

func (c *Client) newListingRequest(ctx context.Context, endpoint string, limit int, after string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing request: %w", err)
	}

	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	if after != "" {
		q.Set("after", after)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", c.userAgent)

	return req, nil
}

func (c *Client) doListing(req *http.Request, source string) (*Page, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var envelope listingEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("failed to decode listing: %w", err)}
	}

	posts := make([]Post, 0, len(envelope.Data.Children))
	for _, child := range envelope.Data.Children {
		post := child.Data.normalize()
		if !isTextPost(post) {
			continue
		}
		posts = append(posts, post)
	}

	slog.Debug("Fetched subreddit listing",
		"source", source,
		"received", len(envelope.Data.Children),
		"text_posts", len(posts))

	return &Page{Posts: posts, NextCursor: envelope.Data.After}, nil
}

// isTextPost keeps only posts the lexical pipeline can work with: non-empty
// body, not a video, no image link.
func isTextPost(p Post) bool {
	if p.Body == "" || p.IsVideo {
		return false
	}
	media := strings.ToLower(p.MediaURL)
	for _, suffix := range imageSuffixes {
		if strings.HasSuffix(media, suffix) {
			return false
		}
	}
	return true
}

// Reddit listing wire format

type listingEnvelope struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data rawPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type rawPost struct {
	ID                  string  `json:"id"`
	Title               string  `json:"title"`
	Selftext            string  `json:"selftext"`
	Subreddit           string  `json:"subreddit"`
	Author              string  `json:"author"`
	Ups                 int     `json:"ups"`
	NumComments         int     `json:"num_comments"`
	CreatedUTC          float64 `json:"created_utc"`
	Permalink           string  `json:"permalink"`
	IsVideo             bool    `json:"is_video"`
	URLOverriddenByDest string  `json:"url_overridden_by_dest"`
}

func (r rawPost) normalize() Post {
	return Post{
		ID:           r.ID,
		Title:        r.Title,
		Body:         r.Selftext,
		Subreddit:    r.Subreddit,
		Author:       r.Author,
		Upvotes:      r.Ups,
		CommentCount: r.NumComments,
		CreatedAt:    time.Unix(int64(r.CreatedUTC), 0).UTC(),
		Permalink:    r.Permalink,
		IsVideo:      r.IsVideo,
		MediaURL:     r.URLOverriddenByDest,
	}
}
