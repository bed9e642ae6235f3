package feedsrc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Startup Blog</title>
    <link>https://example.com</link>
    <description>Posts about startups</description>
    <item>
      <guid>https://example.com/post-1</guid>
      <title>How we found product market fit</title>
      <link>https://example.com/post-1</link>
      <description><![CDATA[<p>Our startup spent a year iterating on the product before revenue started growing. Here is everything we learned along the way about customers.</p>]]></description>
      <pubDate>Mon, 02 Jun 2025 10:00:00 +0000</pubDate>
      <author>jane@example.com (Jane)</author>
    </item>
    <item>
      <guid>https://example.com/post-2</guid>
      <title>Plain text update</title>
      <link>https://example.com/post-2</link>
      <description>A short plain update without markup.</description>
      <pubDate>Tue, 03 Jun 2025 10:00:00 +0000</pubDate>
    </item>
    <item>
      <guid>https://example.com/post-3</guid>
      <title>Third post</title>
      <link>https://example.com/post-3</link>
      <description>Another update to push past the limit.</description>
    </item>
  </channel>
</rss>`

func TestFetcher_Fetch_NormalizesItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "IdeaComb/test" {
			t.Errorf("Expected test user agent, got '%s'", got)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFixture))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "IdeaComb/test")

	posts, err := fetcher.Fetch(context.Background(), server.URL+"/feed.xml", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(posts) != 3 {
		t.Fatalf("Expected 3 posts, got %d", len(posts))
	}

	first := posts[0]
	if first.ID != "https://example.com/post-1" {
		t.Errorf("Unexpected ID: %s", first.ID)
	}
	if first.Title != "How we found product market fit" {
		t.Errorf("Unexpected title: %s", first.Title)
	}
	if first.Subreddit != "Startup Blog" {
		t.Errorf("Expected feed title as source label, got '%s'", first.Subreddit)
	}
	if first.Upvotes != 0 || first.CommentCount != 0 {
		t.Errorf("Feed items must carry zero engagement, got %d/%d", first.Upvotes, first.CommentCount)
	}
	if first.CreatedAt.IsZero() {
		t.Error("Expected published date to be set")
	}
}

func TestFetcher_Fetch_StripsHTMLFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFixture))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "IdeaComb/test")

	posts, err := fetcher.Fetch(context.Background(), server.URL+"/feed.xml", 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, post := range posts {
		for _, tag := range []string{"<p>", "</p>"} {
			if strings.Contains(post.Body, tag) {
				t.Errorf("Post %s body still contains %s: %q", post.ID, tag, post.Body)
			}
		}
	}

	if posts[1].Body != "A short plain update without markup." {
		t.Errorf("Plain description altered: %q", posts[1].Body)
	}
}

func TestFetcher_Fetch_RespectsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFixture))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "IdeaComb/test")

	posts, err := fetcher.Fetch(context.Background(), server.URL+"/feed.xml", 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("Expected limit of 2 posts, got %d", len(posts))
	}
}

func TestFetcher_Fetch_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "IdeaComb/test")

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/feed.xml", 0); err == nil {
		t.Error("Expected an error for a failing feed server")
	}
}

func TestFetcher_Fetch_InvalidPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "IdeaComb/test")

	if _, err := fetcher.Fetch(context.Background(), server.URL+"/feed.xml", 0); err == nil {
		t.Error("Expected an error for an unparseable feed")
	}
}
