package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ideacomb/idea-comb/app/config"
	"github.com/ideacomb/idea-comb/app/reddit"
	"github.com/ideacomb/idea-comb/app/scoring"
)

// SubredditFetcher is the slice of the Reddit client the pipeline needs.
type SubredditFetcher interface {
	FetchPosts(ctx context.Context, source string, limit int, mode reddit.Mode, after string) (*reddit.Page, error)
	FetchPostsPublic(ctx context.Context, source string, limit int, mode reddit.Mode, after string) (*reddit.Page, error)
}

// FeedFetcher pulls posts from an RSS/Atom source.
type FeedFetcher interface {
	Fetch(ctx context.Context, feedURL string, limit int) ([]reddit.Post, error)
}

// Request describes one pipeline invocation.
type Request struct {
	Source        string
	Limit         int
	Mode          reddit.Mode
	After         string
	Public        bool
	MinConfidence int // -1 uses the configured default
}

// Item pairs a scored summary with its originating post.
type Item struct {
	Post    reddit.Post     `json:"post"`
	Summary scoring.Summary `json:"summary"`
}

// Result is the ranked, annotated outcome of one pipeline run.
type Result struct {
	Items      []Item `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// Pipeline orchestrates fetch, filter, and score. Scoring fans out over a
// bounded worker pool; a single item's failure never fails the batch.
type Pipeline struct {
	subreddits  SubredditFetcher
	feeds       FeedFetcher
	engine      *scoring.Engine
	filterer    *config.Filterer
	workerCount int
	defaultMin  int

	now func() time.Time
}

func NewPipeline(subreddits SubredditFetcher, feeds FeedFetcher, engine *scoring.Engine, workerCount, defaultMinConfidence int) *Pipeline {
	if workerCount < 1 {
		workerCount = 1
	}

	return &Pipeline{
		subreddits:  subreddits,
		feeds:       feeds,
		engine:      engine,
		filterer:    config.NewFilterer(),
		workerCount: workerCount,
		defaultMin:  defaultMinConfidence,
		now:         time.Now,
	}
}

// Run fetches one page of posts and returns the summaries whose confidence
// exceeds the cutoff, in upstream post order.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	var page *reddit.Page
	var err error

	if req.Public {
		page, err = p.subreddits.FetchPostsPublic(ctx, req.Source, req.Limit, req.Mode, req.After)
	} else {
		page, err = p.subreddits.FetchPosts(ctx, req.Source, req.Limit, req.Mode, req.After)
	}
	if err != nil {
		return nil, err
	}

	items := p.scoreAndFilter(page.Posts, p.cutoff(req.MinConfidence))

	return &Result{Items: items, NextCursor: page.NextCursor}, nil
}

// RunSource runs the pipeline for a configured source profile, applying the
// profile's keyword filters before scoring.
func (p *Pipeline) RunSource(ctx context.Context, source *config.Source) (*Result, error) {
	var posts []reddit.Post
	var nextCursor string

	switch source.Kind {
	case config.KindSubreddit:
		mode, ok := reddit.ParseMode(source.Settings.Mode)
		if !ok {
			return nil, fmt.Errorf("source %s has invalid mode %q", source.Name, source.Settings.Mode)
		}

		var page *reddit.Page
		var err error
		if source.Settings.Public {
			page, err = p.subreddits.FetchPostsPublic(ctx, source.Subreddit, source.Settings.Limit, mode, "")
		} else {
			page, err = p.subreddits.FetchPosts(ctx, source.Subreddit, source.Settings.Limit, mode, "")
		}
		if err != nil {
			return nil, err
		}
		posts = page.Posts
		nextCursor = page.NextCursor

	case config.KindFeed:
		fetched, err := p.feeds.Fetch(ctx, source.URL, source.Settings.Limit)
		if err != nil {
			return nil, err
		}
		posts = fetched

	default:
		return nil, fmt.Errorf("source %s has unknown kind %q", source.Name, source.Kind)
	}

	posts = p.filterer.Run(posts, source.Filters)
	items := p.scoreAndFilter(posts, p.cutoff(source.Settings.MinConfidence))

	return &Result{Items: items, NextCursor: nextCursor}, nil
}

func (p *Pipeline) cutoff(minConfidence int) int {
	if minConfidence < 0 {
		return p.defaultMin
	}
	return minConfidence
}

func (p *Pipeline) scoreAndFilter(posts []reddit.Post, cutoff int) []Item {
	summaries, ok := p.scoreAll(posts)

	items := make([]Item, 0, len(posts))
	for i, post := range posts {
		if !ok[i] {
			continue
		}
		if summaries[i].Confidence <= cutoff {
			continue
		}
		items = append(items, Item{Post: post, Summary: summaries[i]})
	}
	return items
}

// scoreAll scores posts concurrently on a bounded worker pool. Posts have no
// shared mutable state, so the fan-out is safe; each item is isolated so a
// panic in one never aborts its siblings.
func (p *Pipeline) scoreAll(posts []reddit.Post) ([]scoring.Summary, []bool) {
	summaries := make([]scoring.Summary, len(posts))
	ok := make([]bool, len(posts))
	now := p.now()

	workers := p.workerCount
	if workers > len(posts) {
		workers = len(posts)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				p.scoreOne(posts[i], now, &summaries[i], &ok[i])
			}
		}()
	}

	for i := range posts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return summaries, ok
}

func (p *Pipeline) scoreOne(post reddit.Post, now time.Time, summary *scoring.Summary, ok *bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Scoring failed, dropping item", "post", post.ID, "panic", r)
			*ok = false
		}
	}()

	*summary = p.engine.Score(post, now)
	*ok = true
}
