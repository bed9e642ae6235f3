package api

import (
	"context"

	"github.com/ideacomb/idea-comb/app/config"
	"github.com/ideacomb/idea-comb/app/enrich"
	"github.com/ideacomb/idea-comb/app/pipeline"
	"github.com/ideacomb/idea-comb/app/reddit"
	"github.com/ideacomb/idea-comb/app/scoring"
)

type PipelineInterface interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	RunSource(ctx context.Context, source *config.Source) (*pipeline.Result, error)
}

type FetcherInterface interface {
	FetchPosts(ctx context.Context, source string, limit int, mode reddit.Mode, after string) (*reddit.Page, error)
	FetchPostsPublic(ctx context.Context, source string, limit int, mode reddit.Mode, after string) (*reddit.Page, error)
}

type Handler struct {
	fetcher  FetcherInterface
	pipeline PipelineInterface
	engine   *scoring.Engine
	sources  *config.Cache
	enricher enrich.Provider // nil when no provider is configured
}

// scoreRequest is the payload for scoring a single post. Missing numeric
// fields default to zero; a missing creation time defaults to now.
type scoreRequest struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	Upvotes      int    `json:"upvotes"`
	CommentCount int    `json:"comment_count"`
	CreatedUTC   int64  `json:"created_utc"`
}

// enrichRequest is the payload for the enrichment endpoints.
type enrichRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
