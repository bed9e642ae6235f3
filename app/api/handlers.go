package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ideacomb/idea-comb/app/config"
	"github.com/ideacomb/idea-comb/app/enrich"
	"github.com/ideacomb/idea-comb/app/pipeline"
	"github.com/ideacomb/idea-comb/app/reddit"
	"github.com/ideacomb/idea-comb/app/scoring"
)

func NewHandler(fetcher FetcherInterface, pl PipelineInterface, engine *scoring.Engine,
	sources *config.Cache, enricher enrich.Provider) *Handler {
	return &Handler{
		fetcher:  fetcher,
		pipeline: pl,
		engine:   engine,
		sources:  sources,
		enricher: enricher,
	}
}

// GetPosts proxies one page of a subreddit listing without scoring.
func (h *Handler) GetPosts(c *gin.Context) {
	source := c.Param("source")
	if source == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	limit := queryInt(c, "limit", 25)
	mode, ok := reddit.ParseMode(c.Query("mode"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode, expected hot or new"})
		return
	}

	var page *reddit.Page
	var err error
	if c.Query("public") == "true" {
		page, err = h.fetcher.FetchPostsPublic(c.Request.Context(), source, limit, mode, c.Query("after"))
	} else {
		page, err = h.fetcher.FetchPosts(c.Request.Context(), source, limit, mode, c.Query("after"))
	}
	if err != nil {
		h.renderError(c, "fetch_posts", source, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetSummaries runs the full pipeline for a subreddit.
func (h *Handler) GetSummaries(c *gin.Context) {
	source := c.Param("source")
	if source == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	mode, ok := reddit.ParseMode(c.Query("mode"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mode, expected hot or new"})
		return
	}

	req := pipeline.Request{
		Source:        source,
		Limit:         queryInt(c, "limit", 25),
		Mode:          mode,
		After:         c.Query("after"),
		Public:        c.Query("public") == "true",
		MinConfidence: queryInt(c, "min_confidence", -1),
	}

	result, err := h.pipeline.Run(c.Request.Context(), req)
	if err != nil {
		h.renderError(c, "run_pipeline", source, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PostSummary scores a single post supplied in the request body.
func (h *Handler) PostSummary(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	now := time.Now()

	createdAt := now
	if req.CreatedUTC > 0 {
		createdAt = time.Unix(req.CreatedUTC, 0).UTC()
	}

	post := reddit.Post{
		Title:        req.Title,
		Body:         req.Body,
		Upvotes:      req.Upvotes,
		CommentCount: req.CommentCount,
		CreatedAt:    createdAt,
	}

	c.JSON(http.StatusOK, h.engine.Score(post, now))
}

// ListSources reports the configured source profiles.
func (h *Handler) ListSources(c *gin.Context) {
	sources := h.sources.GetSources()

	list := make([]gin.H, 0, len(sources))
	for _, source := range sources {
		list = append(list, gin.H{
			"name":           source.Name,
			"kind":           source.Kind,
			"subreddit":      source.Subreddit,
			"url":            source.URL,
			"enabled":        source.Settings.Enabled,
			"mode":           source.Settings.Mode,
			"limit":          source.Settings.Limit,
			"min_confidence": source.Settings.MinConfidence,
			"filters":        len(source.Filters),
		})
	}

	c.JSON(http.StatusOK, gin.H{"sources": list})
}

// GetSourceSummaries runs the pipeline for a configured source profile.
func (h *Handler) GetSourceSummaries(c *gin.Context) {
	name := c.Param("name")

	source, err := h.sources.GetSource(name)
	if err != nil {
		slog.Error("Source configuration not found", "source", name, "error", err)
		c.Status(http.StatusNotFound)
		return
	}

	if !source.Settings.Enabled {
		c.JSON(http.StatusConflict, gin.H{"error": "source is disabled"})
		return
	}

	result, err := h.pipeline.RunSource(c.Request.Context(), source)
	if err != nil {
		h.renderError(c, "run_source", name, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PostEnrichSummary asks the enrichment provider for a generated title and
// description. Best-effort: provider failures never affect scoring.
func (h *Handler) PostEnrichSummary(c *gin.Context) {
	req, ok := h.bindEnrichRequest(c)
	if !ok {
		return
	}

	enrichment, err := h.enricher.Summarize(c.Request.Context(), req.Title, req.Body)
	if err != nil {
		slog.Error("Enrichment failed", "operation", "summarize", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "enrichment provider failed"})
		return
	}

	c.JSON(http.StatusOK, enrichment)
}

// PostEnrichSolution asks the enrichment provider for a startup solution
// outline.
func (h *Handler) PostEnrichSolution(c *gin.Context) {
	req, ok := h.bindEnrichRequest(c)
	if !ok {
		return
	}

	solution, err := h.enricher.Solve(c.Request.Context(), req.Title, req.Body)
	if err != nil {
		slog.Error("Enrichment failed", "operation", "solve", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "enrichment provider failed"})
		return
	}

	c.JSON(http.StatusOK, solution)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if h.sources != nil {
		health["loaded_sources"] = h.sources.GetSourceCount()
	}
	health["enrichment_enabled"] = h.enricher != nil

	c.JSON(http.StatusOK, health)
}

func (h *Handler) bindEnrichRequest(c *gin.Context) (*enrichRequest, bool) {
	if h.enricher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "enrichment provider not configured"})
		return nil, false
	}

	var req enrichRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return nil, false
	}
	return &req, true
}

// renderError maps the error taxonomy onto HTTP statuses: local rate budget
// exhaustion is 429, credential and upstream failures are 502, anything else
// is 500.
func (h *Handler) renderError(c *gin.Context, operation, source string, err error) {
	slog.Error("Request failed", "operation", operation, "source", source, "error", err)

	var authErr *reddit.AuthError
	var upstreamErr *reddit.UpstreamError

	switch {
	case errors.Is(err, reddit.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again in a minute"})
	case errors.As(err, &authErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "reddit authentication failed"})
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch posts"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
