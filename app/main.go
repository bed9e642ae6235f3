package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideacomb/idea-comb/app/analyzer"
	"github.com/ideacomb/idea-comb/app/api"
	"github.com/ideacomb/idea-comb/app/cfg"
	"github.com/ideacomb/idea-comb/app/config"
	"github.com/ideacomb/idea-comb/app/enrich"
	"github.com/ideacomb/idea-comb/app/feedsrc"
	"github.com/ideacomb/idea-comb/app/pipeline"
	"github.com/ideacomb/idea-comb/app/reddit"
	"github.com/ideacomb/idea-comb/app/scoring"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Idea Comb server...", "version", appCfg.Version)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	// Load source configurations
	sourceCache := config.NewCache(appCfg.SourcesDir)
	if err := sourceCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", sourceCache.GetSourceCount())

	// Initialize core components
	redditClient := reddit.NewClient(appCfg, httpClient)
	feedFetcher := feedsrc.NewFetcher(httpClient, appCfg.UserAgent)
	engine := scoring.NewEngine(analyzer.NewAnalyzer(), scoring.DefaultThresholds())
	pl := pipeline.NewPipeline(redditClient, feedFetcher, engine, appCfg.WorkerCount, appCfg.MinConfidence)

	// Enrichment provider is optional; the scoring pipeline works without it
	var enricher enrich.Provider
	if appCfg.GeminiAPIKey != "" {
		gemini, err := enrich.NewGemini(context.Background(), appCfg.GeminiAPIKey, appCfg.GeminiModel)
		if err != nil {
			slog.Error("Failed to initialize enrichment provider", "error", err)
			os.Exit(1)
		}
		enricher = gemini
		slog.Info("Enrichment provider enabled", "model", appCfg.GeminiModel)
	} else {
		slog.Info("Enrichment provider disabled (GEMINI_API_KEY not set)")
	}

	// Initialize HTTP server
	apiHandler := api.NewHandler(redditClient, pl, engine, sourceCache, enricher)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("Idea Comb server shutdown complete")
}
