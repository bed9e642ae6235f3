package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Reddit API configuration
	RedditClientID     string `long:"reddit-client-id" env:"REDDIT_CLIENT_ID" description:"Reddit OAuth application client ID"`
	RedditClientSecret string `long:"reddit-client-secret" env:"REDDIT_CLIENT_SECRET" description:"Reddit OAuth application client secret"`
	RedditUsername     string `long:"reddit-username" env:"REDDIT_USERNAME" description:"Reddit account username for the password grant"`
	RedditPassword     string `long:"reddit-password" env:"REDDIT_PASSWORD" description:"Reddit account password for the password grant"`
	RedditAuthURL      string `long:"reddit-auth-url" env:"REDDIT_AUTH_URL" default:"https://www.reddit.com/api/v1/access_token" description:"Reddit token endpoint"`
	RedditAPIURL       string `long:"reddit-api-url" env:"REDDIT_API_URL" default:"https://oauth.reddit.com" description:"Reddit authenticated API base URL"`
	RedditPublicURL    string `long:"reddit-public-url" env:"REDDIT_PUBLIC_URL" default:"https://www.reddit.com" description:"Reddit public JSON base URL"`

	// Client-side throttling and token caching
	RateBudget         int `long:"rate-budget" env:"RATE_BUDGET" default:"55" description:"Requests allowed per rate window (stay below Reddit's 60/min)"`
	RateWindowSeconds  int `long:"rate-window" env:"RATE_WINDOW" default:"60" description:"Rate window length in seconds"`
	TokenMarginSeconds int `long:"token-margin" env:"TOKEN_MARGIN" default:"300" description:"Safety margin subtracted from token lifetime in seconds"`

	// Scoring
	MinConfidence int `long:"min-confidence" env:"MIN_CONFIDENCE" default:"45" description:"Default confidence cutoff for surfaced summaries"`

	// Application configuration
	SourcesDir   string `long:"sources-dir" env:"SOURCES_DIR" default:"./sources" description:"Directory containing source configuration files"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount  int    `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of workers for per-post scoring fan-out"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for source management endpoints (optional)"`

	// Enrichment provider
	GeminiAPIKey string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key for enrichment endpoints (optional)"`
	GeminiModel  string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-2.0-flash" description:"Gemini model used for enrichment"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"IdeaComb/1.0" description:"User agent string for outbound HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		RedditClientID:     raw.RedditClientID,
		RedditClientSecret: raw.RedditClientSecret,
		RedditUsername:     raw.RedditUsername,
		RedditPassword:     raw.RedditPassword,
		RedditAuthURL:      raw.RedditAuthURL,
		RedditAPIURL:       raw.RedditAPIURL,
		RedditPublicURL:    raw.RedditPublicURL,
		RateBudget:         raw.RateBudget,
		RateWindowSeconds:  raw.RateWindowSeconds,
		TokenMarginSeconds: raw.TokenMarginSeconds,
		MinConfidence:      raw.MinConfidence,
		SourcesDir:         raw.SourcesDir,
		Port:               raw.Port,
		WorkerCount:        raw.WorkerCount,
		APIAccessKey:       raw.APIAccessKey,
		GeminiAPIKey:       raw.GeminiAPIKey,
		GeminiModel:        raw.GeminiModel,
		UserAgent:          raw.UserAgent,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
