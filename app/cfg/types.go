package cfg

type Cfg struct {
	// Reddit API configuration
	RedditClientID     string
	RedditClientSecret string
	RedditUsername     string
	RedditPassword     string
	RedditAuthURL      string
	RedditAPIURL       string
	RedditPublicURL    string

	// Client-side throttling and token caching
	RateBudget         int
	RateWindowSeconds  int
	TokenMarginSeconds int

	// Scoring
	MinConfidence int

	// Application configuration
	SourcesDir   string
	Port         string
	WorkerCount  int
	APIAccessKey string

	// Enrichment provider
	GeminiAPIKey string
	GeminiModel  string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
