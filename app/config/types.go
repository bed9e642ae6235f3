package config

// Source kinds

const (
	KindSubreddit = "subreddit"
	KindFeed      = "feed"
)

// Source is one configured content source, loaded from a YAML file in the
// sources directory. Name is derived from the filename (without .yml).
type Source struct {
	Name      string         // Derived from filename (without .yml extension)
	Kind      string         `yaml:"kind"`
	Subreddit string         `yaml:"subreddit"`
	URL       string         `yaml:"url"`
	Settings  SourceSettings `yaml:"settings"`
	Filters   []SourceFilter `yaml:"filters"`
}

type SourceSettings struct {
	Enabled       bool   `yaml:"enabled"`
	Mode          string `yaml:"mode"`           // hot or new, subreddit sources only
	Limit         int    `yaml:"limit"`          // posts per fetch
	Public        bool   `yaml:"public"`         // use the public JSON endpoint
	MinConfidence int    `yaml:"min_confidence"` // confidence cutoff, -1 uses the global default
}

type SourceFilter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}
