package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache loads source configurations from a directory of YAML files and keeps
// them in memory. Safe for concurrent reads.
type Cache struct {
	sourcesDir string
	cache      map[string]*Source
	mu         sync.RWMutex
}

func NewCache(sourcesDir string) *Cache {
	return &Cache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Source),
	}
}

// Run loads every *.yml file from the sources directory. A missing directory
// is not an error; the service simply runs without configured sources.
func (c *Cache) Run() error {
	if _, err := os.Stat(c.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		sourceName := fileName[:len(fileName)-4] // Remove .yml extension

		source, err := c.LoadSource(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source configuration loaded",
			"source", sourceName,
			"kind", source.Kind,
			"enabled", source.Settings.Enabled)
	}

	return nil
}

func (c *Cache) LoadSource(sourceName string) (*Source, error) {
	configFile := filepath.Join(c.sourcesDir, sourceName+".yml")

	source, err := c.parseSource(configFile)
	if err != nil {
		return nil, err
	}

	source.Name = sourceName

	if err := c.validateSource(source); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", configFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[source.Name] = source

	return source, nil
}

func (c *Cache) GetSource(sourceName string) (*Source, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	source, ok := c.cache[sourceName]
	if !ok {
		return nil, fmt.Errorf("source config with name '%s' not found", sourceName)
	}
	return source, nil
}

func (c *Cache) GetSources() map[string]*Source {
	c.mu.RLock()
	defer c.mu.RUnlock()

	sourcesCopy := make(map[string]*Source, len(c.cache))
	for k, v := range c.cache {
		sourcesCopy[k] = v
	}
	return sourcesCopy
}

func (c *Cache) GetSourceCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Cache) parseSource(configFile string) (*Source, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Kind == "" {
		source.Kind = KindSubreddit
	}
	if source.Settings.Mode == "" {
		source.Settings.Mode = "hot"
	}
	if source.Settings.Limit == 0 {
		source.Settings.Limit = 25
	}
	if source.Settings.MinConfidence == 0 {
		source.Settings.MinConfidence = -1
	}

	return &source, nil
}

func (c *Cache) validateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("source is nil")
	}

	switch source.Kind {
	case KindSubreddit:
		if source.Subreddit == "" {
			return fmt.Errorf("subreddit is required for subreddit sources")
		}
		if source.Settings.Mode != "hot" && source.Settings.Mode != "new" {
			return fmt.Errorf("invalid mode: %s", source.Settings.Mode)
		}
	case KindFeed:
		if source.URL == "" {
			return fmt.Errorf("url is required for feed sources")
		}
	default:
		return fmt.Errorf("invalid source kind: %s", source.Kind)
	}

	if source.Settings.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	if source.Settings.MinConfidence < -1 || source.Settings.MinConfidence > 100 {
		return fmt.Errorf("min_confidence must be within [0,100]")
	}

	validFields := map[string]bool{
		"title":  true,
		"body":   true,
		"author": true,
	}

	for i, filter := range source.Filters {
		if !validFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}
