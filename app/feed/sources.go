package feed

import (
	"cmp"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type sourcesFile struct {
	Feeds []Source `yaml:"feeds"`
}

// SourceCache holds the configured feed list. Sources come from the YAML feeds
// file when it exists, and from the newline separated URL list otherwise.
type SourceCache struct {
	feedsFile string
	urlList   string
	policies  map[int]string
	sources   []Source
	mu        sync.RWMutex
}

func NewSourceCache(feedsFile, urlList string, policies map[int]string) *SourceCache {
	return &SourceCache{
		feedsFile: feedsFile,
		urlList:   urlList,
		policies:  policies,
	}
}

func (sc *SourceCache) Run() error {
	var sources []Source

	if sc.feedsFile != "" {
		if _, err := os.Stat(sc.feedsFile); err == nil {
			loaded, err := LoadSourcesFile(sc.feedsFile)
			if err != nil {
				return err
			}
			sources = loaded
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat feeds file: %w", err)
		}
	}

	if sources == nil {
		parsed, err := ParseURLList(sc.urlList, sc.policies)
		if err != nil {
			return err
		}
		sources = parsed
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.sources = sources

	slog.Debug("Feed sources loaded", "count", len(sources))

	return nil
}

func (sc *SourceCache) GetSources() []Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	sourcesCopy := make([]Source, len(sc.sources))
	copy(sourcesCopy, sc.sources)
	return sourcesCopy
}

func (sc *SourceCache) GetSourceCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.sources)
}

// LoadSourcesFile reads a YAML document with a top-level "feeds" list.
func LoadSourcesFile(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	sources := make([]Source, 0, len(file.Feeds))
	for i, source := range file.Feeds {
		source.URL = strings.TrimSpace(source.URL)
		if err := validateURL(source.URL); err != nil {
			slog.Warn("Invalid feed URL dropped", "index", i, "url", source.URL, "error", err)
			continue
		}
		source.Name = cmp.Or(strings.TrimSpace(source.Name), hostOf(source.URL))
		sources = append(sources, source)
	}

	return sources, nil
}

// ParseURLList splits a newline separated list of feed URLs. Policies are
// keyed by the position of each non-empty line.
func ParseURLList(list string, policies map[int]string) ([]Source, error) {
	var sources []Source

	index := 0
	for _, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		position := index
		index++

		if err := validateURL(line); err != nil {
			slog.Warn("Invalid feed URL dropped", "index", position, "url", line, "error", err)
			continue
		}

		policy, err := ParsePolicy(policies[position])
		if err != nil {
			return nil, fmt.Errorf("feed %d: %w", position, err)
		}

		sources = append(sources, Source{
			Name:     hostOf(line),
			URL:      line,
			Category: policy,
		})
	}

	return sources, nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}

	return nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Host
}
