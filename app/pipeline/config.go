package pipeline

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lysyi3m/autonews/app/cfg"
	"github.com/lysyi3m/autonews/app/images"
)

const RandomAuthor = "random"

// Config is everything one run needs. It is built once per run and handed
// to the components; nothing below the pipeline reads global configuration.
type Config struct {
	APIKey         string
	APIBase        string
	Model          string
	Temperature    float64
	BasicModels    []string
	Language       string
	PromptTemplate string

	ItemsPerFeed int
	PublishDelay time.Duration
	FeedTimeout  time.Duration

	DefaultAuthor       string
	DefaultCategory     int64
	CategoryThreshold   float64
	AllowCategoryCreate bool
	EnableTags          bool

	ExtractImages    bool
	ThumbnailEnabled bool
	Thumbnail        images.ThumbnailConfig
}

// NewConfig maps the process configuration and reads the custom prompt file.
func NewConfig(c *cfg.Cfg) (Config, error) {
	config := Config{
		APIKey:              c.OpenAIKey,
		APIBase:             c.OpenAIBase,
		Model:               c.OpenAIModel,
		Temperature:         c.OpenAITemperature,
		BasicModels:         c.BasicModels,
		Language:            c.Language,
		ItemsPerFeed:        c.ItemsPerFeed,
		PublishDelay:        time.Duration(c.PublishDelay) * time.Minute,
		FeedTimeout:         time.Duration(c.FeedTimeout) * time.Second,
		DefaultAuthor:       strings.TrimSpace(c.DefaultAuthor),
		DefaultCategory:     c.DefaultCategory,
		CategoryThreshold:   c.CategoryThreshold,
		AllowCategoryCreate: c.AllowCategoryNew,
		EnableTags:          c.EnableTags,
		ExtractImages:       c.ExtractImages,
		ThumbnailEnabled:    c.ThumbnailEnabled,
		Thumbnail: images.ThumbnailConfig{
			BgColor:   c.ThumbnailBgColor,
			TextColor: c.ThumbnailTextColor,
			FontSize:  c.ThumbnailFontSize,
			BgImage:   c.ThumbnailBgImage,
		},
	}

	if c.PromptFile != "" {
		data, err := os.ReadFile(c.PromptFile)
		if err != nil {
			return config, fmt.Errorf("failed to read prompt file: %w", err)
		}
		config.PromptTemplate = strings.TrimSpace(string(data))
	}

	return config, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return &ConfigError{Field: "API key"}
	}
	return nil
}
