package cfg

import (
	"cmp"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBDriver string `long:"db-driver" env:"DB_DRIVER" default:"sqlite" choice:"sqlite" choice:"postgres" description:"Database driver"`
	DBDSN    string `long:"db-dsn" env:"DB_DSN" default:"file:autonews.db?_pragma=busy_timeout(5000)" description:"Database connection string"`
	MediaDir string `long:"media-dir" env:"MEDIA_DIR" default:"./media" description:"Directory for uploaded featured images"`

	// Feed configuration
	FeedsFile         string            `long:"feeds-file" env:"FEEDS_FILE" default:"./feeds.yml" description:"YAML file with the feed list"`
	FeedURLs          string            `long:"feed-urls" env:"FEED_URLS" description:"Newline-separated feed URLs (used when the feeds file is absent)"`
	FeedCategories    map[string]string `long:"feed-category" env:"FEED_CATEGORIES" env-delim:"," description:"Per-feed category policy as index:value ('' automatic, 'none', or a category id)"`
	ItemsPerFeed      int               `long:"items-per-feed" env:"ITEMS_PER_FEED" default:"5" description:"Articles to publish per feed and run"`
	PublishDelay      int               `long:"publish-delay" env:"PUBLISH_DELAY" default:"0" description:"Minutes between scheduled publications (0 publishes immediately)"`
	FeedTimeout       int               `long:"feed-timeout" env:"FEED_TIMEOUT" default:"10" description:"Feed and page fetch timeout in seconds"`
	SchedulerInterval int               `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Pipeline interval in minutes (0 disables the scheduler)"`

	// Generative API configuration
	OpenAIKey         string   `long:"openai-key" env:"OPENAI_API_KEY" description:"Generative API key"`
	OpenAIBase        string   `long:"openai-base" env:"OPENAI_API_BASE" default:"https://api.openai.com" description:"Generative API base URL"`
	OpenAIModel       string   `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4.1-nano" description:"Chat completion model"`
	OpenAITemperature float64  `long:"openai-temperature" env:"OPENAI_TEMPERATURE" default:"0.2" description:"Sampling temperature for non-basic models"`
	BasicModels       []string `long:"basic-model" env:"OPENAI_BASIC_MODELS" env-delim:"," default:"gpt-5-nano" description:"Models that reject sampling parameters"`
	Language          string   `long:"language" env:"RESPONSE_LANGUAGE" default:"es" description:"Response language code"`
	PromptFile        string   `long:"prompt-file" env:"PROMPT_FILE" description:"Custom prompt template file"`

	// Publishing configuration
	DefaultAuthor      string  `long:"default-author" env:"DEFAULT_AUTHOR" default:"1" description:"Author id or 'random'"`
	DefaultCategory    int64   `long:"default-category" env:"DEFAULT_CATEGORY" default:"1" description:"Category used when no other category applies"`
	EnableTags         bool    `long:"enable-tags" env:"ENABLE_TAGS" description:"Attach AI-suggested tags"`
	AllowCategoryNew   bool    `long:"allow-category-creation" env:"ALLOW_CATEGORY_CREATION" description:"Create categories suggested by the model"`
	CategoryThreshold  float64 `long:"category-threshold" env:"CATEGORY_THRESHOLD" default:"80" description:"Minimum similarity percentage for fuzzy category matches"`
	ExtractImages      bool    `long:"extract-images" env:"EXTRACT_IMAGES" description:"Look for featured images in the article page"`
	ThumbnailEnabled   bool    `long:"thumbnail" env:"THUMBNAIL_ENABLED" description:"Generate a cover when no image qualifies"`
	ThumbnailBgColor   string  `long:"thumbnail-bg-color" env:"THUMBNAIL_BG_COLOR" default:"#0073aa" description:"Cover overlay color"`
	ThumbnailTextColor string  `long:"thumbnail-text-color" env:"THUMBNAIL_TEXT_COLOR" default:"#ffffff" description:"Cover text color"`
	ThumbnailFontSize  int     `long:"thumbnail-font-size" env:"THUMBNAIL_FONT_SIZE" default:"48" description:"Cover font size (10-60)"`
	ThumbnailBgImage   string  `long:"thumbnail-bg-image" env:"THUMBNAIL_BG_IMAGE" description:"Cover background image path"`

	// Notifications
	TelegramToken  string `long:"telegram-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token for admin alerts"`
	TelegramChatID string `long:"telegram-chat" env:"TELEGRAM_CHAT_ID" description:"Telegram chat receiving admin alerts"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`
	LogFile      string `long:"log-file" env:"LOG_FILE" default:"./autonews.log" description:"Rotating activity log file"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"AutoNews/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Madrid)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	feedCategories, err := parseFeedCategories(raw.FeedCategories)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBDriver:           raw.DBDriver,
		DBDSN:              raw.DBDSN,
		MediaDir:           raw.MediaDir,
		FeedsFile:          raw.FeedsFile,
		FeedURLs:           raw.FeedURLs,
		FeedCategories:     feedCategories,
		ItemsPerFeed:       raw.ItemsPerFeed,
		PublishDelay:       raw.PublishDelay,
		FeedTimeout:        raw.FeedTimeout,
		SchedulerInterval:  raw.SchedulerInterval,
		OpenAIKey:          raw.OpenAIKey,
		OpenAIBase:         strings.TrimRight(raw.OpenAIBase, "/"),
		OpenAIModel:        cmp.Or(strings.TrimSpace(raw.OpenAIModel), "gpt-4.1-nano"),
		OpenAITemperature:  raw.OpenAITemperature,
		BasicModels:        raw.BasicModels,
		Language:           raw.Language,
		PromptFile:         raw.PromptFile,
		DefaultAuthor:      raw.DefaultAuthor,
		DefaultCategory:    raw.DefaultCategory,
		EnableTags:         raw.EnableTags,
		AllowCategoryNew:   raw.AllowCategoryNew,
		CategoryThreshold:  raw.CategoryThreshold,
		ExtractImages:      raw.ExtractImages,
		ThumbnailEnabled:   raw.ThumbnailEnabled,
		ThumbnailBgColor:   raw.ThumbnailBgColor,
		ThumbnailTextColor: raw.ThumbnailTextColor,
		ThumbnailFontSize:  raw.ThumbnailFontSize,
		ThumbnailBgImage:   raw.ThumbnailBgImage,
		TelegramToken:      raw.TelegramToken,
		TelegramChatID:     raw.TelegramChatID,
		Port:               raw.Port,
		APIAccessKey:       raw.APIAccessKey,
		LogFile:            raw.LogFile,
		UserAgent:          raw.UserAgent,
		Timezone:           raw.Timezone,
		Debug:              raw.Debug,
		Version:            GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
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

// parseFeedCategories turns "index:policy" pairs into a map keyed by feed index.
func parseFeedCategories(raw map[string]string) (map[int]string, error) {
	result := make(map[int]string, len(raw))
	for key, value := range raw {
		index, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || index < 0 {
			return nil, fmt.Errorf("invalid feed category index %q", key)
		}
		result[index] = strings.TrimSpace(value)
	}
	return result, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
