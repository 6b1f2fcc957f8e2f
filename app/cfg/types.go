package cfg

type Cfg struct {
	// Storage configuration
	DBDriver string
	DBDSN    string
	MediaDir string

	// Feed configuration
	FeedsFile         string
	FeedURLs          string
	FeedCategories    map[int]string
	ItemsPerFeed      int
	PublishDelay      int
	FeedTimeout       int
	SchedulerInterval int

	// Generative API configuration
	OpenAIKey         string
	OpenAIBase        string
	OpenAIModel       string
	OpenAITemperature float64
	BasicModels       []string
	Language          string
	PromptFile        string

	// Publishing configuration
	DefaultAuthor      string
	DefaultCategory    int64
	EnableTags         bool
	AllowCategoryNew   bool
	CategoryThreshold  float64
	ExtractImages      bool
	ThumbnailEnabled   bool
	ThumbnailBgColor   string
	ThumbnailTextColor string
	ThumbnailFontSize  int
	ThumbnailBgImage   string

	// Notifications
	TelegramToken  string
	TelegramChatID string

	// Application configuration
	Port         string
	APIAccessKey string
	LogFile      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
