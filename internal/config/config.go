package config

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

const envPrefix = "HNDR"

var defaultFiles = []string{"./config.hcl", "./config.local.hcl"}

type Config struct {
	SearchURL      string        `hcl:"search_url" env:"SEARCH_URL" default:"https://hn.algolia.com/api/v1/search"`
	DiscussionURL  string        `hcl:"discussion_url" env:"DISCUSSION_URL" default:"https://news.ycombinator.com/item?id="`
	UserAgent      string        `hcl:"user_agent" env:"USER_AGENT" default:"HN-Daily-Reader/1.0"`
	MinPoints      int           `hcl:"min_points" env:"MIN_POINTS" default:"100"`
	PostsPerDay    int           `hcl:"posts_per_day" env:"POSTS_PER_DAY" default:"20"`
	RetentionDays  int           `hcl:"retention_days" env:"RETENTION_DAYS" default:"90"`
	RequestTimeout time.Duration `hcl:"request_timeout" env:"REQUEST_TIMEOUT" default:"30s"`

	FeedDataFile string `hcl:"feed_data_file" env:"FEED_DATA_FILE" default:"docs/feed_data.json"`
	RSSFile      string `hcl:"rss_file" env:"RSS_FILE" default:"docs/feed.xml"`
	// DatabaseDSN switches the dataset from FeedDataFile to a SQL database when set.
	DatabaseDSN string `hcl:"database_dsn" env:"DATABASE_DSN"`

	// Schedule is a cron expression (UTC). Empty means run once and exit.
	Schedule string `hcl:"schedule" env:"SCHEDULE"`

	LogLevel  string `hcl:"log_level" env:"LOG_LEVEL" default:"info"`
	LogFormat string `hcl:"log_format" env:"LOG_FORMAT" default:"console"`

	FeedTitle       string `hcl:"feed_title" env:"FEED_TITLE" default:"HN Daily Top Posts"`
	FeedLink        string `hcl:"feed_link" env:"FEED_LINK" default:"https://news.ycombinator.com"`
	FeedDescription string `hcl:"feed_description" env:"FEED_DESCRIPTION" default:"Daily curated top posts from Hacker News (auto-generated, last 90 days)"`
	FeedLanguage    string `hcl:"feed_language" env:"FEED_LANGUAGE" default:"en-us"`
	FeedSelfURL     string `hcl:"feed_self_url" env:"FEED_SELF_URL" default:"https://YOUR_USERNAME.github.io/hn-daily-reader/feed.xml"`
}

func (c Config) Validate() error {
	var errs []error

	if c.SearchURL == "" {
		errs = append(errs, errors.New("search_url is required"))
	}
	if c.MinPoints < 0 {
		errs = append(errs, fmt.Errorf("min_points must not be negative, got %d", c.MinPoints))
	}
	if c.PostsPerDay <= 0 {
		errs = append(errs, fmt.Errorf("posts_per_day must be positive, got %d", c.PostsPerDay))
	}
	if c.RetentionDays <= 0 {
		errs = append(errs, fmt.Errorf("retention_days must be positive, got %d", c.RetentionDays))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.DatabaseDSN == "" && c.FeedDataFile == "" {
		errs = append(errs, errors.New("either feed_data_file or database_dsn is required"))
	}
	if c.RSSFile == "" {
		errs = append(errs, errors.New("rss_file is required"))
	}

	return errors.Join(errs...)
}

// Load reads defaults, then the given HCL files (missing ones are skipped),
// then HNDR_* environment variables.
func Load(files ...string) (Config, error) {
	var cfg Config

	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: envPrefix,
		SkipFlags: true,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in defaults, ignoring files and environment.
func Default() Config {
	var cfg Config

	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFiles: true,
		SkipEnv:   true,
		SkipFlags: true,
	})

	if err := loader.Load(); err != nil {
		panic(fmt.Sprintf("config: bad default tags: %v", err))
	}

	return cfg
}

var (
	once    sync.Once
	cfg     Config
	loadErr error
)

// Get loads the process configuration from ./config.hcl, ./config.local.hcl
// and the environment once.
func Get() (Config, error) {
	once.Do(func() {
		cfg, loadErr = Load(defaultFiles...)
	})

	return cfg, loadErr
}
