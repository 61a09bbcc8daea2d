package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string   `yaml:"addr" envconfig:"SERVER_ADDR"`
		AllowedOrigins []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	} `yaml:"server"`
	Providers struct {
		FinnhubAPIKey    string `yaml:"finnhub_api_key" envconfig:"FINNHUB_API_KEY"`
		PolygonAPIKey    string `yaml:"polygon_api_key" envconfig:"POLYGON_API_KEY"`
		NewsLookbackDays int    `yaml:"news_lookback_days" envconfig:"NEWS_LOOKBACK_DAYS"`
	} `yaml:"providers"`
	Social struct {
		Subreddits    []string `yaml:"subreddits" envconfig:"SUBREDDITS"`
		RedditLimit   int      `yaml:"reddit_limit" envconfig:"REDDIT_LIMIT"`
		MaxForumPosts int      `yaml:"max_forum_posts" envconfig:"MAX_FORUM_POSTS"`
	} `yaml:"social"`
	Telegram struct {
		BotToken string `yaml:"bot_token" envconfig:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" envconfig:"TELEGRAM_CHAT_ID"`
	} `yaml:"telegram"`
	Schedule struct {
		RefreshCron string   `yaml:"refresh_cron" envconfig:"CRON_REFRESH"`
		Watchlist   []string `yaml:"watchlist" envconfig:"WATCHLIST"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A .env file in the working directory is loaded into the environment first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Providers.NewsLookbackDays == 0 {
		c.Providers.NewsLookbackDays = 5
	}
	if len(c.Social.Subreddits) == 0 {
		c.Social.Subreddits = []string{"stocks", "wallstreetbets", "investing", "StockMarket"}
	}
	if c.Social.RedditLimit == 0 {
		c.Social.RedditLimit = 5
	}
	if c.Social.MaxForumPosts == 0 {
		c.Social.MaxForumPosts = 10
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 0 22 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/stockpulse.db"
	}
}

// TelegramEnabled reports whether both bot token and chat ID are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Providers.FinnhubAPIKey == "" {
		return fmt.Errorf("providers.finnhub_api_key is required")
	}
	if c.Providers.NewsLookbackDays < 0 {
		return fmt.Errorf("providers.news_lookback_days must not be negative")
	}
	if c.Social.RedditLimit < 0 || c.Social.MaxForumPosts < 0 {
		return fmt.Errorf("social limits must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
