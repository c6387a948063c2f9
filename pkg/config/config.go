// Package config loads live-news settings from defaults, an optional YAML
// file and LIVENEWS_ environment variables
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"live-news/pkg/domain"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (LIVENEWS_SERVER_ADDR, ...)
const EnvPrefix = "LIVENEWS"

// Config represents the complete live-news configuration
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Feeds      map[string]string `mapstructure:"feeds"`
	Refresh    RefreshConfig     `mapstructure:"refresh"`
	Pipeline   PipelineConfig    `mapstructure:"pipeline"`
	Summarizer SummarizerConfig  `mapstructure:"summarizer"`
	Viewer     ViewerConfig      `mapstructure:"viewer"`
}

// ServerConfig contains news server settings
type ServerConfig struct {
	Addr      string        `mapstructure:"addr"`
	Heartbeat time.Duration `mapstructure:"heartbeat"`
	// PushBuffer is the per-client event buffer of the push hub
	PushBuffer int `mapstructure:"push_buffer"`
}

// RefreshConfig contains the collection schedule
type RefreshConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// PipelineConfig contains feed collection settings
type PipelineConfig struct {
	MaxItems       int           `mapstructure:"max_items"`
	ContentWorkers int           `mapstructure:"content_workers"`
	FeedWorkers    int           `mapstructure:"feed_workers"`
	HostInterval   time.Duration `mapstructure:"host_interval"`
	Enrich         bool          `mapstructure:"enrich"`
	MinTextChars   int           `mapstructure:"min_text_chars"`
}

// SummarizerConfig selects and tunes the summarizer.
// An empty Endpoint uses the built-in lead summarizer only.
type SummarizerConfig struct {
	Endpoint     string        `mapstructure:"endpoint"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxSentences int           `mapstructure:"max_sentences"`
	MaxChars     int           `mapstructure:"max_chars"`
}

// ViewerConfig contains terminal viewer settings
type ViewerConfig struct {
	ServerURL      string        `mapstructure:"server_url"`
	Category       string        `mapstructure:"category"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
}

// DefaultFeeds are the Google News searches polled per category
var DefaultFeeds = map[string]string{
	"general":       "https://news.google.com/rss?hl=en-US&gl=US&ceid=US:en",
	"technology":    "https://news.google.com/rss/search?q=technology&hl=en-US&gl=US&ceid=US:en",
	"business":      "https://news.google.com/rss/search?q=business&hl=en-US&gl=US&ceid=US:en",
	"sports":        "https://news.google.com/rss/search?q=sports&hl=en-US&gl=US&ceid=US:en",
	"entertainment": "https://news.google.com/rss/search?q=entertainment&hl=en-US&gl=US&ceid=US:en",
}

// Load reads configuration from file and environment variables.
// An empty cfgFile searches for live-news.yaml in the working directory.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("live-news")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/live-news")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("server.heartbeat", 15*time.Second)
	v.SetDefault("server.push_buffer", 8)

	feeds := make(map[string]any, len(DefaultFeeds))
	for category, feedURL := range DefaultFeeds {
		feeds[category] = feedURL
	}
	v.SetDefault("feeds", feeds)

	v.SetDefault("refresh.interval", 5*time.Minute)

	v.SetDefault("pipeline.max_items", 20)
	v.SetDefault("pipeline.content_workers", 8)
	v.SetDefault("pipeline.feed_workers", 4)
	v.SetDefault("pipeline.host_interval", 200*time.Millisecond)
	v.SetDefault("pipeline.enrich", false)
	v.SetDefault("pipeline.min_text_chars", 200)

	v.SetDefault("summarizer.endpoint", "")
	v.SetDefault("summarizer.timeout", 30*time.Second)
	v.SetDefault("summarizer.max_sentences", 2)
	v.SetDefault("summarizer.max_chars", 320)

	v.SetDefault("viewer.server_url", "http://127.0.0.1:5000")
	v.SetDefault("viewer.category", string(domain.DefaultCategory))
	v.SetDefault("viewer.request_timeout", 10*time.Second)
	v.SetDefault("viewer.reconnect_delay", 2*time.Second)
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.Heartbeat <= 0 {
		return fmt.Errorf("server.heartbeat must be positive, got %s", c.Server.Heartbeat)
	}

	if len(c.Feeds) == 0 {
		return fmt.Errorf("at least one feed is required")
	}
	for category, feedURL := range c.Feeds {
		if strings.TrimSpace(category) == "" {
			return fmt.Errorf("feed with empty category")
		}
		if err := checkHTTPURL(feedURL); err != nil {
			return fmt.Errorf("feed %s: %w", category, err)
		}
	}

	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive, got %s", c.Refresh.Interval)
	}
	if c.Pipeline.MaxItems <= 0 {
		return fmt.Errorf("pipeline.max_items must be positive, got %d", c.Pipeline.MaxItems)
	}

	if c.Summarizer.Endpoint != "" {
		if err := checkHTTPURL(c.Summarizer.Endpoint); err != nil {
			return fmt.Errorf("summarizer.endpoint: %w", err)
		}
	}

	if err := checkHTTPURL(c.Viewer.ServerURL); err != nil {
		return fmt.Errorf("viewer.server_url: %w", err)
	}
	if _, err := domain.ParseCategory(c.Viewer.Category, domain.Categories...); err != nil {
		return fmt.Errorf("viewer.category: %w", err)
	}

	return nil
}

// ViewerCategory returns the configured initial viewer category
func (c *Config) ViewerCategory() domain.Category {
	category, err := domain.ParseCategory(c.Viewer.Category, domain.Categories...)
	if err != nil {
		return domain.DefaultCategory
	}
	return category
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid URL %q: must be an absolute http(s) URL", raw)
	}
	return nil
}
