// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	Crawl     CrawlConfig     `mapstructure:"crawl"`
	Backoff   BackoffConfig   `mapstructure:"backoff"`
	Delay     DelayConfig     `mapstructure:"delay"`
	DB        DBConfig        `mapstructure:"db"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Identity  IdentityConfig  `mapstructure:"identity"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// SiteConfig points the crawler at the target statistics site.
type SiteConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// CrawlConfig governs navigation behavior within a pass.
type CrawlConfig struct {
	NavTimeout    time.Duration `mapstructure:"nav_timeout"`
	MaxTeams      int           `mapstructure:"max_teams"`
	DomainQPS     float64       `mapstructure:"domain_qps"`
	EmptyPageStop int           `mapstructure:"empty_page_stop"`
}

// BackoffConfig controls retry counts and linear backoff bases.
type BackoffConfig struct {
	MaxAttempts   int           `mapstructure:"max_attempts"`
	BaseDelay     time.Duration `mapstructure:"base_delay"`
	NavigateDelay time.Duration `mapstructure:"navigate_delay"`
	NavigateTries int           `mapstructure:"navigate_tries"`
}

// DelayConfig bounds the randomized politeness delays.
type DelayConfig struct {
	NavigateMin time.Duration `mapstructure:"navigate_min"`
	NavigateMax time.Duration `mapstructure:"navigate_max"`
	EntityMin   time.Duration `mapstructure:"entity_min"`
	EntityMax   time.Duration `mapstructure:"entity_max"`
}

// DBConfig controls access to Postgres.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// ArchiveConfig enables local snapshot archiving of fetched pages.
type ArchiveConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

// ServerConfig controls the ops HTTP endpoint (metrics, health).
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// IdentityConfig holds the pool of browser identities rotated per session.
type IdentityConfig struct {
	UserAgents []string `mapstructure:"user_agents"`
}

// SchedulerConfig controls pass frequency and checkpoint gating.
type SchedulerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TEAMSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", "https://cyberscore.example")
	v.SetDefault("crawl.nav_timeout", "45s")
	v.SetDefault("crawl.max_teams", 0)
	v.SetDefault("crawl.domain_qps", 0.5)
	v.SetDefault("crawl.empty_page_stop", 3)
	v.SetDefault("backoff.max_attempts", 3)
	v.SetDefault("backoff.base_delay", "5s")
	v.SetDefault("backoff.navigate_delay", "7s")
	v.SetDefault("backoff.navigate_tries", 3)
	v.SetDefault("delay.navigate_min", "2s")
	v.SetDefault("delay.navigate_max", "5s")
	v.SetDefault("delay.entity_min", "3s")
	v.SetDefault("delay.entity_max", "7s")
	v.SetDefault("db.max_conns", 4)
	v.SetDefault("db.min_conns", 1)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.dir", "data/pages")
	v.SetDefault("archive.max_bytes", 5*1024*1024)
	v.SetDefault("server.port", 9090)
	v.SetDefault("logging.development", false)
	v.SetDefault("identity.user_agents", defaultUserAgents)
	v.SetDefault("scheduler.interval", "1h")
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:127.0) Gecko/20100101 Firefox/127.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.5 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url must be set")
	}
	if c.Crawl.NavTimeout <= 0 {
		return fmt.Errorf("crawl.nav_timeout must be > 0")
	}
	if c.Crawl.EmptyPageStop <= 0 {
		return fmt.Errorf("crawl.empty_page_stop must be > 0")
	}
	if c.Backoff.MaxAttempts <= 0 {
		return fmt.Errorf("backoff.max_attempts must be > 0")
	}
	if c.Backoff.BaseDelay <= 0 || c.Backoff.NavigateDelay <= 0 {
		return fmt.Errorf("backoff delays must be > 0")
	}
	if c.Delay.NavigateMin > c.Delay.NavigateMax {
		return fmt.Errorf("delay.navigate_min must be <= delay.navigate_max")
	}
	if c.Delay.EntityMin > c.Delay.EntityMax {
		return fmt.Errorf("delay.entity_min must be <= delay.entity_max")
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be > 0")
	}
	if len(c.Identity.UserAgents) == 0 {
		return fmt.Errorf("identity.user_agents must include at least one entry")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}
