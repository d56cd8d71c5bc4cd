// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Site    SiteConfig    `mapstructure:"site"`
	Backend BackendConfig `mapstructure:"backend"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Compose ComposeConfig `mapstructure:"compose"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SiteConfig holds the branding and defaults used in rendered documents.
type SiteConfig struct {
	Name           string `mapstructure:"name"`
	BaseURL        string `mapstructure:"base_url"`
	DefaultLang    string `mapstructure:"default_lang"`
	DefaultCountry string `mapstructure:"default_country"`
	Author         string `mapstructure:"author"`
	ThemeColor     string `mapstructure:"theme_color"`
	Twitter        string `mapstructure:"twitter"`
	OGImage        string `mapstructure:"og_image"`
	ClientScript   string `mapstructure:"client_script"`
	ClientStyle    string `mapstructure:"client_style"`
}

// BackendConfig selects and configures the data store.
type BackendConfig struct {
	Driver          string            `mapstructure:"driver"`
	DSN             string            `mapstructure:"dsn"`
	MaxConns        int32             `mapstructure:"max_conns"`
	MinConns        int32             `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration     `mapstructure:"max_conn_lifetime"`
	Tables          map[string]string `mapstructure:"tables"`
	Fixtures        string            `mapstructure:"fixtures"`
	ReadTimeout     time.Duration     `mapstructure:"read_timeout"`
}

// CacheConfig toggles the Redis read-through cache.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ComposeConfig tunes the reads issued per route.
type ComposeConfig struct {
	PageSize       int `mapstructure:"page_size"`
	StoreScanLimit int `mapstructure:"store_scan_limit"`
}

// AssetsConfig locates static files.
type AssetsConfig struct {
	Root        string   `mapstructure:"root"`
	StaticFiles []string `mapstructure:"static_files"`
}

// LoggingConfig toggles zap development features and the level threshold.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEALSITE")
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
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("site.name", "Deals")
	v.SetDefault("site.base_url", "http://localhost:8080")
	v.SetDefault("site.default_lang", "ar")
	v.SetDefault("site.default_country", "")
	v.SetDefault("site.author", "Deals Editorial Team")
	v.SetDefault("site.theme_color", "#0f766e")
	v.SetDefault("site.twitter", "@dealsite")
	v.SetDefault("site.og_image", "/assets/og-image.png")
	v.SetDefault("site.client_script", "/assets/client.js")
	v.SetDefault("site.client_style", "/assets/client.css")
	v.SetDefault("backend.driver", "memory")
	v.SetDefault("backend.max_conns", 10)
	v.SetDefault("backend.min_conns", 1)
	v.SetDefault("backend.max_conn_lifetime", "30m")
	v.SetDefault("backend.read_timeout", "3s")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl", "60s")
	v.SetDefault("compose.page_size", 24)
	v.SetDefault("compose.store_scan_limit", 200)
	v.SetDefault("assets.root", "public")
	v.SetDefault("assets.static_files", []string{
		"favicon.ico", "robots.txt", "manifest.json", "apple-touch-icon.png", "sitemap.xml",
	})
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("metrics.enabled", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be > 0")
	}
	if c.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url must be set")
	}
	switch c.Site.DefaultLang {
	case "ar", "en":
	default:
		return fmt.Errorf("site.default_lang must be ar or en, got %q", c.Site.DefaultLang)
	}
	switch c.Backend.Driver {
	case "postgres":
		if c.Backend.DSN == "" {
			return fmt.Errorf("backend.dsn must be set when backend.driver is postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("backend.driver must be postgres or memory, got %q", c.Backend.Driver)
	}
	if c.Backend.ReadTimeout <= 0 {
		return fmt.Errorf("backend.read_timeout must be > 0")
	}
	if c.Cache.Enabled && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache.redis_url must be set when cache is enabled")
	}
	if c.Compose.PageSize <= 0 {
		return fmt.Errorf("compose.page_size must be > 0")
	}
	if c.Compose.StoreScanLimit <= 0 {
		return fmt.Errorf("compose.store_scan_limit must be > 0")
	}
	return nil
}
