package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"

	RefreshPolicyCarryForward = "carry-forward"
	RefreshPolicyAllOrNothing = "all-or-nothing"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	SQLite  SQLiteConfig  `yaml:"sqlite"`
	API     APIConfig     `yaml:"api"`
	Cache   CacheConfig   `yaml:"cache"`
	Session SessionConfig `yaml:"session"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"APP_ADDR"                env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"estateadmin.db"`
}

// APIConfig points at the remote tabular backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-required:"true"`
	Token   string        `yaml:"token"    env:"API_TOKEN"`
	Timeout time.Duration `yaml:"timeout"  env:"API_TIMEOUT"  env-default:"30s"`
}

// CacheConfig selects where the dropdown cache is persisted.
type CacheConfig struct {
	Backend       string `yaml:"backend"        env:"CACHE_BACKEND"           env-default:"sqlite"`
	RedisAddr     string `yaml:"redis_addr"     env:"REDIS_ADDR"              env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"       env:"REDIS_DB"                env-default:"0"`
	RefreshPolicy string `yaml:"refresh_policy" env:"DROPDOWN_REFRESH_POLICY" env-default:"carry-forward"`
}

type SessionConfig struct {
	TTL          time.Duration `yaml:"ttl"           env:"SESSION_TTL"           env-default:"12h"`
	SecureCookie bool          `yaml:"secure_cookie" env:"SESSION_SECURE_COOKIE" env-default:"false"`
}

type DisplayConfig struct {
	TimeZone string `yaml:"time_zone" env:"DISPLAY_TIMEZONE" env-default:"Local"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from an optional .env file, an optional YAML
// file named by CONFIG_PATH, and the environment. ENV > YAML > defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that tags cannot express.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api base url %q must be an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api timeout must be positive")
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case CacheBackendSQLite, CacheBackendRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	c.Cache.RefreshPolicy = strings.ToLower(strings.TrimSpace(c.Cache.RefreshPolicy))
	switch c.Cache.RefreshPolicy {
	case RefreshPolicyCarryForward, RefreshPolicyAllOrNothing:
	default:
		return fmt.Errorf("unknown dropdown refresh policy %q", c.Cache.RefreshPolicy)
	}

	if c.Session.TTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if _, err := c.Display.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured display time zone.
func (d DisplayConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(d.TimeZone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("display time zone %q: %w", name, err)
	}
	return loc, nil
}
