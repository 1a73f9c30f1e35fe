// Package config provides configuration management for the userdesk service,
// including environment variables, an optional TOML file and build metadata.
package config

import (
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug  LogLevel = "debug"
	Info   LogLevel = "info"
	Notice LogLevel = "notice"
	Warn   LogLevel = "warn"
	Error  LogLevel = "error"
)

// SessionStoreType selects where session state lives.
type SessionStoreType string

const (
	SessionStoreCookie SessionStoreType = "cookie"
	SessionStoreRedis  SessionStoreType = "redis"
)

// cookieKeyLength is the required size of the session cookie key (AES-256).
const cookieKeyLength = 32

// Config holds all runtime settings of the service.
type Config struct {
	Listen   string `toml:"listen"`
	Port     int    `toml:"port"`
	BasePath string `toml:"base_path"`

	LogLevel  LogLevel `toml:"log_level"`
	LogFolder string   `toml:"log_folder"`

	Session  SessionConfig  `toml:"session"`
	Redis    RedisConfig    `toml:"redis"`
	Database DatabaseConfig `toml:"database"`

	// HashRounds is the SHA-256-crypt cost used for new password digests.
	HashRounds int `toml:"hash_rounds"`
	// CheckpointCron is the schedule of the SQLite WAL checkpoint job. Empty disables it.
	CheckpointCron string `toml:"checkpoint_cron"`
}

// SessionConfig holds cookie session settings.
type SessionConfig struct {
	Store     SessionStoreType `toml:"store"`
	CookieKey string           `toml:"cookie_key"`
	MaxAge    int              `toml:"max_age"` // minutes, 0 means browser session
}

// RedisConfig holds the Redis session backend settings. An empty Addr starts
// an embedded server.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func IsDebug() bool {
	return os.Getenv("USERDESK_DEBUG") == "true"
}

// DefaultCookieKey is the built-in session key. It is public, so deployments
// must override it with USERDESK_COOKIE_KEY.
const DefaultCookieKey = "fa5s3nuzsfhzlgnfdgv86g1rdg7sd361"

// Default returns the configuration used when nothing else is provided.
func Default() *Config {
	return &Config{
		Listen:    "",
		Port:      8080,
		BasePath:  "/",
		LogLevel:  Info,
		LogFolder: "/var/log/userdesk",
		Session: SessionConfig{
			Store:     SessionStoreCookie,
			CookieKey: DefaultCookieKey,
			MaxAge:    0,
		},
		Database:       *GetDefaultDatabaseConfig(),
		HashRounds:     535000,
		CheckpointCron: "@every 10m",
	}
}

// Load builds the configuration from defaults, the optional TOML file named by
// USERDESK_CONFIG and the environment, in that order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("USERDESK_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if IsDebug() {
		cfg.LogLevel = Debug
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	var err error

	setString(&c.Listen, "USERDESK_LISTEN")
	setString(&c.BasePath, "USERDESK_BASE_PATH")
	setString(&c.LogFolder, "USERDESK_LOG_FOLDER")
	setString(&c.Session.CookieKey, "USERDESK_COOKIE_KEY")
	setString(&c.Redis.Addr, "USERDESK_REDIS_ADDR")
	setString(&c.Redis.Password, "USERDESK_REDIS_PASSWORD")
	setString(&c.Database.SQLite.Path, "USERDESK_DB_PATH")
	setString(&c.Database.Postgres.Host, "POSTGRES_HOST")
	setString(&c.Database.Postgres.Database, "POSTGRES_DB")
	setString(&c.Database.Postgres.Username, "POSTGRES_USER")
	setString(&c.Database.Postgres.Password, "POSTGRES_PASSWORD")
	setString(&c.Database.Postgres.SSLMode, "POSTGRES_SSLMODE")

	if v, ok := os.LookupEnv("USERDESK_CHECKPOINT_CRON"); ok {
		c.CheckpointCron = v
	}
	if v := os.Getenv("USERDESK_LOG_LEVEL"); v != "" {
		c.LogLevel = LogLevel(v)
	}
	if v := os.Getenv("USERDESK_SESSION_STORE"); v != "" {
		c.Session.Store = SessionStoreType(v)
	}
	if v := os.Getenv("USERDESK_DB_TYPE"); v != "" {
		c.Database.Type = DatabaseType(v)
	}

	if err = setInt(&c.Port, "USERDESK_PORT"); err != nil {
		return err
	}
	if err = setInt(&c.Session.MaxAge, "USERDESK_SESSION_MAX_AGE"); err != nil {
		return err
	}
	if err = setInt(&c.Redis.DB, "USERDESK_REDIS_DB"); err != nil {
		return err
	}
	if err = setInt(&c.HashRounds, "USERDESK_HASH_ROUNDS"); err != nil {
		return err
	}
	return setInt(&c.Database.Postgres.Port, "POSTGRES_PORT")
}

// Validate checks the configuration for values the service cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	switch c.LogLevel {
	case Debug, Info, Notice, Warn, Error:
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}
	switch c.Session.Store {
	case SessionStoreCookie, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported session store: %s", c.Session.Store)
	}
	if len(c.Session.CookieKey) != cookieKeyLength {
		return fmt.Errorf("cookie key must be %d characters, got %d", cookieKeyLength, len(c.Session.CookieKey))
	}
	if c.Session.MaxAge < 0 {
		return fmt.Errorf("session max age can not be negative")
	}
	if c.HashRounds < 1000 || c.HashRounds > 999999999 {
		return fmt.Errorf("hash rounds must be between 1000 and 999999999, got %d", c.HashRounds)
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		c.BasePath = "/" + c.BasePath
	}
	if !strings.HasSuffix(c.BasePath, "/") {
		c.BasePath += "/"
	}
	return c.Database.ValidateConfig()
}

// ListenAddr returns host:port for the HTTP listener.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Listen, strconv.Itoa(c.Port))
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be int value: %w", key, err)
	}
	*dst = n
	return nil
}

// UsesDefaultCookieKey reports whether sessions are still keyed with
// DefaultCookieKey.
func (c *Config) UsesDefaultCookieKey() bool {
	return c.Session.CookieKey == DefaultCookieKey
}
