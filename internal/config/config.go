package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Chest     ChestConfig
	Directory DirectoryConfig
	Cache     CacheConfig
	Database  DatabaseConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	APIKeys         []string      `envconfig:"API_KEYS"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"alphachest"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// ChestConfig holds virtual chest settings.
type ChestConfig struct {
	Dir            string        `envconfig:"CHEST_DIR" default:"./data/chests"`
	ClearOnDeath   bool          `envconfig:"CHEST_CLEAR_ON_DEATH" default:"false"`
	DropOnDeath    bool          `envconfig:"CHEST_DROP_ON_DEATH" default:"false"`
	Autosave       time.Duration `envconfig:"CHEST_AUTOSAVE" default:"10m"` // 0 disables
	SilentAutosave bool          `envconfig:"CHEST_SILENT_AUTOSAVE" default:"false"`
}

// DirectoryConfig holds the local player directory settings.
type DirectoryConfig struct {
	PlayersDB string `envconfig:"PLAYERS_DB" default:"./data/players.db"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"` // "redis" enables the Redis player cache
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// DatabaseConfig holds the upstream accounts database settings (optional).
type DatabaseConfig struct {
	Enabled  bool   `envconfig:"DB_ENABLED" default:"false"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	Name     string `envconfig:"DB_NAME" default:"accounts"`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASS" default:""`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddr returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// UseRedis reports whether the Redis player cache is enabled.
func (c *CacheConfig) UseRedis() bool {
	return c.Type == "redis"
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Chest.Autosave < 0 {
		return nil, fmt.Errorf("failed to load config: CHEST_AUTOSAVE must not be negative")
	}
	if cfg.App.IsProduction() && len(cfg.Server.APIKeys) == 0 {
		return nil, fmt.Errorf("failed to load config: API_KEYS is required in production")
	}

	return &cfg, nil
}
