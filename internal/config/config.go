package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backend names accepted in TOPSACRED_BACKEND.
const (
	BackendMongoDB   = "mongodb"
	BackendSurrealDB = "surrealdb"
)

// Config holds all configuration values.
type Config struct {
	Backend string `yaml:"backend"`

	// MongoDB connection
	MongoURI      string `yaml:"mongodb_uri"`
	MongoDatabase string `yaml:"mongodb_database"`

	// SurrealDB connection
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`
	SurrealDBAuthLevel string `yaml:"surrealdb_auth_level"`

	// Run classification
	Patience time.Duration `yaml:"patience"`

	// Display
	Bounded bool `yaml:"bounded"`
	Margin  int  `yaml:"margin"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from environment variables, then overlays the
// YAML file named by TOPSACRED_CONFIG if set.
func Load() (Config, error) {
	cfg := Config{
		Backend: getEnv("TOPSACRED_BACKEND", BackendMongoDB),

		// MongoDB (tracker defaults)
		MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "sacred"),

		// SurrealDB
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "experiments"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "sacred"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		Patience: parseDuration(getEnv("TOPSACRED_PATIENCE", "120s"), 120*time.Second),

		Bounded: getEnv("TOPSACRED_BOUNDED", "true") == "true",
		Margin:  parseInt(getEnv("TOPSACRED_MARGIN", "0"), 0),

		LogFile:  getEnv("TOPSACRED_LOG_FILE", "/tmp/topsacred.log"),
		LogLevel: parseLogLevel(getEnv("TOPSACRED_LOG_LEVEL", "WARN")),
	}

	if path := os.Getenv("TOPSACRED_CONFIG"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}

	if cfg.Backend != BackendMongoDB && cfg.Backend != BackendSurrealDB {
		return Config{}, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}

// fileConfig mirrors Config for YAML decoding; the log level is a string.
type fileConfig struct {
	Config   `yaml:",inline"`
	LogLevel string `yaml:"log_level"`
}

// overlayFile decodes a YAML file on top of cfg. Keys absent from the file
// keep their current value.
func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return c.overlay(data)
}

func (c *Config) overlay(data []byte) error {
	fc := fileConfig{Config: *c}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	*c = fc.Config
	if fc.LogLevel != "" {
		c.LogLevel = parseLogLevel(fc.LogLevel)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func parseInt(s string, defaultVal int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
