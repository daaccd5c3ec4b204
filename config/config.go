package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	HTTP          HTTPConfig          `yaml:"http"`
	Scores        ScoresConfig        `yaml:"scores"`
	Logging       LoggingConfig       `yaml:"logging"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int    `yaml:"max_conns"`
}

// HTTPConfig holds the HTTP listener configuration.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
	// SubmitRate is the sustained number of score submissions per second
	// allowed per client IP. A negative value disables rate limiting.
	SubmitRate  float64 `yaml:"submit_rate"`
	SubmitBurst int     `yaml:"submit_burst"`
}

// ScoresConfig holds score ledger policy.
type ScoresConfig struct {
	// StrictFinalize restricts finalize to records that are still pending.
	StrictFinalize bool          `yaml:"strict_finalize"`
	PendingTTL     time.Duration `yaml:"pending_ttl"`
	PruneInterval  time.Duration `yaml:"prune_interval"`
	// LeaderboardSize caps the rows on the leaderboard page; zero shows all.
	LeaderboardSize int `yaml:"leaderboard_size"`
}

// LoggingConfig holds slog configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json|text
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	ServiceName    string `yaml:"service_name"`
	Environment    string `yaml:"environment"`
}

const (
	defaultHTTPAddr      = "127.0.0.1:3030"
	defaultMaxConns      = 5
	defaultDBPort        = "5432"
	defaultDBName        = "meishu"
	defaultLogLevel      = "info"
	defaultLogFormat     = "json"
	defaultServiceName   = "meishu"
	defaultPruneInterval = time.Hour
	defaultSubmitRate    = 5
	defaultSubmitBurst   = 10
)

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres dsn not configured")
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL or DB_USER/DB_PASS/DB_HOST environment variables not set")
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	} else if dsn, ok := dsnFromParts(); ok {
		cfg.Postgres.DSN = dsn
	}
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_MAX_CONNS value: %v", err)
		}
		cfg.Postgres.MaxConns = n
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("SUBMIT_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SUBMIT_RATE value: %v", err)
		}
		cfg.HTTP.SubmitRate = f
	}
	if v := os.Getenv("STRICT_FINALIZE"); v != "" {
		cfg.Scores.StrictFinalize = v == "true"
	}
	if v := os.Getenv("PENDING_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PENDING_TTL value: %v", err)
		}
		cfg.Scores.PendingTTL = d
	}
	if v := os.Getenv("PRUNE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PRUNE_INTERVAL value: %v", err)
		}
		cfg.Scores.PruneInterval = d
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.MetricsEnabled = v == "true"
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	return nil
}

// dsnFromParts composes a postgres URL from the individual DB_* variables.
// DB_USER, DB_PASS and DB_HOST are required; port and name have defaults.
func dsnFromParts() (string, bool) {
	user, pass, host := os.Getenv("DB_USER"), os.Getenv("DB_PASS"), os.Getenv("DB_HOST")
	if user == "" || host == "" {
		return "", false
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = defaultDBPort
	}
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = defaultDBName
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, pass),
		Host:   host + ":" + port,
		Path:   "/" + name,
	}
	return u.String(), true
}

func applyDefaults(cfg *Config) {
	if cfg.Postgres.MaxConns <= 0 {
		cfg.Postgres.MaxConns = defaultMaxConns
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = defaultHTTPAddr
	}
	if cfg.HTTP.SubmitRate == 0 && cfg.HTTP.SubmitBurst == 0 {
		cfg.HTTP.SubmitRate = defaultSubmitRate
		cfg.HTTP.SubmitBurst = defaultSubmitBurst
	}
	if cfg.HTTP.SubmitRate > 0 && cfg.HTTP.SubmitBurst <= 0 {
		cfg.HTTP.SubmitBurst = max(1, int(cfg.HTTP.SubmitRate))
	}
	if cfg.Scores.PruneInterval <= 0 {
		cfg.Scores.PruneInterval = defaultPruneInterval
	}
	if cfg.Scores.LeaderboardSize < 0 {
		cfg.Scores.LeaderboardSize = 0
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = defaultServiceName
	}
}
