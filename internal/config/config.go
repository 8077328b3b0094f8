package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the server and the CLI.
type Config struct {
	// Server
	Port            string        `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	MaxUploadBytes  int64         `json:"max_upload_bytes"`

	// Rate limiting of the report endpoints
	RateLimitPerSec float64 `json:"rate_limit_per_sec"`
	RateLimitBurst  int     `json:"rate_limit_burst"`

	// Logging
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`

	// Reconciliation
	TeamLabel        string `json:"team_label"`
	PlanFixedColumns int    `json:"plan_fixed_columns"`
	PreviewRows      int    `json:"preview_rows"`

	// Export
	ReportSheetName string `json:"report_sheet_name"`
	ReportFileName  string `json:"report_file_name"`
}

// LoadConfig reads the configuration from the environment. Variables from
// envFiles (default ".env") are loaded first when the files exist; values
// already set in the environment win.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("failed to load env file", "file", f, "error", err)
		}
	}

	config := &Config{
		Port:            getEnv("SERVER_PORT", "8501"),
		ReadTimeout:     getEnvDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 2*time.Minute),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", 32<<20),

		RateLimitPerSec: getEnvFloat("RATE_LIMIT_PER_SEC", 2),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 4),

		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		TeamLabel:        getEnv("TEAM_LABEL", "BAI III Team"),
		PlanFixedColumns: getEnvInt("PLAN_FIXED_COLUMNS", 15),
		PreviewRows:      getEnvInt("PREVIEW_ROWS", 5),

		ReportSheetName: getEnv("REPORT_SHEET_NAME", "Sheet1"),
		ReportFileName:  getEnv("REPORT_FILE_NAME", "uq_plan_vs_actuals.xlsx"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SlogLevel converts LogLevel to a slog level; unknown values map to INFO.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string { return ":" + c.Port }

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
