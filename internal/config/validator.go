package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	validLogLevels  = []string{"DEBUG", "INFO", "WARN", "ERROR"}
	validLogFormats = []string{"json", "text"}
)

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	if c.ReadTimeout < time.Second {
		errors = append(errors, "read timeout must be at least 1 second")
	}
	if c.WriteTimeout < time.Second {
		errors = append(errors, "write timeout must be at least 1 second")
	}
	if c.ShutdownTimeout < time.Second {
		errors = append(errors, "shutdown timeout must be at least 1 second")
	}
	if c.MaxUploadBytes < 1<<10 {
		errors = append(errors, "max upload size must be at least 1 KiB")
	}

	if c.RateLimitPerSec <= 0 {
		errors = append(errors, "rate limit must be positive")
	}
	if c.RateLimitBurst < 1 {
		errors = append(errors, "rate limit burst must be at least 1")
	}

	if c.LogLevel != "" && !contains(validLogLevels, strings.ToUpper(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
			c.LogLevel, strings.Join(validLogLevels, ", ")))
	}
	if c.LogFormat != "" && !contains(validLogFormats, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format: %s (valid: %s)",
			c.LogFormat, strings.Join(validLogFormats, ", ")))
	}

	if strings.TrimSpace(c.TeamLabel) == "" {
		errors = append(errors, "team label is required")
	}
	if c.PlanFixedColumns < 1 {
		errors = append(errors, "plan fixed columns must be at least 1")
	}
	if c.PreviewRows < 1 {
		errors = append(errors, "preview rows must be at least 1")
	}

	if c.ReportSheetName == "" {
		errors = append(errors, "report sheet name is required")
	} else if len(c.ReportSheetName) > 31 || strings.ContainsAny(c.ReportSheetName, `:\/?*[]`) {
		errors = append(errors, fmt.Sprintf("invalid report sheet name: %q", c.ReportSheetName))
	}
	if !strings.HasSuffix(strings.ToLower(c.ReportFileName), ".xlsx") {
		errors = append(errors, fmt.Sprintf("report file name must end in .xlsx, got %q", c.ReportFileName))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}
	return nil
}

// GetDefaults returns the built-in configuration.
func GetDefaults() *Config {
	return &Config{
		Port:             "8501",
		ReadTimeout:      30 * time.Second,
		WriteTimeout:     2 * time.Minute,
		ShutdownTimeout:  10 * time.Second,
		MaxUploadBytes:   32 << 20,
		RateLimitPerSec:  2,
		RateLimitBurst:   4,
		LogLevel:         "INFO",
		LogFormat:        "json",
		TeamLabel:        "BAI III Team",
		PlanFixedColumns: 15,
		PreviewRows:      5,
		ReportSheetName:  "Sheet1",
		ReportFileName:   "uq_plan_vs_actuals.xlsx",
	}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
