package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	KeyDBDriver            = "DB_DRIVER"
	KeyDBConnectionString  = "DB_CONNECTION_STRING"
	KeyHTTPAddr            = "HTTP_ADDR"
	KeyJWTSecret           = "JWT_SECRET"
	KeyLogLevel            = "LOG_LEVEL"
	KeyLogFormat           = "LOG_FORMAT"
	KeyAIProvider          = "AI_PROVIDER"
	KeyAIAPIKey            = "AI_API_KEY"
	KeyAIBaseURL           = "AI_BASE_URL"
	KeyAIModel             = "AI_MODEL"
	KeyHealthCheckSchedule = "HEALTH_CHECK_SCHEDULE"
	KeyAPIURL              = "API_URL"
	KeyAPIToken            = "API_TOKEN"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set in .env file or environment")

type Config struct {
	DBDriver            string
	DBConnectionString  string
	HTTPAddr            string
	JWTSecret           string
	LogLevel            string
	LogFormat           string
	AIProvider          string
	AIAPIKey            string
	AIBaseURL           string
	AIModel             string
	HealthCheckSchedule string
	APIURL              string
	APIToken            string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDBDriver, "pgx")
	v.SetDefault(KeyHTTPAddr, ":8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyHealthCheckSchedule, "@every 5m")
	v.SetDefault(KeyAPIURL, "http://localhost:8080")
}

// Load reads envFile into the process environment when it exists, then resolves every
// key through v so that flags bound to v win over the environment and defaults.
func Load(v *viper.Viper, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	SetDefaults(v)
	v.AutomaticEnv()

	return &Config{
		DBDriver:            strings.TrimSpace(v.GetString(KeyDBDriver)),
		DBConnectionString:  v.GetString(KeyDBConnectionString),
		HTTPAddr:            v.GetString(KeyHTTPAddr),
		JWTSecret:           v.GetString(KeyJWTSecret),
		LogLevel:            v.GetString(KeyLogLevel),
		LogFormat:           strings.ToLower(v.GetString(KeyLogFormat)),
		AIProvider:          strings.ToLower(strings.TrimSpace(v.GetString(KeyAIProvider))),
		AIAPIKey:            v.GetString(KeyAIAPIKey),
		AIBaseURL:           v.GetString(KeyAIBaseURL),
		AIModel:             v.GetString(KeyAIModel),
		HealthCheckSchedule: v.GetString(KeyHealthCheckSchedule),
		APIURL:              strings.TrimRight(v.GetString(KeyAPIURL), "/"),
		APIToken:            v.GetString(KeyAPIToken),
	}, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "pgx", "postgres", "postgresql", "sqlite3", "sqlite":
	default:
		return fmt.Errorf("invalid %s %q: expected pgx or sqlite3", KeyDBDriver, c.DBDriver)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid %s %q: expected console or json", KeyLogFormat, c.LogFormat)
	}
	switch c.AIProvider {
	case "":
	case "openai", "gemini":
		if c.AIAPIKey == "" {
			return fmt.Errorf("%s is required when %s is %s", KeyAIAPIKey, KeyAIProvider, c.AIProvider)
		}
	default:
		return fmt.Errorf("invalid %s %q: expected openai, gemini or empty", KeyAIProvider, c.AIProvider)
	}
	return nil
}

// RequireDatabase is checked by the commands that open the backing store.
func (c *Config) RequireDatabase() error {
	if c.DBConnectionString == "" {
		return fmt.Errorf("missing %s in environment variables", KeyDBConnectionString)
	}
	return nil
}

func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}
