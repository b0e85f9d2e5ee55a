package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "qoro.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "QORO_PORT")
	setString(&cfg.Server.CORSOrigin, "QORO_CORS_ORIGIN")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "QORO_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "QORO_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "QORO_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "QORO_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "QORO_PG_HEALTH_CHECK")
	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.ChatModel, "QORO_CHAT_MODEL")
	setInt(&cfg.OpenAI.MaxRetries, "QORO_OPENAI_MAX_RETRIES")
	setDuration(&cfg.OpenAI.Timeout, "QORO_OPENAI_TIMEOUT")
	setString(&cfg.Logging.Level, "QORO_LOG_LEVEL")
	setString(&cfg.Logging.Service, "QORO_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "QORO_LOG_ASYNC")
	setInt(&cfg.Breaker.MaxFailures, "QORO_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "QORO_BREAKER_TIMEOUT")
	setFloat64(&cfg.Rate.RequestsPerSecond, "QORO_RATE_RPS")
	setInt(&cfg.Rate.Burst, "QORO_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "QORO_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "QORO_RATE_MAX_IDLE_TIME")
	setString(&cfg.Auth.Secret, "QORO_AUTH_SECRET")
	setDuration(&cfg.Auth.AccessTokenTTL, "QORO_ACCESS_TOKEN_TTL")
	setDuration(&cfg.Auth.RefreshTokenTTL, "QORO_REFRESH_TOKEN_TTL")
	setInt(&cfg.Pulse.MaxToolRounds, "QORO_PULSE_MAX_TOOL_ROUNDS")
	setDuration(&cfg.Pulse.LLMTimeout, "QORO_PULSE_LLM_TIMEOUT")
	setDuration(&cfg.Pulse.ToolTimeout, "QORO_PULSE_TOOL_TIMEOUT")
	setDuration(&cfg.Pulse.ToolCacheTTL, "QORO_PULSE_TOOL_CACHE_TTL")
	setInt64(&cfg.Cache.MaxSizeMB, "QORO_CACHE_SIZE_MB")
	setString(&cfg.Idempotency.Bucket, "QORO_IDEMPOTENCY_BUCKET")
	setDuration(&cfg.Idempotency.TTL, "QORO_IDEMPOTENCY_TTL")
	setBool(&cfg.MCP.Enabled, "QORO_MCP_ENABLED")
	setString(&cfg.MCP.Port, "QORO_MCP_PORT")
	setString(&cfg.MCP.ServiceUserID, "QORO_MCP_SERVICE_USER")
	setString(&cfg.MCP.OrganizationID, "QORO_MCP_ORG")
	setBool(&cfg.Telemetry.Enabled, "QORO_OTEL_ENABLED")
	setString(&cfg.Telemetry.Endpoint, "QORO_OTEL_ENDPOINT")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.Pulse.MaxToolRounds < 0 {
		return errors.New("pulse.max_tool_rounds must be >= 0")
	}
	if cfg.MCP.Enabled && (cfg.MCP.ServiceUserID == "" || cfg.MCP.OrganizationID == "") {
		return errors.New("mcp.service_user_id and mcp.organization_id are required when mcp is enabled")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
