package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.MaxConns != 15 {
		t.Errorf("expected max_conns 15, got %d", cfg.Postgres.MaxConns)
	}
	if cfg.Breaker.Timeout != 30*time.Second {
		t.Errorf("expected breaker timeout 30s, got %v", cfg.Breaker.Timeout)
	}
	if cfg.Pulse.MaxToolRounds != 1 {
		t.Errorf("expected max_tool_rounds 1, got %d", cfg.Pulse.MaxToolRounds)
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "test.yaml")

	content := `
server:
  port: "9090"
  cors_origin: "http://example.com"
openai:
  chat_model: "gpt-4o"
pulse:
  max_tool_rounds: 2
logging:
  level: "debug"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	if err := loadYAML(&cfg, yamlPath); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.OpenAI.ChatModel != "gpt-4o" {
		t.Errorf("expected chat model gpt-4o, got %s", cfg.OpenAI.ChatModel)
	}
	if cfg.Pulse.MaxToolRounds != 2 {
		t.Errorf("expected max_tool_rounds 2, got %d", cfg.Pulse.MaxToolRounds)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}
	// Unchanged fields keep defaults
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Errorf("expected default NATS URL, got %s", cfg.NATS.URL)
	}
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := Defaults()
	err := loadYAML(&cfg, "/nonexistent/path.yaml")
	if err != nil {
		t.Errorf("missing YAML should not error, got %v", err)
	}
}

func TestEnvOverride(t *testing.T) {
	cfg := Defaults()

	t.Setenv("QORO_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://test:test@db:5432/test")
	t.Setenv("QORO_CHAT_MODEL", "gpt-4.1-mini")
	t.Setenv("QORO_PULSE_LLM_TIMEOUT", "90s")
	t.Setenv("QORO_BREAKER_TIMEOUT", "1m")

	loadEnv(&cfg)

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port 7070, got %s", cfg.Server.Port)
	}
	if cfg.Postgres.DSN != "postgres://test:test@db:5432/test" {
		t.Errorf("expected env DSN, got %s", cfg.Postgres.DSN)
	}
	if cfg.OpenAI.ChatModel != "gpt-4.1-mini" {
		t.Errorf("expected chat model gpt-4.1-mini, got %s", cfg.OpenAI.ChatModel)
	}
	if cfg.Pulse.LLMTimeout != 90*time.Second {
		t.Errorf("expected llm timeout 90s, got %v", cfg.Pulse.LLMTimeout)
	}
	if cfg.Breaker.Timeout != time.Minute {
		t.Errorf("expected breaker timeout 1m, got %v", cfg.Breaker.Timeout)
	}
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	if err := validate(&cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}

	bad := Defaults()
	bad.Postgres.DSN = ""
	if err := validate(&bad); err == nil {
		t.Error("empty DSN should fail validation")
	}

	mcp := Defaults()
	mcp.MCP.Enabled = true
	if err := validate(&mcp); err == nil {
		t.Error("mcp enabled without service identity should fail validation")
	}
}
