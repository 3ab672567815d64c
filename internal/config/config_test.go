package config

import (
	"testing"

	"chainmetrics/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"TELEGRAM_BOT_TOKEN", "DATABASE_URL", "REDIS_URL", "API_PORT", "CORS_ORIGINS",
		"HEDERA_TOKEN_IDS", "HBAR_UPDATE_INTERVAL", "TOKENS_SAMPLE_FALLBACK", "CHAINMETRICS_API_URL",
		"MCP_TRANSPORT", "LOG_FORMAT", "API_KEY", "API_REQUEST_TIMEOUT_SECS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.APIPort != 8000 || cfg.HBARUpdateSecs != 300 || cfg.NetworkUpdateSecs != 60 || cfg.TokensUpdateSecs != 600 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CoinGeckoRequestsPerMinute != 25 {
		t.Fatalf("expected 25 requests per minute, got %d", cfg.CoinGeckoRequestsPerMinute)
	}
	if len(cfg.HederaTokenIDs) != len(domain.TrackedTokenIDs) {
		t.Fatalf("expected tracked token ids, got %v", cfg.HederaTokenIDs)
	}
	if !cfg.TokensSampleFallback {
		t.Fatal("expected sample fallback on by default")
	}
	if cfg.APIBaseURL != "http://localhost:8000/api/v1" {
		t.Fatalf("unexpected api base url %s", cfg.APIBaseURL)
	}
	if cfg.MCPTransport != "stdio" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected transport/format: %s/%s", cfg.MCPTransport, cfg.LogFormat)
	}
	if cfg.AllowAllOrigins() {
		t.Fatal("default origins should not be a wildcard")
	}
	if cfg.APIKey != "" || cfg.APIRequestTimeoutSecs != 10 {
		t.Fatalf("unexpected api key/timeout defaults: %q/%d", cfg.APIKey, cfg.APIRequestTimeoutSecs)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("HBAR_UPDATE_INTERVAL", "120")
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("HEDERA_TOKEN_IDS", " 0.0.1, ,0.0.2 ")
	t.Setenv("TOKENS_SAMPLE_FALLBACK", "false")
	t.Setenv("CHAINMETRICS_API_URL", "http://api:9000/api/v1/")
	t.Setenv("MCP_TRANSPORT", "HTTP")
	t.Setenv("API_KEY", " secret ")

	cfg := Load()
	if cfg.TelegramBotToken != "token" || cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.HBARUpdateSecs != 120 {
		t.Fatalf("expected hbar interval 120, got %d", cfg.HBARUpdateSecs)
	}
	if !cfg.AllowAllOrigins() {
		t.Fatal("expected wildcard origins")
	}
	if len(cfg.HederaTokenIDs) != 2 || cfg.HederaTokenIDs[0] != "0.0.1" || cfg.HederaTokenIDs[1] != "0.0.2" {
		t.Fatalf("unexpected token ids: %v", cfg.HederaTokenIDs)
	}
	if cfg.TokensSampleFallback {
		t.Fatal("expected sample fallback disabled")
	}
	if cfg.APIBaseURL != "http://api:9000/api/v1" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.MCPTransport != "http" {
		t.Fatalf("expected http transport, got %s", cfg.MCPTransport)
	}
	if cfg.APIKey != "secret" {
		t.Fatalf("expected trimmed api key, got %q", cfg.APIKey)
	}

	t.Setenv("HBAR_UPDATE_INTERVAL", "bad")
	t.Setenv("MCP_TRANSPORT", "grpc")
	cfg = Load()
	if cfg.HBARUpdateSecs != 300 {
		t.Fatalf("invalid interval should fall back to default, got %d", cfg.HBARUpdateSecs)
	}
	if cfg.MCPTransport != "stdio" {
		t.Fatalf("unsupported transport should fall back to stdio, got %s", cfg.MCPTransport)
	}
}
