package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"chainmetrics/internal/domain"
)

type Config struct {
	APIHost     string
	APIPort     int
	CORSOrigins []string
	// APIKey guards the refresh endpoints when set.
	APIKey string

	DatabaseURL      string
	RedisURL         string
	TelegramBotToken string

	CoinGeckoAPIKey            string
	CoinGeckoRequestsPerMinute int
	HederaMirrorNodeURL        string
	HederaTokenIDs             []string

	HBARUpdateSecs    int
	NetworkUpdateSecs int
	TokensUpdateSecs  int

	LogLevel  string
	LogFormat string

	SSHPort                int
	SSHHostKeyPath         string
	SSHAllowedFingerprints []string

	MCPTransport          string
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int

	APIBaseURL            string
	APIRequestTimeoutSecs int
	TokensSampleFallback  bool
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		RedisURL:         os.Getenv("REDIS_URL"),
		CoinGeckoAPIKey:  strings.TrimSpace(os.Getenv("COINGECKO_API_KEY")),
		MCPAuthToken:     os.Getenv("MCP_AUTH_TOKEN"),
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
	}

	if cfg.TelegramBotToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.CoinGeckoAPIKey == "" {
		log.Warn("COINGECKO_API_KEY not set, using the public rate limit")
	}

	cfg.APIHost = stringEnv("API_HOST", "0.0.0.0")
	cfg.APIPort = positiveIntEnv("API_PORT", 8000)
	cfg.CORSOrigins = listEnv("CORS_ORIGINS", []string{"http://localhost:3000"})

	cfg.CoinGeckoRequestsPerMinute = positiveIntEnv("COINGECKO_REQUESTS_PER_MINUTE", 25)
	cfg.HederaMirrorNodeURL = strings.TrimRight(stringEnv("HEDERA_MIRROR_NODE_URL", "https://mainnet-public.mirrornode.hedera.com"), "/")
	cfg.HederaTokenIDs = listEnv("HEDERA_TOKEN_IDS", domain.TrackedTokenIDs)

	cfg.HBARUpdateSecs = positiveIntEnv("HBAR_UPDATE_INTERVAL", 300)
	cfg.NetworkUpdateSecs = positiveIntEnv("NETWORK_UPDATE_INTERVAL", 60)
	cfg.TokensUpdateSecs = positiveIntEnv("TOKENS_UPDATE_INTERVAL", 600)

	cfg.LogLevel = strings.ToLower(stringEnv("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(stringEnv("LOG_FORMAT", "json"))

	cfg.SSHPort = positiveIntEnv("SSH_PORT", 2222)
	cfg.SSHHostKeyPath = stringEnv("SSH_HOST_KEY_PATH", ".ssh/chainmetrics_ed25519")
	cfg.SSHAllowedFingerprints = listEnv("SSH_ALLOWED_FINGERPRINTS", nil)

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Warn("unsupported MCP_TRANSPORT, defaulting to stdio", "value", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}
	cfg.MCPHTTPBind = stringEnv("MCP_HTTP_BIND", "127.0.0.1")
	cfg.MCPHTTPPort = positiveIntEnv("MCP_HTTP_PORT", 8090)
	cfg.MCPRequestTimeoutSecs = positiveIntEnv("MCP_REQUEST_TIMEOUT_SECS", 5)

	cfg.APIBaseURL = strings.TrimRight(stringEnv("CHAINMETRICS_API_URL", "http://localhost:8000/api/v1"), "/")
	cfg.APIRequestTimeoutSecs = positiveIntEnv("API_REQUEST_TIMEOUT_SECS", 10)

	cfg.TokensSampleFallback = true
	if v := strings.TrimSpace(os.Getenv("TOKENS_SAMPLE_FALLBACK")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TokensSampleFallback = b
		} else {
			log.Warn("invalid TOKENS_SAMPLE_FALLBACK, keeping sample fallback on", "value", v)
		}
	}

	return cfg
}

// AllowAllOrigins reports whether CORS_ORIGINS is the "*" wildcard.
func (c *Config) AllowAllOrigins() bool {
	return len(c.CORSOrigins) == 1 && c.CORSOrigins[0] == "*"
}

func stringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func positiveIntEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn("invalid integer setting, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func listEnv(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
