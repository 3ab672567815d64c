package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"chainmetrics/internal/observability"
)

// Keys and lifetimes of the values the API caches.
const (
	KeyHBARCurrent   = "hbar:current"
	KeyNetworkLatest = "network:latest"
	HBARCurrentTTL   = 90 * time.Second
	NetworkLatestTTL = 120 * time.Second
	defaultRedisAddr = "localhost:6379"
)

var Client *redis.Client

// RedisClient is the subset of *redis.Client the services depend on.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
	fatalf        = log.Fatalf
)

// InitRedis connects to addr, which may be host:port or a redis:// URL, and
// stores the client in Client.
func InitRedis(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		addr = defaultRedisAddr
	}

	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			fatalf("failed to parse REDIS_URL: %v", err)
			return nil
		}
		opts = parsed
	}

	Client = newRedisClient(opts)
	if err := pingRedis(ctx, Client); err != nil {
		fatalf("failed to connect to Redis: %v", err)
		return nil
	}
	log.Info("connected to redis", "addr", opts.Addr)
	return Client
}

// GetJSON decodes key into dst. A miss reports false with a nil error.
func GetJSON(ctx context.Context, rc RedisClient, key string, dst any) (bool, error) {
	data, err := rc.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.RecordCacheLookup(key, "miss")
		return false, nil
	}
	if err != nil {
		observability.RecordCacheLookup(key, "error")
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		observability.RecordCacheLookup(key, "error")
		return false, err
	}
	observability.RecordCacheLookup(key, "hit")
	return true, nil
}

func SetJSON(ctx context.Context, rc RedisClient, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rc.Set(ctx, key, data, ttl).Err()
}
