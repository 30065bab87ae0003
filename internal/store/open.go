package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Dir         string
	RedisAddr   string
	RedisPrefix string
	RedisDB     int
}

// OpenKV builds the backend named by opts. Redis connections are checked with a PING.
func OpenKV(ctx context.Context, opts Options) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return NewFileKV(opts.Dir)
	case BackendMemory:
		return NewMemoryKV(), nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr, DB: opts.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("connect redis at %s: %w", opts.RedisAddr, err)
		}
		return NewRedisKV(client, opts.RedisPrefix), nil
	}
	return nil, fmt.Errorf("unknown store backend %q (use file, memory or redis)", opts.Backend)
}
