// Package redis es el backend distribuido del cache.
package redis

import (
	"context"
	"fmt"
	"time"

	rdb "github.com/redis/go-redis/v9"

	"github.com/dropDatabas3/helloid/internal/cache"
)

type Redis struct {
	client *rdb.Client
	prefix string
}

// Config del backend redis.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// New crea el cliente y verifica conexión.
func New(cfg Config) (cache.Cache, error) {
	client := rdb.NewClient(&rdb.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping: %w", err)
	}

	return &Redis{client: client, prefix: cfg.Prefix}, nil
}

func (r *Redis) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *Redis) Get(k string) ([]byte, bool) {
	b, err := r.client.Get(context.Background(), r.key(k)).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func (r *Redis) Set(k string, v []byte, ttl time.Duration) {
	r.client.Set(context.Background(), r.key(k), v, ttl)
}

func (r *Redis) Delete(k string) {
	r.client.Del(context.Background(), r.key(k))
}
