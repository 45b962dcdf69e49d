// Package redislock implementa discount.Locker con Redis (bsm/redislock), para que
// una sola réplica ejecute el barrido de descuentos vencidos a la vez.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Catalogo-servidores-api/internal/application/discount"
	"github.com/jhoicas/Catalogo-servidores-api/pkg/config"
)

var _ discount.Locker = (*Locker)(nil)

// NewClient conecta a Redis y verifica con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// Locker candado distribuido sobre un cliente Redis.
type Locker struct {
	client *redislock.Client
}

// NewLocker construye el candado.
func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{client: redislock.New(rdb)}
}

// Obtain toma key por ttl. Si otra réplica lo tiene devuelve discount.ErrLockNotObtained.
func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, discount.ErrLockNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("redislock obtain %s: %w", key, err)
	}
	return func(ctx context.Context) error {
		// El TTL pudo vencer durante un barrido largo
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("redislock release %s: %w", key, err)
		}
		return nil
	}, nil
}
