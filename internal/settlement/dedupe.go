package settlement

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dedupe registra entregas já processadas pra tornar o consumo idempotente.
// Seen retorna true quando o resultID já foi visto dentro da janela.
type Dedupe interface {
	Seen(ctx context.Context, resultID string) (bool, error)
}

// RedisDedupe usa SETNX com TTL: qualquer instância do worker enxerga a marca
type RedisDedupe struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDedupe(rdb *redis.Client, ttl time.Duration) *RedisDedupe {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDedupe{rdb: rdb, ttl: ttl}
}

func (d *RedisDedupe) Seen(ctx context.Context, resultID string) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, "settlement:result:"+resultID, 1, d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
