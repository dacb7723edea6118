package repo

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tazhibayda/family-gallery/internal/session"
)

type Redis struct{ C *redis.Client }

func NewRedis(addr string) *Redis {
	return &Redis{C: redis.NewClient(&redis.Options{Addr: addr})}
}

func (r *Redis) Ping(ctx context.Context) error { return r.C.Ping(ctx).Err() }
func (r *Redis) Close() error                   { return r.C.Close() }

const sessionPrefix = "sess:"

// RedisSessions keeps admin sessions as expiring string keys.
type RedisSessions struct{ r *Redis }

func (r *Redis) Sessions() *RedisSessions { return &RedisSessions{r: r} }

func (s *RedisSessions) Save(ctx context.Context, id, adminID string, ttl time.Duration) error {
	return s.r.C.Set(ctx, sessionPrefix+id, adminID, ttl).Err()
}

func (s *RedisSessions) Load(ctx context.Context, id string) (string, error) {
	v, err := s.r.C.Get(ctx, sessionPrefix+id).Result()
	if err == redis.Nil {
		return "", session.ErrNotFound
	}
	return v, err
}

func (s *RedisSessions) Delete(ctx context.Context, id string) error {
	return s.r.C.Del(ctx, sessionPrefix+id).Err()
}
