package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis persists the cart as a single Redis string value. Useful when
// several storefront instances should observe the same cart.
type Redis struct {
	client *redis.Client
}

func NewRedis(addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &Redis{client: client}, nil
}

func (r *Redis) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Redis) Save(ctx context.Context, data []byte) error {
	return r.client.Set(ctx, Key, data, 0).Err()
}

func (r *Redis) Delete(ctx context.Context) error {
	return r.client.Del(ctx, Key).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
