package container

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces container entries in Redis.
const DefaultRedisPrefix = "mojo"

// Redis reads container entries stored as plain string values in Redis.
// Entry "trees/t00_000.bin" of model "iris" lives under key "mojo:iris:trees/t00_000.bin".
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a container over an existing client. The prefix usually
// identifies the model, e.g. "mojo:iris".
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: strings.TrimSuffix(prefix, ":")}
}

// DialRedis connects to a single Redis node and verifies it answers.
func DialRedis(ctx context.Context, addr string, db int, prefix string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedis(client, prefix), nil
}

// Key returns the Redis key holding an entry.
func (r *Redis) Key(name string) string {
	return r.prefix + ":" + name
}

// ReadText reads a text entry.
func (r *Redis) ReadText(ctx context.Context, name string) ([]string, error) {
	data, err := r.get(ctx, name)
	if err != nil {
		return nil, textErr(name, err)
	}
	lines, err := splitLines(data)
	if err != nil {
		return nil, textErr(name, err)
	}
	return lines, nil
}

// ReadBinary reads a binary entry.
func (r *Redis) ReadBinary(ctx context.Context, name string) ([]byte, error) {
	data, err := r.get(ctx, name)
	if err != nil {
		return nil, binaryErr(name, err)
	}
	return data, nil
}

// Put uploads an entry. Used to publish a container into Redis.
func (r *Redis) Put(ctx context.Context, name string, data []byte) error {
	clean, err := cleanName(name)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.Key(clean), data, 0).Err()
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) get(ctx context.Context, name string) ([]byte, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	val, err := r.client.Get(ctx, r.Key(clean)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}
