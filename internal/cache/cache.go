package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store caches raw web service responses by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryStore keeps entries for the lifetime of the process. Not safe for concurrent use.
type MemoryStore struct {
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.entries[key] = value
	return nil
}

const defaultTTL = 6 * time.Hour

// RedisStore shares lookups between runs, so repeated migrations do not
// refetch every feature and option value.
type RedisStore struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Prefix: "psmigrate:",
		TTL:    defaultTTL,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.Client.Get(ctx, s.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.Client.Set(ctx, s.Prefix+key, value, s.TTL).Err()
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}

// Open returns a RedisStore for addr, or a MemoryStore when addr is empty.
func Open(addr string) Store {
	if addr == "" {
		return NewMemoryStore()
	}
	return NewRedisStore(addr)
}
