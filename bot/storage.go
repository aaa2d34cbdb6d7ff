package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Storage persists one State per chat. A chat with no stored state is in
// StartState; Reset returns it there.
type Storage interface {
	Get(ctx context.Context, chatID int64) (State, error)
	Set(ctx context.Context, chatID int64, state State) error
	Reset(ctx context.Context, chatID int64) error
}

// RedisStorage keeps dialogue state in Redis, JSON-encoded under a
// per-chat key.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage creates a dialogue storage from a Redis URL.
func NewRedisStorage(url string) (*RedisStorage, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisStorage{client: redis.NewClient(options)}, nil
}

// Ping verifies the connection at startup.
func (s *RedisStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func storageKey(chatID int64) string {
	return fmt.Sprintf("dialogue:%d", chatID)
}

func (s *RedisStorage) Get(ctx context.Context, chatID int64) (State, error) {
	payload, err := s.client.Get(ctx, storageKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return StartState(), nil
	}
	if err != nil {
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

func (s *RedisStorage) Set(ctx context.Context, chatID int64, state State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, storageKey(chatID), payload, 0).Err()
}

func (s *RedisStorage) Reset(ctx context.Context, chatID int64) error {
	return s.client.Del(ctx, storageKey(chatID)).Err()
}

// MemoryStorage is an in-process Storage for tests.
type MemoryStorage struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewMemoryStorage creates an empty in-memory dialogue storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{states: make(map[int64]State)}
}

func (s *MemoryStorage) Get(ctx context.Context, chatID int64) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[chatID]
	if !ok {
		return StartState(), nil
	}
	return state, nil
}

func (s *MemoryStorage) Set(ctx context.Context, chatID int64, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chatID] = state
	return nil
}

func (s *MemoryStorage) Reset(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, chatID)
	return nil
}
