package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps pending notifications per browser session until the next
// page render drains them.
type Store interface {
	Push(ctx context.Context, session string, n Notification) error
	Drain(ctx context.Context, session string) ([]Notification, error)
}

// ==========================
// Redis
// ==========================

const keyPrefix = "console:flash:"

// drainBatch bounds one drain; anything beyond it shows on the next page.
const drainBatch = 100

type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Push(ctx context.Context, session string, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	key := keyPrefix + session
	if err := s.client.RPush(ctx, key, string(data)).Err(); err != nil {
		return fmt.Errorf("push notification: %w", err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("expire notifications: %w", err)
	}
	return nil
}

// Drain pops the pending list in one command, so a Push racing with it
// stays queued for the next render.
func (s *RedisStore) Drain(ctx context.Context, session string) ([]Notification, error) {
	raw, err := s.client.LPopCount(ctx, keyPrefix+session, drainBatch).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read notifications: %w", err)
	}

	out := make([]Notification, 0, len(raw))
	for _, item := range raw {
		var n Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

// ==========================
// Memory
// ==========================

// MemoryStore is used when Redis is disabled. Entries older than ttl are
// discarded on drain and swept from every session on push.
type MemoryStore struct {
	mu      sync.Mutex
	pending map[string][]Notification
	ttl     time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &MemoryStore{pending: map[string][]Notification{}, ttl: ttl}
}

func (s *MemoryStore) Push(_ context.Context, session string, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.cutoff())
	s.pending[session] = append(s.pending[session], n)
	return nil
}

func (s *MemoryStore) Drain(_ context.Context, session string) ([]Notification, error) {
	s.mu.Lock()
	items := s.pending[session]
	delete(s.pending, session)
	s.mu.Unlock()

	return fresh(items, s.cutoff()), nil
}

func (s *MemoryStore) cutoff() time.Time {
	return time.Now().UTC().Add(-s.ttl)
}

// sweep drops expired entries and sessions left empty. Callers hold mu.
func (s *MemoryStore) sweep(cutoff time.Time) {
	for session, items := range s.pending {
		if kept := fresh(items, cutoff); len(kept) > 0 {
			s.pending[session] = kept
		} else {
			delete(s.pending, session)
		}
	}
}

func fresh(items []Notification, cutoff time.Time) []Notification {
	var out []Notification
	for _, n := range items {
		if n.CreatedAt.IsZero() || n.CreatedAt.After(cutoff) {
			out = append(out, n)
		}
	}
	return out
}
