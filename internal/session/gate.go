// Package session records once-per-session work such as achievement
// evaluation. The caller owns the session id; the gate only remembers which
// (user, session, purpose) triples have already been seen.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	PurposeAchievements = "achievements"

	keyPrefix = "fitcircle:session:"
)

var ErrEmptySession = errors.New("session: user and session id are required")

// Gate answers whether this is the first time a purpose runs in a session.
type Gate interface {
	// First reports true exactly once per (user, session, purpose) until the
	// entry expires.
	First(ctx context.Context, userID, sessionID, purpose string) (bool, error)
	// Forget clears the entry so the next First reports true again. Callers
	// use it when the gated work failed.
	Forget(ctx context.Context, userID, sessionID, purpose string) error
}

func key(userID, sessionID, purpose string) (string, error) {
	if userID == "" || sessionID == "" {
		return "", ErrEmptySession
	}
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, purpose, userID, sessionID), nil
}

// RedisGate shares session state across server instances.
type RedisGate struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGate connects to the Redis server at url (redis://...).
func NewRedisGate(ctx context.Context, url string, ttl time.Duration) (*RedisGate, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisGate{client: client, ttl: ttl}, nil
}

func (g *RedisGate) First(ctx context.Context, userID, sessionID, purpose string) (bool, error) {
	k, err := key(userID, sessionID, purpose)
	if err != nil {
		return false, err
	}
	return g.client.SetNX(ctx, k, time.Now().UTC().Unix(), g.ttl).Result()
}

// Forget clears a session entry so the purpose runs again.
func (g *RedisGate) Forget(ctx context.Context, userID, sessionID, purpose string) error {
	k, err := key(userID, sessionID, purpose)
	if err != nil {
		return err
	}
	return g.client.Del(ctx, k).Err()
}

func (g *RedisGate) Close() error {
	return g.client.Close()
}

// MemoryGate keeps session state in process. Used when no Redis is configured.
type MemoryGate struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
	lastGC time.Time
}

func NewMemoryGate(ttl time.Duration) *MemoryGate {
	return &MemoryGate{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (g *MemoryGate) First(_ context.Context, userID, sessionID, purpose string) (bool, error) {
	k, err := key(userID, sessionID, purpose)
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.collect(now)

	if expires, ok := g.seen[k]; ok && now.Before(expires) {
		return false, nil
	}
	g.seen[k] = now.Add(g.ttl)
	return true, nil
}

func (g *MemoryGate) Forget(_ context.Context, userID, sessionID, purpose string) error {
	k, err := key(userID, sessionID, purpose)
	if err != nil {
		return err
	}

	g.mu.Lock()
	delete(g.seen, k)
	g.mu.Unlock()
	return nil
}

// collect drops expired entries at most once per ttl. Caller holds mu.
func (g *MemoryGate) collect(now time.Time) {
	if now.Sub(g.lastGC) < g.ttl {
		return
	}
	for k, expires := range g.seen {
		if !now.Before(expires) {
			delete(g.seen, k)
		}
	}
	g.lastGC = now
}
