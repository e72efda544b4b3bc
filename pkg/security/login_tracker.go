package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block (default: 5)
	AttemptWindow time.Duration // how long failures are remembered (default: 15min)
	BlockDuration time.Duration // how long a block lasts (default: 15min)
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
	}
}

// Redis key patterns
const (
	failLoginUserPrefix    = "fail:login:user:"
	blockedLoginUserPrefix = "blocked:login:user:"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: current count after increment
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

type attemptEntry struct {
	count        int
	windowEnd    time.Time
	blockedUntil time.Time
}

// LoginTracker counts failed sign-ins per username and blocks the username
// once MaxAttempts is reached. Counters live in Redis when a client is set,
// in process memory otherwise.
type LoginTracker struct {
	config LoginTrackerConfig
	redis  *goredis.Client
	log    *zap.Logger

	mu    sync.Mutex
	local map[string]*attemptEntry
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewLoginTracker creates a login tracker. client may be nil, in which case
// a cleanup loop prunes the in-memory counters until Close is called.
func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig, log *zap.Logger) *LoginTracker {
	def := DefaultLoginTrackerConfig()
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = def.AttemptWindow
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = def.BlockDuration
	}
	lt := &LoginTracker{
		config: config,
		redis:  client,
		log:    log,
		local:  map[string]*attemptEntry{},
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	if client == nil {
		go lt.cleanup(5 * time.Minute)
	}
	return lt
}

func (lt *LoginTracker) Close() {
	lt.once.Do(func() { close(lt.stop) })
}

func (lt *LoginTracker) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-lt.stop:
			return
		case <-ticker.C:
			lt.prune()
		}
	}
}

// prune drops entries whose window and block have both run out
func (lt *LoginTracker) prune() {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	now := lt.now()
	for username, e := range lt.local {
		if now.After(e.windowEnd) && !now.Before(e.blockedUntil) {
			delete(lt.local, username)
		}
	}
}

// BlockDuration is how long a username stays blocked.
func (lt *LoginTracker) BlockDuration() time.Duration {
	return lt.config.BlockDuration
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// BlockedFor returns how long username stays blocked, zero when it is not.
func (lt *LoginTracker) BlockedFor(ctx context.Context, username string) (time.Duration, error) {
	username = normalizeUsername(username)
	if username == "" {
		return 0, nil
	}

	if lt.redis == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		e, ok := lt.local[username]
		if !ok {
			return 0, nil
		}
		if left := e.blockedUntil.Sub(lt.now()); left > 0 {
			return left, nil
		}
		return 0, nil
	}

	ttl, err := lt.redis.TTL(ctx, blockedLoginUserPrefix+username).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to check user block: %w", err)
	}
	if ttl < 0 {
		return 0, nil // missing key (-2) or no expiry (-1)
	}
	return ttl, nil
}

// RecordFailedAttempt counts one failure and blocks the username when the
// limit is reached. Returns (blocked, attempts, error).
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, username string) (bool, int, error) {
	username = normalizeUsername(username)
	if username == "" {
		return false, 0, nil
	}

	var count int
	if lt.redis == nil {
		count = lt.incrementLocal(username)
	} else {
		var err error
		count, err = lt.atomicIncrement(ctx, failLoginUserPrefix+username)
		if err != nil {
			return false, 0, fmt.Errorf("failed to increment user counter: %w", err)
		}
	}

	if count < lt.config.MaxAttempts {
		return false, count, nil
	}
	if err := lt.createBlock(ctx, username); err != nil {
		return true, count, fmt.Errorf("failed to create block: %w", err)
	}
	lt.log.Warn("Login blocked after repeated failures",
		zap.String("username", username),
		zap.Int("attempts", count),
		zap.Duration("block", lt.config.BlockDuration),
	)
	return true, count, nil
}

// ClearAttempts forgets failures after a successful login
func (lt *LoginTracker) ClearAttempts(ctx context.Context, username string) error {
	username = normalizeUsername(username)
	if lt.redis == nil {
		lt.mu.Lock()
		delete(lt.local, username)
		lt.mu.Unlock()
		return nil
	}
	if err := lt.redis.Del(ctx, failLoginUserPrefix+username).Err(); err != nil {
		return fmt.Errorf("failed to clear user attempts: %w", err)
	}
	return nil
}

func (lt *LoginTracker) incrementLocal(username string) int {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	now := lt.now()
	e, ok := lt.local[username]
	if !ok || now.After(e.windowEnd) {
		e = &attemptEntry{windowEnd: now.Add(lt.config.AttemptWindow), blockedUntil: blockedUntil(e)}
		lt.local[username] = e
	}
	e.count++
	return e.count
}

func blockedUntil(e *attemptEntry) time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.blockedUntil
}

// atomicIncrement performs an atomic increment with TTL using Lua script
func (lt *LoginTracker) atomicIncrement(ctx context.Context, key string) (int, error) {
	ttlSeconds := int(lt.config.AttemptWindow.Seconds())
	result, err := lt.redis.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

// createBlock blocks username and restarts its failure count
func (lt *LoginTracker) createBlock(ctx context.Context, username string) error {
	if lt.redis == nil {
		lt.mu.Lock()
		defer lt.mu.Unlock()
		lt.local[username] = &attemptEntry{
			windowEnd:    lt.now().Add(lt.config.AttemptWindow),
			blockedUntil: lt.now().Add(lt.config.BlockDuration),
		}
		return nil
	}

	pipe := lt.redis.TxPipeline()
	pipe.Set(ctx, blockedLoginUserPrefix+username, "1", lt.config.BlockDuration)
	pipe.Del(ctx, failLoginUserPrefix+username)
	_, err := pipe.Exec(ctx)
	return err
}
