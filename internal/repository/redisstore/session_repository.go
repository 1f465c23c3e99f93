package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"abend-assist-be/pkg/dialogue"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "chat:session:"
	lockPrefix = "chat:session-lock:"

	// DefaultLockLease outlives the longest turn: three collaborator calls at
	// their default timeout.
	DefaultLockLease = 30 * time.Second
	lockRetry        = 25 * time.Millisecond
)

// Deletes the lock only while it still carries our token, so a turn whose
// lease already expired cannot free someone else's lock.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionRepository shares dialogue state between server instances. Turns
// are serialized across instances with a SET NX lease per session.
type SessionRepository struct {
	rdb   *redis.Client
	ttl   time.Duration
	lease time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{rdb: rdb, ttl: ttl, lease: DefaultLockLease}
}

// Lock polls until the lease is acquired or ctx is done.
func (r *SessionRepository) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := lockPrefix + sessionID
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()
	for {
		ok, err := r.rdb.SetNX(ctx, key, token, r.lease).Result()
		if err != nil {
			return nil, fmt.Errorf("redis lock session: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("redis lock session: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			// A failed release is reclaimed when the lease runs out.
			_ = releaseLock.Run(ctx, r.rdb, []string{key}, token).Err()
		})
	}, nil
}

func (r *SessionRepository) Load(ctx context.Context, sessionID string) (*dialogue.State, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, dialogue.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var state dialogue.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &state, nil
}

func (r *SessionRepository) Save(ctx context.Context, state *dialogue.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+state.SessionID, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}
