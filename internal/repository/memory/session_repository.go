package memory

import (
	"context"
	"time"

	"abend-assist-be/pkg/dialogue"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps dialogue state in process. Idle sessions expire
// after ttl; the janitor runs every ttl/6. Session locks are process local,
// which is enough because nothing outside the process can see the states.
type SessionRepository struct {
	cache *cache.Cache
	locks *dialogue.KeyedMutex
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionRepository{
		cache: cache.New(ttl, ttl/6),
		locks: dialogue.NewKeyedMutex(),
	}
}

func (r *SessionRepository) Lock(ctx context.Context, sessionID string) (func(), error) {
	return r.locks.Lock(ctx, sessionID)
}

func (r *SessionRepository) Load(_ context.Context, sessionID string) (*dialogue.State, error) {
	x, found := r.cache.Get(sessionID)
	if !found {
		return nil, dialogue.ErrSessionNotFound
	}
	// Stored by value so callers never share a State.
	state := x.(dialogue.State)
	return &state, nil
}

func (r *SessionRepository) Save(_ context.Context, state *dialogue.State) error {
	r.cache.Set(state.SessionID, *state, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
