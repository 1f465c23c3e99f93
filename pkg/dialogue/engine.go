package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/pkg/abend"
	"abend-assist-be/pkg/nlu"
)

const (
	DefaultCollaboratorTimeout = 5 * time.Second
	DefaultOneTimeCodeTTL      = 10 * time.Minute
	DefaultSuggestionCacheSize = 1024

	logModule = "Dialogue"
)

type Options struct {
	Lexicon             nlu.Lexicon
	CollaboratorTimeout time.Duration
	OneTimeCodeTTL      time.Duration
	MaxCodeAttempts     int // 0 means unlimited
	SuggestionCacheSize int // negative disables the cache
	Secrets             SecretGenerator
	Address             func(identity string) string
	Now                 func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Lexicon.SmallTalk == nil && o.Lexicon.ResetPhrases == nil {
		o.Lexicon = nlu.DefaultLexicon()
	}
	if o.Lexicon.PhraseMinimum == 0 {
		o.Lexicon.PhraseMinimum = nlu.DefaultPhraseMinimum
	}
	if o.CollaboratorTimeout <= 0 {
		o.CollaboratorTimeout = DefaultCollaboratorTimeout
	}
	if o.OneTimeCodeTTL <= 0 {
		o.OneTimeCodeTTL = DefaultOneTimeCodeTTL
	}
	if o.SuggestionCacheSize == 0 {
		o.SuggestionCacheSize = DefaultSuggestionCacheSize
	}
	if o.Secrets == nil {
		o.Secrets = CryptoSecrets{}
	}
	if o.Address == nil {
		o.Address = func(identity string) string { return identity }
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Engine resolves one utterance at a time per session. It is safe for
// concurrent use. Turns for the same session are serialized through
// SessionStore.Lock, so engines in different processes sharing a store never
// interleave on one session.
type Engine struct {
	catalog     *abend.Catalog
	sessions    SessionStore
	credentials CredentialStore
	notifier    Notifier
	logger      logger.ILogger
	suggestions *suggestionCache
	opts        Options
}

func NewEngine(
	catalog *abend.Catalog,
	sessions SessionStore,
	credentials CredentialStore,
	notifier Notifier,
	log logger.ILogger,
	opts Options,
) *Engine {
	return &Engine{
		catalog:     catalog,
		sessions:    sessions,
		credentials: credentials,
		notifier:    notifier,
		logger:      log,
		suggestions: newSuggestionCache(opts.SuggestionCacheSize),
		opts:        opts.withDefaults(),
	}
}

// Resolve handles one turn. Failures never escape: they become a generic
// reply and the session goes back to Idle.
func (e *Engine) Resolve(ctx context.Context, sessionID, utterance string) Reply {
	unlock, err := e.sessions.Lock(ctx, sessionID)
	if err != nil {
		e.logger.Error(logModule, "Failed to lock session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err,
		})
		return e.finish(sessionID, failure(), nlu.IntentUnknown, nlu.Entities{}, ModeIdle)
	}
	defer unlock()

	state, err := e.sessions.Load(ctx, sessionID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		state = NewState(sessionID)
	case err == nil && (state.SessionID != sessionID || !state.Valid()):
		e.logger.Warn(logModule, "Discarding inconsistent session", map[string]interface{}{
			"session_id": sessionID,
			"mode":       state.Mode,
		})
		state = NewState(sessionID)
	case err != nil:
		e.logger.Error(logModule, "Failed to load session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err,
		})
		return e.finish(sessionID, failure(), nlu.IntentUnknown, nlu.Entities{}, ModeIdle)
	}

	text := nlu.Normalize(utterance)
	if text == "" {
		return e.finish(sessionID, fallback(), nlu.IntentUnknown, nlu.Entities{}, state.Mode)
	}

	var (
		res    outcome
		intent nlu.Intent
		ent    nlu.Entities
	)
	switch state.Mode {
	case ModeAwaitingConfirmation:
		intent = nlu.IntentConfirmation
		res = e.handleConfirmation(state, text)
	case ModeAwaitingIdentity:
		intent = nlu.IntentCredentialStep
		res = e.handleIdentity(ctx, state, text)
	case ModeAwaitingOneTimeCode:
		intent = nlu.IntentCredentialStep
		res = e.handleOneTimeCode(ctx, state, text)
	default:
		state.toIdle()
		res, intent, ent = e.handleIdle(state, text)
	}

	state.UpdatedAt = e.opts.Now()
	if err := e.sessions.Save(ctx, state); err != nil {
		e.logger.Error(logModule, "Failed to save session", map[string]interface{}{
			"session_id": sessionID,
			"error":      err,
		})
		return e.finish(sessionID, failure(), intent, ent, ModeIdle)
	}

	e.logger.Debug(logModule, "Turn resolved", map[string]interface{}{
		"session_id": sessionID,
		"intent":     intent,
		"outcome":    res.kind,
		"mode":       state.Mode,
	})
	return e.finish(sessionID, res, intent, ent, state.Mode)
}

func (e *Engine) finish(sessionID string, res outcome, intent nlu.Intent, ent nlu.Entities, mode Mode) Reply {
	reply := compose(res)
	reply.SessionID = sessionID
	reply.Intent = intent
	reply.Entities = ent
	reply.Mode = mode
	return reply
}

// Reset drops whatever the session was waiting for.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	unlock, err := e.sessions.Lock(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("lock session %s: %w", sessionID, err)
	}
	defer unlock()

	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	return nil
}

// Reload swaps in a new record set. The previous one stays active on error.
func (e *Engine) Reload(records []abend.Record) error {
	if err := e.catalog.Reload(records); err != nil {
		e.logger.Warn(logModule, "Rejected record reload", map[string]interface{}{
			"count": len(records),
			"error": err,
		})
		return err
	}
	e.suggestions.purge()
	e.logger.Info(logModule, "Records reloaded", map[string]interface{}{
		"count": len(records),
	})
	return nil
}

// LoadedAt is when the active records were swapped in.
func (e *Engine) LoadedAt() time.Time {
	return e.catalog.LoadedAt()
}

// Records returns the active snapshot.
func (e *Engine) Records() *abend.Index {
	return e.catalog.Snapshot()
}

// call bounds fn by the collaborator timeout even if fn ignores ctx.
func (e *Engine) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.opts.CollaboratorTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

func (e *Engine) collaboratorFailed(state *State, op string, err error) outcome {
	e.logger.Error(logModule, "Collaborator call failed", map[string]interface{}{
		"session_id": state.SessionID,
		"operation":  op,
		"timeout":    errors.Is(err, context.DeadlineExceeded),
		"error":      err,
	})
	state.toIdle()
	return failure()
}
