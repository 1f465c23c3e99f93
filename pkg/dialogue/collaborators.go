package dialogue

import (
	"context"
	"errors"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists State between turns. Load returns ErrSessionNotFound
// for unknown ids. Lock holds a session exclusively for one whole turn across
// every engine sharing the store; the returned unlock must be called once.
type SessionStore interface {
	Lock(ctx context.Context, sessionID string) (unlock func(), err error)
	Load(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, sessionID string) error
}

// CredentialStore is the external user directory.
type CredentialStore interface {
	IdentityExists(ctx context.Context, identity string) (bool, error)
	UpdateCredential(ctx context.Context, identity, secret string) error
}

type NotificationKind string

const (
	NotifyOneTimeCode     NotificationKind = "one_time_code"
	NotifyCredentialReset NotificationKind = "credential_reset"
)

// Notifier delivers a secret to an address.
type Notifier interface {
	Send(ctx context.Context, address string, kind NotificationKind, payload string) error
}

// SecretGenerator issues one-time codes and replacement credentials.
type SecretGenerator interface {
	OneTimeCode() (string, error)
	Credential() (string, error)
}
