package dialogue

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Mode is where a session sits in the conversation.
type Mode string

const (
	ModeIdle                 Mode = "idle"
	ModeAwaitingConfirmation Mode = "awaiting_confirmation"
	ModeAwaitingIdentity     Mode = "awaiting_identity"
	ModeAwaitingOneTimeCode  Mode = "awaiting_one_time_code"
)

const codeHashCost = 8

// State is the per-session conversation record. Only the fields that belong
// to the current Mode are set; every transition clears the rest. The pending
// one-time code is kept only as a bcrypt digest.
type State struct {
	SessionID string    `json:"session_id"`
	Mode      Mode      `json:"mode"`
	Candidate string    `json:"candidate,omitempty"`
	Identity  string    `json:"identity,omitempty"`
	CodeHash  string    `json:"code_hash,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitempty"`
	Attempts  int       `json:"attempts,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewState(sessionID string) *State {
	return &State{SessionID: sessionID, Mode: ModeIdle}
}

func hashOneTimeCode(code string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(code), codeHashCost)
	if err != nil {
		return "", fmt.Errorf("hash one-time code: %w", err)
	}
	return string(digest), nil
}

func (s *State) toIdle() {
	*s = State{SessionID: s.SessionID, Mode: ModeIdle, UpdatedAt: s.UpdatedAt}
}

func (s *State) awaitConfirmation(candidate string) {
	s.toIdle()
	s.Mode = ModeAwaitingConfirmation
	s.Candidate = candidate
}

func (s *State) awaitIdentity() {
	s.toIdle()
	s.Mode = ModeAwaitingIdentity
}

func (s *State) awaitOneTimeCode(identity, codeHash string, issuedAt time.Time) {
	s.toIdle()
	s.Mode = ModeAwaitingOneTimeCode
	s.Identity = identity
	s.CodeHash = codeHash
	s.IssuedAt = issuedAt
}

// codeAccepted checks text against the pending code digest. A zero ttl never
// expires.
func (s *State) codeAccepted(text string, now time.Time, ttl time.Duration) bool {
	if s.CodeHash == "" || text == "" {
		return false
	}
	if ttl > 0 && now.Sub(s.IssuedAt) > ttl {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s.CodeHash), []byte(text)) == nil
}

// Valid reports whether the fields present agree with Mode.
func (s *State) Valid() bool {
	switch s.Mode {
	case ModeIdle:
		return s.Candidate == "" && s.Identity == "" && s.CodeHash == ""
	case ModeAwaitingConfirmation:
		return s.Candidate != "" && s.Identity == "" && s.CodeHash == ""
	case ModeAwaitingIdentity:
		return s.Candidate == "" && s.Identity == "" && s.CodeHash == ""
	case ModeAwaitingOneTimeCode:
		return s.Candidate == "" && s.Identity != "" && s.CodeHash != ""
	}
	return false
}
