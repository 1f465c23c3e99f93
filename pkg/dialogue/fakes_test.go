package dialogue

import (
	"context"
	"sync"
	"time"
)

type memStore struct {
	mu      sync.Mutex
	locks   *KeyedMutex
	states  map[string]State
	lockErr error
	loadErr error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{locks: NewKeyedMutex(), states: make(map[string]State)}
}

func (m *memStore) Lock(ctx context.Context, id string) (func(), error) {
	m.mu.Lock()
	err := m.lockErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.locks.Lock(ctx, id)
}

func (m *memStore) put(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[s.SessionID] = s
}

func (m *memStore) Load(_ context.Context, id string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	s, ok := m.states[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *memStore) Save(_ context.Context, s *State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.states[s.SessionID] = *s
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

func (m *memStore) get(id string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[id]
}

type fakeCredentials struct {
	mu        sync.Mutex
	users     map[string]string
	existsErr error
	updateErr error
	block     time.Duration
}

func (f *fakeCredentials) IdentityExists(ctx context.Context, id string) (bool, error) {
	if f.block > 0 {
		time.Sleep(f.block)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.users[id]
	return ok, nil
}

func (f *fakeCredentials) UpdateCredential(_ context.Context, id, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.users[id] = secret
	return nil
}

func (f *fakeCredentials) secret(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id]
}

type sent struct {
	Address string
	Kind    NotificationKind
	Payload string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sent
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, address string, kind NotificationKind, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{address, kind, payload})
	return nil
}

func (f *fakeNotifier) messages() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.sent...)
}

type fixedSecrets struct {
	code, credential string
}

func (f fixedSecrets) OneTimeCode() (string, error) { return f.code, nil }
func (f fixedSecrets) Credential() (string, error)  { return f.credential, nil }

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
