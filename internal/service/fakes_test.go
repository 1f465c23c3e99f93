package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"abend-assist-be/internal/entity"
	"abend-assist-be/internal/repository/contract"
	"abend-assist-be/internal/repository/specification"
	"abend-assist-be/internal/repository/unitofwork"
	"abend-assist-be/pkg/events"
)

// fakeDB is an in-memory stand-in for the three tables.
type fakeDB struct {
	mu        sync.Mutex
	abends    []*entity.AbendRecord
	users     map[string]string
	turns     []*entity.ChatTurn
	turnErr   error
	commits   int
	rollbacks int
}

func newFakeDB() *fakeDB {
	return &fakeDB{users: map[string]string{}}
}

func (f *fakeDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{db: f}
}

func (f *fakeDB) turnCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.turns)
}

type fakeUow struct {
	db *fakeDB
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.commits++
	return nil
}
func (u *fakeUow) Rollback() error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.rollbacks++
	return nil
}
func (u *fakeUow) AbendRecordRepository() contract.AbendRecordRepository   { return fakeAbends{u.db} }
func (u *fakeUow) SecurityUserRepository() contract.SecurityUserRepository { return fakeUsers{u.db} }
func (u *fakeUow) ChatTurnRepository() contract.ChatTurnRepository         { return fakeTurns{u.db} }

type fakeAbends struct{ db *fakeDB }

func (r fakeAbends) Upsert(ctx context.Context, rec *entity.AbendRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.abends = append(r.db.abends, rec)
	return nil
}
func (r fakeAbends) ReplaceAll(ctx context.Context, recs []*entity.AbendRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.abends = recs
	return nil
}
func (r fakeAbends) Delete(ctx context.Context, code string) error { return nil }
func (r fakeAbends) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.AbendRecord, error) {
	return nil, nil
}
func (r fakeAbends) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AbendRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]*entity.AbendRecord(nil), r.db.abends...), nil
}
func (r fakeAbends) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.abends)), nil
}

type fakeUsers struct{ db *fakeDB }

func userKey(specs []specification.Specification) string {
	for _, s := range specs {
		if by, ok := s.(specification.ByUserId); ok {
			return strings.ToUpper(by.UserId)
		}
	}
	return ""
}

func (r fakeUsers) Create(ctx context.Context, u *entity.SecurityUser) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.users[strings.ToUpper(u.UserId)] = u.PasswordHash
	return nil
}
func (r fakeUsers) UpdatePassword(ctx context.Context, userId, hash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := strings.ToUpper(userId)
	if _, ok := r.db.users[key]; !ok {
		return contract.ErrUserNotFound
	}
	r.db.users[key] = hash
	return nil
}
func (r fakeUsers) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SecurityUser, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := userKey(specs)
	hash, ok := r.db.users[key]
	if !ok {
		return nil, nil
	}
	return &entity.SecurityUser{UserId: key, PasswordHash: hash}, nil
}
func (r fakeUsers) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[userKey(specs)]; ok {
		return 1, nil
	}
	return 0, nil
}

type fakeTurns struct{ db *fakeDB }

func (r fakeTurns) Create(ctx context.Context, t *entity.ChatTurn) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.turnErr != nil {
		err := r.db.turnErr
		r.db.turnErr = nil
		return err
	}
	r.db.turns = append(r.db.turns, t)
	return nil
}
func (r fakeTurns) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return append([]*entity.ChatTurn(nil), r.db.turns...), nil
}
func (r fakeTurns) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.turns)), nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) Publish(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

type fakeEmail struct {
	mu    sync.Mutex
	codes map[string]string
	creds map[string]string
}

func newFakeEmail() *fakeEmail {
	return &fakeEmail{codes: map[string]string{}, creds: map[string]string{}}
}

func (f *fakeEmail) SendOneTimeCode(to, code string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[to] = code
	return nil
}

func (f *fakeEmail) SendNewCredential(to, identity, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds[to] = secret
	return nil
}

func (f *fakeEmail) code(to string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[to]
}

func (f *fakeEmail) credential(to string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creds[to]
}
