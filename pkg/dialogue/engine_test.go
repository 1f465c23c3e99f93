package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"abend-assist-be/internal/pkg/logger"
	"abend-assist-be/pkg/abend"
	"abend-assist-be/pkg/nlu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var testRecords = []abend.Record{
	{Code: "S0C4", Name: "Storage Violation", Solution: "Check pointer arithmetic"},
	{Code: "S0C7", Name: "Data Exception", Solution: "Validate packed decimal fields"},
	{Code: "S806", Name: "Program Not Found", Solution: "Check STEPLIB concatenation"},
}

type harness struct {
	engine   *Engine
	store    *memStore
	creds    *fakeCredentials
	notifier *fakeNotifier
	clock    *clock
}

func newHarness(t *testing.T, tweak func(*Options)) *harness {
	t.Helper()
	catalog := abend.NewCatalog()
	require.NoError(t, catalog.Reload(testRecords))

	h := &harness{
		store:    newMemStore(),
		creds:    &fakeCredentials{users: map[string]string{"ab12": "old"}},
		notifier: &fakeNotifier{},
		clock:    &clock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	opts := Options{
		Secrets:             fixedSecrets{code: "123456", credential: "N3w!Secret#2024"},
		Address:             func(id string) string { return id + "@example.com" },
		Now:                 h.clock.Now,
		CollaboratorTimeout: 200 * time.Millisecond,
	}
	if tweak != nil {
		tweak(&opts)
	}
	h.engine = NewEngine(catalog, h.store, h.creds, h.notifier, logger.NewNopLogger(), opts)
	return h
}

func (h *harness) say(text string) Reply {
	return h.engine.Resolve(context.Background(), "s1", text)
}

func TestResolveKnownCode(t *testing.T) {
	h := newHarness(t, nil)

	for _, input := range []string{"S0C4", "s0c4", "  s0C4 ", "what is s0c4?"} {
		t.Run(input, func(t *testing.T) {
			r := h.say(input)
			assert.Equal(t, FormatRecord(testRecords[0]), r.Text)
			assert.Equal(t, PromptNone, r.Prompt)
			assert.Equal(t, nlu.IntentLookup, r.Intent)
			assert.Equal(t, "S0C4", r.Entities.Code)
			assert.Equal(t, ModeIdle, h.store.get("s1").Mode)
		})
	}
}

func TestResolveByName(t *testing.T) {
	h := newHarness(t, nil)

	r := h.say("my job ended with data exception")
	assert.Contains(t, r.Text, "S0C7")
	assert.Contains(t, r.Text, "Validate packed decimal fields")
	assert.Equal(t, OutcomeAnswered, r.Outcome)
}

func TestTypoSuggestionAndConfirmation(t *testing.T) {
	h := newHarness(t, nil)

	r := h.say("storage violatoin")
	assert.Equal(t, "Did you mean 'Storage Violation'? Please respond with 'yes' or 'no'.", r.Text)
	assert.Equal(t, PromptYesNo, r.Prompt)
	assert.Equal(t, OutcomeSuggested, r.Outcome)

	st := h.store.get("s1")
	assert.Equal(t, ModeAwaitingConfirmation, st.Mode)
	assert.Equal(t, "Storage Violation", st.Candidate)

	r = h.say("yes")
	assert.Equal(t, FormatRecord(testRecords[0]), r.Text)
	assert.Equal(t, nlu.IntentConfirmation, r.Intent)
	assert.Equal(t, State{SessionID: "s1", Mode: ModeIdle, UpdatedAt: h.clock.Now()}, h.store.get("s1"))
}

func TestConfirmationAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		want    string
		outcome Outcome
	}{
		{"declined", "no", DeclinedText, OutcomeDeclined},
		{"anything else", "maybe", YesNoReminderText, OutcomeFallback},
		{"a code is not an answer", "s0c7", YesNoReminderText, OutcomeFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.say("storage violatoin")
			require.Equal(t, ModeAwaitingConfirmation, h.store.get("s1").Mode)

			r := h.say(tt.answer)
			assert.Equal(t, tt.want, r.Text)
			assert.Equal(t, tt.outcome, r.Outcome)
			assert.Equal(t, PromptNone, r.Prompt)

			st := h.store.get("s1")
			assert.Equal(t, ModeIdle, st.Mode)
			assert.Empty(t, st.Candidate)
		})
	}
}

func TestConfirmedCandidateGoneAfterReload(t *testing.T) {
	h := newHarness(t, nil)
	h.say("storage violatoin")

	require.NoError(t, h.engine.Reload([]abend.Record{{Code: "S322", Name: "Time Limit Exceeded", Solution: "Raise TIME"}}))

	r := h.say("yes")
	assert.Equal(t, FallbackText, r.Text)
	assert.Equal(t, ModeIdle, h.store.get("s1").Mode)
}

func TestGreeting(t *testing.T) {
	h := newHarness(t, nil)

	r := h.say("Hello")
	assert.Equal(t, "Hello! How can I assist you with your abend issues today?", r.Text)
	assert.Equal(t, nlu.IntentSmallTalk, r.Intent)
	assert.Equal(t, PromptNone, r.Prompt)
}

func TestFallback(t *testing.T) {
	h := newHarness(t, nil)

	r := h.say("my payroll batch is slow")
	assert.Equal(t, FallbackText, r.Text)
	assert.Equal(t, OutcomeFallback, r.Outcome)
	assert.Equal(t, ModeIdle, h.store.get("s1").Mode)
}

func TestEmptyUtteranceKeepsState(t *testing.T) {
	h := newHarness(t, nil)
	h.say("reset my password")
	before := h.store.get("s1")

	r := h.say("   ")
	assert.Equal(t, FallbackText, r.Text)
	assert.Equal(t, ModeAwaitingIdentity, r.Mode)
	assert.Equal(t, before, h.store.get("s1"))
}

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness(t, nil)

	r := h.say("reset my password")
	assert.Equal(t, IdentityPromptText, r.Text)
	assert.Equal(t, PromptIdentity, r.Prompt)
	assert.Equal(t, nlu.IntentPasswordReset, r.Intent)
	assert.Equal(t, ModeAwaitingIdentity, h.store.get("s1").Mode)

	r = h.say("AB12")
	assert.Equal(t, CodeSentText, r.Text)
	assert.Equal(t, PromptCode, r.Prompt)
	assert.Equal(t, "ab12", r.Identity)

	st := h.store.get("s1")
	assert.Equal(t, ModeAwaitingOneTimeCode, st.Mode)
	assert.Equal(t, "ab12", st.Identity)
	assert.NotContains(t, st.CodeHash, "123456", "the code is stored only as a digest")
	assert.True(t, st.codeAccepted("123456", h.clock.Now(), DefaultOneTimeCodeTTL))
	assert.True(t, st.Valid())

	msgs := h.notifier.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, sent{"ab12@example.com", NotifyOneTimeCode, "123456"}, msgs[0])

	r = h.say("654321")
	assert.Equal(t, CodeRejectedText, r.Text)
	assert.Equal(t, PromptCode, r.Prompt)
	assert.Equal(t, ModeAwaitingOneTimeCode, h.store.get("s1").Mode)

	r = h.say("123456")
	assert.Equal(t, "Password for User ID ab12 has been updated successfully. The new password has been sent to your email.", r.Text)
	assert.Equal(t, OutcomeCredentialReset, r.Outcome)
	assert.Equal(t, "N3w!Secret#2024", h.creds.secret("ab12"))

	msgs = h.notifier.messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, sent{"ab12@example.com", NotifyCredentialReset, "N3w!Secret#2024"}, msgs[1])

	st = h.store.get("s1")
	assert.Equal(t, ModeIdle, st.Mode)
	assert.Empty(t, st.CodeHash)
	assert.Empty(t, st.Identity)
}

func TestUnknownIdentity(t *testing.T) {
	h := newHarness(t, nil)
	h.say("password reset")

	r := h.say("zz99")
	assert.Contains(t, r.Text, "zz99")
	assert.Contains(t, r.Text, "not found")
	assert.Equal(t, OutcomeIdentityUnknown, r.Outcome)
	assert.Equal(t, ModeIdle, h.store.get("s1").Mode)
	assert.Empty(t, h.notifier.messages())
}

func TestExpiredCodeIsRejected(t *testing.T) {
	h := newHarness(t, nil)
	h.say("reset my password")
	h.say("ab12")

	h.clock.Advance(DefaultOneTimeCodeTTL + time.Second)

	r := h.say("123456")
	assert.Equal(t, CodeRejectedText, r.Text)
	assert.Equal(t, ModeAwaitingOneTimeCode, h.store.get("s1").Mode)
	assert.Equal(t, "old", h.creds.secret("ab12"))
}

func TestCodeAttemptsAreUnlimitedByDefault(t *testing.T) {
	h := newHarness(t, nil)
	h.say("reset my password")
	h.say("ab12")

	for i := 0; i < 20; i++ {
		h.say("000000")
	}
	st := h.store.get("s1")
	assert.Equal(t, ModeAwaitingOneTimeCode, st.Mode)
	assert.Equal(t, 20, st.Attempts)
}

func TestCodeAttemptCap(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.MaxCodeAttempts = 3 })
	h.say("reset my password")
	h.say("ab12")

	assert.Equal(t, OutcomeCodeRejected, h.say("1").Outcome)
	assert.Equal(t, OutcomeCodeRejected, h.say("2").Outcome)

	r := h.say("3")
	assert.Equal(t, CodeLockedText, r.Text)
	assert.Equal(t, ModeIdle, h.store.get("s1").Mode)

	r = h.say("123456")
	assert.NotEqual(t, OutcomeCredentialReset, r.Outcome)
}

func TestCollaboratorFailures(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name  string
		fail  func(h *harness)
		steps []string
	}{
		{
			name:  "identity check fails",
			fail:  func(h *harness) { h.creds.existsErr = boom },
			steps: []string{"reset my password", "ab12"},
		},
		{
			name:  "identity check times out",
			fail:  func(h *harness) { h.creds.block = time.Second },
			steps: []string{"reset my password", "ab12"},
		},
		{
			name:  "code notification fails",
			fail:  func(h *harness) { h.notifier.err = boom },
			steps: []string{"reset my password", "ab12"},
		},
		{
			name:  "credential update fails",
			fail:  func(h *harness) { h.creds.updateErr = boom },
			steps: []string{"reset my password", "ab12", "123456"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			var r Reply
			for i, step := range tt.steps {
				if i == len(tt.steps)-1 {
					tt.fail(h)
				}
				r = h.say(step)
			}
			assert.Equal(t, FailureText, r.Text)
			assert.Equal(t, OutcomeFailed, r.Outcome)
			assert.NotContains(t, r.Text, "connection refused")
			assert.Equal(t, ModeIdle, h.store.get("s1").Mode)
		})
	}
}

func TestSessionStoreFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.store.lockErr = errors.New("lock lease unavailable")
	r := h.say("s0c4")
	assert.Equal(t, FailureText, r.Text)
	assert.Equal(t, ModeIdle, r.Mode)
	h.store.lockErr = nil

	h.store.loadErr = errors.New("redis down")

	r = h.say("s0c4")
	assert.Equal(t, FailureText, r.Text)

	h.store.loadErr = nil
	h.store.saveErr = errors.New("redis down")
	r = h.say("s0c4")
	assert.Equal(t, FailureText, r.Text)
}

func TestReset(t *testing.T) {
	h := newHarness(t, nil)
	h.say("reset my password")
	h.say("ab12")
	require.Equal(t, ModeAwaitingOneTimeCode, h.store.get("s1").Mode)

	require.NoError(t, h.engine.Reset(context.Background(), "s1"))

	r := h.say("123456")
	assert.NotEqual(t, OutcomeCredentialReset, r.Outcome)
	assert.Equal(t, "old", h.creds.secret("ab12"))
}

func TestReloadRejectsBadRecords(t *testing.T) {
	h := newHarness(t, nil)

	err := h.engine.Reload([]abend.Record{{Code: "S0C4", Name: "A"}, {Code: "s0c4", Name: "B"}})
	require.ErrorIs(t, err, abend.ErrInvalidRecords)

	assert.Contains(t, h.say("s0c4").Text, "Storage Violation")
	assert.Equal(t, 3, h.engine.Records().Len())
}

func TestSessionsAreIndependent(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.engine.Resolve(ctx, "a", "storage violatoin")
	r := h.engine.Resolve(ctx, "b", "yes")
	assert.Equal(t, OutcomeSmallTalk, r.Outcome)
	assert.Equal(t, ModeAwaitingConfirmation, h.store.get("a").Mode)
}

func TestConcurrentSessions(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	h := newHarness(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i)
			r := h.engine.Resolve(ctx, id, "storage violatoin")
			assert.Equal(t, PromptYesNo, r.Prompt)
			r = h.engine.Resolve(ctx, id, "yes")
			assert.True(t, strings.HasPrefix(r.Text, "**Abend Code:** S0C4"))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, h.store.locks.Len())
}

func TestSameSessionTurnsAreSerialized(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.engine.Resolve(ctx, "shared", "000000")
		}()
	}
	h.engine.Resolve(ctx, "shared", "reset my password")
	h.engine.Resolve(ctx, "shared", "ab12")
	wg.Wait()

	st := h.store.get("shared")
	assert.True(t, st.Valid())
}

func TestSuggestionCache(t *testing.T) {
	h := newHarness(t, nil)

	h.say("storage violatoin")
	h.say("no")
	assert.Equal(t, 1, h.engine.suggestions.len())

	r := h.say("storage violatoin")
	assert.Equal(t, OutcomeSuggested, r.Outcome)
	assert.Equal(t, 1, h.engine.suggestions.len())

	require.NoError(t, h.engine.Reload([]abend.Record{
		{Code: "S322", Name: "Time Limit Exceeded", Solution: "Raise TIME on the step"},
	}))
	assert.Equal(t, 0, h.engine.suggestions.len())
	h.say("no")

	r = h.say("storage violatoin")
	assert.Equal(t, OutcomeFallback, r.Outcome, "a reload must not reuse suggestions from the old records")
}

func TestSuggestionCacheDisabled(t *testing.T) {
	h := newHarness(t, func(o *Options) { o.SuggestionCacheSize = -1 })

	r := h.say("storage violatoin")
	assert.Equal(t, OutcomeSuggested, r.Outcome)
	assert.Equal(t, 0, h.engine.suggestions.len())
}

func TestEnginesSharingStoreSerializeTurns(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	a := newHarness(t, nil)
	a.creds.block = 100 * time.Millisecond
	b := &harness{store: a.store, creds: a.creds, notifier: a.notifier, clock: a.clock}
	b.engine = NewEngine(a.engine.catalog, a.store, a.creds, a.notifier, logger.NewNopLogger(), a.engine.opts)

	a.say("reset my password")
	require.Equal(t, ModeAwaitingIdentity, a.store.get("s1").Mode)

	var (
		wg     sync.WaitGroup
		ra, rb Reply
	)
	wg.Add(2)
	go func() { defer wg.Done(); ra = a.say("ab12") }()
	go func() { defer wg.Done(); rb = b.say("zz99") }()
	wg.Wait()

	st := a.store.get("s1")
	assert.True(t, st.Valid())

	// Whichever turn ran second saw the first one's state, not the stale
	// AwaitingIdentity both started from.
	switch {
	case ra.Outcome == OutcomeCodeIssued:
		assert.Equal(t, OutcomeCodeRejected, rb.Outcome)
		assert.Equal(t, ModeAwaitingOneTimeCode, st.Mode)
		assert.Equal(t, 1, st.Attempts)
	case rb.Outcome == OutcomeIdentityUnknown:
		assert.NotEqual(t, OutcomeCodeIssued, ra.Outcome)
		assert.Equal(t, ModeIdle, st.Mode)
	default:
		t.Fatalf("unexpected outcomes %q and %q", ra.Outcome, rb.Outcome)
	}
	assert.Equal(t, 0, a.store.locks.Len())
}

func TestInconsistentStoredStateIsDiscarded(t *testing.T) {
	h := newHarness(t, nil)
	h.store.put(State{SessionID: "s1", Mode: ModeAwaitingOneTimeCode, Identity: "ab12"})

	r := h.say("123456")
	assert.NotEqual(t, OutcomeCredentialReset, r.Outcome)
	assert.Equal(t, "old", h.creds.secret("ab12"))
	assert.Equal(t, ModeIdle, h.store.get("s1").Mode)
}

func TestLoadedAtFollowsReload(t *testing.T) {
	h := newHarness(t, nil)
	first := h.engine.LoadedAt()
	require.False(t, first.IsZero())

	time.Sleep(time.Millisecond)
	require.NoError(t, h.engine.Reload(testRecords))
	assert.True(t, h.engine.LoadedAt().After(first))
}
