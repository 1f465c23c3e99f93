package dialogue

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoSecrets(t *testing.T) {
	var g CryptoSecrets

	for i := 0; i < 50; i++ {
		code, err := g.OneTimeCode()
		require.NoError(t, err)
		assert.Len(t, code, OneTimeCodeLength)
		assert.Equal(t, -1, strings.IndexFunc(code, func(r rune) bool { return !unicode.IsDigit(r) }))

		cred, err := g.Credential()
		require.NoError(t, err)
		assert.Len(t, cred, CredentialLength)
		for _, r := range cred {
			assert.Contains(t, credentialAlphabet, string(r))
		}
	}
}

func TestStateTransitionsClearFields(t *testing.T) {
	s := NewState("s")
	s.awaitConfirmation("Storage Violation")
	assert.True(t, s.Valid())

	digest, err := hashOneTimeCode("123456")
	require.NoError(t, err)
	s.awaitOneTimeCode("ab12", digest, s.UpdatedAt)
	assert.True(t, s.Valid())
	assert.True(t, s.codeAccepted("123456", s.UpdatedAt, time.Minute))
	assert.False(t, s.codeAccepted("654321", s.UpdatedAt, time.Minute))
	assert.False(t, s.codeAccepted(digest, s.UpdatedAt, time.Minute), "the digest itself is not a valid code")
	assert.Empty(t, s.Candidate)

	s.Attempts = 4
	s.toIdle()
	assert.Equal(t, &State{SessionID: "s", Mode: ModeIdle}, s)

	assert.False(t, (&State{Mode: ModeAwaitingConfirmation}).Valid())
	assert.False(t, (&State{Mode: "bogus"}).Valid())
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	ctx := context.Background()
	k := NewKeyedMutex()
	unlockA, err := k.Lock(ctx, "a")
	require.NoError(t, err)
	unlockB, err := k.Lock(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, k.Len())

	unlockA()
	unlockA()
	unlockB()
	assert.Equal(t, 0, k.Len())
}

func TestKeyedMutexHonoursContext(t *testing.T) {
	k := NewKeyedMutex()
	unlock, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = k.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, k.Len())

	unlock()
	assert.Equal(t, 0, k.Len())
}

func TestComposeEmptyTextFallsBack(t *testing.T) {
	r := compose(outcome{})
	assert.Equal(t, FallbackText, r.Text)
	assert.Equal(t, PromptNone, r.Prompt)
}
