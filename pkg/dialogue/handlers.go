package dialogue

import (
	"context"

	"abend-assist-be/pkg/abend"
	"abend-assist-be/pkg/nlu"
)

func (e *Engine) handleIdle(state *State, text string) (outcome, nlu.Intent, nlu.Entities) {
	idx := e.catalog.Snapshot()
	ent := nlu.Match(text, idx, e.opts.Lexicon)
	intent := nlu.Classify(text, ent, e.opts.Lexicon)

	switch intent {
	case nlu.IntentPasswordReset:
		state.awaitIdentity()
		return prompt(OutcomeIdentityPrompted, IdentityPromptText, PromptIdentity), intent, ent

	case nlu.IntentSmallTalk:
		return answer(OutcomeSmallTalk, ent.GreetingReply), intent, ent

	case nlu.IntentLookup:
		if rec, ok := lookup(idx, ent); ok {
			return answer(OutcomeAnswered, FormatRecord(rec)), intent, ent
		}
		return fallback(), intent, ent

	case nlu.IntentLookupUnresolved:
		if s, ok := e.suggestions.suggest(idx, text); ok {
			state.awaitConfirmation(s.Candidate)
			return prompt(OutcomeSuggested, suggestionText(s.Candidate), PromptYesNo), intent, ent
		}
	}
	return fallback(), intent, ent
}

// lookup prefers the code; a name resolves to the first record containing it.
func lookup(idx *abend.Index, ent nlu.Entities) (abend.Record, bool) {
	if ent.Code != "" {
		if rec, ok := idx.LookupByCode(ent.Code); ok {
			return rec, true
		}
	}
	if ent.Name != "" {
		if rows := idx.SearchByName(ent.Name); len(rows) > 0 {
			return rows[0], true
		}
	}
	return abend.Record{}, false
}

func (e *Engine) handleConfirmation(state *State, text string) outcome {
	candidate := state.Candidate
	state.toIdle()

	switch text {
	case "yes":
		idx := e.catalog.Snapshot()
		ent := nlu.Match(nlu.Normalize(candidate), idx, e.opts.Lexicon)
		if rec, ok := lookup(idx, ent); ok {
			return answer(OutcomeAnswered, FormatRecord(rec))
		}
		// The candidate can vanish if records were reloaded in between.
		return fallback()
	case "no":
		return answer(OutcomeDeclined, DeclinedText)
	default:
		return answer(OutcomeFallback, YesNoReminderText)
	}
}

func (e *Engine) handleIdentity(ctx context.Context, state *State, identity string) outcome {
	var exists bool
	err := e.call(ctx, "identity check", func(ctx context.Context) error {
		var err error
		exists, err = e.credentials.IdentityExists(ctx, identity)
		return err
	})
	if err != nil {
		return e.collaboratorFailed(state, "identity check", err)
	}
	if !exists {
		state.toIdle()
		e.logger.Info(logModule, "Unknown identity for password reset", map[string]interface{}{
			"session_id": state.SessionID,
			"identity":   identity,
		})
		return answer(OutcomeIdentityUnknown, identityUnknownText(identity)).forIdentity(identity)
	}

	code, err := e.opts.Secrets.OneTimeCode()
	if err != nil {
		return e.collaboratorFailed(state, "one-time code", err)
	}
	digest, err := hashOneTimeCode(code)
	if err != nil {
		return e.collaboratorFailed(state, "one-time code", err)
	}
	err = e.call(ctx, "send one-time code", func(ctx context.Context) error {
		return e.notifier.Send(ctx, e.opts.Address(identity), NotifyOneTimeCode, code)
	})
	if err != nil {
		return e.collaboratorFailed(state, "send one-time code", err)
	}

	state.awaitOneTimeCode(identity, digest, e.opts.Now())
	e.logger.Info(logModule, "One-time code issued", map[string]interface{}{
		"session_id": state.SessionID,
		"identity":   identity,
	})
	return prompt(OutcomeCodeIssued, CodeSentText, PromptCode).forIdentity(identity)
}

func (e *Engine) handleOneTimeCode(ctx context.Context, state *State, text string) outcome {
	if !state.codeAccepted(text, e.opts.Now(), e.opts.OneTimeCodeTTL) {
		state.Attempts++
		if e.opts.MaxCodeAttempts > 0 && state.Attempts >= e.opts.MaxCodeAttempts {
			e.logger.Warn(logModule, "One-time code attempts exhausted", map[string]interface{}{
				"session_id": state.SessionID,
				"identity":   state.Identity,
				"attempts":   state.Attempts,
			})
			identity := state.Identity
			state.toIdle()
			return answer(OutcomeCodeLocked, CodeLockedText).forIdentity(identity)
		}
		return prompt(OutcomeCodeRejected, CodeRejectedText, PromptCode)
	}

	identity := state.Identity
	secret, err := e.opts.Secrets.Credential()
	if err != nil {
		return e.collaboratorFailed(state, "credential", err)
	}
	err = e.call(ctx, "update credential", func(ctx context.Context) error {
		return e.credentials.UpdateCredential(ctx, identity, secret)
	})
	if err != nil {
		return e.collaboratorFailed(state, "update credential", err)
	}
	err = e.call(ctx, "send credential", func(ctx context.Context) error {
		return e.notifier.Send(ctx, e.opts.Address(identity), NotifyCredentialReset, secret)
	})
	if err != nil {
		return e.collaboratorFailed(state, "send credential", err)
	}

	state.toIdle()
	e.logger.Info(logModule, "Credential reset", map[string]interface{}{
		"session_id": state.SessionID,
		"identity":   identity,
	})
	return answer(OutcomeCredentialReset, credentialResetText(identity)).forIdentity(identity)
}
