package nlu

// Intent is the classification of an Idle-session turn.
type Intent string

const (
	IntentPasswordReset    Intent = "password_reset"
	IntentSmallTalk        Intent = "small_talk"
	IntentLookup           Intent = "lookup"
	IntentLookupUnresolved Intent = "lookup_unresolved"
	IntentUnknown          Intent = "unknown"

	// Turns routed by session mode instead of classification.
	IntentConfirmation   Intent = "confirmation"
	IntentCredentialStep Intent = "credential_step"
)

// Classify picks the intent for canonical text given the matcher output.
// First match wins: reset paraphrase, greeting, code/name, any other text.
func Classify(text string, ent Entities, lex Lexicon) Intent {
	if IsResetRequest(text, lex) {
		return IntentPasswordReset
	}
	if ent.Greeting != "" {
		return IntentSmallTalk
	}
	if ent.HasLookup() {
		return IntentLookup
	}
	if text != "" {
		return IntentLookupUnresolved
	}
	return IntentUnknown
}

// IsResetRequest reports whether text is close to a password-reset paraphrase.
func IsResetRequest(text string, lex Lexicon) bool {
	if text == "" {
		return false
	}
	for _, phrase := range lex.ResetPhrases {
		if Ratio(text, phrase) >= lex.PhraseMinimum {
			return true
		}
	}
	return false
}
