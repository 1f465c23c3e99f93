package dialogue

import (
	"fmt"

	"abend-assist-be/pkg/abend"
	"abend-assist-be/pkg/nlu"
)

// PromptKind tells the client what the next utterance is expected to be.
type PromptKind string

const (
	PromptNone     PromptKind = "none"
	PromptYesNo    PromptKind = "yes_no"
	PromptIdentity PromptKind = "identity_request"
	PromptCode     PromptKind = "code_request"
)

// Outcome names what a turn did, for logs and the turn history.
type Outcome string

const (
	OutcomeAnswered         Outcome = "answered"
	OutcomeSmallTalk        Outcome = "small_talk"
	OutcomeSuggested        Outcome = "suggested"
	OutcomeDeclined         Outcome = "declined"
	OutcomeFallback         Outcome = "fallback"
	OutcomeIdentityPrompted Outcome = "identity_prompted"
	OutcomeIdentityUnknown  Outcome = "identity_unknown"
	OutcomeCodeIssued       Outcome = "code_issued"
	OutcomeCodeRejected     Outcome = "code_rejected"
	OutcomeCodeLocked       Outcome = "code_locked"
	OutcomeCredentialReset  Outcome = "credential_reset"
	OutcomeFailed           Outcome = "failed"
)

// Reply is everything a turn produces.
type Reply struct {
	SessionID string       `json:"session_id"`
	Text      string       `json:"reply"`
	Prompt    PromptKind   `json:"prompt_kind"`
	Intent    nlu.Intent   `json:"intent"`
	Mode      Mode         `json:"mode"`
	Outcome   Outcome      `json:"outcome"`
	Entities  nlu.Entities `json:"entities"`
	Identity  string       `json:"-"` // set on credential steps
}

const (
	FallbackText       = "I'm sorry, I couldn't find an answer to that. Could you provide more details, such as the abend code or name?"
	FailureText        = "Something went wrong while processing your request. Please try again in a moment."
	YesNoReminderText  = "Please respond with 'yes' or 'no'."
	DeclinedText       = "Okay, please provide more details about your issue."
	IdentityPromptText = "Please provide your RACF ID to reset your password."
	CodeSentText       = "A one-time code has been sent to your email. Please enter it to reset your password."
	CodeRejectedText   = "That code is invalid or has expired. Please try again."
	CodeLockedText     = "Too many invalid codes. Please start the password reset again."
)

// outcome is a handler's verdict before composition.
type outcome struct {
	kind     Outcome
	text     string
	prompt   PromptKind
	identity string
}

func answer(kind Outcome, text string) outcome {
	return outcome{kind: kind, text: text, prompt: PromptNone}
}

func prompt(kind Outcome, text string, p PromptKind) outcome {
	return outcome{kind: kind, text: text, prompt: p}
}

func (o outcome) forIdentity(identity string) outcome {
	o.identity = identity
	return o
}

func fallback() outcome {
	return answer(OutcomeFallback, FallbackText)
}

func failure() outcome {
	return answer(OutcomeFailed, FailureText)
}

func compose(o outcome) Reply {
	if o.text == "" {
		o = fallback()
	}
	return Reply{Text: o.text, Prompt: o.prompt, Outcome: o.kind, Identity: o.identity}
}

// FormatRecord renders the answer for a resolved abend.
func FormatRecord(r abend.Record) string {
	return fmt.Sprintf("**Abend Code:** %s\n\n**Abend Name:** %s\n\n**Solution:** %s", r.Code, r.Name, r.Solution)
}

func suggestionText(candidate string) string {
	return fmt.Sprintf("Did you mean '%s'? Please respond with 'yes' or 'no'.", candidate)
}

func identityUnknownText(identity string) string {
	return fmt.Sprintf("User ID %s was not found. Please check the ID and ask for a password reset again.", identity)
}

func credentialResetText(identity string) string {
	return fmt.Sprintf("Password for User ID %s has been updated successfully. The new password has been sent to your email.", identity)
}
