package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"abend-assist-be/internal/pkg/mailer"
	"abend-assist-be/pkg/dialogue"
)

type mailNotifier struct {
	email   mailer.IEmailService
	codeTTL time.Duration
}

// NewMailNotifier delivers dialogue notifications by e-mail.
func NewMailNotifier(email mailer.IEmailService, codeTTL time.Duration) dialogue.Notifier {
	return &mailNotifier{email: email, codeTTL: codeTTL}
}

func (n *mailNotifier) Send(ctx context.Context, address string, kind dialogue.NotificationKind, payload string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch kind {
	case dialogue.NotifyOneTimeCode:
		return n.email.SendOneTimeCode(address, payload, n.codeTTL)
	case dialogue.NotifyCredentialReset:
		identity, _, _ := strings.Cut(address, "@")
		return n.email.SendNewCredential(address, identity, payload)
	default:
		return fmt.Errorf("unknown notification kind %q", kind)
	}
}

// MailAddress maps a security user id to its mailbox.
func MailAddress(domain string) func(identity string) string {
	return func(identity string) string {
		return identity + "@" + domain
	}
}
