package mailer

import (
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendOneTimeCode(toEmail, code string, validFor time.Duration) error
	SendNewCredential(toEmail, identity, secret string) error
}

// Sender is the part of gomail.Dialer the service needs.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	return NewEmailServiceWithSender(gomail.NewDialer(host, port, username, password), senderEmail, senderName)
}

func NewEmailServiceWithSender(sender Sender, senderEmail, senderName string) IEmailService {
	return &emailService{
		sender:      sender,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) newMessage(toEmail, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (s *emailService) SendOneTimeCode(toEmail, code string, validFor time.Duration) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Aspire Password Reset</h2>
			<p>Your one-time code is:</p>
			<h1 style="color: #4CAF50; letter-spacing: 5px;">%s</h1>
			<p>This code will expire in %d minutes.</p>
			<p>If you didn't request this, please contact the service desk.</p>
		</div>
	`, html.EscapeString(code), int(validFor.Minutes()))

	if err := s.sender.DialAndSend(s.newMessage(toEmail, "Your Aspire Password Reset Code", body)); err != nil {
		return fmt.Errorf("send one-time code to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) SendNewCredential(toEmail, identity, secret string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Password Updated</h2>
			<p>The password for User ID <b>%s</b> has been reset.</p>
			<p>Your new password is:</p>
			<pre style="font-size: 18px; background: #f4f4f4; padding: 10px;">%s</pre>
			<p>Please change it after your next logon.</p>
		</div>
	`, html.EscapeString(identity), html.EscapeString(secret))

	if err := s.sender.DialAndSend(s.newMessage(toEmail, "Your Aspire Password Has Been Reset", body)); err != nil {
		return fmt.Errorf("send new credential to %s: %w", toEmail, err)
	}
	return nil
}
