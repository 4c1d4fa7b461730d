package services

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, displayName string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func welcomeMessage(from, to, displayName string) *gomail.Message {
	name := displayName
	if name == "" {
		name = "there"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your cryptoupi account is ready")
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your phone number was confirmed and your account has been created.</p>
		<p>You can now sign in with the same phone number at any time.</p>
	`, html.EscapeString(name)))
	return m
}

func (s *emailService) SendWelcomeEmail(email, displayName string) error {
	if err := s.dialer.DialAndSend(welcomeMessage(s.from, email, displayName)); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}
