// Package mailer provides functionality to send transactional emails over
// SMTP. Any standard SMTP provider works; the host, port and credentials are
// supplied through configuration.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends email through a single SMTP account.
type Mailer struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
}

// NewMailer creates a Mailer. It returns an error when any required field is
// missing so that misconfiguration surfaces at startup rather than on the
// first send.
func NewMailer(host, port, username, password, sender string) (*Mailer, error) {
	if host == "" || port == "" {
		return nil, fmt.Errorf("SMTP host and port must be provided")
	}
	if username == "" || password == "" {
		return nil, fmt.Errorf("SMTP username and password must be provided")
	}
	if sender == "" {
		return nil, fmt.Errorf("sender email address cannot be empty")
	}
	return &Mailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		Sender:   sender,
	}, nil
}

// Send delivers a single message. The Content-Type header is inferred from
// the body so callers can pass either plain text or HTML.
func (m *Mailer) Send(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, m.Sender, subject, contentType, body))

	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)

	if err := smtp.SendMail(addr, auth, m.Sender, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", recipient, err)
	}
	return nil
}
