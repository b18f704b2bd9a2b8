package utils

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Email is one outbound message. HTML is optional.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers email. Implementations must honour ctx cancellation.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string

	send sendMailFunc
}

func NewSMTPMailer(host, port, username, password, fromName string) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		FromName: fromName,
		send:     smtp.SendMail,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Email) error {
	from := fmt.Sprintf("%s <%s>", safeHeader(m.FromName), m.Username)
	auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
	addr := fmt.Sprintf("%s:%s", m.Host, m.Port)
	raw := BuildMessage(from, msg)

	// net/smtp has no context support; give up waiting when ctx ends.
	done := make(chan error, 1)
	go func() {
		done <- m.send(addr, auth, m.Username, []string{msg.To}, raw)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("❌ Failed to send email to %s: %v", MaskEmail(msg.To), err)
			return err
		}
		log.Printf("📨 Email sent to %s (%s)", MaskEmail(msg.To), msg.Subject)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogMailer is used when SMTP is not configured. It only logs.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Email) error {
	log.Printf("[MOCK EMAIL] to:%s subject:%q body:%q", msg.To, msg.Subject, msg.Text)
	return nil
}

func safeHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// BuildMessage renders msg as a MIME message, multipart when HTML is set.
func BuildMessage(from string, msg Email) []byte {
	const boundary = "----=_ROYAL_DINE_EMAIL_BOUNDARY"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", safeHeader(msg.To)))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", safeHeader(msg.Subject)))
	sb.WriteString("MIME-Version: 1.0\r\n")

	if msg.HTML == "" {
		sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		sb.WriteString(msg.Text + "\r\n")
		return []byte(sb.String())
	}

	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.Text + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.HTML + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(sb.String())
}
