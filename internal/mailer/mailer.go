// Package mailer sends mail with the SMTP credentials stored in the
// smtp_settings singleton.
package mailer

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"strconv"

	"payments_admin/internal/domain"
)

// ErrNotConfigured means the smtp_settings row is missing required fields
var ErrNotConfigured = errors.New("smtp settings not configured")

// ErrNoSTARTTLS means TLS is required but the server does not offer it
var ErrNoSTARTTLS = errors.New("smtp server does not support STARTTLS")

// Mailer wraps an SMTP settings snapshot
type Mailer struct {
	settings domain.SMTPSettings
}

// New builds a Mailer from stored settings
func New(settings domain.SMTPSettings) *Mailer {
	return &Mailer{settings: settings}
}

// Send delivers a plain-text message through the configured SMTP host.
// With UseTLS set, the connection must upgrade via STARTTLS before any
// credentials go over the wire; without it, delivery is opportunistic.
func (m *Mailer) Send(to, subject, body string) error {
	if m.settings.Host == "" || m.settings.Sender == "" {
		return ErrNotConfigured
	}
	addr := m.settings.Host + ":" + strconv.Itoa(m.settings.Port)
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.settings.Sender, // From address
		to,                // To address
		subject,           // Subject
		body,              // Email body
	)
	var auth smtp.Auth
	if m.settings.Username != "" {
		auth = smtp.PlainAuth("", m.settings.Username, m.settings.Password, m.settings.Host)
	}
	if !m.settings.UseTLS {
		return smtp.SendMail(addr, auth, m.settings.Sender, []string{to}, []byte(msg))
	}
	return m.sendSTARTTLS(addr, auth, to, []byte(msg))
}

// sendSTARTTLS delivers over a connection that must upgrade to TLS first
func (m *Mailer) sendSTARTTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Close()
	if ok, _ := c.Extension("STARTTLS"); !ok {
		return ErrNoSTARTTLS
	}
	if err := c.StartTLS(&tls.Config{ServerName: m.settings.Host}); err != nil {
		return err
	}
	if auth != nil {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(m.settings.Sender); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// SendTest delivers the settings-page test message
func (m *Mailer) SendTest(to string) error {
	return m.Send(to, "SMTP test", "SMTP settings are working.")
}
