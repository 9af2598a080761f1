package mailer

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"testing"

	"payments_admin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend_NotConfigured(t *testing.T) {
	m := New(domain.SMTPSettings{})
	assert.ErrorIs(t, m.Send("to@example.com", "s", "b"), ErrNotConfigured)

	// A sender alone is not enough
	m = New(domain.SMTPSettings{Sender: "noreply@example.com"})
	assert.ErrorIs(t, m.SendTest("to@example.com"), ErrNotConfigured)
}

// plainSMTPServer speaks just enough SMTP to answer an EHLO without
// advertising STARTTLS
func plainSMTPServer(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		fmt.Fprintf(conn, "220 test ESMTP\r\n")
		if _, err := r.ReadString('\n'); err != nil { // EHLO
			return
		}
		fmt.Fprintf(conn, "250 test\r\n")
		_, _ = r.ReadString('\n') // QUIT, if the client sends one
	}()
	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func TestSend_RequiresSTARTTLSWhenTLSEnabled(t *testing.T) {
	host, port := plainSMTPServer(t)
	m := New(domain.SMTPSettings{
		Host:   host,
		Port:   port,
		Sender: "noreply@example.com",
		UseTLS: true,
	})
	err := m.Send("to@example.com", "SMTP test", "body")
	assert.ErrorIs(t, err, ErrNoSTARTTLS, "credentials must never go over a plain connection")
}
