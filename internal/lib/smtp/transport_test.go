package smtp

import (
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/newsletter/internal/config"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTransport_Sender(t *testing.T) {
	tr := NewTransport(config.SMTP{SMTPUser: "user@mail.test", SMTPFrom: "news@mail.test"}, newNoopLogger())
	assert.Equal(t, "news@mail.test", tr.Sender())

	tr = NewTransport(config.SMTP{SMTPUser: "user@mail.test"}, newNoopLogger())
	assert.Equal(t, "user@mail.test", tr.Sender())
}

func TestTransport_Connect_NoHost(t *testing.T) {
	_, err := NewTransport(config.SMTP{}, newNoopLogger()).Connect()
	assert.Error(t, err)
}

func TestTransport_Connect_RequiresStartTLS(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		// сервер без STARTTLS в ответе на EHLO
		_, _ = conn.Write([]byte("220 mail.test ESMTP\r\n"))
		buf := make([]byte, 512)
		if _, err := conn.Read(buf); err != nil {
			return
		}
		_, _ = conn.Write([]byte("250-mail.test\r\n250 AUTH PLAIN\r\n"))
		_, _ = conn.Read(buf)
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	_, err = NewTransport(config.SMTP{SMTPHost: host, SMTPPort: port}, newNoopLogger()).Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STARTTLS")
}
