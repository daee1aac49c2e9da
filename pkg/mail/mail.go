// Package mail implements the outbound SMTP transport: one authenticated
// session per run, reused across sends and released on every exit path.
package mail

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/action-reminders/reminders-go/utils"
)

// Transport is an open mail session.
type Transport interface {
	Send(from string, to []string, msg []byte) error
	Close() error
}

// Dialer opens authenticated SMTP sessions. When Password is empty the
// operator is prompted for it on the terminal.
type Dialer struct {
	Server   string
	Port     int
	From     string
	Password string

	// PromptPassword overrides the terminal password prompt, for tests.
	PromptPassword func(prompt string) (string, error)
}

// Session wraps an authenticated SMTP client connection.
type Session struct {
	client *smtp.Client
	logger *utils.Logger
}

// Dial connects to the mail server, upgrades to TLS, and authenticates.
func (d *Dialer) Dial() (Transport, error) {
	password := d.Password
	if password == "" {
		prompt := d.PromptPassword
		if prompt == nil {
			prompt = terminalPassword
		}
		var err error
		password, err = prompt(fmt.Sprintf("%s email password:", d.From))
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", d.Server, d.Port)
	client, err := smtp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: d.Server}
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	auth := smtp.PlainAuth("", d.From, password, d.Server)
	if err := client.Auth(auth); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to authenticate as %s: %w", d.From, err)
	}

	return &Session{client: client, logger: utils.GetLogger()}, nil
}

// Send delivers one message to the listed recipients.
func (s *Session) Send(from string, to []string, msg []byte) error {
	if err := s.client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, addr := range to {
		if err := s.client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to add recipient %s: %w", addr, err)
		}
	}

	w, err := s.client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	s.logger.Info("Email sent", utils.Int("recipients", len(to)))
	return nil
}

// Close logs out of the mail server.
func (s *Session) Close() error {
	return s.client.Quit()
}

// Message builds a multipart/alternative message with an HTML body and the
// standard headers. Header order is fixed so identical input produces
// identical bytes.
func Message(subject, from, to string, cc []string, htmlBody string) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	if len(cc) > 0 {
		fmt.Fprintf(&buf, "CC: %s\r\n", strings.Join(cc, ", "))
	}
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", w.Boundary())
	buf.WriteString("\r\n")

	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="utf-8"`},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTML part: %w", err)
	}
	if _, err := part.Write([]byte(htmlBody)); err != nil {
		return nil, fmt.Errorf("failed to write HTML body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}

	return buf.Bytes(), nil
}

// terminalPassword reads a password from the controlling terminal without
// echoing it.
func terminalPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	return string(password), nil
}
