package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/segmentio/kafka-go"
)

// SMTPSender delivers a message as a plain-text e-mail.
type SMTPSender struct {
	Addr     string
	From     string
	Username string
	Password string

	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s *SMTPSender) Send(_ context.Context, m Message) error {
	if m.To == "" {
		return fmt.Errorf("notify: message %s has no recipient", m.ID)
	}

	var auth smtp.Auth
	if s.Username != "" {
		host := s.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.Username, s.Password, host)
	}

	send := s.send
	if send == nil {
		send = smtp.SendMail
	}
	return send(s.Addr, auth, s.From, []string{m.To}, FormatMail(s.From, m))
}

func FormatMail(from string, m Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// Deliver decodes one Kafka record and hands it to next.
func Deliver(next Sender) func(ctx context.Context, msg kafka.Message) error {
	return func(ctx context.Context, msg kafka.Message) error {
		var m Message
		if err := json.Unmarshal(msg.Value, &m); err != nil {
			return fmt.Errorf("notify: decode offset %d: %w", msg.Offset, err)
		}
		return next.Send(ctx, m)
	}
}
