package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/smtp"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topic, key string
	event      any
}

func (p *capturePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.topic, p.key, p.event = topic, key, event
	return nil
}

func TestKafkaSender_KeysByOrderCode(t *testing.T) {
	pub := &capturePublisher{}
	s := &KafkaSender{Publisher: pub, Topic: "order_notifications"}

	require.NoError(t, s.Send(context.Background(), Message{Kind: KindOrderPlaced, OrderCode: "ABC1234567", To: "a@b.c"}))

	assert.Equal(t, "order_notifications", pub.topic)
	assert.Equal(t, "ABC1234567", pub.key)
	m, ok := pub.event.(Message)
	require.True(t, ok)
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestFormatMail(t *testing.T) {
	raw := string(FormatMail("shop@example.com", Message{
		To:      "buyer@example.com",
		Subject: "Order Confirmation #ABC1234567",
		Body:    "line one\nline two",
	}))

	assert.True(t, strings.HasPrefix(raw, "From: shop@example.com\r\nTo: buyer@example.com\r\n"))
	assert.Contains(t, raw, "Subject: Order Confirmation #ABC1234567\r\n")
	assert.Contains(t, raw, "\r\n\r\nline one\r\nline two\r\n")
}

func TestSMTPSender(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotAuth smtp.Auth
	s := &SMTPSender{
		Addr:     "mail.example.com:587",
		From:     "shop@example.com",
		Username: "shop",
		Password: "secret",
		send: func(addr string, a smtp.Auth, from string, to []string, _ []byte) error {
			gotAddr, gotAuth, gotFrom, gotTo = addr, a, from, to
			return nil
		},
	}

	require.NoError(t, s.Send(context.Background(), Message{To: "buyer@example.com", Subject: "hi"}))
	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "shop@example.com", gotFrom)
	assert.Equal(t, []string{"buyer@example.com"}, gotTo)
	assert.NotNil(t, gotAuth)

	require.Error(t, s.Send(context.Background(), Message{Subject: "nobody"}))
}

func TestDeliver(t *testing.T) {
	var buf bytes.Buffer
	next := &LogSender{Log: slog.New(slog.NewJSONHandler(&buf, nil))}
	handle := Deliver(next)

	value, err := json.Marshal(Message{Kind: KindInvoiceIssued, OrderCode: "ABC1234567", To: "a@b.c"})
	require.NoError(t, err)
	require.NoError(t, handle(context.Background(), kafka.Message{Value: value}))
	assert.Contains(t, buf.String(), `"order_code":"ABC1234567"`)
	assert.Contains(t, buf.String(), `"type":"invoice_issued"`)

	err = handle(context.Background(), kafka.Message{Value: []byte("{not json")})
	var syntax *json.SyntaxError
	assert.True(t, errors.As(err, &syntax))
}
