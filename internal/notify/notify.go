// Package notify carries order notifications from the shop to the mailer. The
// shop publishes messages to Kafka; cmd/notifier consumes and delivers them.
package notify

import (
	"context"
	"time"
)

type Kind string

const (
	KindOrderPlaced   Kind = "order_placed"
	KindInvoiceIssued Kind = "invoice_issued"
	KindPaymentFailed Kind = "payment_failed"
)

type Message struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"type"`
	OrderCode string    `json:"order_code"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}
