package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/idempotency"
	"github.com/Skotchmaster/autoparts_shop/internal/metrics"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
	"github.com/Skotchmaster/autoparts_shop/internal/notify"
	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
)

const (
	PaymentStatusSuccess = "success"

	replayTTL = 24 * time.Hour
)

type PaymentService struct {
	Store    PaymentStore
	Notifier Notifier
	Replay   idempotency.Store
	Metrics  *metrics.Metrics
}

type CallbackResult struct {
	OrderCode string
	Status    models.OrderStatus
	// Response is the invoice for a paid order and a failure notice otherwise.
	Response string
	Replayed bool
}

// HandleCallback applies a payment processor's verdict to the order. Only a
// "success" status pays the order; any other value fails it. Repeating the same
// verdict is answered with the first response and triggers nothing.
func (s *PaymentService) HandleCallback(ctx context.Context, code, status string) (*CallbackResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: order_code required", domain.ErrValidation)
	}
	target := models.OrderStatusFailed
	if status == PaymentStatusSuccess {
		target = models.OrderStatusPaid
	}

	ctx, span := tracer.Start(ctx, "payment.callback", trace.WithAttributes(
		attribute.String("order_code", code),
		attribute.String("target_status", string(target)),
	))
	defer span.End()

	l := logging.FromContext(ctx).With("svc", "payment.callback", "order_code", code)
	key := idempotency.CallbackKey(code, string(target))

	if s.Replay != nil {
		cached, ok, err := s.Replay.Lookup(ctx, key)
		if err != nil {
			l.Warn("replay_lookup_error", "error", err)
		}
		if ok {
			s.Metrics.PaymentCallback(string(target), "replayed")
			return &CallbackResult{OrderCode: code, Status: target, Response: cached, Replayed: true}, nil
		}
	}

	settled, err := s.Store.SettleOrder(ctx, code, target, RenderInvoice)
	if err != nil {
		s.Metrics.PaymentCallback(string(target), "rejected")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	res := &CallbackResult{
		OrderCode: code,
		Status:    target,
		Response:  settled.Invoice,
		Replayed:  !settled.Transitioned,
	}
	if target == models.OrderStatusFailed {
		res.Response = paymentFailedBody(code)
	}

	if settled.Transitioned {
		s.Metrics.PaymentCallback(string(target), "transitioned")
		l.Info("order_settled", "status", target)
		s.notify(ctx, settled.Order, res)
	} else {
		s.Metrics.PaymentCallback(string(target), "replayed")
		l.Info("payment_callback_repeated", "status", target)
	}

	if s.Replay != nil {
		if err := s.Replay.Remember(ctx, key, res.Response, replayTTL); err != nil {
			l.Warn("replay_store_error", "error", err)
		}
	}
	return res, nil
}

func (s *PaymentService) notify(ctx context.Context, order *models.Order, res *CallbackResult) {
	if s.Notifier == nil {
		return
	}
	msg := notify.Message{
		Kind:      notify.KindInvoiceIssued,
		OrderCode: order.Code,
		To:        order.Email,
		Subject:   "Invoice for order #" + order.Code,
		Body:      res.Response,
	}
	if res.Status == models.OrderStatusFailed {
		msg.Kind = notify.KindPaymentFailed
		msg.Subject = "Payment failed for order #" + order.Code
	}
	if err := s.Notifier.Send(ctx, msg); err != nil {
		logging.FromContext(ctx).Error("payment_notification_error", "order_code", order.Code, "error", err)
	}
}
