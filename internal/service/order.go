package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/metrics"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
	"github.com/Skotchmaster/autoparts_shop/internal/notify"
	"github.com/Skotchmaster/autoparts_shop/internal/util"
	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
)

const defaultCheckoutAttempts = 5

var tracer = otel.Tracer("github.com/Skotchmaster/autoparts_shop/internal/service")

var profileValidator = newProfileValidator()

type OrderService struct {
	Store    OrderStore
	Notifier Notifier
	Metrics  *metrics.Metrics

	NewCode  CodeGenerator
	Attempts int
	Now      func() time.Time
}

type CheckoutRequest struct {
	ShippingMethod models.ShippingMethod
	DeliveryDate   int64
}

// Checkout validates the shipping profile and request, then converts the cart into
// a waiting order. Preconditions are checked in this order and the first failure
// is returned: profile present, profile complete, cart not empty, delivery date,
// shipping method.
func (s *OrderService) Checkout(ctx context.Context, c domain.Customer, req CheckoutRequest) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "order.checkout", trace.WithAttributes(
		attribute.String("user_id", c.ID.String()),
		attribute.String("shipping_method", string(req.ShippingMethod)),
	))
	defer span.End()

	person, order, err := s.checkout(ctx, c, req)
	s.Metrics.Checkout("checkout", err, total(order))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("order_code", order.Code))

	name := person.FullName
	if name == "" {
		name = c.DisplayName()
	}
	s.confirm(ctx, order, person.Email, name)
	return order, nil
}

func (s *OrderService) checkout(ctx context.Context, c domain.Customer, req CheckoutRequest) (*models.Person, *models.Order, error) {
	if c.Email == "" {
		return nil, nil, domain.ErrProfileMissing
	}
	person, err := s.Store.FindPersonByEmail(ctx, c.Email)
	if err != nil {
		return nil, nil, err
	}
	if missing := MissingProfileFields(person); len(missing) > 0 {
		return nil, nil, &domain.ProfileIncompleteError{Fields: missing}
	}

	n, err := s.Store.CountCartItems(ctx, c.ID)
	if err != nil {
		return nil, nil, err
	}
	if n == 0 {
		return nil, nil, domain.ErrEmptyCart
	}

	date, err := s.deliveryDate(req.DeliveryDate)
	if err != nil {
		return nil, nil, err
	}
	if !req.ShippingMethod.Valid() {
		return nil, nil, domain.ErrInvalidShippingMethod
	}

	order, err := s.createFromCart(ctx, c, &domain.Shipping{Method: req.ShippingMethod, DeliveryDate: date})
	if err != nil {
		return nil, nil, err
	}
	return person, order, nil
}

// FinalizeOrder places an order from the cart without shipping details.
func (s *OrderService) FinalizeOrder(ctx context.Context, c domain.Customer) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "order.finalize", trace.WithAttributes(attribute.String("user_id", c.ID.String())))
	defer span.End()

	order, err := s.createFromCart(ctx, c, nil)
	s.Metrics.Checkout("finalize", err, total(order))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("order_code", order.Code))

	s.confirm(ctx, order, c.Email, c.DisplayName())
	return order, nil
}

// createFromCart draws order codes until the store accepts one. Both the explicit
// existence check and the unique index report a taken code the same way.
func (s *OrderService) createFromCart(ctx context.Context, c domain.Customer, shipping *domain.Shipping) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_from_cart")

	gen := s.NewCode
	if gen == nil {
		gen = RandomOrderCode
	}
	attempts := s.Attempts
	if attempts <= 0 {
		attempts = defaultCheckoutAttempts
	}

	for i := 0; i < attempts; i++ {
		code, err := gen()
		if err != nil {
			return nil, err
		}

		order, err := s.Store.PlaceOrder(ctx, domain.OrderDraft{UserID: c.ID, Email: c.Email, Code: code, Shipping: shipping})
		if errors.Is(err, domain.ErrOrderCodeTaken) {
			l.Warn("order_code_collision", "attempt", i+1, "code", code)
			trace.SpanFromContext(ctx).AddEvent("order_code_collision")
			s.Metrics.CodeCollision()
			continue
		}
		if err != nil {
			return nil, err
		}
		return order, nil
	}

	return nil, domain.ErrOrderCodeConflict
}

func (s *OrderService) confirm(ctx context.Context, order *models.Order, to, name string) {
	if s.Notifier == nil {
		return
	}
	msg := notify.Message{
		Kind:      notify.KindOrderPlaced,
		OrderCode: order.Code,
		To:        to,
		Subject:   confirmationSubject(order.Code),
		Body:      confirmationBody(name, order.TotalPrice),
	}
	if err := s.Notifier.Send(ctx, msg); err != nil {
		logging.FromContext(ctx).Error("order_confirmation_error", "order_code", order.Code, "error", err)
	}
}

func (s *OrderService) deliveryDate(ts int64) (time.Time, error) {
	if ts <= 0 {
		return time.Time{}, domain.ErrInvalidDeliveryDate
	}
	day := truncateDay(time.Unix(ts, 0))
	if day.Year() > 9999 {
		return time.Time{}, domain.ErrInvalidDeliveryDate
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if day.Before(truncateDay(now())) {
		return time.Time{}, domain.ErrInvalidDeliveryDate
	}
	return day, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID uuid.UUID, code string) (*models.Order, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrOrderNotFound
	}
	return s.Store.FindUserOrder(ctx, userID, code)
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) (Page[models.Order], error) {
	if page < 1 {
		page = 1
	}
	offset, limit := util.Calculate(page, size)

	n, orders, err := s.Store.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		return Page[models.Order]{}, err
	}
	return Page[models.Order]{Items: orders, Page: page, Size: limit, Offset: offset, Total: n}, nil
}

// MissingProfileFields lists the json names of required profile fields that are blank.
func MissingProfileFields(p *models.Person) []string {
	trimmed := *p
	trimmed.Email = strings.TrimSpace(p.Email)
	trimmed.PostalCode = strings.TrimSpace(p.PostalCode)
	trimmed.Address = strings.TrimSpace(p.Address)

	var verrs validator.ValidationErrors
	if err := profileValidator.Struct(&trimmed); !errors.As(err, &verrs) {
		return nil
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field())
	}
	return out
}

func newProfileValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func total(o *models.Order) int64 {
	if o == nil {
		return 0
	}
	return o.TotalPrice
}
