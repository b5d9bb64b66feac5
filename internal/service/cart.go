package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/metrics"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
	"github.com/Skotchmaster/autoparts_shop/pkg/logging"
)

const staleBatch = 100

// CartService keeps per-user carts. Stock is reserved when an item enters a cart
// and returned when it leaves one without being ordered.
type CartService struct {
	Store   CartStore
	Events  EventPublisher
	Topic   string
	Metrics *metrics.Metrics
}

type CartView struct {
	Cart  *models.Cart
	Items []models.CartItem
	Total int64
}

func (s *CartService) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.Store.GetOrCreateCart(ctx, userID)
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.Store.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.Store.CartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartView{Cart: cart, Items: items, Total: s.ComputeTotal(items)}, nil
}

func (s *CartService) ComputeTotal(items []models.CartItem) int64 {
	return models.Total(items)
}

func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, partID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	if partID == 0 {
		return nil, fmt.Errorf("%w: part_id required", domain.ErrValidation)
	}

	item, err := s.Store.ReserveItem(ctx, userID, partID, quantity)
	s.Metrics.CartOp("add", err)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, userID, map[string]any{
		"type":     "item_added",
		"user_id":  userID,
		"part_id":  partID,
		"quantity": quantity,
		"total":    item.Quantity,
	})
	return item, nil
}

// RemoveItem drops the line for partID; a missing line is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, partID uint) error {
	item, err := s.Store.ReleaseItem(ctx, userID, partID)
	return s.removed(ctx, userID, item, err)
}

// RemoveCartItem drops a line by its id, scoped to the user's own cart.
func (s *CartService) RemoveCartItem(ctx context.Context, userID uuid.UUID, itemID uint) error {
	item, err := s.Store.ReleaseCartItem(ctx, userID, itemID)
	return s.removed(ctx, userID, item, err)
}

func (s *CartService) removed(ctx context.Context, userID uuid.UUID, item *models.CartItem, err error) error {
	s.Metrics.CartOp("remove", err)
	if err != nil {
		return err
	}
	if item != nil {
		s.publish(ctx, userID, map[string]any{
			"type":     "item_removed",
			"user_id":  userID,
			"part_id":  item.PartID,
			"quantity": item.Quantity,
		})
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	n, err := s.Store.ReleaseCart(ctx, userID)
	s.Metrics.CartOp("clear", err)
	if err != nil {
		return err
	}
	if n > 0 {
		s.publish(ctx, userID, map[string]any{"type": "cart_cleared", "user_id": userID, "items": n})
	}
	return nil
}

// ReleaseStale empties carts idle since before cutoff and returns how many were emptied.
func (s *CartService) ReleaseStale(ctx context.Context, cutoff time.Time) (int, error) {
	l := logging.FromContext(ctx).With("svc", "cart.release_stale")

	released := 0
	for {
		users, err := s.Store.StaleCarts(ctx, cutoff, staleBatch)
		if err != nil {
			return released, err
		}
		for _, userID := range users {
			n, err := s.Store.ReleaseStaleCart(ctx, userID, cutoff)
			if err != nil {
				return released, err
			}
			if n > 0 {
				released++
				l.Info("reservation_released", "user_id", userID, "items", n)
				s.publish(ctx, userID, map[string]any{"type": "cart_expired", "user_id": userID, "items": n})
			}
		}
		if len(users) < staleBatch {
			break
		}
	}

	s.Metrics.ReservationsReleased(released)
	return released, nil
}

func (s *CartService) publish(ctx context.Context, userID uuid.UUID, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishEvent(ctx, s.Topic, userID.String(), event); err != nil {
		logging.FromContext(ctx).Error("cart_event_publish_error", "type", event["type"], "error", err)
	}
}
