package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
	"github.com/Skotchmaster/autoparts_shop/internal/notify"
)

type CatalogStore interface {
	GetPart(ctx context.Context, id uint) (*models.Part, error)
	ListParts(ctx context.Context, offset, limit int) (int64, []models.Part, error)
}

type CartStore interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	CartItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	ReserveItem(ctx context.Context, userID uuid.UUID, partID uint, qty int) (*models.CartItem, error)
	ReleaseItem(ctx context.Context, userID uuid.UUID, partID uint) (*models.CartItem, error)
	ReleaseCartItem(ctx context.Context, userID uuid.UUID, itemID uint) (*models.CartItem, error)
	ReleaseCart(ctx context.Context, userID uuid.UUID) (int, error)
	StaleCarts(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error)
	ReleaseStaleCart(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int, error)
}

type OrderStore interface {
	FindPersonByEmail(ctx context.Context, email string) (*models.Person, error)
	CountCartItems(ctx context.Context, userID uuid.UUID) (int64, error)
	PlaceOrder(ctx context.Context, d domain.OrderDraft) (*models.Order, error)
	FindUserOrder(ctx context.Context, userID uuid.UUID, code string) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Order, error)
}

type PaymentStore interface {
	SettleOrder(ctx context.Context, code string, target models.OrderStatus, render func(*models.Order) (string, error)) (*domain.Settlement, error)
}

type ProfileStore interface {
	FindPersonByEmail(ctx context.Context, email string) (*models.Person, error)
	SavePerson(ctx context.Context, p *models.Person) error
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// Notifier is best-effort: callers log a failure and carry on.
type Notifier interface {
	Send(ctx context.Context, m notify.Message) error
}
