package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/autoparts_shop/internal/models"
)

// Customer is the authenticated caller as described by the access token.
type Customer struct {
	ID    uuid.UUID
	Email string
	Name  string
}

func (c Customer) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Email
}

type Shipping struct {
	Method       models.ShippingMethod
	DeliveryDate time.Time
}

// OrderDraft is everything the store needs to turn a cart into an order.
// Shipping is nil on the finalize path.
type OrderDraft struct {
	UserID   uuid.UUID
	Email    string
	Code     string
	Shipping *Shipping
}

// Settlement is the outcome of a payment callback. Transitioned is false when the
// order was already in the requested terminal state.
type Settlement struct {
	Order        *models.Order
	Invoice      string
	Transitioned bool
}
