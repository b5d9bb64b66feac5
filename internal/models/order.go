package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusWaiting OrderStatus = "waiting"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusPaid || s == OrderStatusFailed
}

type ShippingMethod string

const (
	ShippingPost     ShippingMethod = "post"
	ShippingCourierA ShippingMethod = "courier_a"
	ShippingCourierB ShippingMethod = "courier_b"
)

func (m ShippingMethod) Valid() bool {
	switch m {
	case ShippingPost, ShippingCourierA, ShippingCourierB:
		return true
	}
	return false
}

const OrderCodeLength = 10

type Order struct {
	ID             uint           `gorm:"primaryKey"                          json:"id"`
	Code           string         `gorm:"size:10;uniqueIndex;not null"        json:"code"`
	UserID         uuid.UUID      `gorm:"index;not null"                      json:"user_id"`
	Email          string         `gorm:"size:255"                            json:"email,omitempty"`
	TotalPrice     int64          `gorm:"not null;check:total_price >= 0"     json:"total_price"`
	DeliveryDate   *time.Time     `                                           json:"delivery_date,omitempty"`
	ShippingMethod ShippingMethod `gorm:"size:16"                             json:"shipping_method,omitempty"`
	Status         OrderStatus    `gorm:"size:16;not null;default:waiting;index" json:"status"`
	Items          []CartItem     `gorm:"foreignKey:OrderID"                  json:"items,omitempty"`
	CreatedAt      time.Time      `                                           json:"created_at"`
	UpdatedAt      time.Time      `                                           json:"updated_at"`
}

// Invoice is rendered once, when an order becomes paid.
type Invoice struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	OrderID   uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	Body      string    `gorm:"type:text;not null"   json:"body"`
	CreatedAt time.Time `                            json:"created_at"`
}
