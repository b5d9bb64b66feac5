package models

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID        uint       `gorm:"primaryKey"                                  json:"id"`
	UserID    uuid.UUID  `gorm:"uniqueIndex;not null"                        json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time  `                                                   json:"created_at"`
	UpdatedAt time.Time  `                                                   json:"updated_at"`
}

// CartItem belongs to a cart while it is being assembled and to an order after
// checkout; exactly one of CartID and OrderID is set.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"                            json:"id"`
	CartID    *uint     `gorm:"uniqueIndex:idx_cart_part"             json:"cart_id,omitempty"`
	OrderID   *uint     `gorm:"index"                                 json:"order_id,omitempty"`
	PartID    uint      `gorm:"uniqueIndex:idx_cart_part;not null"    json:"part_id"`
	Part      Part      `gorm:"constraint:OnDelete:RESTRICT"          json:"part"`
	Quantity  int       `gorm:"not null;check:quantity > 0"           json:"quantity"`
	CreatedAt time.Time `                                             json:"created_at"`
	UpdatedAt time.Time `                                             json:"updated_at"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (i CartItem) LineTotal() int64 {
	return i.Part.Price * int64(i.Quantity)
}

// Total follows current part prices.
func Total(items []CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum
}
