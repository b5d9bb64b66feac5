package transport

import (
	"time"

	"github.com/Skotchmaster/autoparts_shop/internal/models"
)

type AddItemRequest struct {
	PartID uint `json:"part_id"  validate:"required"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity"`
}

func (r AddItemRequest) Qty() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

type CheckoutRequest struct {
	PostType     string `json:"post_type"`
	DeliveryDate int64  `json:"delivery_date"`
}

type WebhookRequest struct {
	OrderCode string `json:"order_code" validate:"required"`
	Status    string `json:"status"     validate:"required"`
}

type ProfileRequest struct {
	FullName   string `json:"full_name"   validate:"max=255"`
	Phone      string `json:"phone"       validate:"max=32"`
	PostalCode string `json:"postal_code" validate:"required,max=16"`
	Address    string `json:"address"     validate:"required"`
}

type CartItemView struct {
	ID        uint   `json:"id"`
	PartID    uint   `json:"part_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

type CartResponse struct {
	Items []CartItemView `json:"items"`
	Total int64          `json:"total"`
}

type OrderResponse struct {
	Code           string         `json:"code"`
	TotalPrice     int64          `json:"total_price"`
	Status         string         `json:"status"`
	ShippingMethod string         `json:"shipping_method,omitempty"`
	DeliveryDate   *string        `json:"delivery_date,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	Items          []CartItemView `json:"items,omitempty"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

func ItemView(it models.CartItem) CartItemView {
	return CartItemView{
		ID:        it.ID,
		PartID:    it.PartID,
		Name:      it.Part.Name,
		Price:     it.Part.Price,
		Quantity:  it.Quantity,
		LineTotal: it.LineTotal(),
	}
}

func ItemViews(items []models.CartItem) []CartItemView {
	out := make([]CartItemView, 0, len(items))
	for _, it := range items {
		out = append(out, ItemView(it))
	}
	return out
}

func OrderView(o *models.Order) OrderResponse {
	resp := OrderResponse{
		Code:           o.Code,
		TotalPrice:     o.TotalPrice,
		Status:         string(o.Status),
		ShippingMethod: string(o.ShippingMethod),
		CreatedAt:      o.CreatedAt,
	}
	if o.DeliveryDate != nil {
		d := o.DeliveryDate.UTC().Format(time.DateOnly)
		resp.DeliveryDate = &d
	}
	if len(o.Items) > 0 {
		resp.Items = ItemViews(o.Items)
	}
	return resp
}
