package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
)

// PlaceOrder turns the user's cart into an order in one transaction: the total is
// frozen from current prices, the order row is inserted and the cart lines are
// moved onto it. Any failure leaves cart and orders untouched.
func (r *GormRepo) PlaceOrder(ctx context.Context, d domain.OrderDraft) (*models.Order, error) {
	var order models.Order

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := findLockedCart(tx, d.UserID)
		if err != nil {
			return err
		}
		if cart == nil {
			return domain.ErrEmptyCart
		}

		var items []models.CartItem
		if err := tx.Preload("Part").Where("cart_id = ?", cart.ID).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}

		var taken int64
		if err := tx.Model(&models.Order{}).Where("code = ?", d.Code).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return domain.ErrOrderCodeTaken
		}

		order = models.Order{
			Code:       d.Code,
			UserID:     d.UserID,
			Email:      d.Email,
			TotalPrice: models.Total(items),
			Status:     models.OrderStatusWaiting,
		}
		if d.Shipping != nil {
			date := d.Shipping.DeliveryDate
			order.DeliveryDate = &date
			order.ShippingMethod = d.Shipping.Method
		}
		if err := tx.Omit("Items").Create(&order).Error; err != nil {
			if isDuplicate(err) {
				return domain.ErrOrderCodeTaken
			}
			return err
		}

		ids := make([]uint, len(items))
		for i := range items {
			ids[i] = items[i].ID
		}
		if err := tx.Model(&models.CartItem{}).
			Where("id IN ?", ids).
			Updates(map[string]any{"cart_id": nil, "order_id": order.ID}).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].CartID = nil
			items[i].OrderID = &order.ID
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) FindOrderByCode(ctx context.Context, code string) (*models.Order, error) {
	return findOrder(r.DB.WithContext(ctx), "code = ?", code)
}

func (r *GormRepo) FindUserOrder(ctx context.Context, userID uuid.UUID, code string) (*models.Order, error) {
	return findOrder(r.DB.WithContext(ctx).Where("user_id = ?", userID), "code = ?", code)
}

func findOrder(tx *gorm.DB, cond string, args ...any) (*models.Order, error) {
	var o models.Order
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Part").
		Where(cond, args...).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, 0, limit)
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}
