package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
)

func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart *models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockedCart(tx, userID)
		cart = c
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// lockedCart returns the user's cart row-locked, creating it on first use.
// Concurrent first calls converge on one row through the unique user_id index.
func lockedCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	cart, err := findLockedCart(tx, userID)
	if err != nil || cart != nil {
		return cart, err
	}

	fresh := models.Cart{UserID: userID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	var created models.Cart
	if err := forUpdate(tx).Where("user_id = ?", userID).First(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// findLockedCart is lockedCart without the create; a user without a cart has nothing to mutate.
func findLockedCart(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := forUpdate(tx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) CartItems(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return cartItems(r.DB.WithContext(ctx), userID)
}

func cartItems(tx *gorm.DB, userID uuid.UUID) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	err := tx.Preload("Part").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Order("cart_items.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountCartItems(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Count(&n).Error
	return n, err
}

// ReserveItem takes qty units of the part out of inventory and adds them to the
// user's cart. The decrement is conditional, so inventory never goes negative
// however many requests race on the same part.
func (r *GormRepo) ReserveItem(ctx context.Context, userID uuid.UUID, partID uint, qty int) (*models.CartItem, error) {
	var item models.CartItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var part models.Part
		if err := tx.Select("id").First(&part, partID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPartNotFound
			}
			return err
		}

		cart, err := lockedCart(tx, userID)
		if err != nil {
			return err
		}

		res := tx.Model(&models.Part{}).
			Where("id = ? AND inventory >= ?", partID, qty).
			Update("inventory", gorm.Expr("inventory - ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInsufficientStock
		}

		row := models.CartItem{CartID: &cart.ID, PartID: partID, Quantity: qty}
		if err := tx.Omit("Part").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "part_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": time.Now().UTC(),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		return tx.Preload("Part").
			Where("cart_id = ? AND part_id = ?", cart.ID, partID).
			First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ReleaseItem drops the cart line for partID and puts its quantity back into
// inventory. It returns nil when there was no such line.
func (r *GormRepo) ReleaseItem(ctx context.Context, userID uuid.UUID, partID uint) (*models.CartItem, error) {
	return r.release(ctx, userID, "part_id = ?", partID)
}

func (r *GormRepo) ReleaseCartItem(ctx context.Context, userID uuid.UUID, itemID uint) (*models.CartItem, error) {
	return r.release(ctx, userID, "id = ?", itemID)
}

func (r *GormRepo) release(ctx context.Context, userID uuid.UUID, cond string, arg uint) (*models.CartItem, error) {
	var removed *models.CartItem

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := findLockedCart(tx, userID)
		if err != nil || cart == nil {
			return err
		}

		var item models.CartItem
		err = tx.Where("cart_id = ?", cart.ID).Where(cond, arg).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := releaseItems(tx, []models.CartItem{item}); err != nil {
			return err
		}
		removed = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ReleaseCart empties the cart and returns every reserved unit to inventory.
func (r *GormRepo) ReleaseCart(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := findLockedCart(tx, userID)
		if err != nil || cart == nil {
			return err
		}

		var items []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
			return err
		}
		if err := releaseItems(tx, items); err != nil {
			return err
		}
		n = len(items)
		return nil
	})
	return n, err
}

// ReleaseStaleCart empties the cart only if none of its lines was touched at or
// after cutoff, checked under the cart lock so a concurrent add keeps the cart.
func (r *GormRepo) ReleaseStaleCart(ctx context.Context, userID uuid.UUID, cutoff time.Time) (int, error) {
	var n int

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := findLockedCart(tx, userID)
		if err != nil || cart == nil {
			return err
		}

		var fresh int64
		if err := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND updated_at >= ?", cart.ID, cutoff.UTC()).
			Count(&fresh).Error; err != nil {
			return err
		}
		if fresh > 0 {
			return nil
		}

		var items []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Find(&items).Error; err != nil {
			return err
		}
		if err := releaseItems(tx, items); err != nil {
			return err
		}
		n = len(items)
		return nil
	})
	return n, err
}

func releaseItems(tx *gorm.DB, items []models.CartItem) error {
	for _, it := range items {
		if err := tx.Model(&models.Part{}).
			Where("id = ?", it.PartID).
			Update("inventory", gorm.Expr("inventory + ?", it.Quantity)).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.CartItem{}, it.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// StaleCarts lists owners of non-empty carts whose lines were all last touched before cutoff.
func (r *GormRepo) StaleCarts(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	var rows []struct {
		UserID uuid.UUID
	}
	err := r.DB.WithContext(ctx).
		Table("carts").
		Select("carts.user_id AS user_id").
		Joins("JOIN cart_items ON cart_items.cart_id = carts.id").
		Group("carts.user_id").
		Having("MAX(cart_items.updated_at) < ?", cutoff.UTC()).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.UserID)
	}
	return out, nil
}
