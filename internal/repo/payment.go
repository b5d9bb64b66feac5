package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
)

// SettleOrder moves a waiting order to target. The status update is conditional on
// the order still waiting, so of any number of concurrent callers exactly one
// transitions it; the rest observe the committed terminal state. render builds the
// invoice, which is stored in the same transaction as the transition to paid.
func (r *GormRepo) SettleOrder(ctx context.Context, code string, target models.OrderStatus, render func(*models.Order) (string, error)) (*domain.Settlement, error) {
	var out domain.Settlement

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := findOrder(tx, "code = ?", code)
		if err != nil {
			return err
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.OrderStatusWaiting).
			Update("status", target)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 1 {
			order.Status = target
			out.Order = order
			out.Transitioned = true
			if target != models.OrderStatusPaid {
				return nil
			}

			body, err := render(order)
			if err != nil {
				return err
			}
			if err := tx.Create(&models.Invoice{OrderID: order.ID, Body: body}).Error; err != nil {
				return err
			}
			out.Invoice = body
			return nil
		}

		var current models.Order
		if err := tx.Select("id", "status").First(&current, order.ID).Error; err != nil {
			return err
		}
		order.Status = current.Status
		out.Order = order

		if current.Status != target {
			return domain.ErrInvalidTransition
		}
		if target == models.OrderStatusPaid {
			var inv models.Invoice
			err := tx.Where("order_id = ?", order.ID).First(&inv).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			out.Invoice = inv.Body
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
