package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
)

func (r *GormRepo) GetPart(ctx context.Context, id uint) (*models.Part, error) {
	var part models.Part
	if err := r.DB.WithContext(ctx).First(&part, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPartNotFound
		}
		return nil, err
	}
	return &part, nil
}

func (r *GormRepo) ListParts(ctx context.Context, offset, limit int) (int64, []models.Part, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Part{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Part, 0, limit)
	if err := r.DB.WithContext(ctx).Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreatePart(ctx context.Context, part *models.Part) error {
	return r.DB.WithContext(ctx).Create(part).Error
}
