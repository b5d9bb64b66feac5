package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
)

// FindPersonByEmail returns the most recently created profile for email.
func (r *GormRepo) FindPersonByEmail(ctx context.Context, email string) (*models.Person, error) {
	var p models.Person
	err := r.DB.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").Order("id DESC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileMissing
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) SavePerson(ctx context.Context, p *models.Person) error {
	if err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "phone", "postal_code", "address"}),
	}).Create(p).Error; err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Where("email = ?", p.Email).First(p).Error
}
