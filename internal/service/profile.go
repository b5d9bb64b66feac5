package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
)

type ProfileService struct {
	Store ProfileStore
}

func (s *ProfileService) Get(ctx context.Context, c domain.Customer) (*models.Person, error) {
	if c.Email == "" {
		return nil, domain.ErrProfileMissing
	}
	return s.Store.FindPersonByEmail(ctx, c.Email)
}

// Save stores the shipping profile under the caller's token e-mail.
func (s *ProfileService) Save(ctx context.Context, c domain.Customer, p models.Person) (*models.Person, error) {
	if c.Email == "" {
		return nil, domain.ErrProfileMissing
	}
	p.ID = 0
	p.Email = c.Email
	p.FullName = strings.TrimSpace(p.FullName)
	p.Phone = strings.TrimSpace(p.Phone)
	p.PostalCode = strings.TrimSpace(p.PostalCode)
	p.Address = strings.TrimSpace(p.Address)

	if err := s.Store.SavePerson(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
