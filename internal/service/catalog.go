package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/autoparts_shop/internal/domain"
	"github.com/Skotchmaster/autoparts_shop/internal/models"
	"github.com/Skotchmaster/autoparts_shop/internal/util"
)

type CatalogService struct {
	Store CatalogStore
}

type Page[T any] struct {
	Items  []T
	Page   int
	Size   int
	Offset int
	Total  int64
}

func (p Page[T]) TotalPages() int64 { return util.TotalPages(p.Total, p.Size) }
func (p Page[T]) HasPrev() bool     { return p.Page > 1 }
func (p Page[T]) HasNext() bool     { return int64(p.Offset+p.Size) < p.Total }

func (s *CatalogService) GetPart(ctx context.Context, id uint) (*models.Part, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: part id required", domain.ErrValidation)
	}
	return s.Store.GetPart(ctx, id)
}

func (s *CatalogService) ListParts(ctx context.Context, page, size int) (Page[models.Part], error) {
	if page < 1 {
		page = 1
	}
	offset, limit := util.Calculate(page, size)

	total, items, err := s.Store.ListParts(ctx, offset, limit)
	if err != nil {
		return Page[models.Part]{}, err
	}
	return Page[models.Part]{Items: items, Page: page, Size: limit, Offset: offset, Total: total}, nil
}
