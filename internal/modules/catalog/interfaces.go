package catalog

import (
	"context"

	"safaribook/internal/domain"
)

type HotelRepository interface {
	List(ctx context.Context, citySlug string) ([]domain.Hotel, error)
	GetByID(ctx context.Context, id int64) (*domain.Hotel, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Hotel, error)
	Create(ctx context.Context, h *domain.Hotel) error
	Delete(ctx context.Context, id int64) (*domain.Hotel, error)
}

type SafariRepository interface {
	List(ctx context.Context, citySlug string) ([]domain.Safari, error)
	GetByID(ctx context.Context, id int64) (*domain.Safari, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Safari, error)
	Create(ctx context.Context, s *domain.Safari) error
	Delete(ctx context.Context, id int64) (*domain.Safari, error)
}

type CityRepository interface {
	List(ctx context.Context) ([]domain.City, error)
}
