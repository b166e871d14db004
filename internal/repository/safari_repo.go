package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"safaribook/internal/database"
	"safaribook/internal/domain"
	"safaribook/internal/pkg/utils"
)

type SafariRepository struct {
	db *database.DB
}

func NewSafariRepository(db *database.DB) *SafariRepository {
	return &SafariRepository{db: db}
}

type safariModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Slug            string    `gorm:"column:slug;uniqueIndex"`
	CitySlug        string    `gorm:"column:city_slug;index"`
	Duration        *string   `gorm:"column:duration"`
	Description     *string   `gorm:"column:description"`
	Price           float64   `gorm:"column:price"`
	Images          string    `gorm:"column:images;type:text"`
	DiscountPercent int       `gorm:"column:discount_percent;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (safariModel) TableName() string { return "safaris" }

func toDomainSafari(m safariModel) *domain.Safari {
	return &domain.Safari{
		ID:              m.ID,
		Name:            m.Name,
		Slug:            m.Slug,
		CitySlug:        m.CitySlug,
		Price:           m.Price,
		Duration:        deref(m.Duration),
		Description:     deref(m.Description),
		Images:          utils.StringToImages(m.Images),
		DiscountPercent: m.DiscountPercent,
		CreatedAt:       m.CreatedAt,
	}
}

func toSafariModel(s *domain.Safari) safariModel {
	return safariModel{
		ID:              s.ID,
		Name:            s.Name,
		Slug:            s.Slug,
		CitySlug:        s.CitySlug,
		Duration:        optional(s.Duration),
		Description:     optional(s.Description),
		Price:           s.Price,
		Images:          utils.ImagesToString(s.Images),
		DiscountPercent: s.DiscountPercent,
		CreatedAt:       s.CreatedAt,
	}
}

// List returns safaris ordered by name, optionally filtered by city slug.
func (r *SafariRepository) List(ctx context.Context, citySlug string) ([]domain.Safari, error) {
	var rows []safariModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		q := tx.Model(&safariModel{})
		if citySlug != "" {
			q = q.Where("LOWER(city_slug) = ?", strings.ToLower(citySlug))
		}
		return q.Order("name").Order("id").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Safari, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainSafari(m))
	}
	return out, nil
}

func (r *SafariRepository) GetByID(ctx context.Context, id int64) (*domain.Safari, error) {
	var m safariModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&m, id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainSafari(m), nil
}

func (r *SafariRepository) GetBySlug(ctx context.Context, slug string) (*domain.Safari, error) {
	var m safariModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("slug = ?", slug).First(&m).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainSafari(m), nil
}

func (r *SafariRepository) Create(ctx context.Context, s *domain.Safari) error {
	m := toSafariModel(s)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(&m).Error
	})
	if err != nil {
		return mapError(err)
	}
	*s = *toDomainSafari(m)
	return nil
}

// Delete removes the safari together with its bookings and reviews.
func (r *SafariRepository) Delete(ctx context.Context, id int64) (*domain.Safari, error) {
	var m safariModel
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		if err := deleteItemDependents(tx, domain.ItemSafari, id); err != nil {
			return err
		}
		return tx.Delete(&safariModel{}, id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainSafari(m), nil
}
