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

type HotelRepository struct {
	db *database.DB
}

func NewHotelRepository(db *database.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

type hotelModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	Slug            string    `gorm:"column:slug;uniqueIndex"`
	CitySlug        string    `gorm:"column:city_slug;index"`
	Description     *string   `gorm:"column:description"`
	Price           float64   `gorm:"column:price"`
	Rating          *float64  `gorm:"column:rating"`
	Images          string    `gorm:"column:images;type:text"`
	DiscountPercent int       `gorm:"column:discount_percent;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (hotelModel) TableName() string { return "hotels" }

func toDomainHotel(m hotelModel) *domain.Hotel {
	return &domain.Hotel{
		ID:              m.ID,
		Name:            m.Name,
		Slug:            m.Slug,
		CitySlug:        m.CitySlug,
		Price:           m.Price,
		Rating:          m.Rating,
		Description:     deref(m.Description),
		Images:          utils.StringToImages(m.Images),
		DiscountPercent: m.DiscountPercent,
		CreatedAt:       m.CreatedAt,
	}
}

func toHotelModel(h *domain.Hotel) hotelModel {
	return hotelModel{
		ID:              h.ID,
		Name:            h.Name,
		Slug:            h.Slug,
		CitySlug:        h.CitySlug,
		Description:     optional(h.Description),
		Price:           h.Price,
		Rating:          h.Rating,
		Images:          utils.ImagesToString(h.Images),
		DiscountPercent: h.DiscountPercent,
		CreatedAt:       h.CreatedAt,
	}
}

// List returns hotels newest first, optionally filtered by city slug.
func (r *HotelRepository) List(ctx context.Context, citySlug string) ([]domain.Hotel, error) {
	var rows []hotelModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		q := tx.Model(&hotelModel{})
		if citySlug != "" {
			q = q.Where("LOWER(city_slug) = ?", strings.ToLower(citySlug))
		}
		return q.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Hotel, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainHotel(m))
	}
	return out, nil
}

func (r *HotelRepository) GetByID(ctx context.Context, id int64) (*domain.Hotel, error) {
	var m hotelModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&m, id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainHotel(m), nil
}

func (r *HotelRepository) GetBySlug(ctx context.Context, slug string) (*domain.Hotel, error) {
	var m hotelModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("slug = ?", slug).First(&m).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainHotel(m), nil
}

func (r *HotelRepository) Create(ctx context.Context, h *domain.Hotel) error {
	m := toHotelModel(h)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(&m).Error
	})
	if err != nil {
		return mapError(err)
	}
	*h = *toDomainHotel(m)
	return nil
}

// Delete removes the hotel together with its bookings and reviews.
func (r *HotelRepository) Delete(ctx context.Context, id int64) (*domain.Hotel, error) {
	var m hotelModel
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		if err := deleteItemDependents(tx, domain.ItemHotel, id); err != nil {
			return err
		}
		return tx.Delete(&hotelModel{}, id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainHotel(m), nil
}

func deleteItemDependents(tx *gorm.DB, kind domain.ItemKind, itemID int64) error {
	if err := tx.Where("booking_type = ? AND item_id = ?", string(kind), itemID).Delete(&bookingModel{}).Error; err != nil {
		return err
	}
	return tx.Where("item_type = ? AND item_id = ?", string(kind), itemID).Delete(&reviewModel{}).Error
}
