package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"safaribook/internal/database"
	"safaribook/internal/domain"
)

type CityRepository struct {
	db *database.DB
}

func NewCityRepository(db *database.DB) *CityRepository {
	return &CityRepository{db: db}
}

type cityModel struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;not null"`
	Slug string `gorm:"column:slug;uniqueIndex"`
}

func (cityModel) TableName() string { return "cities" }

func (r *CityRepository) List(ctx context.Context) ([]domain.City, error) {
	var rows []cityModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Order("name").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.City, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.City{ID: m.ID, Name: m.Name, Slug: m.Slug})
	}
	return out, nil
}

// Upsert inserts the city or leaves an existing slug untouched.
func (r *CityRepository) Upsert(ctx context.Context, c *domain.City) error {
	m := cityModel{Name: c.Name, Slug: c.Slug}
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).Create(&m).Error
	})
	if err != nil {
		return err
	}
	c.ID = m.ID
	return nil
}
