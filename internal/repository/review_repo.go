package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"safaribook/internal/database"
	"safaribook/internal/domain"
	"safaribook/internal/pkg/utils"
)

type ReviewRepository struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

type reviewModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index"`
	ItemType  string    `gorm:"column:item_type;not null"`
	ItemID    int64     `gorm:"column:item_id;not null"`
	Rating    int       `gorm:"column:rating;check:rating >= 1 AND rating <= 5"`
	Comment   *string   `gorm:"column:comment"`
	Images    string    `gorm:"column:images;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (reviewModel) TableName() string { return "reviews" }

// reviewRow is a review joined with its author's name.
type reviewRow struct {
	reviewModel
	UserName *string `gorm:"column:user_name"`
}

func toDomainReview(m reviewModel, userName string) *domain.Review {
	return &domain.Review{
		ID:        m.ID,
		UserID:    m.UserID,
		UserName:  userName,
		ItemType:  domain.ItemKind(m.ItemType),
		ItemID:    m.ItemID,
		Rating:    m.Rating,
		Comment:   deref(m.Comment),
		Images:    utils.StringToImages(m.Images),
		CreatedAt: m.CreatedAt,
	}
}

func toReviewModel(r *domain.Review) reviewModel {
	return reviewModel{
		ID:        r.ID,
		UserID:    r.UserID,
		ItemType:  string(r.ItemType),
		ItemID:    r.ItemID,
		Rating:    r.Rating,
		Comment:   optional(r.Comment),
		Images:    utils.ImagesToString(r.Images),
		CreatedAt: r.CreatedAt,
	}
}

// ListForItem returns the item's reviews newest first with author names.
func (r *ReviewRepository) ListForItem(ctx context.Context, kind domain.ItemKind, itemID int64) ([]domain.Review, error) {
	var rows []reviewRow
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Table("reviews AS r").
			Select("r.*, u.name AS user_name").
			Joins("JOIN users u ON r.user_id = u.id").
			Where("r.item_type = ? AND r.item_id = ?", string(kind), itemID).
			Order("r.created_at DESC").Order("r.id DESC").
			Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toDomainReview(row.reviewModel, deref(row.UserName)))
	}
	return out, nil
}

// Create stores the review and fills in the author's name.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	m := toReviewModel(rv)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	var userName string
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		return tx.Model(&userModel{}).Select("name").Where("id = ?", m.UserID).Scan(&userName).Error
	})
	if err != nil {
		return mapError(err)
	}
	*rv = *toDomainReview(m, userName)
	return nil
}
