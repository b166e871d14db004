package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"safaribook/internal/database"
	"safaribook/internal/domain"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Phone        *string   `gorm:"column:phone"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsAdmin      bool      `gorm:"column:is_admin;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var phone string
	if m.Phone != nil {
		phone = *m.Phone
	}
	return &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        phone,
		PasswordHash: m.PasswordHash,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    m.CreatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        optional(u.Phone),
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(&m).Error
	})
	if err != nil {
		return mapError(err)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&m, id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Where("LOWER(email) = ?", normalizeEmail(email)).First(&m).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var cnt int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Model(&userModel{}).Where("LOWER(email) = ?", normalizeEmail(email)).Count(&cnt).Error
	})
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// SetAdmin flips the admin flag for the user with the given email.
func (r *UserRepository) SetAdmin(ctx context.Context, email string, isAdmin bool) (*domain.User, error) {
	var m userModel
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("LOWER(email) = ?", normalizeEmail(email)).First(&m).Error; err != nil {
			return err
		}
		m.IsAdmin = isAdmin
		return tx.Model(&userModel{}).Where("id = ?", m.ID).Update("is_admin", isAdmin).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainUser(m), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
