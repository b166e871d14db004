package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"safaribook/internal/database"
	"safaribook/internal/domain"
)

const dateLayout = "2006-01-02"

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	BookingType string    `gorm:"column:booking_type;not null"`
	ItemID      int64     `gorm:"column:item_id;not null;index"`
	StartDate   string    `gorm:"column:start_date;type:date;not null"`
	EndDate     *string   `gorm:"column:end_date;type:date"`
	Guests      int       `gorm:"column:guests;default:1"`
	Contact     *string   `gorm:"column:contact"`
	Name        *string   `gorm:"column:name"`
	Email       *string   `gorm:"column:email"`
	Status      string    `gorm:"column:status;default:pending"`
	UserID      *int64    `gorm:"column:user_id;index"`
	UserType    string    `gorm:"column:user_type;default:guest"`
	TimeSlot    *string   `gorm:"column:time_slot"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var end string
	if m.EndDate != nil {
		end = normalizeDate(*m.EndDate)
	}
	userType := domain.UserType(m.UserType)
	if userType == "" {
		// rows written before user_type existed
		userType = domain.UserTypeGuest
		if m.UserID != nil {
			userType = domain.UserTypeMember
		}
	}
	return &domain.Booking{
		ID:          m.ID,
		BookingType: domain.ItemKind(m.BookingType),
		ItemID:      m.ItemID,
		StartDate:   normalizeDate(m.StartDate),
		EndDate:     end,
		Guests:      m.Guests,
		Contact:     deref(m.Contact),
		Name:        deref(m.Name),
		Email:       deref(m.Email),
		Status:      domain.BookingStatus(m.Status),
		UserID:      m.UserID,
		UserType:    userType,
		TimeSlot:    deref(m.TimeSlot),
		CreatedAt:   m.CreatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:          b.ID,
		BookingType: string(b.BookingType),
		ItemID:      b.ItemID,
		StartDate:   b.StartDate,
		EndDate:     optional(b.EndDate),
		Guests:      b.Guests,
		Contact:     optional(b.Contact),
		Name:        optional(b.Name),
		Email:       optional(b.Email),
		Status:      string(b.Status),
		UserID:      b.UserID,
		UserType:    string(b.UserType),
		TimeSlot:    optional(b.TimeSlot),
		CreatedAt:   b.CreatedAt,
	}
}

// normalizeDate trims driver-specific time renderings of a DATE column
// back to YYYY-MM-DD.
func normalizeDate(s string) string {
	if len(s) >= len(dateLayout) {
		if _, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			return s[:len(dateLayout)]
		}
	}
	return s
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.Create(&m).Error
	})
	if err != nil {
		return mapError(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		return tx.First(&m, id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainBooking(m), nil
}

// List returns bookings newest first. A nil userID lists everyone's.
func (r *BookingRepository) List(ctx context.Context, userID *int64) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		q := tx.Model(&bookingModel{})
		if userID != nil {
			q = q.Where("user_id = ?", *userID)
		}
		return q.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// UpdateStatus sets status only while the row still has status from.
// It reports whether a row was changed.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error) {
	var affected int64
	err := r.db.Run(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", id, string(from)).
			Update("status", string(to))
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes the booking and returns the row as it was.
func (r *BookingRepository) Delete(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		return tx.Delete(&bookingModel{}, id).Error
	})
	if err != nil {
		return nil, mapError(err)
	}
	return toDomainBooking(m), nil
}
