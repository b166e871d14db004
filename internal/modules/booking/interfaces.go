package booking

import (
	"context"

	"safaribook/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, userID *int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (bool, error)
	Delete(ctx context.Context, id int64) (*domain.Booking, error)
}

// ItemPriceLookup resolves the list price and discount of a hotel or safari.
type ItemPriceLookup interface {
	ItemPrice(ctx context.Context, kind domain.ItemKind, id int64) (price float64, discountPercent int, err error)
}

// Notifier queues booking emails. Errors mean the message was not queued.
type Notifier interface {
	BookingReceived(ctx context.Context, b *domain.Booking) error
	BookingConfirmed(ctx context.Context, b *domain.Booking, amount *float64) error
}

type EventPublisher interface {
	Publish(evt domain.BookingEvent)
}

// AvailabilityChecker decides whether a booking may be taken. Returning
// false rejects the booking with ErrNotAvailable.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, b *domain.Booking) (bool, error)
}

// AllowAll accepts every booking; overlapping dates are not checked.
type AllowAll struct{}

func (AllowAll) IsAvailable(context.Context, *domain.Booking) (bool, error) { return true, nil }
