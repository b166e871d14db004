package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"safaribook/internal/domain"
	"safaribook/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	bookings     BookingRepository
	items        ItemPriceLookup
	notifier     Notifier
	events       EventPublisher
	availability AvailabilityChecker
	log          logrus.FieldLogger
}

// NewService wires the booking lifecycle. A nil availability checker
// accepts every booking.
func NewService(
	bookings BookingRepository,
	items ItemPriceLookup,
	notifier Notifier,
	events EventPublisher,
	availability AvailabilityChecker,
	log logrus.FieldLogger,
) *Service {
	if availability == nil {
		availability = AllowAll{}
	}
	return &Service{
		bookings:     bookings,
		items:        items,
		notifier:     notifier,
		events:       events,
		availability: availability,
		log:          log,
	}
}

// CreateBooking stores a pending booking for a guest or member and then
// queues the acknowledgement emails. Email problems never fail the call.
func (s *Service) CreateBooking(ctx context.Context, who domain.Identity, req CreateBookingRequest) (*domain.Booking, error) {
	member, isMember := domain.AsMember(who)

	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)
	if isMember {
		if email == "" {
			email = member.Email
		}
		if name == "" {
			name = member.Name
		}
	}

	var missing []string
	if strings.TrimSpace(req.BookingType) == "" {
		missing = append(missing, "booking_type")
	}
	if req.ItemID == 0 {
		missing = append(missing, "item_id")
	}
	if strings.TrimSpace(req.StartDate) == "" {
		missing = append(missing, "start_date")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing)
	}

	kind, ok := domain.ParseItemKind(strings.ToLower(strings.TrimSpace(req.BookingType)))
	if !ok {
		return nil, invalid("booking_type must be hotel or safari")
	}
	if req.ItemID < 0 {
		return nil, invalid("item_id must be positive")
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, invalid("start_date must be YYYY-MM-DD")
	}
	var endDate string
	if strings.TrimSpace(req.EndDate) != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			return nil, invalid("end_date must be YYYY-MM-DD")
		}
		if end.Before(start) {
			return nil, invalid("end_date is before start_date")
		}
		endDate = end.Format(dateLayout)
	}

	guests := int(req.Guests)
	if guests < 1 {
		guests = 1
	}

	b := &domain.Booking{
		BookingType: kind,
		ItemID:      int64(req.ItemID),
		StartDate:   start.Format(dateLayout),
		EndDate:     endDate,
		Guests:      guests,
		Contact:     strings.TrimSpace(req.Contact),
		Name:        name,
		Email:       email,
		Status:      domain.BookingPending,
		UserType:    domain.UserTypeGuest,
		TimeSlot:    strings.TrimSpace(req.TimeSlot),
	}
	if isMember {
		id := member.ID
		b.UserID = &id
		b.UserType = domain.UserTypeMember
	}

	available, err := s.availability.IsAvailable(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("availability check: %w", err)
	}
	if !available {
		return nil, ErrNotAvailable
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := s.notifier.BookingReceived(ctx, b); err != nil {
		s.log.WithError(err).WithField("booking_id", b.ID).Warn("booking emails not queued")
	}
	s.publish(domain.EventBookingCreated, b)

	return b, nil
}

// List returns every booking for admins and only the caller's otherwise.
func (s *Service) List(ctx context.Context, who domain.Member) ([]domain.Booking, error) {
	if who.IsAdmin {
		return s.bookings.List(ctx, nil)
	}
	id := who.ID
	return s.bookings.List(ctx, &id)
}

// SetStatus moves a booking along the status table. Confirming a booking
// that has an email queues the final confirmation with an amount taken
// from the request, else from the item price, else left "on request".
func (s *Service) SetStatus(ctx context.Context, id int64, status string, amount *float64) (*domain.Booking, error) {
	to, ok := domain.ParseBookingStatus(strings.ToLower(strings.TrimSpace(status)))
	if !ok {
		return nil, invalid("status must be one of pending, confirmed, cancelled")
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == to {
		return current, nil
	}

	from := storedStatus(current.Status)
	if !CanTransition(from, to) {
		return nil, &ValidationError{
			Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
			cause:   ErrInvalidTransition,
		}
	}

	changed, err := s.bookings.UpdateStatus(ctx, id, current.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	updated, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !changed {
		if updated.Status == to {
			return updated, nil
		}
		return nil, ErrConflict
	}

	s.publish(domain.EventBookingStatusChanged, updated)

	if to == domain.BookingConfirmed && updated.Email != "" {
		total := amount
		if total == nil {
			total = s.itemTotal(ctx, updated)
		}
		if err := s.notifier.BookingConfirmed(ctx, updated, total); err != nil {
			s.log.WithError(err).WithField("booking_id", updated.ID).Warn("confirmation email not queued")
		}
	}

	return updated, nil
}

// Delete removes a booking owned by the caller, or any booking for admins.
func (s *Service) Delete(ctx context.Context, who domain.Member, id int64) (*domain.Booking, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !who.IsAdmin && (b.UserID == nil || *b.UserID != who.ID) {
		return nil, ErrForbidden
	}

	deleted, err := s.bookings.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete booking: %w", err)
	}

	s.publish(domain.EventBookingDeleted, deleted)
	return deleted, nil
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// itemTotal is the discounted item price times guests, or nil when the
// item cannot be priced.
func (s *Service) itemTotal(ctx context.Context, b *domain.Booking) *float64 {
	if s.items == nil {
		return nil
	}
	price, discount, err := s.items.ItemPrice(ctx, b.BookingType, b.ItemID)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"booking_id": b.ID,
			"item_type":  b.BookingType,
			"item_id":    b.ItemID,
		}).Info("no price for confirmed booking")
		return nil
	}
	if price <= 0 {
		return nil
	}

	guests := b.Guests
	if guests < 1 {
		guests = 1
	}
	total := domain.DiscountedPrice(price, discount) * float64(guests)
	return &total
}

func (s *Service) publish(kind string, b *domain.Booking) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.BookingEvent{Type: kind, Booking: b})
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		// accept full timestamps from date pickers
		s = s[:len(dateLayout)]
	}
	return time.Parse(dateLayout, s)
}
