package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"safaribook/internal/domain"
)

type Enqueuer interface {
	Enqueue(msg Message) error
}

// Service turns domain events into queued emails.
type Service struct {
	outbox     Enqueuer
	adminEmail string
	siteURL    string
	log        logrus.FieldLogger
}

func NewService(outbox Enqueuer, adminEmail, siteURL string, log logrus.FieldLogger) *Service {
	return &Service{
		outbox:     outbox,
		adminEmail: strings.TrimSpace(adminEmail),
		siteURL:    strings.TrimRight(strings.TrimSpace(siteURL), "/"),
		log:        log,
	}
}

// BookingReceived queues the acknowledgement to the booker and the alert
// to the operations address. Both are attempted even if one fails.
func (s *Service) BookingReceived(_ context.Context, b *domain.Booking) error {
	data := bookingData(b)
	var errs []error

	if b.Email != "" {
		errs = append(errs, s.queue(KindBookingReceived, b.Email,
			fmt.Sprintf("Booking request received - %s", BrandName), data))
	}

	if s.adminEmail != "" {
		alert := data
		alert.Email = b.Email
		alert.UserType = string(b.UserType)
		if s.siteURL != "" {
			alert.AdminURL = s.siteURL + "/admin"
		}
		errs = append(errs, s.queue(KindAdminAlert, s.adminEmail,
			fmt.Sprintf("New %s booking #%d", b.BookingType, b.ID), alert))
	}

	return errors.Join(errs...)
}

// BookingConfirmed queues the final confirmation. A nil amount is shown
// as "On request".
func (s *Service) BookingConfirmed(_ context.Context, b *domain.Booking, amount *float64) error {
	if b.Email == "" {
		return nil
	}
	data := bookingData(b)
	data.Amount = formatAmount(amount)

	return s.queue(KindBookingConfirmed, b.Email,
		fmt.Sprintf("Booking confirmed - %s", BrandName), data)
}

func (s *Service) Welcome(_ context.Context, u *domain.User) error {
	if u == nil || u.Email == "" {
		return nil
	}
	data := emailData{Name: u.Name}
	if s.siteURL != "" {
		data.LoginURL = s.siteURL + "/login"
	}
	return s.queue(KindWelcome, u.Email, fmt.Sprintf("Welcome to %s", BrandName), data)
}

func (s *Service) queue(kind, to, subject string, data emailData) error {
	html, err := render(kind, data)
	if err != nil {
		return err
	}
	if err := s.outbox.Enqueue(Message{Kind: kind, To: to, Subject: subject, HTML: html}); err != nil {
		return fmt.Errorf("queue %s email: %w", kind, err)
	}
	s.log.WithFields(logrus.Fields{"kind": kind, "to": to}).Debug("email queued")
	return nil
}

func bookingData(b *domain.Booking) emailData {
	name := b.Name
	if name == "" {
		name = "Guest"
	}
	return emailData{
		Name:        name,
		Contact:     b.Contact,
		ServiceType: string(b.BookingType),
		BookingID:   b.ID,
		ItemID:      b.ItemID,
		Dates:       formatDates(b.StartDate, b.EndDate),
		TimeSlot:    b.TimeSlot,
		Guests:      formatGuests(b.Guests),
	}
}
