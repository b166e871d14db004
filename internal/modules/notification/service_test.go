package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safaribook/internal/domain"
	"safaribook/internal/pkg/logger"
)

type captureOutbox struct {
	msgs []Message
	err  error
}

func (c *captureOutbox) Enqueue(msg Message) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func sampleBooking() *domain.Booking {
	return &domain.Booking{
		ID:          31,
		BookingType: domain.ItemSafari,
		ItemID:      7,
		StartDate:   "2025-06-01",
		EndDate:     "2025-06-01",
		Guests:      2,
		Name:        "Asha",
		Contact:     "9999999999",
		Email:       "asha@example.com",
		UserType:    domain.UserTypeGuest,
	}
}

func TestService_BookingReceived_QueuesBookerAndAdmin(t *testing.T) {
	out := &captureOutbox{}
	svc := NewService(out, "ops@example.com", "https://jawai.example.com/", logger.Discard())

	require.NoError(t, svc.BookingReceived(context.Background(), sampleBooking()))

	require.Len(t, out.msgs, 2)
	booker, admin := out.msgs[0], out.msgs[1]

	assert.Equal(t, KindBookingReceived, booker.Kind)
	assert.Equal(t, "asha@example.com", booker.To)
	assert.Contains(t, booker.HTML, "Dear Asha")
	assert.Contains(t, booker.HTML, "SAFARI")
	assert.Contains(t, booker.HTML, "Sunday, 1 June 2025")
	assert.Contains(t, booker.HTML, "2 Adults")

	assert.Equal(t, KindAdminAlert, admin.Kind)
	assert.Equal(t, "ops@example.com", admin.To)
	assert.Contains(t, admin.Subject, "#31")
	assert.Contains(t, admin.HTML, "https://jawai.example.com/admin")
	assert.Contains(t, admin.HTML, "asha@example.com")
}

func TestService_BookingReceived_NoAdminAddress(t *testing.T) {
	out := &captureOutbox{}
	svc := NewService(out, "", "", logger.Discard())

	require.NoError(t, svc.BookingReceived(context.Background(), sampleBooking()))

	require.Len(t, out.msgs, 1)
	assert.Equal(t, KindBookingReceived, out.msgs[0].Kind)
}

func TestService_BookingConfirmed_Amount(t *testing.T) {
	out := &captureOutbox{}
	svc := NewService(out, "", "", logger.Discard())
	amount := 12500.0

	require.NoError(t, svc.BookingConfirmed(context.Background(), sampleBooking(), &amount))
	require.NoError(t, svc.BookingConfirmed(context.Background(), sampleBooking(), nil))

	require.Len(t, out.msgs, 2)
	assert.Contains(t, out.msgs[0].HTML, "₹12,500")
	assert.Contains(t, out.msgs[1].HTML, "On request")
}

func TestService_BookingConfirmed_NoEmailSkips(t *testing.T) {
	out := &captureOutbox{}
	svc := NewService(out, "ops@example.com", "", logger.Discard())
	b := sampleBooking()
	b.Email = ""

	require.NoError(t, svc.BookingConfirmed(context.Background(), b, nil))
	assert.Empty(t, out.msgs)
}

func TestService_EscapesUserInput(t *testing.T) {
	out := &captureOutbox{}
	svc := NewService(out, "", "", logger.Discard())
	b := sampleBooking()
	b.Name = "<script>alert(1)</script>"

	require.NoError(t, svc.BookingReceived(context.Background(), b))

	require.Len(t, out.msgs, 1)
	assert.NotContains(t, out.msgs[0].HTML, "<script>")
}

func TestService_QueueErrorIsReturned(t *testing.T) {
	out := &captureOutbox{err: ErrQueueFull}
	svc := NewService(out, "ops@example.com", "", logger.Discard())

	err := svc.BookingReceived(context.Background(), sampleBooking())

	assert.True(t, errors.Is(err, ErrQueueFull))
}

func TestService_Welcome(t *testing.T) {
	out := &captureOutbox{}
	svc := NewService(out, "", "https://jawai.example.com", logger.Discard())

	require.NoError(t, svc.Welcome(context.Background(), &domain.User{Name: "Ravi", Email: "ravi@example.com"}))

	require.Len(t, out.msgs, 1)
	assert.Equal(t, KindWelcome, out.msgs[0].Kind)
	assert.Contains(t, out.msgs[0].HTML, "Greetings, Ravi.")
	assert.Contains(t, out.msgs[0].HTML, "https://jawai.example.com/login")
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1 Adult", formatGuests(0))
	assert.Equal(t, "Sunday, 1 June 2025 to Tuesday, 3 June 2025", formatDates("2025-06-01", "2025-06-03"))
	assert.Equal(t, "soon", formatDate("soon"))
	big := 1234567.891
	assert.Equal(t, "₹1,234,567.89", formatAmount(&big))
}
