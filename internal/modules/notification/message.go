// Package notification renders booking and account emails and delivers
// them through an in-process outbox.
package notification

import (
	"context"
	"errors"
)

var (
	ErrQueueFull    = errors.New("notification queue full")
	ErrOutboxClosed = errors.New("notification outbox closed")
)

const (
	KindBookingReceived  = "booking_received"
	KindAdminAlert       = "admin_alert"
	KindBookingConfirmed = "booking_confirmed"
	KindWelcome          = "welcome"
)

type Message struct {
	Kind    string
	To      string
	Subject string
	HTML    string
}

// Transport delivers a single rendered message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}
