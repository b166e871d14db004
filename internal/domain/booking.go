package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus accepts only the three known statuses.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return BookingStatus(s), true
	}
	return "", false
}

type UserType string

const (
	UserTypeGuest  UserType = "guest"
	UserTypeMember UserType = "member"
)

// ItemKind is the inventory a booking or review points at.
type ItemKind string

const (
	ItemHotel  ItemKind = "hotel"
	ItemSafari ItemKind = "safari"
)

func ParseItemKind(s string) (ItemKind, bool) {
	switch ItemKind(s) {
	case ItemHotel, ItemSafari:
		return ItemKind(s), true
	}
	return "", false
}

// Booking dates are calendar days in YYYY-MM-DD form.
type Booking struct {
	ID          int64         `json:"id"`
	BookingType ItemKind      `json:"booking_type"`
	ItemID      int64         `json:"item_id"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date,omitempty"`
	Guests      int           `json:"guests"`
	Contact     string        `json:"contact,omitempty"`
	Name        string        `json:"name,omitempty"`
	Email       string        `json:"email,omitempty"`
	Status      BookingStatus `json:"status"`
	UserID      *int64        `json:"user_id"`
	UserType    UserType      `json:"user_type"`
	TimeSlot    string        `json:"time_slot,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// BookingEvent is pushed to the admin live feed.
type BookingEvent struct {
	Type    string   `json:"type"`
	Booking *Booking `json:"booking"`
}

const (
	EventBookingCreated       = "booking_created"
	EventBookingStatusChanged = "booking_status_changed"
	EventBookingDeleted       = "booking_deleted"
)
