package booking

import "safaribook/internal/domain"

var allowedTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingPending:   {domain.BookingConfirmed, domain.BookingCancelled},
	domain.BookingConfirmed: {domain.BookingCancelled},
	domain.BookingCancelled: nil,
}

// CanTransition reports whether a booking may move from one status to
// another. Writing the current status again is always allowed.
func CanTransition(from, to domain.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// storedStatus maps legacy free-form values to pending so old rows can
// still be moved through the table.
func storedStatus(s domain.BookingStatus) domain.BookingStatus {
	if st, ok := domain.ParseBookingStatus(string(s)); ok {
		return st
	}
	return domain.BookingPending
}
