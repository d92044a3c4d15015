package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPendingPayment  BookingStatus = "pending_payment"
	StatusAwaitingOffline BookingStatus = "awaiting_offline_payment"
	StatusPaid            BookingStatus = "paid"
	StatusCanceled        BookingStatus = "canceled"
)

// allStatuses is the closed set of recognized statuses.
var allStatuses = map[BookingStatus]struct{}{
	StatusPendingPayment:  {},
	StatusAwaitingOffline: {},
	StatusPaid:            {},
	StatusCanceled:        {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := allStatuses[s]
	return exists
}

// IsTerminal returns true if the payment lifecycle defines no transition out
// of this status. Admin overrides ignore this on purpose.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCanceled
}

// IsPending returns true for statuses still awaiting settlement.
func (s BookingStatus) IsPending() bool {
	return s == StatusPendingPayment || s == StatusAwaitingOffline
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// InitialStatus returns the starting status for a new booking given its
// payment method: card checkouts wait on the payment provider, offline
// bookings wait on settlement at service completion.
func InitialStatus(method PaymentMethod) BookingStatus {
	if method == PaymentMethodCard {
		return StatusPendingPayment
	}
	return StatusAwaitingOffline
}
