package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
// List results are ordered by date ascending, then creation time descending.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByCheckoutSessionID retrieves a booking by its stored payment
	// session reference.
	FindByCheckoutSessionID(ctx context.Context, sessionID string) (*Booking, error)

	// List retrieves bookings matching the criteria.
	List(ctx context.Context, criteria ListCriteria) ([]*Booking, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking. Last write wins;
	// concurrent webhook and admin updates are not fenced.
	Update(ctx context.Context, booking *Booking) error
}
