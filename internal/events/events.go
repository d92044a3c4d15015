package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicBookingEvents carries booking lifecycle events for downstream
// consumers (notification and analytics services).
const TopicBookingEvents = "booking.events"

// Booking lifecycle event types.
const (
	BookingCreated       = "booking.created"
	BookingPaid          = "booking.paid"
	BookingCanceled      = "booking.canceled"
	BookingStatusChanged = "booking.status_changed"
)

// BookingCreatedEvent is emitted after a booking is persisted.
type BookingCreatedEvent struct {
	BookingID      uuid.UUID `json:"booking_id"`
	ServiceType    string    `json:"service_type"`
	Date           string    `json:"date"`
	BagCount       int       `json:"bag_count"`
	EstimatedTotal int64     `json:"estimated_total"`
	PaymentMethod  string    `json:"payment_method"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingPaidEvent is emitted when payment reconciliation marks a booking paid.
type BookingPaidEvent struct {
	BookingID         uuid.UUID `json:"booking_id"`
	CheckoutSessionID string    `json:"checkout_session_id,omitempty"`
	EstimatedTotal    int64     `json:"estimated_total"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// BookingCanceledEvent is emitted when a booking is canceled, whether by an
// expired checkout session or an admin.
type BookingCanceledEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is emitted on admin status overrides.
type BookingStatusChangedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}
