// Package payment abstracts the hosted checkout provider: it issues opaque
// session references at booking time and later delivers signed asynchronous
// events about their outcome.
package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidSignature is returned by ConstructEvent when the event payload
// fails signature verification. It is the only webhook error that should
// produce a 4xx (and so a provider retry).
var ErrInvalidSignature = errors.New("webhook signature verification failed")

// CheckoutRequest describes the line items for a hosted checkout session.
// Amounts are whole dollars; the booking ID travels as correlation metadata.
type CheckoutRequest struct {
	BookingID     uuid.UUID
	CustomerEmail string
	BagCount      int
	PerBagAmount  int64
	DeliveryFee   int64 // 0 when the service type carries no fee
}

// CheckoutSession is the provider's opaque session reference plus the URL the
// customer is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// EventKind classifies provider events into the transitions we act on.
type EventKind string

const (
	// EventCheckoutCompleted means the customer paid.
	EventCheckoutCompleted EventKind = "checkout_completed"
	// EventCheckoutExpired means the session lapsed unpaid.
	EventCheckoutExpired EventKind = "checkout_expired"
	// EventIgnored is any other event type; acknowledged and dropped.
	EventIgnored EventKind = "ignored"
)

// Event is a verified, decoded provider event.
type Event struct {
	Kind      EventKind
	Type      string // raw provider event type, for logging
	BookingID string // correlation metadata; may be empty
	SessionID string
}

// Gateway is the payment provider contract.
type Gateway interface {
	// CreateCheckoutSession starts a hosted checkout for a booking.
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// ConstructEvent verifies the signature over a raw webhook body and
	// decodes it. Returns ErrInvalidSignature on verification failure.
	ConstructEvent(payload []byte, signatureHeader string) (Event, error)
}
