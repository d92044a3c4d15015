package booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/giftwrap-jax/service-booking/internal/domain"
	"github.com/google/uuid"
)

const (
	maxBagCount    = 100
	maxNotesLen    = 500
	minPhoneDigits = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Address is the customer address for pickup/delivery service.
type Address struct {
	Line1 string `json:"line1"`
	City  string `json:"city"`
	State string `json:"state"`
	Zip   string `json:"zip"`
}

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id           uuid.UUID
	customerName string
	email        string
	phone        string
	address      *Address
	serviceType  ServiceType
	date         time.Time // calendar date, midnight UTC
	timeWindow   TimeWindow
	bagCount     int
	// estimatedTotal is always derived from bagCount and serviceType via
	// ComputeTotal, in whole dollars.
	estimatedTotal    int64
	paymentMethod     PaymentMethod
	status            BookingStatus
	notes             string
	checkoutSessionID string
	createdAt         time.Time
	updatedAt         time.Time
}

// NewBooking creates a new Booking aggregate with the initial status implied
// by the payment method. The estimated total is computed here, never accepted
// from the caller.
func NewBooking(
	customerName string,
	email string,
	phone string,
	address *Address,
	serviceType ServiceType,
	date time.Time,
	timeWindow TimeWindow,
	bagCount int,
	paymentMethod PaymentMethod,
	notes string,
) (*Booking, error) {
	customerName = strings.TrimSpace(customerName)
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	if len(customerName) < 2 {
		return nil, domain.NewValidationError("customer name is required")
	}
	if !emailPattern.MatchString(email) {
		return nil, domain.NewValidationError("a valid email address is required")
	}
	if countDigits(phone) < minPhoneDigits {
		return nil, domain.NewValidationError("a valid phone number is required")
	}
	if !serviceType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid service type: %s", serviceType))
	}
	if serviceType.RequiresAddress() {
		if address == nil || address.Line1 == "" || address.City == "" || address.State == "" || address.Zip == "" {
			return nil, domain.NewValidationError("a full address is required for pickup and delivery")
		}
	}
	if date.IsZero() {
		return nil, domain.NewValidationError("a booking date is required")
	}
	if !timeWindow.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid time window: %s", timeWindow))
	}
	if bagCount < 1 {
		return nil, domain.NewValidationError("at least 1 bag is required")
	}
	if bagCount > maxBagCount {
		return nil, domain.NewValidationError(fmt.Sprintf("bag count exceeds the maximum of %d", maxBagCount))
	}
	if !paymentMethod.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid payment method: %s", paymentMethod))
	}
	if len(notes) > maxNotesLen {
		return nil, domain.NewValidationError("notes are too long")
	}

	now := time.Now().UTC()
	return &Booking{
		id:             uuid.New(),
		customerName:   customerName,
		email:          email,
		phone:          phone,
		address:        address,
		serviceType:    serviceType,
		date:           truncateToDate(date),
		timeWindow:     timeWindow,
		bagCount:       bagCount,
		estimatedTotal: ComputeTotal(bagCount, serviceType),
		paymentMethod:  paymentMethod,
		status:         InitialStatus(paymentMethod),
		notes:          notes,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	customerName string,
	email string,
	phone string,
	address *Address,
	serviceType ServiceType,
	date time.Time,
	timeWindow TimeWindow,
	bagCount int,
	estimatedTotal int64,
	paymentMethod PaymentMethod,
	status BookingStatus,
	notes string,
	checkoutSessionID string,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                id,
		customerName:      customerName,
		email:             email,
		phone:             phone,
		address:           address,
		serviceType:       serviceType,
		date:              date,
		timeWindow:        timeWindow,
		bagCount:          bagCount,
		estimatedTotal:    estimatedTotal,
		paymentMethod:     paymentMethod,
		status:            status,
		notes:             notes,
		checkoutSessionID: checkoutSessionID,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// CustomerName returns the customer's name.
func (b *Booking) CustomerName() string { return b.customerName }

// Email returns the customer's email (lowercased).
func (b *Booking) Email() string { return b.email }

// Phone returns the customer's phone number.
func (b *Booking) Phone() string { return b.phone }

// Address returns the customer address, or nil for drop-off bookings.
func (b *Booking) Address() *Address { return b.address }

// ServiceType returns the service type.
func (b *Booking) ServiceType() ServiceType { return b.serviceType }

// Date returns the requested calendar date (midnight UTC).
func (b *Booking) Date() time.Time { return b.date }

// TimeWindow returns the preferred time window, or TimeWindowAny.
func (b *Booking) TimeWindow() TimeWindow { return b.timeWindow }

// BagCount returns the number of gift bags.
func (b *Booking) BagCount() int { return b.bagCount }

// EstimatedTotal returns the server-computed total in whole dollars.
func (b *Booking) EstimatedTotal() int64 { return b.estimatedTotal }

// PaymentMethod returns the payment method.
func (b *Booking) PaymentMethod() PaymentMethod { return b.paymentMethod }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Notes returns the free-text customer notes.
func (b *Booking) Notes() string { return b.notes }

// CheckoutSessionID returns the payment provider's session reference, or ""
// for offline bookings and card bookings whose session was never created.
func (b *Booking) CheckoutSessionID() string { return b.checkoutSessionID }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// AttachCheckoutSession stores the payment provider's session reference.
func (b *Booking) AttachCheckoutSession(sessionID string) error {
	if b.paymentMethod != PaymentMethodCard {
		return domain.NewValidationError("checkout sessions only apply to card bookings")
	}
	if sessionID == "" {
		return domain.NewValidationError("checkout session ID is required")
	}
	b.checkoutSessionID = sessionID
	b.updatedAt = time.Now().UTC()
	return nil
}

// MarkPaid records a successful payment. Applying it to an already-paid
// booking is a no-op; the return value reports whether anything changed.
func (b *Booking) MarkPaid() bool {
	if b.status == StatusPaid {
		return false
	}
	b.status = StatusPaid
	b.updatedAt = time.Now().UTC()
	return true
}

// MarkExpired cancels a booking whose checkout session expired. Paid is
// sticky: an expired event arriving after payment is a no-op, as is a repeat
// delivery for an already-canceled booking.
func (b *Booking) MarkExpired() bool {
	if b.status == StatusPaid || b.status == StatusCanceled {
		return false
	}
	b.status = StatusCanceled
	b.updatedAt = time.Now().UTC()
	return true
}

// ForceStatus overwrites the status unconditionally. This is the admin escape
// hatch: any status is reachable from any status, including out of terminal
// states.
func (b *Booking) ForceStatus(target BookingStatus) error {
	if !target.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
