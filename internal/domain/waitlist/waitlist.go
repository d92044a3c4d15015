package waitlist

import (
	"regexp"
	"strings"
	"time"

	"github.com/giftwrap-jax/service-booking/internal/domain"
	"github.com/google/uuid"
)

const minPhoneDigits = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Entry is a contact captured while bookings are closed. At least one of
// email or phone is required; at most one entry exists per contact value.
type Entry struct {
	id        uuid.UUID
	email     string
	phone     string
	createdAt time.Time
}

// NewEntry creates a waitlist entry from an email and/or phone. Whichever is
// supplied must be well-formed.
func NewEntry(email, phone string) (*Entry, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return nil, domain.NewValidationError("please provide an email or phone number")
	}
	if email != "" && !emailPattern.MatchString(email) {
		return nil, domain.NewValidationError("please provide a valid email address")
	}
	if phone != "" && countDigits(phone) < minPhoneDigits {
		return nil, domain.NewValidationError("please provide a valid phone number")
	}
	return &Entry{
		id:        uuid.New(),
		email:     email,
		phone:     phone,
		createdAt: time.Now().UTC(),
	}, nil
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

// ReconstructEntry rebuilds an Entry from persistence data.
func ReconstructEntry(id uuid.UUID, email, phone string, createdAt time.Time) *Entry {
	return &Entry{id: id, email: email, phone: phone, createdAt: createdAt}
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() uuid.UUID { return e.id }

// Email returns the entry's email, or "".
func (e *Entry) Email() string { return e.email }

// Phone returns the entry's phone, or "".
func (e *Entry) Phone() string { return e.phone }

// CreatedAt returns the creation timestamp.
func (e *Entry) CreatedAt() time.Time { return e.createdAt }
