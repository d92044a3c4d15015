package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/giftwrap-jax/service-booking/internal/domain"
	bookingDomain "github.com/giftwrap-jax/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	CustomerName      string    `gorm:"not null;size:100"`
	Email             string    `gorm:"not null;size:254;index"`
	Phone             string    `gorm:"not null;size:20"`
	AddressLine1      *string   `gorm:"size:100"`
	City              *string   `gorm:"size:50"`
	State             *string   `gorm:"size:2"`
	Zip               *string   `gorm:"size:5"`
	ServiceType       string    `gorm:"not null;size:30"`
	Date              time.Time `gorm:"type:date;not null;index"`
	TimeWindow        *string   `gorm:"size:20"`
	BagCount          int       `gorm:"not null"`
	EstimatedTotal    int64     `gorm:"not null"`
	PaymentMethod     string    `gorm:"not null;size:20"`
	Status            string    `gorm:"not null;size:30;index"`
	Notes             string    `gorm:"size:500"`
	CheckoutSessionID *string   `gorm:"size:255;index"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model), nil
}

// FindByCheckoutSessionID retrieves a booking by its payment session reference.
func (r *GormBookingRepository) FindByCheckoutSessionID(ctx context.Context, sessionID string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("checkout_session_id = ?", sessionID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", sessionID)
		}
		return nil, fmt.Errorf("failed to find booking by session: %w", err)
	}
	return toDomainBooking(&model), nil
}

// List retrieves bookings matching the criteria, ordered by date ascending
// then creation time descending.
func (r *GormBookingRepository) List(ctx context.Context, criteria bookingDomain.ListCriteria) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&BookingModel{})

	if len(criteria.Statuses) > 0 {
		statuses := make([]string, len(criteria.Statuses))
		for i, s := range criteria.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status IN ?", statuses)
	}
	if criteria.DateFrom != nil {
		q = q.Where("date >= ?", *criteria.DateFrom)
	}
	if criteria.DateTo != nil {
		q = q.Where("date <= ?", *criteria.DateTo)
	}

	var models []BookingModel
	if err := q.Order("date ASC").Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toDomainBooking(&models[i])
	}
	return bookings, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := r.db.WithContext(ctx).Create(toBookingModel(bk)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking. Last write wins.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":              model.Status,
			"checkout_session_id": model.CheckoutSessionID,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Booking", model.ID.String())
	}
	return nil
}

// --- Conversion helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	model := &BookingModel{
		ID:             bk.ID(),
		CustomerName:   bk.CustomerName(),
		Email:          bk.Email(),
		Phone:          bk.Phone(),
		ServiceType:    string(bk.ServiceType()),
		Date:           bk.Date(),
		BagCount:       bk.BagCount(),
		EstimatedTotal: bk.EstimatedTotal(),
		PaymentMethod:  string(bk.PaymentMethod()),
		Status:         string(bk.Status()),
		Notes:          bk.Notes(),
		CreatedAt:      bk.CreatedAt(),
		UpdatedAt:      bk.UpdatedAt(),
	}
	if addr := bk.Address(); addr != nil {
		model.AddressLine1 = &addr.Line1
		model.City = &addr.City
		model.State = &addr.State
		model.Zip = &addr.Zip
	}
	if w := bk.TimeWindow(); w != bookingDomain.TimeWindowAny {
		s := string(w)
		model.TimeWindow = &s
	}
	if sid := bk.CheckoutSessionID(); sid != "" {
		model.CheckoutSessionID = &sid
	}
	return model
}

func toDomainBooking(m *BookingModel) *bookingDomain.Booking {
	var addr *bookingDomain.Address
	if m.AddressLine1 != nil {
		addr = &bookingDomain.Address{
			Line1: *m.AddressLine1,
			City:  deref(m.City),
			State: deref(m.State),
			Zip:   deref(m.Zip),
		}
	}

	timeWindow := bookingDomain.TimeWindowAny
	if m.TimeWindow != nil {
		timeWindow = bookingDomain.TimeWindow(*m.TimeWindow)
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.CustomerName,
		m.Email,
		m.Phone,
		addr,
		bookingDomain.ServiceType(m.ServiceType),
		m.Date,
		timeWindow,
		m.BagCount,
		m.EstimatedTotal,
		bookingDomain.PaymentMethod(m.PaymentMethod),
		bookingDomain.BookingStatus(m.Status),
		m.Notes,
		deref(m.CheckoutSessionID),
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
