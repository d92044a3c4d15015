package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/giftwrap-jax/service-booking/internal/domain"
	bookingDomain "github.com/giftwrap-jax/service-booking/internal/domain/booking"
	"github.com/giftwrap-jax/service-booking/internal/events"
	"github.com/giftwrap-jax/service-booking/internal/payment"
)

// CreateBookingRequest holds the data submitted from the booking form.
type CreateBookingRequest struct {
	CustomerName  string `json:"customer_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	AddressLine1  string `json:"address_line1"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	ServiceType   string `json:"service_type"`
	Date          string `json:"date"` // YYYY-MM-DD
	TimeWindow    string `json:"time_window"`
	BagCount      int    `json:"bag_count"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID                uuid.UUID `json:"id"`
	CustomerName      string    `json:"customer_name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	AddressLine1      string    `json:"address_line1,omitempty"`
	City              string    `json:"city,omitempty"`
	State             string    `json:"state,omitempty"`
	Zip               string    `json:"zip,omitempty"`
	ServiceType       string    `json:"service_type"`
	Date              string    `json:"date"`
	TimeWindow        string    `json:"time_window,omitempty"`
	BagCount          int       `json:"bag_count"`
	EstimatedTotal    int64     `json:"estimated_total"`
	PaymentMethod     string    `json:"payment_method"`
	Status            string    `json:"status"`
	Notes             string    `json:"notes,omitempty"`
	CheckoutSessionID string    `json:"checkout_session_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateBookingResult is a created booking plus, for card payments, the
// checkout URL the customer is redirected to.
type CreateBookingResult struct {
	Booking     BookingDTO `json:"booking"`
	CheckoutURL string     `json:"checkout_url,omitempty"`
}

// BookingService orchestrates the booking lifecycle: creation, admin-driven
// manual transitions, and webhook-driven payment reconciliation.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	gateway   payment.Gateway
	publisher events.Publisher
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	gateway payment.Gateway,
	publisher events.Publisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:      repo,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateBooking validates the submission, prices it server-side, persists the
// record, and for card payments starts a hosted checkout session whose
// reference is stored back onto the booking.
//
// If checkout session creation fails the booking already exists in
// pending_payment with no session reference; that intermediate state is
// surfaced as a 502 for the caller to retry and stands until an operator
// cleans it up.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	serviceType, err := bookingDomain.ParseServiceType(req.ServiceType)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	paymentMethod, err := bookingDomain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, domain.NewValidationError("date must be in YYYY-MM-DD format")
	}

	var addr *bookingDomain.Address
	if req.AddressLine1 != "" || req.City != "" || req.State != "" || req.Zip != "" {
		addr = &bookingDomain.Address{
			Line1: req.AddressLine1,
			City:  req.City,
			State: req.State,
			Zip:   req.Zip,
		}
	}

	bk, err := bookingDomain.NewBooking(
		req.CustomerName,
		req.Email,
		req.Phone,
		addr,
		serviceType,
		date,
		bookingDomain.TimeWindow(req.TimeWindow),
		req.BagCount,
		paymentMethod,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.publishEvent(ctx, events.BookingCreated, bk.ID().String(), events.BookingCreatedEvent{
		BookingID:      bk.ID(),
		ServiceType:    string(bk.ServiceType()),
		Date:           bk.Date().Format("2006-01-02"),
		BagCount:       bk.BagCount(),
		EstimatedTotal: bk.EstimatedTotal(),
		PaymentMethod:  string(bk.PaymentMethod()),
		Status:         string(bk.Status()),
		OccurredAt:     time.Now().UTC(),
	})

	result := &CreateBookingResult{Booking: toBookingDTO(bk)}
	if paymentMethod != bookingDomain.PaymentMethodCard {
		return result, nil
	}

	deliveryFee := int64(0)
	if serviceType.RequiresDelivery() {
		deliveryFee = bookingDomain.DeliveryFee
	}
	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		BookingID:     bk.ID(),
		CustomerEmail: bk.Email(),
		BagCount:      bk.BagCount(),
		PerBagAmount:  bookingDomain.PricePerBag,
		DeliveryFee:   deliveryFee,
	})
	if err != nil {
		s.logger.Error("checkout session creation failed, booking left pending without reference",
			zap.String("booking_id", bk.ID().String()),
			zap.Error(err),
		)
		return nil, domain.NewUnavailableError("payment session could not be created; please try again")
	}

	if err := bk.AttachCheckoutSession(session.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to store checkout session reference: %w", err)
	}

	result.Booking = toBookingDTO(bk)
	result.CheckoutURL = session.URL
	return result, nil
}

// ReconcilePaymentEvent applies a verified payment-provider event to the
// booking it correlates with. Safe under redelivery: repeated or out-of-order
// events land on idempotent domain transitions, and paid is sticky against a
// late expiry. An event for an unknown booking is logged and dropped.
func (s *BookingService) ReconcilePaymentEvent(ctx context.Context, evt payment.Event) error {
	if evt.Kind == payment.EventIgnored {
		s.logger.Debug("ignoring unhandled payment event type", zap.String("type", evt.Type))
		return nil
	}

	bk, err := s.resolveBooking(ctx, evt)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.Warn("payment event for unknown booking",
				zap.String("type", evt.Type),
				zap.String("booking_id", evt.BookingID),
				zap.String("session_id", evt.SessionID),
			)
			return nil
		}
		return err
	}

	switch evt.Kind {
	case payment.EventCheckoutCompleted:
		if !bk.MarkPaid() {
			s.logger.Info("duplicate completion event, booking already paid",
				zap.String("booking_id", bk.ID().String()))
			return nil
		}
		if err := s.repo.Update(ctx, bk); err != nil {
			return fmt.Errorf("failed to mark booking paid: %w", err)
		}
		s.publishEvent(ctx, events.BookingPaid, bk.ID().String(), events.BookingPaidEvent{
			BookingID:         bk.ID(),
			CheckoutSessionID: bk.CheckoutSessionID(),
			EstimatedTotal:    bk.EstimatedTotal(),
			OccurredAt:        time.Now().UTC(),
		})
		s.logger.Info("booking marked paid", zap.String("booking_id", bk.ID().String()))

	case payment.EventCheckoutExpired:
		if !bk.MarkExpired() {
			s.logger.Info("expiry event ignored, booking already settled",
				zap.String("booking_id", bk.ID().String()),
				zap.String("status", bk.Status().String()))
			return nil
		}
		if err := s.repo.Update(ctx, bk); err != nil {
			return fmt.Errorf("failed to cancel expired booking: %w", err)
		}
		s.publishEvent(ctx, events.BookingCanceled, bk.ID().String(), events.BookingCanceledEvent{
			BookingID:  bk.ID(),
			Reason:     "checkout session expired",
			OccurredAt: time.Now().UTC(),
		})
		s.logger.Info("booking canceled after session expiry", zap.String("booking_id", bk.ID().String()))
	}

	return nil
}

// resolveBooking finds the booking an event correlates with, preferring the
// booking ID carried in metadata and falling back to the stored session
// reference.
func (s *BookingService) resolveBooking(ctx context.Context, evt payment.Event) (*bookingDomain.Booking, error) {
	if evt.BookingID != "" {
		if id, err := uuid.Parse(evt.BookingID); err == nil {
			bk, err := s.repo.FindByID(ctx, id)
			if err == nil || !domain.IsNotFound(err) {
				return bk, err
			}
		}
	}
	if evt.SessionID != "" {
		return s.repo.FindByCheckoutSessionID(ctx, evt.SessionID)
	}
	return nil, domain.NewNotFoundError("Booking", "(no correlation id)")
}

// UpdateBookingStatus is the admin escape hatch: it overwrites the status
// unconditionally, with no transition-table enforcement.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, targetStatus string) (*BookingDTO, error) {
	status, err := bookingDomain.ParseBookingStatus(targetStatus)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.Status()
	if err := bk.ForceStatus(status); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	s.publishEvent(ctx, events.BookingStatusChanged, bk.ID().String(), events.BookingStatusChangedEvent{
		BookingID:  bk.ID(),
		FromStatus: string(from),
		ToStatus:   string(status),
		OccurredAt: time.Now().UTC(),
	})

	dto := toBookingDTO(bk)
	return &dto, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(bk)
	return &dto, nil
}

// ListBookings returns bookings matching the admin filter vocabulary,
// ordered by date ascending then creation time descending.
func (s *BookingService) ListBookings(ctx context.Context, filter string) ([]BookingDTO, error) {
	f, err := bookingDomain.ParseListFilter(filter)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	bookings, err := s.repo.List(ctx, f.Criteria(time.Now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	dto := BookingDTO{
		ID:                bk.ID(),
		CustomerName:      bk.CustomerName(),
		Email:             bk.Email(),
		Phone:             bk.Phone(),
		ServiceType:       string(bk.ServiceType()),
		Date:              bk.Date().Format("2006-01-02"),
		TimeWindow:        string(bk.TimeWindow()),
		BagCount:          bk.BagCount(),
		EstimatedTotal:    bk.EstimatedTotal(),
		PaymentMethod:     string(bk.PaymentMethod()),
		Status:            string(bk.Status()),
		Notes:             bk.Notes(),
		CheckoutSessionID: bk.CheckoutSessionID(),
		CreatedAt:         bk.CreatedAt(),
		UpdatedAt:         bk.UpdatedAt(),
	}
	if addr := bk.Address(); addr != nil {
		dto.AddressLine1 = addr.Line1
		dto.City = addr.City
		dto.State = addr.State
		dto.Zip = addr.Zip
	}
	return dto
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	cloudEvent, err := events.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.publisher.Publish(ctx, events.TopicBookingEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
