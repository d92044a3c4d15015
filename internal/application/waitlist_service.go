package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	waitlistDomain "github.com/giftwrap-jax/service-booking/internal/domain/waitlist"
)

// JoinWaitlistRequest is a public waitlist submission. At least one contact
// value is required.
type JoinWaitlistRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// WaitlistEntryDTO is the admin-facing representation of a waitlist entry.
type WaitlistEntryDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// JoinWaitlistResult carries the customer-facing confirmation message.
type JoinWaitlistResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WaitlistService manages the contact-capture list used while bookings are closed.
type WaitlistService struct {
	repo   waitlistDomain.WaitlistRepository
	logger *zap.Logger
}

// NewWaitlistService creates a new WaitlistService.
func NewWaitlistService(repo waitlistDomain.WaitlistRepository, logger *zap.Logger) *WaitlistService {
	return &WaitlistService{repo: repo, logger: logger}
}

// Join adds a contact to the waitlist. A duplicate email or phone is treated
// as already-registered: the caller still gets a success response but no
// second row is created.
func (s *WaitlistService) Join(ctx context.Context, req JoinWaitlistRequest) (*JoinWaitlistResult, error) {
	entry, err := waitlistDomain.NewEntry(req.Email, req.Phone)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByContact(ctx, entry.Email(), entry.Phone())
	if err != nil {
		return nil, fmt.Errorf("failed to check waitlist: %w", err)
	}
	if exists {
		return &JoinWaitlistResult{
			Success: true,
			Message: "You're already on our waitlist! We'll notify you when spots open up.",
		}, nil
	}

	if err := s.repo.Save(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save waitlist entry: %w", err)
	}

	s.logger.Info("waitlist entry added", zap.String("entry_id", entry.ID().String()))
	return &JoinWaitlistResult{
		Success: true,
		Message: "You're on the list! We'll notify you when spots open up.",
	}, nil
}

// List returns all waitlist entries, newest first (admin).
func (s *WaitlistService) List(ctx context.Context) ([]WaitlistEntryDTO, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list waitlist: %w", err)
	}

	dtos := make([]WaitlistEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = WaitlistEntryDTO{
			ID:        e.ID(),
			Email:     e.Email(),
			Phone:     e.Phone(),
			CreatedAt: e.CreatedAt(),
		}
	}
	return dtos, nil
}
