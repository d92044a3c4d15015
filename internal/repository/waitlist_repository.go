package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	waitlistDomain "github.com/giftwrap-jax/service-booking/internal/domain/waitlist"
)

// WaitlistModel is the GORM model for the waitlist table.
type WaitlistModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     *string   `gorm:"size:254;index"`
	Phone     *string   `gorm:"size:20;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (WaitlistModel) TableName() string {
	return "waitlist"
}

// GormWaitlistRepository is the GORM-based implementation of WaitlistRepository.
type GormWaitlistRepository struct {
	db *gorm.DB
}

// NewGormWaitlistRepository creates a new GormWaitlistRepository.
func NewGormWaitlistRepository(db *gorm.DB) *GormWaitlistRepository {
	return &GormWaitlistRepository{db: db}
}

// ExistsByContact reports whether an entry already holds the email or phone.
func (r *GormWaitlistRepository) ExistsByContact(ctx context.Context, email, phone string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&WaitlistModel{})
	switch {
	case email != "":
		q = q.Where("email = ?", strings.ToLower(email))
	case phone != "":
		q = q.Where("phone = ?", phone)
	default:
		return false, nil
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check waitlist: %w", err)
	}
	return count > 0, nil
}

// ListAll retrieves all entries, newest first.
func (r *GormWaitlistRepository) ListAll(ctx context.Context) ([]*waitlistDomain.Entry, error) {
	var models []WaitlistModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list waitlist: %w", err)
	}

	entries := make([]*waitlistDomain.Entry, len(models))
	for i, m := range models {
		entries[i] = waitlistDomain.ReconstructEntry(m.ID, deref(m.Email), deref(m.Phone), m.CreatedAt)
	}
	return entries, nil
}

// Save persists a new entry.
func (r *GormWaitlistRepository) Save(ctx context.Context, e *waitlistDomain.Entry) error {
	model := &WaitlistModel{ID: e.ID(), CreatedAt: e.CreatedAt()}
	if e.Email() != "" {
		email := e.Email()
		model.Email = &email
	}
	if e.Phone() != "" {
		phone := e.Phone()
		model.Phone = &phone
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save waitlist entry: %w", err)
	}
	return nil
}
