package application

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	settingsDomain "github.com/giftwrap-jax/service-booking/internal/domain/settings"
)

// SettingsService reads and writes site-wide flags. The bookings-enabled gate
// is read on every relevant request rather than cached in process, so a
// toggle takes effect across instances immediately.
type SettingsService struct {
	repo   settingsDomain.SettingsRepository
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo settingsDomain.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, logger: logger}
}

// BookingsEnabled reports whether new bookings are being accepted. Fails
// open: a missing or unreadable setting never blocks the whole business.
func (s *SettingsService) BookingsEnabled(ctx context.Context) bool {
	value, err := s.repo.Get(ctx, settingsDomain.KeyBookingsEnabled)
	if err != nil {
		s.logger.Warn("could not read bookings_enabled, defaulting to enabled", zap.Error(err))
		return true
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		s.logger.Warn("malformed bookings_enabled value, defaulting to enabled",
			zap.String("value", value))
		return true
	}
	return enabled
}

// SetBookingsEnabled toggles the availability gate (admin).
func (s *SettingsService) SetBookingsEnabled(ctx context.Context, enabled bool) error {
	if err := s.repo.Set(ctx, settingsDomain.KeyBookingsEnabled, strconv.FormatBool(enabled)); err != nil {
		return fmt.Errorf("failed to update bookings_enabled: %w", err)
	}
	s.logger.Info("bookings availability toggled", zap.Bool("enabled", enabled))
	return nil
}
