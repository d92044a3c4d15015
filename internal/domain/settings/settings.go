// Package settings holds site-wide key/value flags. The only one the service
// acts on today is whether new bookings are being accepted.
package settings

import "context"

// KeyBookingsEnabled is the availability gate for new bookings.
const KeyBookingsEnabled = "bookings_enabled"

// SettingsRepository defines the persistence contract for site settings.
type SettingsRepository interface {
	// Get returns the stored value for key. A missing key is a not-found
	// domain error; callers decide the fallback.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, inserting or overwriting.
	Set(ctx context.Context, key, value string) error
}
