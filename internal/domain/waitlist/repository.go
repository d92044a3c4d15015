package waitlist

import "context"

// WaitlistRepository defines the persistence contract for waitlist entries.
type WaitlistRepository interface {
	// ExistsByContact reports whether an entry already holds the given email
	// (case-insensitive) or phone. Empty values are not matched.
	ExistsByContact(ctx context.Context, email, phone string) (bool, error)

	// ListAll retrieves all entries, newest first.
	ListAll(ctx context.Context) ([]*Entry, error)

	// Save persists a new entry.
	Save(ctx context.Context, entry *Entry) error
}
