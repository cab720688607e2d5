package profile

import "context"

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	// List returns every profile in the store's default order.
	List(ctx context.Context) ([]*Profile, error)

	// FindByID returns a not-found error when no profile has the id.
	FindByID(ctx context.Context, id int64) (*Profile, error)

	// Exists reports whether a profile with the id is stored.
	Exists(ctx context.Context, id int64) (bool, error)

	// Save inserts a new profile and assigns its generated id.
	Save(ctx context.Context, p *Profile) error

	// Update writes p only if the stored version is p.Version()-1. A lost
	// race yields a conflict error, or not-found if the row is gone.
	Update(ctx context.Context, p *Profile) error

	// Delete removes the profile permanently; not-found if absent.
	Delete(ctx context.Context, id int64) error
}
