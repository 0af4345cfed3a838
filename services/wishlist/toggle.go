package wishlist

import (
	"context"
	"strings"

	"wishflix/models"
)

// Toggler flips a movie's wishlist membership in the remote store.
//
// The remote call is awaited before any local state may change; the local
// membership update is the caller's job using the returned boolean. On error
// the membership set must be left untouched so it keeps reflecting the last
// known-good remote state.
type Toggler struct {
	store Store
}

func NewToggler(store Store) *Toggler {
	return &Toggler{store: store}
}

// Toggle removes the movie when currentlyWished, adds it otherwise, and
// returns the new membership state. On error it returns the unchanged
// current state alongside the store's error.
func (t *Toggler) Toggle(ctx context.Context, userID string, movie models.Movie, currentlyWished bool) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return currentlyWished, ErrUserIDRequired
	}
	if movie.ID <= 0 {
		return currentlyWished, ErrMovieIDRequired
	}

	if currentlyWished {
		if err := t.store.Remove(ctx, userID, movie.ID); err != nil {
			return currentlyWished, err
		}
		return false, nil
	}

	if err := t.store.Add(ctx, userID, models.NewWishlistEntry(movie)); err != nil {
		return currentlyWished, err
	}
	return true, nil
}
