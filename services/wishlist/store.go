// Package wishlist keeps a user's saved movies consistent between the remote
// per-user document collection and the membership set screens render from.
package wishlist

import (
	"context"
	"errors"

	"wishflix/models"
)

var (
	ErrUserIDRequired  = errors.New("user id is required")
	ErrMovieIDRequired = errors.New("movie id is required")
)

// Store is the remote per-user wishlist collection. All operations fail with
// an apperr.KindRemoteStore error on transport or permission failure, in
// which case the remote state must be treated as unknown.
type Store interface {
	// ListIDs reads the full set of saved movie ids for a user.
	ListIDs(ctx context.Context, userID string) (map[int64]struct{}, error)
	// ListEntries reads all saved entries in remote collection order. The
	// order is not guaranteed stable across calls.
	ListEntries(ctx context.Context, userID string) ([]models.WishlistEntry, error)
	// Add upserts an entry keyed by its movie id. Adding a present id
	// overwrites its fields; it never duplicates.
	Add(ctx context.Context, userID string, entry models.WishlistEntry) error
	// Remove deletes an entry. Removing an absent id is a successful no-op.
	Remove(ctx context.Context, userID string, movieID int64) error
}
