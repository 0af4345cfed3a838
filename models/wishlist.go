package models

import "time"

// WishlistEntry is one saved movie in a user's remote wishlist collection.
// The remote document store owns it; local copies are caches, not authoritative.
type WishlistEntry struct {
	MovieID    int64     `json:"movieId"`
	Title      string    `json:"title"`
	PosterPath *string   `json:"posterPath"`
	AddedAt    time.Time `json:"addedAt,omitempty"`
}

// NewWishlistEntry builds an entry from a catalog summary. AddedAt is left
// zero; the store assigns it server-side on write.
func NewWishlistEntry(m Movie) WishlistEntry {
	return WishlistEntry{MovieID: m.ID, Title: m.Title, PosterPath: m.PosterPath}
}
