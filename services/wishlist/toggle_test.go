package wishlist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"wishflix/models"
)

type fakeStore struct {
	addErr    error
	removeErr error

	added   []models.WishlistEntry
	removed []int64
}

func (f *fakeStore) ListIDs(ctx context.Context, userID string) (map[int64]struct{}, error) {
	return map[int64]struct{}{}, nil
}

func (f *fakeStore) ListEntries(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	return nil, nil
}

func (f *fakeStore) Add(ctx context.Context, userID string, entry models.WishlistEntry) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, entry)
	return nil
}

func (f *fakeStore) Remove(ctx context.Context, userID string, movieID int64) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, movieID)
	return nil
}

func TestToggleAddsWhenNotWished(t *testing.T) {
	store := &fakeStore{}
	toggler := NewToggler(store)

	poster := "/dune.jpg"
	movie := models.Movie{ID: 438631, Title: "Dune", PosterPath: &poster}

	wished, err := toggler.Toggle(context.Background(), "user-1", movie, false)
	require.NoError(t, err)
	require.True(t, wished)
	require.Len(t, store.added, 1)
	require.Equal(t, int64(438631), store.added[0].MovieID)
	require.Equal(t, "Dune", store.added[0].Title)
	require.Empty(t, store.removed)
}

func TestToggleRemovesWhenWished(t *testing.T) {
	store := &fakeStore{}
	toggler := NewToggler(store)

	wished, err := toggler.Toggle(context.Background(), "user-1", models.Movie{ID: 438631}, true)
	require.NoError(t, err)
	require.False(t, wished)
	require.Equal(t, []int64{438631}, store.removed)
	require.Empty(t, store.added)
}

func TestToggleReturnsCurrentStateOnAddFailure(t *testing.T) {
	boom := errors.New("store down")
	store := &fakeStore{addErr: boom}
	toggler := NewToggler(store)

	wished, err := toggler.Toggle(context.Background(), "user-1", models.Movie{ID: 1}, false)
	require.ErrorIs(t, err, boom)
	require.False(t, wished, "failed add must report the unchanged state")
}

func TestToggleReturnsCurrentStateOnRemoveFailure(t *testing.T) {
	boom := errors.New("store down")
	store := &fakeStore{removeErr: boom}
	toggler := NewToggler(store)

	wished, err := toggler.Toggle(context.Background(), "user-1", models.Movie{ID: 1}, true)
	require.ErrorIs(t, err, boom)
	require.True(t, wished, "failed remove must report the unchanged state")
}

func TestToggleRequiresUserAndMovie(t *testing.T) {
	toggler := NewToggler(&fakeStore{})

	_, err := toggler.Toggle(context.Background(), "  ", models.Movie{ID: 1}, false)
	require.ErrorIs(t, err, ErrUserIDRequired)

	_, err = toggler.Toggle(context.Background(), "user-1", models.Movie{}, false)
	require.ErrorIs(t, err, ErrMovieIDRequired)
}

func TestMembershipApplyToggleResult(t *testing.T) {
	m := NewMembership()

	m.Apply(7, true)
	require.True(t, m.Has(7))

	m.Apply(7, false)
	require.False(t, m.Has(7))
}

func TestMembershipReplaceCopiesInput(t *testing.T) {
	m := NewMembership()
	src := map[int64]struct{}{1: {}, 2: {}}
	m.Replace(src)

	delete(src, 1)
	require.True(t, m.Has(1))
	require.Equal(t, []int64{1, 2}, m.IDs())
}

func TestMembershipClear(t *testing.T) {
	m := NewMembership()
	m.Set(1)
	m.Set(2)
	require.Equal(t, 2, m.Len())

	m.Clear()
	require.Equal(t, 0, m.Len())
	require.False(t, m.Has(1))
}

func TestMembershipReloadKeepsSetOnError(t *testing.T) {
	m := NewMembership()
	m.Set(1)

	err := m.Reload(context.Background(), failingStore{}, "user-1")
	require.Error(t, err)
	require.True(t, m.Has(1), "failed reload must not clear the set")
}

type failingStore struct{}

func (failingStore) ListIDs(ctx context.Context, userID string) (map[int64]struct{}, error) {
	return nil, errors.New("unavailable")
}

func (failingStore) ListEntries(ctx context.Context, userID string) ([]models.WishlistEntry, error) {
	return nil, errors.New("unavailable")
}

func (failingStore) Add(ctx context.Context, userID string, entry models.WishlistEntry) error {
	return errors.New("unavailable")
}

func (failingStore) Remove(ctx context.Context, userID string, movieID int64) error {
	return errors.New("unavailable")
}
