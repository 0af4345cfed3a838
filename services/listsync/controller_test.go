package listsync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"wishflix/models"
)

func movies(ids ...int64) []models.Movie {
	out := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Movie{ID: id})
	}
	return out
}

func idsOf(items []models.Movie) []int64 {
	out := make([]int64, 0, len(items))
	for _, m := range items {
		out = append(out, m.ID)
	}
	return out
}

func TestNewControllerRequiresFetcher(t *testing.T) {
	_, err := NewController(nil)
	require.Error(t, err)
}

func TestLoadReplacesItems(t *testing.T) {
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		return movies(1, 2), 5, nil
	})
	require.NoError(t, err)

	st, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, idsOf(st.Items))
	require.Equal(t, 1, st.CurrentPage)
	require.Equal(t, 5, st.TotalPages)
	require.False(t, st.Loading)
	require.Empty(t, st.Error)
}

func TestLoadMoreAppendsWithoutDuplicates(t *testing.T) {
	pages := map[int][]models.Movie{
		1: movies(1, 2),
		2: movies(2, 3),
	}
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		return pages[page], 2, nil
	})
	require.NoError(t, err)

	_, err = c.Load(context.Background())
	require.NoError(t, err)

	st, err := c.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2, 3}, idsOf(st.Items))
	require.Equal(t, 2, st.CurrentPage)
}

func TestLoadMoreNoOpOnLastPage(t *testing.T) {
	var calls int
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		calls++
		return movies(1), 1, nil
	})
	require.NoError(t, err)

	_, err = c.Load(context.Background())
	require.NoError(t, err)

	st, err := c.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int64{1}, idsOf(st.Items))
	require.Equal(t, 1, calls, "no fetch expected past the final page")
}

func TestRefreshResetsToFirstPage(t *testing.T) {
	pages := map[int][]models.Movie{
		1: movies(1, 2),
		2: movies(3, 4),
	}
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		return pages[page], 2, nil
	})
	require.NoError(t, err)

	_, err = c.Load(context.Background())
	require.NoError(t, err)
	_, err = c.LoadMore(context.Background())
	require.NoError(t, err)

	st, err := c.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, idsOf(st.Items))
	require.Equal(t, 1, st.CurrentPage)
	require.False(t, st.Refreshing)
}

func TestConcurrentLoadFailsFast(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		close(started)
		<-release
		return movies(1), 1, nil
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := c.Load(context.Background())
		done <- err
	}()
	<-started

	_, err = c.Load(context.Background())
	require.ErrorIs(t, err, ErrLoadInFlight)

	st := c.Snapshot()
	require.True(t, st.Loading)

	close(release)
	require.NoError(t, <-done)
}

func TestDisposeDiscardsInFlightResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		close(started)
		<-release
		return movies(9), 7, nil
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := c.Load(context.Background())
		done <- err
	}()
	<-started

	c.Dispose()
	close(release)
	require.ErrorIs(t, <-done, ErrDisposed)

	st := c.Snapshot()
	require.Empty(t, st.Items, "a disposed controller must not absorb stale results")
	require.Equal(t, 1, st.TotalPages)
}

func TestDisposedControllerRejectsLoads(t *testing.T) {
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		return movies(1), 1, nil
	})
	require.NoError(t, err)

	c.Dispose()

	_, err = c.Load(context.Background())
	require.ErrorIs(t, err, ErrDisposed)
	_, err = c.Refresh(context.Background())
	require.ErrorIs(t, err, ErrDisposed)
	_, err = c.LoadMore(context.Background())
	require.ErrorIs(t, err, ErrDisposed)
}

func TestFetchErrorRecordedAndLoadingCleared(t *testing.T) {
	boom := errors.New("upstream down")
	fail := true
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		if fail {
			return nil, 0, boom
		}
		return movies(1), 3, nil
	})
	require.NoError(t, err)

	st, err := c.Load(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, boom.Error(), st.Error)
	require.False(t, st.Loading)
	require.Empty(t, st.Items)

	// A later successful load clears the recorded error.
	fail = false
	st, err = c.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, st.Error)
	require.Equal(t, []int64{1}, idsOf(st.Items))
}

func TestLatestTotalPagesWins(t *testing.T) {
	totals := []int{10, 4}
	var call int
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		total := totals[call]
		call++
		return movies(int64(page * 100)), total, nil
	})
	require.NoError(t, err)

	st, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 10, st.TotalPages)

	st, err = c.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, st.TotalPages)
}

func TestTotalPagesFlooredAtOne(t *testing.T) {
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		return movies(1), 0, nil
	})
	require.NoError(t, err)

	st, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, st.TotalPages)
}

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		total      int
		loading    bool
		refreshing bool
		want       bool
	}{
		{name: "single page", current: 1, total: 1, want: false},
		{name: "more pages available", current: 2, total: 3, want: true},
		{name: "loading blocks", current: 2, total: 3, loading: true, want: false},
		{name: "refreshing blocks", current: 2, total: 3, refreshing: true, want: false},
		{name: "last page reached", current: 3, total: 3, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
				return nil, 1, nil
			})
			require.NoError(t, err)
			c.state.CurrentPage = tt.current
			c.state.TotalPages = tt.total
			c.state.Loading = tt.loading
			c.state.Refreshing = tt.refreshing
			require.Equal(t, tt.want, c.CanAdvance())
		})
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c, err := NewController(func(ctx context.Context, page int) ([]models.Movie, int, error) {
		return movies(1, 2), 1, nil
	})
	require.NoError(t, err)

	_, err = c.Load(context.Background())
	require.NoError(t, err)

	st := c.Snapshot()
	st.Items[0].ID = 999
	require.Equal(t, []int64{1, 2}, idsOf(c.Snapshot().Items))
}
