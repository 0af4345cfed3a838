// Package catalog provides a typed client for the remote movie metadata API.
// It issues requests and classifies failures; retry of whole operations is
// the caller's concern.
package catalog

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"wishflix/models"
)

var (
	ErrQueryRequired = errors.New("search query is required")
	ErrMovieID       = errors.New("movie id must be positive")
	ErrEmptyPage     = errors.New("catalog returned an empty page")
)

// topCastLimit bounds credit listings to the leading billed cast.
const topCastLimit = 6

// Service exposes the catalog operations the app's screens need.
type Service struct {
	client *tmdbClient
}

// NewService creates a catalog service. httpc may be nil to use a default
// client with a request timeout.
func NewService(apiKey, language string, httpc *http.Client) *Service {
	return &Service{client: newTMDBClient(apiKey, language, httpc)}
}

// DiscoverOptions are the filter parameters for discovery listings.
type DiscoverOptions struct {
	WithGenres []int64
	SortBy     string
}

func (o DiscoverOptions) values() url.Values {
	params := url.Values{}
	if len(o.WithGenres) > 0 {
		ids := make([]string, len(o.WithGenres))
		for i, id := range o.WithGenres {
			ids[i] = strconv.FormatInt(id, 10)
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if strings.TrimSpace(o.SortBy) != "" {
		params.Set("sort_by", o.SortBy)
	}
	return params
}

// List fetches one page of any catalog listing resource. The named methods
// below cover the sanctioned resources; List is the shared primitive.
func (s *Service) List(ctx context.Context, resource string, params url.Values, page int) (models.MoviePage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	for key, vals := range params {
		for _, val := range vals {
			q.Add(key, val)
		}
	}
	q.Set("page", strconv.Itoa(page))

	var payload models.MoviePage
	if err := s.client.doGET(ctx, resource, q, &payload); err != nil {
		return models.MoviePage{}, err
	}
	if payload.Page == 0 {
		payload.Page = page
	}
	if payload.TotalPages < 1 {
		payload.TotalPages = 1
	}
	if payload.Results == nil {
		payload.Results = []models.Movie{}
	}
	return payload, nil
}

// PopularMovies fetches one page of the popular listing.
func (s *Service) PopularMovies(ctx context.Context, page int) (models.MoviePage, error) {
	return s.List(ctx, "movie/popular", nil, page)
}

// NowPlayingMovies fetches one page of the now-playing listing.
func (s *Service) NowPlayingMovies(ctx context.Context, page int) (models.MoviePage, error) {
	return s.List(ctx, "movie/now_playing", nil, page)
}

// DiscoverMovies fetches one page of filtered discovery results.
func (s *Service) DiscoverMovies(ctx context.Context, opts DiscoverOptions, page int) (models.MoviePage, error) {
	return s.List(ctx, "discover/movie", opts.values(), page)
}

// SearchMovies fetches one page of title search results.
func (s *Service) SearchMovies(ctx context.Context, query string, page int) (models.MoviePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.MoviePage{}, ErrQueryRequired
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	return s.List(ctx, "search/movie", params, page)
}

// MovieDetails fetches the full record for one movie.
func (s *Service) MovieDetails(ctx context.Context, id int64) (*models.MovieDetail, error) {
	if id <= 0 {
		return nil, ErrMovieID
	}
	var detail models.MovieDetail
	if err := s.client.doGET(ctx, moviePath(id), nil, &detail); err != nil {
		return nil, err
	}
	if detail.Genres == nil {
		detail.Genres = []models.Genre{}
	}
	return &detail, nil
}

type creditsResponse struct {
	Cast []models.CastMember `json:"cast"`
}

// MovieCredits fetches the cast for one movie, truncated to the top billed
// entries in remote-provided order.
func (s *Service) MovieCredits(ctx context.Context, id int64) ([]models.CastMember, error) {
	if id <= 0 {
		return nil, ErrMovieID
	}
	var payload creditsResponse
	if err := s.client.doGET(ctx, moviePath(id, "credits"), nil, &payload); err != nil {
		return nil, err
	}
	cast := payload.Cast
	if len(cast) > topCastLimit {
		cast = cast[:topCastLimit]
	}
	if cast == nil {
		cast = []models.CastMember{}
	}
	return cast, nil
}

// MovieWithCredits fetches detail and credits concurrently, the way the
// detail view opens both at once.
func (s *Service) MovieWithCredits(ctx context.Context, id int64) (*models.MovieDetail, []models.CastMember, error) {
	var (
		detail *models.MovieDetail
		cast   []models.CastMember
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		d, err := s.MovieDetails(ctx, id)
		if err != nil {
			return err
		}
		detail = d
		return nil
	})
	p.Go(func(ctx context.Context) error {
		c, err := s.MovieCredits(ctx, id)
		if err != nil {
			return err
		}
		cast = c
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}
	return detail, cast, nil
}

// RandomPopularMovie picks one item from the first popular page, for the
// home-screen banner.
func (s *Service) RandomPopularMovie(ctx context.Context) (models.Movie, error) {
	page, err := s.PopularMovies(ctx, 1)
	if err != nil {
		return models.Movie{}, err
	}
	if len(page.Results) == 0 {
		return models.Movie{}, ErrEmptyPage
	}
	return page.Results[rand.IntN(len(page.Results))], nil
}
