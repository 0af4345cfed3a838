package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"wishflix/models"
	catalogpkg "wishflix/services/catalog"
)

type catalogService interface {
	PopularMovies(ctx context.Context, page int) (models.MoviePage, error)
	NowPlayingMovies(ctx context.Context, page int) (models.MoviePage, error)
	DiscoverMovies(ctx context.Context, opts catalogpkg.DiscoverOptions, page int) (models.MoviePage, error)
	SearchMovies(ctx context.Context, query string, page int) (models.MoviePage, error)
	MovieDetails(ctx context.Context, movieID int64) (*models.MovieDetail, error)
	MovieCredits(ctx context.Context, movieID int64) ([]models.CastMember, error)
}

var _ catalogService = (*catalogpkg.Service)(nil)

type CatalogHandler struct {
	Service catalogService
}

func NewCatalogHandler(s catalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

// CreditsResponse wraps the top-billed cast the way clients consume it.
type CreditsResponse struct {
	Cast []models.CastMember `json:"cast"`
}

func (h *CatalogHandler) Popular(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.PopularMovies(r.Context(), parsePage(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, page)
}

func (h *CatalogHandler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.NowPlayingMovies(r.Context(), parsePage(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, page)
}

func (h *CatalogHandler) Discover(w http.ResponseWriter, r *http.Request) {
	opts := catalogpkg.DiscoverOptions{
		SortBy: strings.TrimSpace(r.URL.Query().Get("sort_by")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("with_genres")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil || id <= 0 {
				writeError(w, http.StatusBadRequest, "invalid with_genres parameter")
				return
			}
			opts.WithGenres = append(opts.WithGenres, id)
		}
	}

	page, err := h.Service.DiscoverMovies(r.Context(), opts, parsePage(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, page)
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	page, err := h.Service.SearchMovies(r.Context(), query, parsePage(r))
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, page)
}

func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	movieID, ok := parseMovieID(w, r)
	if !ok {
		return
	}

	detail, err := h.Service.MovieDetails(r.Context(), movieID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, detail)
}

func (h *CatalogHandler) Credits(w http.ResponseWriter, r *http.Request) {
	movieID, ok := parseMovieID(w, r)
	if !ok {
		return
	}

	cast, err := h.Service.MovieCredits(r.Context(), movieID)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, CreditsResponse{Cast: cast})
}

func parsePage(r *http.Request) int {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}

func parseMovieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid movie id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalogpkg.ErrQueryRequired) || errors.Is(err, catalogpkg.ErrMovieID) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}
