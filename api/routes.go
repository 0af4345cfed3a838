package api

import (
	"net/http"

	"wishflix/handlers"

	"github.com/gorilla/mux"
)

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts API endpoints onto the provided router.
func Register(r *mux.Router, catalogHandler *handlers.CatalogHandler) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	tmdb := api.PathPrefix("/tmdb").Subrouter()

	tmdb.HandleFunc("/movie/popular", catalogHandler.Popular).Methods(http.MethodGet)
	tmdb.HandleFunc("/movie/popular", handleOptions).Methods(http.MethodOptions)
	tmdb.HandleFunc("/movie/now_playing", catalogHandler.NowPlaying).Methods(http.MethodGet)
	tmdb.HandleFunc("/movie/now_playing", handleOptions).Methods(http.MethodOptions)
	tmdb.HandleFunc("/discover/movie", catalogHandler.Discover).Methods(http.MethodGet)
	tmdb.HandleFunc("/discover/movie", handleOptions).Methods(http.MethodOptions)
	tmdb.HandleFunc("/search/movie", catalogHandler.Search).Methods(http.MethodGet)
	tmdb.HandleFunc("/search/movie", handleOptions).Methods(http.MethodOptions)
	tmdb.HandleFunc("/movie/{id:[0-9]+}", catalogHandler.Detail).Methods(http.MethodGet)
	tmdb.HandleFunc("/movie/{id:[0-9]+}", handleOptions).Methods(http.MethodOptions)
	tmdb.HandleFunc("/movie/{id:[0-9]+}/credits", catalogHandler.Credits).Methods(http.MethodGet)
	tmdb.HandleFunc("/movie/{id:[0-9]+}/credits", handleOptions).Methods(http.MethodOptions)
}
