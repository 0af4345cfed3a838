package models

// Movie is the catalog summary projection used by list screens.
// It is a read-through copy of remote catalog state and is never mutated locally.
type Movie struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	PosterPath *string `json:"poster_path"`
}

// Genre is a catalog genre reference in remote-provided order.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MovieDetail is the full catalog record fetched when a detail view opens.
// Field names follow the TMDB wire format so client shapes survive the proxy.
type MovieDetail struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	Tagline      string  `json:"tagline"`
	ReleaseDate  string  `json:"release_date"`
	Runtime      int     `json:"runtime"`
	Genres       []Genre `json:"genres"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int64   `json:"vote_count"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
}

// Summary projects the detail down to the list representation.
func (d *MovieDetail) Summary() Movie {
	return Movie{ID: d.ID, Title: d.Title, PosterPath: d.PosterPath}
}

// CastMember is one credited performer, in remote billing order.
type CastMember struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
}

// MoviePage is one page of a paginated catalog listing.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int64   `json:"total_results"`
}
