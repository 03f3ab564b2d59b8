package models

// Genre is a named genre as returned by detail endpoints
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MediaItem represents a movie or TV show record from the metadata API.
// List endpoints populate GenreIDs; detail endpoints populate Genres and Runtime.
type MediaItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title,omitempty"` // movies
	Name         string  `json:"name,omitempty"`  // tv shows
	Overview     string  `json:"overview,omitempty"`
	MediaType    string  `json:"media_type,omitempty"` // set by trending/search responses
	GenreIDs     []int   `json:"genre_ids,omitempty"`
	Genres       []Genre `json:"genres,omitempty"`
	Popularity   float64 `json:"popularity,omitempty"`
	VoteAverage  float64 `json:"vote_average,omitempty"`
	VoteCount    int     `json:"vote_count,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	Runtime      int     `json:"runtime,omitempty"`
}

// Kind infers whether the item is a movie or a TV show. Endpoints that mix
// both kinds set media_type; movie-only endpoints omit it, so a TV-only date
// field is the tiebreaker.
func (m MediaItem) Kind() MediaKind {
	if m.MediaType == string(MediaKindTV) || m.FirstAirDate != "" {
		return MediaKindTV
	}
	return MediaKindMovie
}

// DisplayTitle returns the movie title or TV show name, whichever is set
func (m MediaItem) DisplayTitle() string {
	if m.Title != "" {
		return m.Title
	}
	return m.Name
}

// AllGenreIDs returns the item's genre ids regardless of which response shape
// populated them
func (m MediaItem) AllGenreIDs() []int {
	if len(m.GenreIDs) > 0 {
		return m.GenreIDs
	}
	if len(m.Genres) == 0 {
		return nil
	}
	ids := make([]int, 0, len(m.Genres))
	for _, g := range m.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// HasAnyGenre reports whether the item shares at least one genre id with ids
func (m MediaItem) HasAnyGenre(ids []int) bool {
	for _, have := range m.AllGenreIDs() {
		for _, want := range ids {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Merge overlays detail fields onto a list item, keeping list fields that the
// detail response lacks (media_type, genre_ids)
func (m MediaItem) Merge(detail MediaItem) MediaItem {
	out := detail
	if out.MediaType == "" {
		out.MediaType = m.MediaType
	}
	if len(out.GenreIDs) == 0 {
		out.GenreIDs = m.GenreIDs
	}
	if out.Popularity == 0 {
		out.Popularity = m.Popularity
	}
	if out.PosterPath == "" {
		out.PosterPath = m.PosterPath
	}
	if out.BackdropPath == "" {
		out.BackdropPath = m.BackdropPath
	}
	return out
}

// Category is a named, ordered row of media items for display
type Category struct {
	Title      string      `json:"title"`
	Items      []MediaItem `json:"items"`
	ShowFilter bool        `json:"show_filter"`
}

// HomePage is the aggregated browsing payload for one load cycle
type HomePage struct {
	Featured         *MediaItem          `json:"featured,omitempty"`
	ContinueWatching []WatchHistoryEntry `json:"continue_watching,omitempty"`
	Categories       []Category          `json:"categories"`
}
