package utils

import "strings"

const imageBaseURL = "https://image.tmdb.org/t/p/original"

// Placeholder images substituted when the metadata API returns no artwork.
// Missing artwork is tolerated, never an error.
const (
	PlaceholderPoster   = "https://via.placeholder.com/300x450?text=No+Poster"
	PlaceholderBackdrop = "https://via.placeholder.com/1280x720?text=No+Image"
)

// PosterURL builds the full poster URL for a TMDB image path
func PosterURL(path string) string {
	return imageURL(path, PlaceholderPoster)
}

// BackdropURL builds the full backdrop URL for a TMDB image path
func BackdropURL(path string) string {
	return imageURL(path, PlaceholderBackdrop)
}

func imageURL(path, placeholder string) string {
	if strings.TrimSpace(path) == "" {
		return placeholder
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return imageBaseURL + path
}
