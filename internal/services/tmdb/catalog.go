package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/streamflix/streamflix/internal/models"
)

// ListResponse is the common shape of TMDB list endpoints
type ListResponse struct {
	Page         int                `json:"page"`
	Results      []models.MediaItem `json:"results"`
	TotalPages   int                `json:"total_pages"`
	TotalResults int                `json:"total_results"`
}

// Trending retrieves this week's trending movies and TV shows
func (c *Client) Trending(ctx context.Context) ([]models.MediaItem, error) {
	return c.list(ctx, "/trending/all/week", nil)
}

// PopularMovies retrieves the popular movies list
func (c *Client) PopularMovies(ctx context.Context) ([]models.MediaItem, error) {
	return c.list(ctx, "/movie/popular", nil)
}

// TopRatedMovies retrieves the top rated movies list
func (c *Client) TopRatedMovies(ctx context.Context) ([]models.MediaItem, error) {
	return c.list(ctx, "/movie/top_rated", nil)
}

// UpcomingMovies retrieves the upcoming movies list
func (c *Client) UpcomingMovies(ctx context.Context) ([]models.MediaItem, error) {
	return c.list(ctx, "/movie/upcoming", nil)
}

// PopularTV retrieves the popular TV shows list
func (c *Client) PopularTV(ctx context.Context) ([]models.MediaItem, error) {
	return c.list(ctx, "/tv/popular", nil)
}

// DiscoverMoviesByGenre retrieves movies for a single genre id
func (c *Client) DiscoverMoviesByGenre(ctx context.Context, genreID int) ([]models.MediaItem, error) {
	query := url.Values{}
	query.Set("with_genres", strconv.Itoa(genreID))
	return c.list(ctx, "/discover/movie", query)
}

// SearchMulti searches movies and TV shows by free-text query
func (c *Client) SearchMulti(ctx context.Context, searchQuery string) ([]models.MediaItem, error) {
	query := url.Values{}
	query.Set("query", searchQuery)
	return c.list(ctx, "/search/multi", query)
}

func (c *Client) list(ctx context.Context, path string, query url.Values) ([]models.MediaItem, error) {
	var response ListResponse
	if err := c.get(ctx, path, query, &response); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	return response.Results, nil
}
