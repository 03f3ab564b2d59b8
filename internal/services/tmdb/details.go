package tmdb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/streamflix/streamflix/internal/models"
)

// Details retrieves the full record for a single movie or TV show
func (c *Client) Details(ctx context.Context, kind models.MediaKind, id int) (*models.MediaItem, error) {
	path := fmt.Sprintf("/%s/%d", kind, id)

	var item models.MediaItem
	if err := c.get(ctx, path, nil, &item); err != nil {
		return nil, fmt.Errorf("failed to get details: %w", err)
	}
	if kind == models.MediaKindTV {
		item.MediaType = string(models.MediaKindTV)
	}
	return &item, nil
}

// Video is one entry of a videos response
type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// VideosResponse is the shape of the movie/tv videos endpoint
type VideosResponse struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// TrailerLookup is the outcome of a trailer search. Exactly one field is set:
// VideoKey when a hosted trailer exists, otherwise FallbackURL pointing at an
// external search page the caller may open. The fallback is a returned
// command, not a side effect.
type TrailerLookup struct {
	VideoKey    string `json:"video_key,omitempty"`
	FallbackURL string `json:"fallback_url,omitempty"`
}

// FindTrailer looks up a trailer for the given item. A YouTube video of type
// "Trailer" is preferred, then any first video; when nothing is found or the
// lookup fails, the result carries the external search fallback instead of an
// error.
func (c *Client) FindTrailer(ctx context.Context, kind models.MediaKind, id int, title string) TrailerLookup {
	path := fmt.Sprintf("/%s/%d/videos", kind, id)

	var response VideosResponse
	if err := c.get(ctx, path, nil, &response); err != nil {
		c.logger.WithError(err).Warn("Trailer lookup failed, falling back to external search")
		return TrailerLookup{FallbackURL: FallbackSearchURL(title)}
	}

	for _, video := range response.Results {
		if video.Type == "Trailer" && video.Site == "YouTube" {
			return TrailerLookup{VideoKey: video.Key}
		}
	}
	if len(response.Results) > 0 {
		return TrailerLookup{VideoKey: response.Results[0].Key}
	}

	return TrailerLookup{FallbackURL: FallbackSearchURL(title)}
}

// FallbackSearchURL builds the external video search URL used when no hosted
// trailer exists
func FallbackSearchURL(title string) string {
	query := url.Values{}
	query.Set("search_query", title+" trailer")
	return "https://www.youtube.com/results?" + query.Encode()
}
