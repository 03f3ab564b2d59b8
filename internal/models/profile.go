package models

import "time"

// Bounds on the profile's ordered collections
const (
	MaxWatchHistory  = 50
	MaxSearchHistory = 10
)

// WatchHistoryEntry is a media item snapshot with playback progress,
// kept most-recent-first
type WatchHistoryEntry struct {
	Item      MediaItem `json:"item"`
	Progress  float64   `json:"progress"` // percent, 0-100
	WatchedAt time.Time `json:"watched_at"`
}

// WatchlistEntry is a media item tagged with when it was saved
type WatchlistEntry struct {
	Item    MediaItem `json:"item"`
	AddedAt time.Time `json:"added_at"`
}

// DownloadEntry is a downloaded media item tagged with timestamp and the
// quality granted by the plan at download time
type DownloadEntry struct {
	Item         MediaItem `json:"item"`
	DownloadedAt time.Time `json:"downloaded_at"`
	Quality      string    `json:"quality"`
}

// SearchEntry is one recorded search query, kept newest-first
type SearchEntry struct {
	Query string    `json:"query"`
	At    time.Time `json:"at"`
}

// UserProfile holds all per-user session state. It is persisted as a single
// blob after every mutation; the session controller is its only writer.
type UserProfile struct {
	ID    string
	Name  string
	Email string
	Tier  Tier

	DownloadsUsed    int
	WatchTimeMinutes int

	WatchHistory  []WatchHistoryEntry
	Watchlist     []WatchlistEntry
	Downloads     []DownloadEntry
	Ratings       map[int]int // media id -> stars (1-5)
	SearchHistory []SearchEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InWatchlist reports whether the given media id is saved
func (p *UserProfile) InWatchlist(id int) bool {
	for _, e := range p.Watchlist {
		if e.Item.ID == id {
			return true
		}
	}
	return false
}

// IsDownloaded reports whether the given media id has been downloaded
func (p *UserProfile) IsDownloaded(id int) bool {
	for _, e := range p.Downloads {
		if e.Item.ID == id {
			return true
		}
	}
	return false
}
