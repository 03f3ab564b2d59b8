package controllers

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/streamflix/streamflix/internal/models"
)

// Domain violations surfaced directly to the user, matched with errors.Is
// at the HTTP boundary
var (
	ErrNotSignedIn          = errors.New("not signed in")
	ErrUpgradeRequired      = errors.New("subscription upgrade required for downloads")
	ErrDownloadQuotaReached = errors.New("download limit reached")
	ErrAlreadyDownloaded    = errors.New("title already downloaded")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidTier          = errors.New("unknown subscription tier")
)

// Approximate minutes of watch time credited per trailer playback
const watchTimeIncrementMinutes = 3

// SessionController owns the current user profile. All mutations flow
// through its named operations; each one is immediately followed by a
// durable write of the full profile.
type SessionController struct {
	mu     sync.Mutex
	db     *models.Database
	logger *logrus.Logger
}

// NewSessionController creates a new session controller
func NewSessionController(db *models.Database, logger *logrus.Logger) *SessionController {
	return &SessionController{
		db:     db,
		logger: logger,
	}
}

// Profile returns the current profile, or nil when signed out
func (c *SessionController) Profile() (*models.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.GetProfile()
}

// SignIn creates the profile on the free tier, replacing any prior one
func (c *SessionController) SignIn(name, email string) (*models.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	profile := &models.UserProfile{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Tier:      models.TierFree,
		Ratings:   make(map[int]int),
		CreatedAt: time.Now(),
	}
	if err := c.db.SaveProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"profile_id": profile.ID,
		"email":      email,
	}).Info("User signed in")

	return profile, nil
}

// SignOut clears the profile and removes its durable record
func (c *SessionController) SignOut() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.db.DeleteProfile(); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	c.logger.Info("User signed out")
	return nil
}

// ToggleWatchlist adds the item when absent and removes it when present
func (c *SessionController) ToggleWatchlist(item models.MediaItem) (*models.UserProfile, error) {
	return c.mutate(func(p *models.UserProfile) error {
		if p.InWatchlist(item.ID) {
			p.Watchlist = removeWatchlistEntry(p.Watchlist, item.ID)
			return nil
		}
		entry := models.WatchlistEntry{Item: item, AddedAt: time.Now()}
		p.Watchlist = append([]models.WatchlistEntry{entry}, p.Watchlist...)
		return nil
	})
}

// RemoveFromWatchlist removes the item by id; absent ids are a no-op
func (c *SessionController) RemoveFromWatchlist(id int) (*models.UserProfile, error) {
	return c.mutate(func(p *models.UserProfile) error {
		p.Watchlist = removeWatchlistEntry(p.Watchlist, id)
		return nil
	})
}

// AddDownload records a download, enforcing the plan quota
func (c *SessionController) AddDownload(item models.MediaItem) (*models.UserProfile, error) {
	return c.mutate(func(p *models.UserProfile) error {
		plan := models.PlanFor(p.Tier)
		if !plan.CanDownload() {
			return ErrUpgradeRequired
		}
		if p.DownloadsUsed >= plan.DownloadQuota {
			return ErrDownloadQuotaReached
		}
		if p.IsDownloaded(item.ID) {
			return ErrAlreadyDownloaded
		}
		p.Downloads = append(p.Downloads, models.DownloadEntry{
			Item:         item,
			DownloadedAt: time.Now(),
			Quality:      plan.DownloadQuality,
		})
		p.DownloadsUsed++
		return nil
	})
}

// RemoveDownload deletes a downloaded item and frees its quota slot
func (c *SessionController) RemoveDownload(id int) (*models.UserProfile, error) {
	return c.mutate(func(p *models.UserProfile) error {
		for i, entry := range p.Downloads {
			if entry.Item.ID == id {
				p.Downloads = append(p.Downloads[:i], p.Downloads[i+1:]...)
				if p.DownloadsUsed > 0 {
					p.DownloadsUsed--
				}
				return nil
			}
		}
		return nil
	})
}

// RecordWatch moves the item to the front of the watch history without
// duplicating it, evicts beyond the cap and credits watch time
func (c *SessionController) RecordWatch(item models.MediaItem, progress float64) (*models.UserProfile, error) {
	return c.mutate(func(p *models.UserProfile) error {
		entry := models.WatchHistoryEntry{Item: item, Progress: progress, WatchedAt: time.Now()}

		kept := make([]models.WatchHistoryEntry, 0, len(p.WatchHistory)+1)
		kept = append(kept, entry)
		for _, existing := range p.WatchHistory {
			if existing.Item.ID == item.ID {
				continue
			}
			kept = append(kept, existing)
		}
		if len(kept) > models.MaxWatchHistory {
			kept = kept[:models.MaxWatchHistory]
		}
		p.WatchHistory = kept
		p.WatchTimeMinutes += watchTimeIncrementMinutes
		return nil
	})
}

// SetRating stores a 1-5 star rating, overwriting any prior rating
func (c *SessionController) SetRating(id, stars int) (*models.UserProfile, error) {
	return c.mutate(func(p *models.UserProfile) error {
		if stars < 1 || stars > 5 {
			return ErrInvalidRating
		}
		if p.Ratings == nil {
			p.Ratings = make(map[int]int)
		}
		p.Ratings[id] = stars
		return nil
	})
}

// RecordSearch appends a search query, newest first, bounded
func (c *SessionController) RecordSearch(query string) (*models.UserProfile, error) {
	query = strings.TrimSpace(query)
	return c.mutate(func(p *models.UserProfile) error {
		if query == "" {
			return nil
		}
		entry := models.SearchEntry{Query: query, At: time.Now()}
		p.SearchHistory = append([]models.SearchEntry{entry}, p.SearchHistory...)
		if len(p.SearchHistory) > models.MaxSearchHistory {
			p.SearchHistory = p.SearchHistory[:models.MaxSearchHistory]
		}
		return nil
	})
}

// SetTier overwrites the subscription tier. Downgrades are not modeled;
// whatever tier the upgrade flow selects simply replaces the current one.
func (c *SessionController) SetTier(tier models.Tier) (*models.UserProfile, error) {
	if !models.ValidTier(tier) {
		return nil, ErrInvalidTier
	}
	return c.mutate(func(p *models.UserProfile) error {
		p.Tier = tier
		return nil
	})
}

// DarkTheme returns the persisted theme flag
func (c *SessionController) DarkTheme() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefs, err := c.db.GetPreferences()
	if err != nil {
		return false, err
	}
	return prefs.DarkTheme, nil
}

// SetDarkTheme persists the theme flag; available signed in or out
func (c *SessionController) SetDarkTheme(dark bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefs, err := c.db.GetPreferences()
	if err != nil {
		return err
	}
	prefs.DarkTheme = dark
	return c.db.SavePreferences(prefs)
}

// mutate loads the profile, applies fn and persists the result. A failing
// fn leaves the durable state untouched.
func (c *SessionController) mutate(fn func(*models.UserProfile) error) (*models.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	profile, err := c.db.GetProfile()
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return nil, ErrNotSignedIn
	}
	if err := fn(profile); err != nil {
		return nil, err
	}
	if err := c.db.SaveProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}
	return profile, nil
}

func removeWatchlistEntry(entries []models.WatchlistEntry, id int) []models.WatchlistEntry {
	kept := entries[:0:0]
	for _, entry := range entries {
		if entry.Item.ID == id {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
