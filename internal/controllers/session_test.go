package controllers

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/streamflix/streamflix/internal/models"
)

func newTestSession(t *testing.T) (*SessionController, *models.Database) {
	t.Helper()

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "streamflix.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewSessionController(db, logger), db
}

func signIn(t *testing.T, ctrl *SessionController) *models.UserProfile {
	t.Helper()
	profile, err := ctrl.SignIn("Test User", "test@example.com")
	if err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	return profile
}

func TestSignInCreatesFreeProfile(t *testing.T) {
	ctrl, _ := newTestSession(t)

	profile := signIn(t, ctrl)
	if profile.Tier != models.TierFree {
		t.Errorf("Expected FREE tier, got %s", profile.Tier)
	}
	if profile.ID == "" {
		t.Error("Expected a generated profile id")
	}

	loaded, err := ctrl.Profile()
	if err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	if loaded == nil || loaded.ID != profile.ID {
		t.Fatalf("Expected persisted profile %q, got %+v", profile.ID, loaded)
	}
}

func TestSignOutRemovesDurableRecord(t *testing.T) {
	ctrl, db := newTestSession(t)
	signIn(t, ctrl)

	if err := ctrl.SignOut(); err != nil {
		t.Fatalf("Failed to sign out: %v", err)
	}

	loaded, err := db.GetProfile()
	if err != nil {
		t.Fatalf("Failed to read profile: %v", err)
	}
	if loaded != nil {
		t.Fatalf("Expected no profile after sign out, got %+v", loaded)
	}

	if _, err := ctrl.SetRating(1, 3); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("Expected ErrNotSignedIn after sign out, got %v", err)
	}
}

func TestWatchlistToggle(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)

	item := models.MediaItem{ID: 42, Title: "Some Movie"}

	profile, err := ctrl.ToggleWatchlist(item)
	if err != nil {
		t.Fatalf("Failed to add watchlist item: %v", err)
	}
	if len(profile.Watchlist) != 1 {
		t.Fatalf("Expected 1 watchlist entry, got %d", len(profile.Watchlist))
	}
	if profile.Watchlist[0].AddedAt.IsZero() {
		t.Error("Expected AddedAt to be set")
	}

	// Toggling the same id removes it
	profile, err = ctrl.ToggleWatchlist(item)
	if err != nil {
		t.Fatalf("Failed to toggle watchlist item: %v", err)
	}
	if len(profile.Watchlist) != 0 {
		t.Fatalf("Expected empty watchlist after toggle, got %d entries", len(profile.Watchlist))
	}
}

func TestAddDownloadFreeTierRequiresUpgrade(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)

	_, err := ctrl.AddDownload(models.MediaItem{ID: 1})
	if !errors.Is(err, ErrUpgradeRequired) {
		t.Fatalf("Expected ErrUpgradeRequired on FREE tier, got %v", err)
	}
}

func TestAddDownloadEnforcesQuota(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)
	if _, err := ctrl.SetTier(models.TierPremium); err != nil {
		t.Fatalf("Failed to upgrade tier: %v", err)
	}

	quota := models.PlanFor(models.TierPremium).DownloadQuota
	for i := 1; i <= quota; i++ {
		profile, err := ctrl.AddDownload(models.MediaItem{ID: i})
		if err != nil {
			t.Fatalf("Download %d failed: %v", i, err)
		}
		if profile.DownloadsUsed != i {
			t.Fatalf("Expected downloadsUsed %d, got %d", i, profile.DownloadsUsed)
		}
	}

	// Quota reached: state must be unchanged
	_, err := ctrl.AddDownload(models.MediaItem{ID: quota + 1})
	if !errors.Is(err, ErrDownloadQuotaReached) {
		t.Fatalf("Expected ErrDownloadQuotaReached, got %v", err)
	}
	profile, _ := ctrl.Profile()
	if profile.DownloadsUsed != quota || len(profile.Downloads) != quota {
		t.Errorf("Expected state unchanged at quota, got used=%d entries=%d", profile.DownloadsUsed, len(profile.Downloads))
	}
}

func TestAddDownloadRejectsDuplicate(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)
	ctrl.SetTier(models.TierPremium)

	if _, err := ctrl.AddDownload(models.MediaItem{ID: 7}); err != nil {
		t.Fatalf("First download failed: %v", err)
	}
	if _, err := ctrl.AddDownload(models.MediaItem{ID: 7}); !errors.Is(err, ErrAlreadyDownloaded) {
		t.Fatalf("Expected ErrAlreadyDownloaded, got %v", err)
	}
}

func TestDownloadQualityFollowsPlan(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)
	ctrl.SetTier(models.TierPro)

	profile, err := ctrl.AddDownload(models.MediaItem{ID: 9})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	want := models.PlanFor(models.TierPro).DownloadQuality
	if profile.Downloads[0].Quality != want {
		t.Errorf("Expected quality %q, got %q", want, profile.Downloads[0].Quality)
	}
}

func TestRemoveDownloadFreesQuotaSlot(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)
	ctrl.SetTier(models.TierPremium)
	ctrl.AddDownload(models.MediaItem{ID: 1})
	ctrl.AddDownload(models.MediaItem{ID: 2})

	profile, err := ctrl.RemoveDownload(1)
	if err != nil {
		t.Fatalf("Failed to remove download: %v", err)
	}
	if profile.DownloadsUsed != 1 || len(profile.Downloads) != 1 {
		t.Fatalf("Expected 1 download left, got used=%d entries=%d", profile.DownloadsUsed, len(profile.Downloads))
	}

	// Removing an absent id changes nothing
	profile, err = ctrl.RemoveDownload(99)
	if err != nil {
		t.Fatalf("Remove of absent id failed: %v", err)
	}
	if profile.DownloadsUsed != 1 {
		t.Errorf("Expected downloadsUsed unchanged, got %d", profile.DownloadsUsed)
	}
}

func TestRecordWatchMovesToFrontAndCaps(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)

	for i := 1; i <= models.MaxWatchHistory+5; i++ {
		if _, err := ctrl.RecordWatch(models.MediaItem{ID: i}, 50); err != nil {
			t.Fatalf("Failed to record watch %d: %v", i, err)
		}
	}

	profile, _ := ctrl.Profile()
	if len(profile.WatchHistory) != models.MaxWatchHistory {
		t.Fatalf("Expected history capped at %d, got %d", models.MaxWatchHistory, len(profile.WatchHistory))
	}

	// Re-watching an existing item moves it to front without duplicating
	profile, err := ctrl.RecordWatch(models.MediaItem{ID: 30}, 75)
	if err != nil {
		t.Fatalf("Failed to re-record watch: %v", err)
	}
	if profile.WatchHistory[0].Item.ID != 30 {
		t.Errorf("Expected id 30 at front, got %d", profile.WatchHistory[0].Item.ID)
	}
	count := 0
	for _, entry := range profile.WatchHistory {
		if entry.Item.ID == 30 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected exactly one entry for id 30, got %d", count)
	}
	if len(profile.WatchHistory) != models.MaxWatchHistory {
		t.Errorf("Expected history still capped, got %d", len(profile.WatchHistory))
	}
}

func TestRecordWatchCreditsWatchTime(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)

	ctrl.RecordWatch(models.MediaItem{ID: 1}, 0)
	profile, _ := ctrl.RecordWatch(models.MediaItem{ID: 2}, 0)
	if profile.WatchTimeMinutes != 2*watchTimeIncrementMinutes {
		t.Errorf("Expected %d watch minutes, got %d", 2*watchTimeIncrementMinutes, profile.WatchTimeMinutes)
	}
}

func TestSetRatingOverwrites(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)

	if _, err := ctrl.SetRating(42, 4); err != nil {
		t.Fatalf("Failed to set rating: %v", err)
	}
	profile, err := ctrl.SetRating(42, 2)
	if err != nil {
		t.Fatalf("Failed to overwrite rating: %v", err)
	}
	if profile.Ratings[42] != 2 {
		t.Errorf("Expected rating 2 after overwrite, got %d", profile.Ratings[42])
	}

	if _, err := ctrl.SetRating(42, 0); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("Expected ErrInvalidRating for 0 stars, got %v", err)
	}
	if _, err := ctrl.SetRating(42, 6); !errors.Is(err, ErrInvalidRating) {
		t.Errorf("Expected ErrInvalidRating for 6 stars, got %v", err)
	}
}

func TestRecordSearchBounded(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)

	queries := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	for _, q := range queries {
		if _, err := ctrl.RecordSearch(q); err != nil {
			t.Fatalf("Failed to record search %q: %v", q, err)
		}
	}

	profile, _ := ctrl.Profile()
	if len(profile.SearchHistory) != models.MaxSearchHistory {
		t.Fatalf("Expected search history capped at %d, got %d", models.MaxSearchHistory, len(profile.SearchHistory))
	}
	if profile.SearchHistory[0].Query != "l" {
		t.Errorf("Expected newest query first, got %q", profile.SearchHistory[0].Query)
	}
}

func TestSetTierValidation(t *testing.T) {
	ctrl, _ := newTestSession(t)
	signIn(t, ctrl)

	if _, err := ctrl.SetTier("GOLD"); !errors.Is(err, ErrInvalidTier) {
		t.Errorf("Expected ErrInvalidTier, got %v", err)
	}
	profile, err := ctrl.SetTier(models.TierPro)
	if err != nil {
		t.Fatalf("Failed to set tier: %v", err)
	}
	if profile.Tier != models.TierPro {
		t.Errorf("Expected PRO tier, got %s", profile.Tier)
	}
}

func TestProfileSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "streamflix.db")

	db, err := models.NewDatabase(path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	ctrl := NewSessionController(db, logger)
	if _, err := ctrl.SignIn("Test User", "test@example.com"); err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	if _, err := ctrl.SetRating(42, 5); err != nil {
		t.Fatalf("Failed to rate: %v", err)
	}
	db.Close()

	reopened, err := models.NewDatabase(path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer reopened.Close()

	profile, err := reopened.GetProfile()
	if err != nil {
		t.Fatalf("Failed to load profile after reopen: %v", err)
	}
	if profile == nil || profile.Ratings[42] != 5 {
		t.Fatalf("Expected persisted rating after reopen, got %+v", profile)
	}
}

func TestThemeFlagIndependentOfProfile(t *testing.T) {
	ctrl, _ := newTestSession(t)

	// Theme works signed out
	if err := ctrl.SetDarkTheme(true); err != nil {
		t.Fatalf("Failed to set theme: %v", err)
	}
	dark, err := ctrl.DarkTheme()
	if err != nil {
		t.Fatalf("Failed to read theme: %v", err)
	}
	if !dark {
		t.Error("Expected dark theme to persist")
	}

	// Signing in and out leaves the flag alone
	signIn(t, ctrl)
	if err := ctrl.SignOut(); err != nil {
		t.Fatalf("Failed to sign out: %v", err)
	}
	dark, _ = ctrl.DarkTheme()
	if !dark {
		t.Error("Expected theme flag to survive sign out")
	}
}
