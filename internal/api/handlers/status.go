package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/streamflix/streamflix/internal/controllers"
	"github.com/streamflix/streamflix/internal/models"
	"github.com/streamflix/streamflix/internal/services/tmdb"
)

// StatusHandler handles status requests
type StatusHandler struct {
	sessionCtrl *controllers.SessionController
	tmdbClient  *tmdb.Client
	logger      *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(sessionCtrl *controllers.SessionController, tmdbClient *tmdb.Client, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		sessionCtrl: sessionCtrl,
		tmdbClient:  tmdbClient,
		logger:      logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	SignedIn         bool        `json:"signed_in"`
	Tier             models.Tier `json:"tier,omitempty"`
	WatchlistCount   int         `json:"watchlist_count"`
	DownloadsUsed    int         `json:"downloads_used"`
	DownloadQuota    int         `json:"download_quota"`
	WatchHistory     int         `json:"watch_history_count"`
	RatingsCount     int         `json:"ratings_count"`
	WatchTimeMinutes int         `json:"watch_time_minutes"`
	CachedResponses  int         `json:"cached_responses"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	profile, err := h.sessionCtrl.Profile()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get profile")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		CachedResponses: h.tmdbClient.CacheItemCount(),
	}
	if profile != nil {
		response.SignedIn = true
		response.Tier = profile.Tier
		response.WatchlistCount = len(profile.Watchlist)
		response.DownloadsUsed = profile.DownloadsUsed
		response.DownloadQuota = models.PlanFor(profile.Tier).DownloadQuota
		response.WatchHistory = len(profile.WatchHistory)
		response.RatingsCount = len(profile.Ratings)
		response.WatchTimeMinutes = profile.WatchTimeMinutes
	}

	writeJSON(w, http.StatusOK, response)
}
