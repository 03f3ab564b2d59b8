package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/streamflix/streamflix/internal/controllers"
	"github.com/streamflix/streamflix/internal/models"
)

// SessionHandler exposes the profile mutation operations
type SessionHandler struct {
	sessionCtrl *controllers.SessionController
	logger      *logrus.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionCtrl *controllers.SessionController, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		sessionCtrl: sessionCtrl,
		logger:      logger,
	}
}

// Profile handles GET /api/session
func (h *SessionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.sessionCtrl.Profile()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load profile")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if profile == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"signed_in": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"signed_in":  true,
		"profile":    profile,
		"plan":       models.PlanFor(profile.Tier),
		"can_stream": models.CanStream(profile.Tier),
	})
}

// SignIn handles POST /api/session/signin
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Email) == "" {
		http.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	profile, err := h.sessionCtrl.SignIn(strings.TrimSpace(body.Name), strings.TrimSpace(body.Email))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// SignOut handles POST /api/session/signout
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionCtrl.SignOut(); err != nil {
		writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleWatchlist handles POST /api/session/watchlist with an item body.
// Adding an item already in the list removes it (idempotent toggle).
func (h *SessionHandler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decodeItem(w, r)
	if !ok {
		return
	}
	profile, err := h.sessionCtrl.ToggleWatchlist(item)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile.Watchlist)
}

// RemoveFromWatchlist handles DELETE /api/session/watchlist/{id}
func (h *SessionHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	profile, err := h.sessionCtrl.RemoveFromWatchlist(id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile.Watchlist)
}

// AddDownload handles POST /api/session/downloads with an item body
func (h *SessionHandler) AddDownload(w http.ResponseWriter, r *http.Request) {
	item, ok := h.decodeItem(w, r)
	if !ok {
		return
	}
	profile, err := h.sessionCtrl.AddDownload(item)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"downloads":      profile.Downloads,
		"downloads_used": profile.DownloadsUsed,
	})
}

// RemoveDownload handles DELETE /api/session/downloads/{id}
func (h *SessionHandler) RemoveDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	profile, err := h.sessionCtrl.RemoveDownload(id)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"downloads":      profile.Downloads,
		"downloads_used": profile.DownloadsUsed,
	})
}

// RecordWatch handles POST /api/session/history
func (h *SessionHandler) RecordWatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Item     models.MediaItem `json:"item"`
		Progress float64          `json:"progress"`
	}
	if err := decodeBody(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Item.ID <= 0 {
		http.Error(w, "item id is required", http.StatusBadRequest)
		return
	}

	profile, err := h.sessionCtrl.RecordWatch(body.Item, body.Progress)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile.WatchHistory)
}

// SetRating handles PUT /api/session/ratings/{id}
func (h *SessionHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Rating int `json:"rating"`
	}
	if err := decodeBody(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.sessionCtrl.SetRating(id, body.Rating)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile.Ratings)
}

// SetTier handles POST /api/session/subscription
func (h *SessionHandler) SetTier(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Tier models.Tier `json:"tier"`
	}
	if err := decodeBody(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.sessionCtrl.SetTier(body.Tier)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tier": profile.Tier,
		"plan": models.PlanFor(profile.Tier),
	})
}

// Theme handles GET and PUT /api/session/theme
func (h *SessionHandler) Theme(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPut {
		var body struct {
			DarkTheme bool `json:"dark_theme"`
		}
		if err := decodeBody(r, &body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := h.sessionCtrl.SetDarkTheme(body.DarkTheme); err != nil {
			writeSessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"dark_theme": body.DarkTheme})
		return
	}

	dark, err := h.sessionCtrl.DarkTheme()
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"dark_theme": dark})
}

func (h *SessionHandler) decodeItem(w http.ResponseWriter, r *http.Request) (models.MediaItem, bool) {
	var item models.MediaItem
	if err := decodeBody(r, &item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return models.MediaItem{}, false
	}
	if item.ID <= 0 {
		http.Error(w, "item id is required", http.StatusBadRequest)
		return models.MediaItem{}, false
	}
	return item, true
}

func (h *SessionHandler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		http.Error(w, "invalid media id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}
