package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/streamflix/streamflix/internal/controllers"
	"github.com/streamflix/streamflix/internal/models"
	"github.com/streamflix/streamflix/internal/utils"
)

// CatalogHandler serves the home page, search and per-item lookups
type CatalogHandler struct {
	catalogCtrl *controllers.CatalogController
	sessionCtrl *controllers.SessionController
	logger      *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogCtrl *controllers.CatalogController, sessionCtrl *controllers.SessionController, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogCtrl: catalogCtrl,
		sessionCtrl: sessionCtrl,
		logger:      logger,
	}
}

// Home handles GET /api/home
func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.catalogCtrl.LoadHome(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load home page")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Search handles GET /api/search?q=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "query parameter q is required", http.StatusBadRequest)
		return
	}

	results, err := h.catalogCtrl.Search(r.Context(), query)
	if err != nil {
		// Search is best effort like every catalog fetch; an upstream
		// failure renders as an empty result set
		h.logger.WithError(err).Warn("Search failed, returning empty results")
		results = []models.MediaItem{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}

// Details handles GET /api/media/{mediaType}/{id}
func (h *CatalogHandler) Details(w http.ResponseWriter, r *http.Request) {
	partial, ok := h.pathItem(w, r)
	if !ok {
		return
	}

	item := h.catalogCtrl.ItemDetails(r.Context(), partial)

	// Render-ready artwork URLs; missing paths degrade to placeholders
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"item":         item,
		"poster_url":   utils.PosterURL(item.PosterPath),
		"backdrop_url": utils.BackdropURL(item.BackdropPath),
	})
}

// Trailer handles GET /api/media/{mediaType}/{id}/trailer. A successful
// lookup is recorded in the signed-in profile's watch history; the fallback
// search URL is returned to the caller to open, never followed server-side.
func (h *CatalogHandler) Trailer(w http.ResponseWriter, r *http.Request) {
	partial, ok := h.pathItem(w, r)
	if !ok {
		return
	}

	item := h.catalogCtrl.ItemDetails(r.Context(), partial)
	lookup := h.catalogCtrl.Trailer(r.Context(), item)

	if lookup.VideoKey != "" {
		if _, err := h.sessionCtrl.RecordWatch(item, 0); err != nil && !isNotSignedIn(err) {
			h.logger.WithError(err).Warn("Failed to record watch history")
		}
	}

	writeJSON(w, http.StatusOK, lookup)
}

func (h *CatalogHandler) pathItem(w http.ResponseWriter, r *http.Request) (models.MediaItem, bool) {
	vars := mux.Vars(r)

	mediaType := vars["mediaType"]
	if mediaType != string(models.MediaKindMovie) && mediaType != string(models.MediaKindTV) {
		http.Error(w, "media type must be movie or tv", http.StatusBadRequest)
		return models.MediaItem{}, false
	}

	id, err := strconv.Atoi(vars["id"])
	if err != nil || id <= 0 {
		http.Error(w, "invalid media id", http.StatusBadRequest)
		return models.MediaItem{}, false
	}

	return models.MediaItem{ID: id, MediaType: mediaType}, true
}
