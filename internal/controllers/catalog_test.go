package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/streamflix/streamflix/internal/config"
	"github.com/streamflix/streamflix/internal/models"
	"github.com/streamflix/streamflix/internal/services/tmdb"
)

// fakeTMDB serves canned list responses; paths listed in fail return 500.
// Each endpoint gets a distinct id range so rows can be told apart.
func fakeTMDB(t *testing.T, fail map[string]bool) *httptest.Server {
	t.Helper()

	baseIDs := map[string]int{
		"/trending/all/week": 100,
		"/movie/popular":     200,
		"/movie/top_rated":   300,
		"/movie/upcoming":    400,
		"/tv/popular":        500,
		"/discover/movie":    600,
		"/search/multi":      700,
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") == "" {
			t.Errorf("Expected api_key on request to %s", r.URL.Path)
		}
		if fail[r.URL.Path] {
			http.Error(w, "upstream unavailable", http.StatusInternalServerError)
			return
		}

		base, ok := baseIDs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if genres := r.URL.Query().Get("with_genres"); genres != "" {
			genreID, _ := strconv.Atoi(genres)
			base += genreID
		}

		var results []models.MediaItem
		for i := 0; i < 3; i++ {
			results = append(results, models.MediaItem{
				ID:       base + i,
				Title:    "Item " + strconv.Itoa(base+i),
				GenreIDs: []int{28},
			})
		}
		json.NewEncoder(w).Encode(tmdb.ListResponse{Page: 1, Results: results, TotalResults: len(results)})
	}))
}

func newTestCatalog(t *testing.T, serverURL string) (*CatalogController, *SessionController) {
	t.Helper()

	sessionCtrl, _ := newTestSession(t)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client := tmdb.NewClient(&config.Config{
		TMDBAPIKey:  "test-key",
		TMDBBaseURL: serverURL,
		CacheTTL:    time.Minute,
	}, logger)

	return NewCatalogController(client, sessionCtrl, logger), sessionCtrl
}

var anonymousRowOrder = []string{
	"Trending Now",
	"Popular Movies",
	"Top Rated",
	"Popular TV Shows",
	"Action Movies",
	"Comedy Movies",
	"Horror Movies",
	"Romance Movies",
	"Sci-Fi Movies",
	"Documentaries",
	"Coming Soon",
}

func TestLoadHomeAnonymous(t *testing.T) {
	server := fakeTMDB(t, nil)
	defer server.Close()

	catalogCtrl, _ := newTestCatalog(t, server.URL)

	page, err := catalogCtrl.LoadHome(context.Background())
	if err != nil {
		t.Fatalf("LoadHome failed: %v", err)
	}

	if len(page.Categories) != len(anonymousRowOrder) {
		t.Fatalf("Expected %d categories, got %d", len(anonymousRowOrder), len(page.Categories))
	}
	for i, want := range anonymousRowOrder {
		if page.Categories[i].Title != want {
			t.Errorf("Expected category %q at index %d, got %q", want, i, page.Categories[i].Title)
		}
	}
	for _, category := range page.Categories {
		if category.Title == "Recommended For You" {
			t.Error("Recommended row must not appear for anonymous users")
		}
	}

	// Trending Now carries the endpoint's results verbatim
	trending := page.Categories[0]
	if len(trending.Items) != 3 || trending.Items[0].ID != 100 {
		t.Errorf("Expected trending results verbatim, got %+v", trending.Items)
	}

	if page.Featured == nil {
		t.Fatal("Expected a featured item from trending")
	}
	if page.Featured.ID < 100 || page.Featured.ID > 102 {
		t.Errorf("Expected featured item from trending window, got id %d", page.Featured.ID)
	}
}

func TestLoadHomeIsolatedEndpointFailure(t *testing.T) {
	server := fakeTMDB(t, map[string]bool{"/movie/top_rated": true})
	defer server.Close()

	catalogCtrl, _ := newTestCatalog(t, server.URL)

	page, err := catalogCtrl.LoadHome(context.Background())
	if err != nil {
		t.Fatalf("LoadHome failed: %v", err)
	}

	for _, category := range page.Categories {
		if category.Title == "Top Rated" {
			if len(category.Items) != 0 {
				t.Errorf("Expected empty Top Rated row, got %d items", len(category.Items))
			}
			continue
		}
		if len(category.Items) == 0 {
			t.Errorf("Expected row %q to be populated despite top_rated failure", category.Title)
		}
	}
}

func TestLoadHomeSignedInGetsRecommendedRow(t *testing.T) {
	server := fakeTMDB(t, nil)
	defer server.Close()

	catalogCtrl, sessionCtrl := newTestCatalog(t, server.URL)
	if _, err := sessionCtrl.SignIn("Test User", "test@example.com"); err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}

	page, err := catalogCtrl.LoadHome(context.Background())
	if err != nil {
		t.Fatalf("LoadHome failed: %v", err)
	}

	if len(page.Categories) != len(anonymousRowOrder)+1 {
		t.Fatalf("Expected %d categories, got %d", len(anonymousRowOrder)+1, len(page.Categories))
	}
	if page.Categories[4].Title != "Recommended For You" {
		t.Fatalf("Expected Recommended For You after the TV rail, got %q", page.Categories[4].Title)
	}

	// Empty history: cold-start fallback from the candidate pool (trending
	// first), order preserved
	recommended := page.Categories[4].Items
	if len(recommended) == 0 {
		t.Fatal("Expected cold-start recommendations")
	}
	if recommended[0].ID != 100 {
		t.Errorf("Expected pool order preserved, got first id %d", recommended[0].ID)
	}
}

func TestLoadHomeRecommendationsFollowHistory(t *testing.T) {
	server := fakeTMDB(t, nil)
	defer server.Close()

	catalogCtrl, sessionCtrl := newTestCatalog(t, server.URL)
	sessionCtrl.SignIn("Test User", "test@example.com")

	// All pool items carry genre 28, so any history with genre 28 matches all
	if _, err := sessionCtrl.RecordWatch(models.MediaItem{ID: 999, GenreIDs: []int{28}}, 50); err != nil {
		t.Fatalf("Failed to record watch: %v", err)
	}

	page, err := catalogCtrl.LoadHome(context.Background())
	if err != nil {
		t.Fatalf("LoadHome failed: %v", err)
	}

	recommended := page.Categories[4].Items
	if len(recommended) == 0 {
		t.Fatal("Expected genre-matched recommendations")
	}
	for _, item := range recommended {
		if !item.HasAnyGenre([]int{28}) {
			t.Errorf("Item %d does not match the history genre", item.ID)
		}
	}
}

func TestContinueWatchingFiltersProgress(t *testing.T) {
	history := []models.WatchHistoryEntry{
		{Item: models.MediaItem{ID: 1}, Progress: 5},  // barely started, excluded
		{Item: models.MediaItem{ID: 2}, Progress: 50}, // kept
		{Item: models.MediaItem{ID: 3}, Progress: 95}, // effectively finished, excluded
		{Item: models.MediaItem{ID: 4}, Progress: 11}, // kept
	}

	got := continueWatching(history)
	if len(got) != 2 {
		t.Fatalf("Expected 2 continue-watching entries, got %d", len(got))
	}
	if got[0].Item.ID != 2 || got[1].Item.ID != 4 {
		t.Errorf("Expected ids [2 4] in history order, got [%d %d]", got[0].Item.ID, got[1].Item.ID)
	}
}

func TestSearchRecordsHistoryWhenSignedIn(t *testing.T) {
	server := fakeTMDB(t, nil)
	defer server.Close()

	catalogCtrl, sessionCtrl := newTestCatalog(t, server.URL)

	// Anonymous search works and records nothing
	results, err := catalogCtrl.Search(context.Background(), "batman")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected search results")
	}

	sessionCtrl.SignIn("Test User", "test@example.com")
	if _, err := catalogCtrl.Search(context.Background(), "superman"); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	profile, _ := sessionCtrl.Profile()
	if len(profile.SearchHistory) != 1 || profile.SearchHistory[0].Query != "superman" {
		t.Fatalf("Expected recorded search history, got %+v", profile.SearchHistory)
	}
}

func TestItemDetailsDegradesToPartial(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	catalogCtrl, _ := newTestCatalog(t, server.URL)

	partial := models.MediaItem{ID: 42, Title: "Known Title", MediaType: "movie"}
	got := catalogCtrl.ItemDetails(context.Background(), partial)
	if got.ID != 42 || got.Title != "Known Title" {
		t.Fatalf("Expected the partial item back, got %+v", got)
	}
}
