package controllers

import (
	"context"
	"errors"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"
	"github.com/streamflix/streamflix/internal/models"
	"github.com/streamflix/streamflix/internal/services/tmdb"
)

// Row indexes into the fetched lists; the candidate pool for
// recommendations reuses the first three.
const (
	rowTrending = iota
	rowPopular
	rowTopRated
	rowPopularTV
	rowAction
	rowComedy
	rowHorror
	rowRomance
	rowSciFi
	rowDocumentary
	rowUpcoming
	rowCount
)

const (
	featuredWindow          = 10
	continueWatchingLimit   = 10
	continueWatchingLowCut  = 10
	continueWatchingHighCut = 90
)

// CatalogController fetches the curated lists and assembles the home page
type CatalogController struct {
	tmdbClient  *tmdb.Client
	sessionCtrl *SessionController
	logger      *logrus.Logger
}

// NewCatalogController creates a new catalog controller
func NewCatalogController(tmdbClient *tmdb.Client, sessionCtrl *SessionController, logger *logrus.Logger) *CatalogController {
	return &CatalogController{
		tmdbClient:  tmdbClient,
		sessionCtrl: sessionCtrl,
		logger:      logger,
	}
}

type rowSpec struct {
	title      string
	showFilter bool
	fetch      func(ctx context.Context) ([]models.MediaItem, error)
}

func (c *CatalogController) rowSpecs() [rowCount]rowSpec {
	t := c.tmdbClient
	byGenre := func(genreID int) func(ctx context.Context) ([]models.MediaItem, error) {
		return func(ctx context.Context) ([]models.MediaItem, error) {
			return t.DiscoverMoviesByGenre(ctx, genreID)
		}
	}
	return [rowCount]rowSpec{
		rowTrending:    {title: "Trending Now", fetch: t.Trending},
		rowPopular:     {title: "Popular Movies", showFilter: true, fetch: t.PopularMovies},
		rowTopRated:    {title: "Top Rated", fetch: t.TopRatedMovies},
		rowPopularTV:   {title: "Popular TV Shows", fetch: t.PopularTV},
		rowAction:      {title: "Action Movies", showFilter: true, fetch: byGenre(models.GenreAction)},
		rowComedy:      {title: "Comedy Movies", fetch: byGenre(models.GenreComedy)},
		rowHorror:      {title: "Horror Movies", fetch: byGenre(models.GenreHorror)},
		rowRomance:     {title: "Romance Movies", fetch: byGenre(models.GenreRomance)},
		rowSciFi:       {title: "Sci-Fi Movies", fetch: byGenre(models.GenreSciFi)},
		rowDocumentary: {title: "Documentaries", fetch: byGenre(models.GenreDocumentary)},
		rowUpcoming:    {title: "Coming Soon", fetch: t.UpcomingMovies},
	}
}

// LoadHome fetches every curated list concurrently and assembles the home
// page. Each endpoint settles independently: a failed fetch contributes an
// empty row and never aborts the aggregation.
func (c *CatalogController) LoadHome(ctx context.Context) (*models.HomePage, error) {
	specs := c.rowSpecs()
	lists := fetchAll(ctx, c.logger, specs)

	profile, err := c.sessionCtrl.Profile()
	if err != nil {
		c.logger.WithError(err).Error("Failed to load profile, assembling anonymous page")
		profile = nil
	}

	page := &models.HomePage{
		Featured:   pickFeatured(lists[rowTrending]),
		Categories: c.assembleCategories(specs, lists, profile),
	}
	if profile != nil {
		page.ContinueWatching = continueWatching(profile.WatchHistory)
	}
	return page, nil
}

// fetchAll issues all list requests concurrently and joins on every outcome
func fetchAll(ctx context.Context, logger *logrus.Logger, specs [rowCount]rowSpec) [rowCount][]models.MediaItem {
	var lists [rowCount][]models.MediaItem

	p := pool.New().WithContext(ctx)
	for i := range specs {
		i := i
		spec := specs[i]
		p.Go(func(ctx context.Context) error {
			items, err := spec.fetch(ctx)
			if err != nil {
				logger.WithError(err).WithField("row", spec.title).Warn("Catalog fetch failed, row will be empty")
				return nil
			}
			lists[i] = items
			return nil
		})
	}
	// Workers never return errors; partial failure is per-row.
	_ = p.Wait()

	return lists
}

func (c *CatalogController) assembleCategories(specs [rowCount]rowSpec, lists [rowCount][]models.MediaItem, profile *models.UserProfile) []models.Category {
	categories := make([]models.Category, 0, rowCount+1)
	for i, spec := range specs {
		categories = append(categories, models.Category{
			Title:      spec.title,
			Items:      nonNil(lists[i]),
			ShowFilter: spec.showFilter,
		})

		// The personalized row sits after the TV rail, signed-in users only
		if i == rowPopularTV && profile != nil {
			candidates := BuildCandidatePool(lists[rowTrending], lists[rowPopular], lists[rowTopRated])
			categories = append(categories, models.Category{
				Title: "Recommended For You",
				Items: nonNil(Recommend(profile.WatchHistory, candidates)),
			})
		}
	}
	return categories
}

// pickFeatured selects a random hero item among the first trending results
func pickFeatured(trending []models.MediaItem) *models.MediaItem {
	if len(trending) == 0 {
		return nil
	}
	window := featuredWindow
	if len(trending) < window {
		window = len(trending)
	}
	item := trending[rand.Intn(window)]
	return &item
}

// continueWatching keeps partially-watched history entries, most recent first
func continueWatching(history []models.WatchHistoryEntry) []models.WatchHistoryEntry {
	var out []models.WatchHistoryEntry
	for _, entry := range history {
		if entry.Progress > continueWatchingLowCut && entry.Progress < continueWatchingHighCut {
			out = append(out, entry)
			if len(out) == continueWatchingLimit {
				break
			}
		}
	}
	return out
}

// Search queries the metadata API and records the query in the signed-in
// profile's search history. Anonymous searches are not recorded.
func (c *CatalogController) Search(ctx context.Context, query string) ([]models.MediaItem, error) {
	results, err := c.tmdbClient.SearchMulti(ctx, query)
	if err != nil {
		return nil, err
	}

	if _, err := c.sessionCtrl.RecordSearch(query); err != nil && !errors.Is(err, ErrNotSignedIn) {
		c.logger.WithError(err).Warn("Failed to record search history")
	}

	return nonNil(results), nil
}

// ItemDetails fetches the full record for the partial item in hand. A failed
// lookup degrades to the partial item rather than an error.
func (c *CatalogController) ItemDetails(ctx context.Context, partial models.MediaItem) models.MediaItem {
	detail, err := c.tmdbClient.Details(ctx, partial.Kind(), partial.ID)
	if err != nil {
		c.logger.WithError(err).WithField("media_id", partial.ID).Warn("Detail lookup failed, returning partial item")
		return partial
	}
	return partial.Merge(*detail)
}

// Trailer looks up a hosted trailer for the item. The result either names a
// video key or carries the external-search fallback command.
func (c *CatalogController) Trailer(ctx context.Context, item models.MediaItem) tmdb.TrailerLookup {
	return c.tmdbClient.FindTrailer(ctx, item.Kind(), item.ID, item.DisplayTitle())
}

func nonNil(items []models.MediaItem) []models.MediaItem {
	if items == nil {
		return []models.MediaItem{}
	}
	return items
}
