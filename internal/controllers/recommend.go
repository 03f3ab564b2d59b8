package controllers

import (
	"sort"

	"github.com/streamflix/streamflix/internal/models"
)

const (
	maxRecommendations = 20
	topGenreCount      = 3
)

// BuildCandidatePool forms the deduplicated union of the given lists,
// preserving order of first appearance
func BuildCandidatePool(lists ...[]models.MediaItem) []models.MediaItem {
	seen := make(map[int]bool)
	var pool []models.MediaItem
	for _, list := range lists {
		for _, item := range list {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			pool = append(pool, item)
		}
	}
	return pool
}

// Recommend ranks the candidate pool by genre affinity with the watch
// history. With no history the first items of the pool are returned as a
// cold-start fallback. The output preserves pool order, never exceeds 20
// items and never contains duplicate ids.
func Recommend(history []models.WatchHistoryEntry, pool []models.MediaItem) []models.MediaItem {
	pool = dedupByID(pool)

	if len(history) == 0 {
		if len(pool) > maxRecommendations {
			return pool[:maxRecommendations]
		}
		return pool
	}

	top := topGenres(history)

	var matched []models.MediaItem
	for _, item := range pool {
		if item.HasAnyGenre(top) {
			matched = append(matched, item)
			if len(matched) == maxRecommendations {
				break
			}
		}
	}
	return matched
}

// topGenres counts genre occurrences across the history (an item with three
// genres contributes to three counters) and returns the three most frequent
// ids. Ties keep the order genres were first encountered scanning the
// history front to back.
func topGenres(history []models.WatchHistoryEntry) []int {
	counts := make(map[int]int)
	var order []int
	for _, entry := range history {
		for _, genreID := range entry.Item.AllGenreIDs() {
			if _, ok := counts[genreID]; !ok {
				order = append(order, genreID)
			}
			counts[genreID]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topGenreCount {
		order = order[:topGenreCount]
	}
	return order
}

func dedupByID(items []models.MediaItem) []models.MediaItem {
	seen := make(map[int]bool, len(items))
	out := items[:0:0]
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		out = append(out, item)
	}
	return out
}
