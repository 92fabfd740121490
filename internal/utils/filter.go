package utils

import (
	"sort"
	"strings"

	"github.com/amaumene/cinesync/internal/models"
)

// SortKey selects the ordering applied by FilterMedia
type SortKey string

const (
	SortLatest     SortKey = "latest"
	SortOldest     SortKey = "oldest"
	SortRatingHigh SortKey = "rating-high"
	SortRatingLow  SortKey = "rating-low"
	SortTitleAsc   SortKey = "title-asc"
	SortTitleDesc  SortKey = "title-desc"
)

// FilterMedia returns a new slice holding the items whose title or genre
// name contains searchText (case-insensitive), ordered by sortKey. Empty
// search text passes every item through. The input is never mutated and
// equal elements keep their relative order.
//
// Missing dates sort as the empty string (first ascending, last
// descending) and missing ratings as zero; that is defined behavior, not
// an error.
func FilterMedia(items []models.MediaSummary, searchText string, sortKey SortKey) []models.MediaSummary {
	out := make([]models.MediaSummary, 0, len(items))

	needle := strings.ToLower(strings.TrimSpace(searchText))
	for _, item := range items {
		if needle == "" || matches(item, needle) {
			out = append(out, item)
		}
	}

	sortMedia(out, sortKey)
	return out
}

func matches(item models.MediaSummary, needle string) bool {
	if strings.Contains(strings.ToLower(item.Title), needle) {
		return true
	}
	for _, genre := range item.Genres {
		if strings.Contains(strings.ToLower(genre), needle) {
			return true
		}
	}
	return false
}

func sortMedia(items []models.MediaSummary, sortKey SortKey) {
	var less func(a, b models.MediaSummary) bool

	switch sortKey {
	case SortLatest:
		// ISO date strings compare lexicographically
		less = func(a, b models.MediaSummary) bool { return a.ReleaseDate > b.ReleaseDate }
	case SortOldest:
		less = func(a, b models.MediaSummary) bool { return a.ReleaseDate < b.ReleaseDate }
	case SortRatingHigh:
		less = func(a, b models.MediaSummary) bool { return a.Rating > b.Rating }
	case SortRatingLow:
		less = func(a, b models.MediaSummary) bool { return a.Rating < b.Rating }
	case SortTitleAsc:
		less = func(a, b models.MediaSummary) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case SortTitleDesc:
		less = func(a, b models.MediaSummary) bool {
			return strings.ToLower(a.Title) > strings.ToLower(b.Title)
		}
	default:
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}
