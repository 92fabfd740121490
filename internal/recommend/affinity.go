package recommend

import "sort"

// Affinity is a derived, transient weighting of genre ids computed from a
// user's list history. It drives recommendations and is never persisted.
type Affinity map[int]int

// Add accumulates weight for each genre id.
func (a Affinity) Add(genreIDs []int, weight int) {
	for _, id := range genreIDs {
		a[id] += weight
	}
}

// Top returns up to n genre ids ordered by accumulated weight descending,
// ties broken by genre id ascending for determinism.
func (a Affinity) Top(n int) []int {
	ids := make([]int, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if a[ids[i]] != a[ids[j]] {
			return a[ids[i]] > a[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
