package greedy

import (
	"errors"
	"math"

	"github.com/katalvlaran/lktsp/datastore"
	"github.com/katalvlaran/lktsp/tour"
)

// Build constructs a tour order with the nearest-neighbor heuristic,
// starting at start. Ties are broken by lowest city id. It does not
// require ds.Candidates to have been built — if it hasn't, every step
// falls back to a full scan — but building candidates first (with a
// reasonable k) makes each step O(k) instead of O(n).
//
// Complexity: O(n*k) with a built candidate list of width k, degrading to
// O(n^2) without one.
func Build(ds *datastore.DataStore, start int) (tour.TourOrder, error) {
	n := ds.Len()
	if n == 0 {
		return tour.TourOrder{}, ErrEmptyDataStore
	}
	if start < 0 || start >= n {
		return tour.TourOrder{}, ErrStartOutOfRange
	}

	visited := make([]bool, n)
	order := make([]int, 0, n)

	cur := start
	visited[cur] = true
	order = append(order, cur)

	for len(order) < n {
		next, err := nearestUnvisited(ds, cur, visited)
		if err != nil {
			return tour.TourOrder{}, err
		}
		visited[next] = true
		order = append(order, next)
		cur = next
	}

	return tour.NewTourOrder(order), nil
}

// nearestUnvisited returns the closest unvisited city to from. It tries
// the precomputed candidate shortlist (already sorted by distance, ties
// broken by ascending id) before falling back to a full scan.
func nearestUnvisited(ds *datastore.DataStore, from int, visited []bool) (int, error) {
	if cands, err := ds.CandidatesOf(from); err == nil {
		for _, c := range cands {
			if !visited[c] {
				return c, nil
			}
		}
	} else if !errors.Is(err, datastore.ErrCandidatesNotBuilt) {
		return -1, err
	}

	best := -1
	bestDist := math.Inf(1)
	for id := 0; id < ds.Len(); id++ {
		if visited[id] {
			continue
		}
		d, err := ds.Distance(from, id)
		if err != nil {
			return -1, err
		}
		if d < bestDist {
			bestDist = d
			best = id
		}
	}
	return best, nil
}
