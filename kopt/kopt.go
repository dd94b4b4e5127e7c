package kopt

import (
	"errors"
	"time"

	"github.com/katalvlaran/lktsp/datastore"
	"github.com/katalvlaran/lktsp/tour"
)

// Options configures the local-search driver.
type Options struct {
	// MaxTrials caps the number of accepted improving moves. Zero means
	// unlimited (run to a local optimum or the time limit).
	MaxTrials int

	// KOptWidth selects the candidate-neighbor-list width consulted per
	// city: 2, 3, or 5 nearest neighbors. Wider lists examine more
	// candidate moves per city at proportionally higher cost per pass.
	KOptWidth int

	// TimeLimit optionally bounds wall-clock time. Zero means no limit.
	TimeLimit time.Duration

	// Eps is the minimal strictly-improving delta accepted as a move.
	Eps float64

	// Seed controls the deterministic RNG used when ShuffleNeighborhood
	// is true.
	Seed int64

	// ShuffleNeighborhood, if true, shuffles the city scan order once,
	// before the first pass, and every pass uses that order; if false,
	// cities are scanned in ascending id order.
	ShuffleNeighborhood bool
}

// DefaultOptions returns conservative, deterministic defaults: unlimited
// trials, 2-opt only, no time limit, canonical (unshuffled) scan order.
func DefaultOptions() Options {
	return Options{
		MaxTrials:           0,
		KOptWidth:           2,
		TimeLimit:           0,
		Eps:                 1e-9,
		Seed:                0,
		ShuffleNeighborhood: false,
	}
}

// Improve runs deterministic first-improvement 2-opt local search on tr,
// using ds's candidate shortlists (built here with width KOptWidth
// neighbors if not already present) to bound the per-city search to O(k)
// instead of O(n). Returns the tour's total distance after the search.
//
// Complexity per accepted move: O(sqrt(n)) (the cost of tr.Flip on
// TwoLevelList); O(n) candidate scans per pass in the worst case.
func Improve(tr tour.Tour, ds *datastore.DataStore, opts Options) (float64, error) {
	if opts.KOptWidth != 2 && opts.KOptWidth != 3 && opts.KOptWidth != 5 {
		return 0, ErrUnsupportedWidth
	}
	n := tr.Len()
	if n < 4 {
		return tr.TotalDistance(), nil
	}

	width := opts.KOptWidth
	if width > n-1 {
		width = n - 1
	}
	if _, err := ds.CandidatesOf(0); errors.Is(err, datastore.ErrCandidatesNotBuilt) {
		if err := ds.Candidates(width); err != nil {
			return 0, err
		}
	}

	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	if opts.ShuffleNeighborhood {
		shuffleIntsInPlace(ids, rngFromSeed(opts.Seed))
	}

	eps := opts.Eps
	if eps < 0 {
		eps = 0
	}

	var (
		useDeadline bool
		deadline    time.Time
		step        int
	)
	if opts.TimeLimit > 0 {
		useDeadline = true
		deadline = time.Now().Add(opts.TimeLimit)
	}
	checkDeadline := func() bool {
		step++
		if !useDeadline || (step&255) != 0 {
			return false
		}
		return time.Now().After(deadline)
	}

	trials := 0
	for {
		improved := false
		for _, aID := range ids {
			moved, err := tryImproveFrom(tr, ds, aID, eps, width)
			if err != nil {
				return 0, err
			}
			if moved {
				trials++
				improved = true
				if opts.MaxTrials > 0 && trials >= opts.MaxTrials {
					return tr.TotalDistance(), nil
				}
			}
			if checkDeadline() {
				return 0, ErrTimeLimit
			}
		}
		if !improved {
			break
		}
	}
	return tr.TotalDistance(), nil
}

// tryImproveFrom scans aID's candidate neighbors for a strictly-improving
// 2-opt move (a,b)+(c,d) -> (a,c)+(b,d), applies the first one found, and
// reports whether a move was made. The scan is capped at width candidates
// even if ds's precomputed shortlist is longer — the shortlist may have
// been built wider by a caller sharing it with greedy construction, and
// Options.KOptWidth must still bound what k-opt itself consults per city.
func tryImproveFrom(tr tour.Tour, ds *datastore.DataStore, aID int, eps float64, width int) (bool, error) {
	av, ok := tr.Get(aID)
	if !ok {
		return false, nil
	}
	bv, ok := tr.Successor(av)
	if !ok {
		return false, nil
	}
	bID := bv.ID()

	cands, err := ds.CandidatesOf(aID)
	if err != nil {
		return false, err
	}
	if len(cands) > width {
		cands = cands[:width]
	}

	for _, cID := range cands {
		if cID == aID || cID == bID {
			continue
		}
		cv, ok := tr.Get(cID)
		if !ok {
			continue
		}
		dv, ok := tr.Successor(cv)
		if !ok {
			continue
		}
		dID := dv.ID()
		if dID == aID || dID == bID {
			continue
		}

		oldAB, err := ds.Distance(aID, bID)
		if err != nil {
			return false, err
		}
		oldCD, err := ds.Distance(cID, dID)
		if err != nil {
			return false, err
		}
		newAC, err := ds.Distance(aID, cID)
		if err != nil {
			return false, err
		}
		newBD, err := ds.Distance(bID, dID)
		if err != nil {
			return false, err
		}

		delta := (newAC + newBD) - (oldAB + oldCD)
		if delta < -eps {
			if err := tr.Flip(aID, bID, cID, dID); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}
