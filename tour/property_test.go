package tour_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lktsp/datastore"
	"github.com/katalvlaran/lktsp/tour"
)

// randomDS builds n cities scattered on a grid with a fixed seed, so every
// implementation under test sees byte-identical inputs.
func randomDS(t *testing.T, n int, seed int64) *datastore.DataStore {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	cities := make([]datastore.City, n)
	for i := 0; i < n; i++ {
		cities[i] = datastore.City{ID: i, X: rng.Float64() * 1000, Y: rng.Float64() * 1000}
	}
	ds, err := datastore.New(cities, datastore.Euclidean2D{})
	require.NoError(t, err)
	return ds
}

func randomPermutation(n int, rng *rand.Rand) []int {
	p := rng.Perm(n)
	return p
}

// walkOrder drives Successor n times from city 0 and returns the visited
// sequence, failing the test if it does not revisit city 0 after exactly
// n steps having seen every city exactly once.
func walkOrder(t *testing.T, tr tour.Tour) []int {
	t.Helper()
	n := tr.Len()
	out := make([]int, 0, n)
	v, ok := tr.Get(0)
	require.True(t, ok)
	for i := 0; i < n; i++ {
		out = append(out, v.ID())
		next, ok := tr.Successor(v)
		require.True(t, ok)
		v = next
	}
	require.Equal(t, 0, v.ID(), "walk must return to the start after n steps")
	seen := make(map[int]bool, n)
	for _, id := range out {
		require.False(t, seen[id], "city %d visited twice", id)
		seen[id] = true
	}
	return out
}

func bruteTotalDistance(t *testing.T, ds *datastore.DataStore, order []int) float64 {
	t.Helper()
	var total float64
	n := len(order)
	for i := 0; i < n; i++ {
		d, err := ds.Distance(order[i], order[(i+1)%n])
		require.NoError(t, err)
		total += d
	}
	return total
}

type tourFactory struct {
	name string
	make func(ds *datastore.DataStore) tour.Tour
}

var tourFactories = []tourFactory{
	{"Array", func(ds *datastore.DataStore) tour.Tour { return tour.NewArray(ds) }},
	{"TwoLevelTree", func(ds *datastore.DataStore) tour.Tour { return tour.NewTwoLevelTree(ds) }},
	{"TwoLevelList", func(ds *datastore.DataStore) tour.Tour { return tour.NewTwoLevelList(ds) }},
}

func TestTourSuccessorPredecessorAreInverses(t *testing.T) {
	for _, f := range tourFactories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			ds := randomDS(t, 37, 1)
			tr := f.make(ds)
			rng := rand.New(rand.NewSource(2))
			require.NoError(t, tr.Apply(tour.NewTourOrder(randomPermutation(37, rng))))

			for id := 0; id < 37; id++ {
				v, _ := tr.Get(id)
				succ, ok := tr.Successor(v)
				require.True(t, ok)
				back, ok := tr.Predecessor(succ)
				require.True(t, ok)
				require.Equal(t, id, back.ID())

				pred, ok := tr.Predecessor(v)
				require.True(t, ok)
				fwd, ok := tr.Successor(pred)
				require.True(t, ok)
				require.Equal(t, id, fwd.ID())
			}
		})
	}
}

func TestTourWalkVisitsEveryCityOnce(t *testing.T) {
	for _, f := range tourFactories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			ds := randomDS(t, 53, 3)
			tr := f.make(ds)
			rng := rand.New(rand.NewSource(4))
			require.NoError(t, tr.Apply(tour.NewTourOrder(randomPermutation(53, rng))))
			walkOrder(t, tr)
		})
	}
}

func TestTourTotalDistanceMatchesWalk(t *testing.T) {
	for _, f := range tourFactories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			ds := randomDS(t, 41, 5)
			tr := f.make(ds)
			rng := rand.New(rand.NewSource(6))
			order := randomPermutation(41, rng)
			require.NoError(t, tr.Apply(tour.NewTourOrder(order)))

			walk := walkOrder(t, tr)
			want := bruteTotalDistance(t, ds, walk)
			require.InDelta(t, want, tr.TotalDistance(), 1e-6)
		})
	}
}

func TestTourBetweenMatchesWalkOrder(t *testing.T) {
	for _, f := range tourFactories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			ds := randomDS(t, 29, 7)
			tr := f.make(ds)
			rng := rand.New(rand.NewSource(8))
			require.NoError(t, tr.Apply(tour.NewTourOrder(randomPermutation(29, rng))))

			walk := walkOrder(t, tr)
			pos := make(map[int]int, len(walk))
			for i, id := range walk {
				pos[id] = i
			}
			n := len(walk)

			for trial := 0; trial < 200; trial++ {
				a, b, c := rng.Intn(n), rng.Intn(n), rng.Intn(n)
				if a == b || b == c || a == c {
					continue
				}
				va, _ := tr.Get(a)
				vb, _ := tr.Get(b)
				vc, _ := tr.Get(c)
				got := tr.Between(va, vb, vc)

				pa, pb, pc := pos[a], pos[b], pos[c]
				var want bool
				if pa < pc {
					want = pa < pb && pb < pc
				} else {
					want = pb > pa || pb < pc
				}
				require.Equal(t, want, got, "Between(%d,%d,%d)", a, b, c)
			}
		})
	}
}

// TestTourFlipUpdatesAdjacencyAndCost applies a long sequence of random
// valid flips and checks, after each one, that the new edges (a,c) and
// (b,d) exist and that TotalDistance still matches a brute-force
// recomputation from a full walk.
func TestTourFlipUpdatesAdjacencyAndCost(t *testing.T) {
	for _, f := range tourFactories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			n := 64
			ds := randomDS(t, n, 9)
			tr := f.make(ds)
			rng := rand.New(rand.NewSource(10))
			require.NoError(t, tr.Apply(tour.NewTourOrder(randomPermutation(n, rng))))

			for trial := 0; trial < 150; trial++ {
				walk := walkOrder(t, tr)
				ai := rng.Intn(n)
				ci := rng.Intn(n)
				if ai == ci {
					continue
				}
				aID := walk[ai]
				bID := walk[(ai+1)%n]
				cID := walk[ci]
				dID := walk[(ci+1)%n]
				if aID == cID || bID == cID || aID == dID || bID == dID {
					continue
				}

				require.NoError(t, tr.Flip(aID, bID, cID, dID))

				va, _ := tr.Get(aID)
				succA, _ := tr.Successor(va)
				require.Equal(t, cID, succA.ID())
				vb, _ := tr.Get(bID)
				succB, _ := tr.Successor(vb)
				require.Equal(t, dID, succB.ID())

				newWalk := walkOrder(t, tr)
				want := bruteTotalDistance(t, ds, newWalk)
				require.InDelta(t, want, tr.TotalDistance(), 1e-6)
			}
		})
	}
}

// TestTourBetweenExactlyOneRotationTrue checks P3: for distinct a,b,c,
// exactly one of the three cyclic rotations of Between is true, and
// Between(a,b,c) XOR Between(a,c,b) always holds.
func TestTourBetweenExactlyOneRotationTrue(t *testing.T) {
	for _, f := range tourFactories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			ds := randomDS(t, 31, 13)
			tr := f.make(ds)
			rng := rand.New(rand.NewSource(14))
			require.NoError(t, tr.Apply(tour.NewTourOrder(randomPermutation(31, rng))))

			for trial := 0; trial < 200; trial++ {
				a, b, c := rng.Intn(31), rng.Intn(31), rng.Intn(31)
				if a == b || b == c || a == c {
					continue
				}
				va, _ := tr.Get(a)
				vb, _ := tr.Get(b)
				vc, _ := tr.Get(c)

				abc := tr.Between(va, vb, vc)
				acb := tr.Between(va, vc, vb)
				require.True(t, abc != acb, "Between(a,b,c) XOR Between(a,c,b) must hold")

				bca := tr.Between(vb, vc, va)
				cab := tr.Between(vc, va, vb)
				count := 0
				for _, v := range []bool{abc, bca, cab} {
					if v {
						count++
					}
				}
				require.Equal(t, 1, count, "exactly one cyclic rotation must be true")
			}
		})
	}
}

// TestTourFlipRoundTrip checks P4: flip(a,b,c,d) followed by
// flip(a,c,b,d) restores the original tour exactly.
func TestTourFlipRoundTrip(t *testing.T) {
	for _, f := range tourFactories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			n := 48
			ds := randomDS(t, n, 15)
			tr := f.make(ds)
			rng := rand.New(rand.NewSource(16))
			order := randomPermutation(n, rng)
			require.NoError(t, tr.Apply(tour.NewTourOrder(order)))

			before := walkOrder(t, tr)
			beforeTotal := tr.TotalDistance()

			ai, ci := rng.Intn(n), rng.Intn(n)
			for ai == ci {
				ci = rng.Intn(n)
			}
			aID, bID := before[ai], before[(ai+1)%n]
			cID, dID := before[ci], before[(ci+1)%n]
			if aID == cID || bID == cID || aID == dID || bID == dID {
				t.Skip("degenerate adjacency for this seed")
			}

			require.NoError(t, tr.Flip(aID, bID, cID, dID))
			require.NoError(t, tr.Flip(aID, cID, bID, dID))

			after := walkOrder(t, tr)
			require.Equal(t, before, after)
			require.InDelta(t, beforeTotal, tr.TotalDistance(), 1e-6)
		})
	}
}

func TestTourResetAndVisitedAt(t *testing.T) {
	for _, f := range tourFactories {
		f := f
		t.Run(f.name, func(t *testing.T) {
			ds := randomDS(t, 17, 11)
			tr := f.make(ds)
			rng := rand.New(rand.NewSource(12))
			require.NoError(t, tr.Apply(tour.NewTourOrder(randomPermutation(17, rng))))

			tr.VisitedAt(3, true)
			tr.VisitedAt(9, true)
			v3, _ := tr.Get(3)
			require.True(t, v3.Visited())

			tr.Reset()
			v3again, _ := tr.Get(3)
			require.False(t, v3again.Visited())
			v9, _ := tr.Get(9)
			require.False(t, v9.Visited())
		})
	}
}
