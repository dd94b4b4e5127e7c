package tour_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lktsp/datastore"
	"github.com/katalvlaran/lktsp/tour"
)

func squareDS(t *testing.T) *datastore.DataStore {
	t.Helper()
	cities := []datastore.City{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 10, Y: 0},
		{ID: 2, X: 10, Y: 10},
		{ID: 3, X: 0, Y: 10},
	}
	ds, err := datastore.New(cities, datastore.Euclidean2D{})
	require.NoError(t, err)
	return ds
}

func TestArrayApplyRejectsWrongLength(t *testing.T) {
	ds := squareDS(t)
	a := tour.NewArray(ds)
	err := a.Apply(tour.NewTourOrder([]int{0, 1, 2}))
	require.ErrorIs(t, err, tour.ErrBadPermutation)
}

func TestArrayApplyRejectsBadPermutation(t *testing.T) {
	ds := squareDS(t)
	a := tour.NewArray(ds)
	err := a.Apply(tour.NewTourOrder([]int{0, 1, 1, 3}))
	require.ErrorIs(t, err, tour.ErrBadPermutation)
}

func TestArraySuccessorPredecessorWrap(t *testing.T) {
	ds := squareDS(t)
	a := tour.NewArray(ds)
	require.NoError(t, a.Apply(tour.NewTourOrder([]int{0, 1, 2, 3})))

	v0, _ := a.Get(0)
	succ, ok := a.Successor(v0)
	require.True(t, ok)
	require.Equal(t, 1, succ.ID())

	pred, ok := a.Predecessor(v0)
	require.True(t, ok)
	require.Equal(t, 3, pred.ID())

	v3, _ := a.Get(3)
	succ3, _ := a.Successor(v3)
	require.Equal(t, 0, succ3.ID())
}

func TestArrayBetween(t *testing.T) {
	ds := squareDS(t)
	a := tour.NewArray(ds)
	require.NoError(t, a.Apply(tour.NewTourOrder([]int{0, 1, 2, 3})))

	v0, _ := a.Get(0)
	v1, _ := a.Get(1)
	v2, _ := a.Get(2)
	v3, _ := a.Get(3)

	require.True(t, a.Between(v0, v1, v2))
	require.False(t, a.Between(v0, v2, v1))
	require.True(t, a.Between(v3, v0, v1))
}

func TestArrayTotalDistanceSquare(t *testing.T) {
	ds := squareDS(t)
	a := tour.NewArray(ds)
	require.NoError(t, a.Apply(tour.NewTourOrder([]int{0, 1, 2, 3})))
	require.InDelta(t, 40.0, a.TotalDistance(), 1e-9)
}

func TestArrayFlipReversesArcAndUpdatesCost(t *testing.T) {
	ds := squareDS(t)
	a := tour.NewArray(ds)
	// Crossed order: 0,2,1,3 has a self-intersecting tour; flipping the
	// edges (0,2) and (1,3) into (0,1) and (2,3) must uncross it back to
	// the square's perimeter length.
	require.NoError(t, a.Apply(tour.NewTourOrder([]int{0, 2, 1, 3})))
	before := a.TotalDistance()
	require.Greater(t, before, 40.0)

	require.NoError(t, a.Flip(0, 2, 1, 3))
	require.InDelta(t, 40.0, a.TotalDistance(), 1e-9)

	v0, _ := a.Get(0)
	succ, _ := a.Successor(v0)
	require.Equal(t, 1, succ.ID())
}

func TestArrayFlipPanicsOnBadAdjacency(t *testing.T) {
	ds := squareDS(t)
	a := tour.NewArray(ds)
	require.NoError(t, a.Apply(tour.NewTourOrder([]int{0, 1, 2, 3})))
	require.Panics(t, func() {
		_ = a.Flip(0, 2, 1, 3)
	})
}

func TestArrayResetAndVisitedAt(t *testing.T) {
	ds := squareDS(t)
	a := tour.NewArray(ds)
	require.NoError(t, a.Apply(tour.NewTourOrder([]int{0, 1, 2, 3})))

	a.VisitedAt(1, true)
	v1, _ := a.Get(1)
	require.True(t, v1.Visited())

	a.Reset()
	v1again, _ := a.Get(1)
	require.False(t, v1again.Visited())
}
