package datastore_test

import (
	"testing"

	"github.com/katalvlaran/lktsp/datastore"
	"github.com/stretchr/testify/require"
)

func square() []datastore.City {
	return []datastore.City{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 10, Y: 0},
		{ID: 2, X: 10, Y: 10},
		{ID: 3, X: 0, Y: 10},
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := datastore.New(nil, datastore.Euclidean2D{})
	require.ErrorIs(t, err, datastore.ErrNoCities)
}

func TestNewRejectsNilMetric(t *testing.T) {
	_, err := datastore.New(square(), nil)
	require.ErrorIs(t, err, datastore.ErrUnsupportedMetric)
}

func TestNewRejectsDuplicateID(t *testing.T) {
	cities := []datastore.City{{ID: 0}, {ID: 0}}
	_, err := datastore.New(cities, datastore.Euclidean2D{})
	require.ErrorIs(t, err, datastore.ErrDuplicateID)
}

func TestDistanceSymmetricAndZeroDiagonal(t *testing.T) {
	ds, err := datastore.New(square(), datastore.Euclidean2D{})
	require.NoError(t, err)

	d, err := ds.Distance(0, 0)
	require.NoError(t, err)
	require.Zero(t, d)

	d01, err := ds.Distance(0, 1)
	require.NoError(t, err)
	d10, err := ds.Distance(1, 0)
	require.NoError(t, err)
	require.Equal(t, d01, d10)
	require.Equal(t, 10.0, d01)
}

func TestDistanceOutOfRange(t *testing.T) {
	ds, err := datastore.New(square(), datastore.Euclidean2D{})
	require.NoError(t, err)

	_, err = ds.Distance(0, 99)
	require.ErrorIs(t, err, datastore.ErrNodeNotFound)
}

func TestCandidatesBadWidth(t *testing.T) {
	ds, err := datastore.New(square(), datastore.Euclidean2D{})
	require.NoError(t, err)

	require.ErrorIs(t, ds.Candidates(0), datastore.ErrBadCandidateWidth)
	require.ErrorIs(t, ds.Candidates(4), datastore.ErrBadCandidateWidth)
}

func TestCandidatesOfBeforeBuild(t *testing.T) {
	ds, err := datastore.New(square(), datastore.Euclidean2D{})
	require.NoError(t, err)

	_, err = ds.CandidatesOf(0)
	require.ErrorIs(t, err, datastore.ErrCandidatesNotBuilt)
}

func TestCandidatesNearestFirst(t *testing.T) {
	ds, err := datastore.New(square(), datastore.Euclidean2D{})
	require.NoError(t, err)
	require.NoError(t, ds.Candidates(2))

	cands, err := ds.CandidatesOf(0)
	require.NoError(t, err)
	require.Len(t, cands, 2)
	// City 0 at (0,0): nearest are 1 (10,0) and 3 (0,10), both at distance 10,
	// tie broken by ascending id.
	require.Equal(t, []int{1, 3}, cands)
}

func TestManhattanAndATTMetrics(t *testing.T) {
	a := datastore.City{ID: 0, X: 0, Y: 0}
	b := datastore.City{ID: 1, X: 3, Y: 4}

	require.Equal(t, 7.0, datastore.Manhattan{}.Distance(a, b))
	require.Equal(t, 2.0, datastore.ATT{}.Distance(a, b)) // sqrt(25/10)=1.58.., nint=2, 2>=1.58 -> 2
}
