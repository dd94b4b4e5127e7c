package tour

// Tour is the stable contract every construction heuristic and local-search
// move in lktsp is written against. Array, TwoLevelTree, and TwoLevelList
// all satisfy it, and a generic algorithm written against Tour never knows
// (or needs to know) which one it is driving.
//
// Complexity targets (see the concrete types' docs for what each actually
// achieves): successor/predecessor/between should be O(1) or close to it;
// flip should never be worse than O(n) and, for TwoLevelList, is O(sqrt(n)).
type Tour interface {
	// Apply replaces the tour's contents with order, recomputing
	// TotalDistance and resetting every vertex's visited flag to false.
	// Returns ErrBadPermutation if order is not a permutation of [0,n).
	Apply(order TourOrder) error

	// Get returns the Vertex for id, or ok=false if id is out of range.
	Get(id int) (Vertex, bool)

	// Successor returns the vertex that follows v in tour order.
	Successor(v Vertex) (Vertex, bool)

	// Predecessor returns the vertex that precedes v in tour order.
	Predecessor(v Vertex) (Vertex, bool)

	// Between reports whether b lies on the forward arc from a to c
	// (walking successors from a, not through c, reaching b before c).
	Between(a, b, c Vertex) bool

	// Flip replaces edges (a,b) and (c,d) with (a,c) and (b,d), where the
	// caller guarantees b==Successor(a) and d==Successor(c). Violating
	// that precondition is a caller bug, not a recoverable runtime error.
	Flip(a, b, c, d int) error

	// TotalDistance returns the tour's current total length.
	TotalDistance() float64

	// Len returns the number of cities in the tour.
	Len() int

	// Reset clears every vertex's visited flag without changing the order.
	Reset()

	// VisitedAt sets the visited flag for city id directly, without going
	// through a Vertex handle.
	VisitedAt(id int, flag bool)
}
