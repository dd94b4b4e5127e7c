package tour

import "github.com/katalvlaran/lktsp/datastore"

// Array is the reference Tour implementation: a position array plus its
// inverse. Every operation is either O(1) (successor/predecessor/between)
// or O(n) (flip, via in-place segment reversal) — no segment structure at
// all. It exists to differentially test TwoLevelTree and TwoLevelList, not
// for production use on large instances.
type Array struct {
	ds *datastore.DataStore

	order   []int // order[pos] = city id
	pos     []int // pos[id] = position
	visited []bool
	total   float64
}

// NewArray builds an empty Array tour bound to ds. Call Apply before use.
func NewArray(ds *datastore.DataStore) *Array {
	return &Array{ds: ds}
}

var _ Tour = (*Array)(nil)

type arrayVertex struct {
	owner *Array
	id    int
}

func (v arrayVertex) ID() int           { return v.id }
func (v arrayVertex) Visited() bool     { return v.owner.visited[v.id] }
func (v arrayVertex) SetVisited(f bool) { v.owner.visited[v.id] = f }

func (a *Array) Apply(order TourOrder) error {
	n := a.ds.Len()
	o := order.Slice()
	if err := validatePermutation(o, n); err != nil {
		return err
	}

	a.order = o
	a.pos = make([]int, n)
	for i, id := range a.order {
		a.pos[id] = i
	}
	a.visited = make([]bool, n)

	var total float64
	for i := 0; i < n; i++ {
		d, err := a.ds.Distance(a.order[i], a.order[(i+1)%n])
		if err != nil {
			return err
		}
		total += d
	}
	a.total = total
	return nil
}

func (a *Array) Len() int { return len(a.order) }

func (a *Array) Get(id int) (Vertex, bool) {
	if id < 0 || id >= len(a.order) {
		return nil, false
	}
	return arrayVertex{owner: a, id: id}, true
}

func (a *Array) Successor(v Vertex) (Vertex, bool) {
	id := v.ID()
	if id < 0 || id >= len(a.order) {
		return nil, false
	}
	n := len(a.order)
	next := a.order[(a.pos[id]+1)%n]
	return arrayVertex{owner: a, id: next}, true
}

func (a *Array) Predecessor(v Vertex) (Vertex, bool) {
	id := v.ID()
	if id < 0 || id >= len(a.order) {
		return nil, false
	}
	n := len(a.order)
	prev := a.order[(a.pos[id]-1+n)%n]
	return arrayVertex{owner: a, id: prev}, true
}

func (a *Array) Between(x, y, z Vertex) bool {
	return rankBetween(a.pos[x.ID()], a.pos[y.ID()], a.pos[z.ID()])
}

// reverseCyclic reverses the inclusive arc of positions [i..k], walking
// forward cyclically (k may be less than i, meaning the arc wraps past the
// end of the array).
func (a *Array) reverseCyclic(i, k int) {
	n := len(a.order)
	length := k - i
	if length < 0 {
		length += n
	}
	length++
	for t := 0; t < length/2; t++ {
		pi := (i + t) % n
		pk := (k - t + n) % n
		a.order[pi], a.order[pk] = a.order[pk], a.order[pi]
		a.pos[a.order[pi]] = pi
		a.pos[a.order[pk]] = pk
	}
}

func (a *Array) Flip(aID, bID, cID, dID int) error {
	n := len(a.order)
	if a.order[(a.pos[aID]+1)%n] != bID || a.order[(a.pos[cID]+1)%n] != dID {
		invariantViolation("Flip: b is not Successor(a) or d is not Successor(c)")
	}

	oldAB, err := a.ds.Distance(aID, bID)
	if err != nil {
		return err
	}
	oldCD, err := a.ds.Distance(cID, dID)
	if err != nil {
		return err
	}
	newAC, err := a.ds.Distance(aID, cID)
	if err != nil {
		return err
	}
	newBD, err := a.ds.Distance(bID, dID)
	if err != nil {
		return err
	}

	a.reverseCyclic(a.pos[bID], a.pos[cID])
	a.total += (newAC + newBD) - (oldAB + oldCD)
	return nil
}

func (a *Array) TotalDistance() float64 { return a.total }

func (a *Array) Reset() {
	for i := range a.visited {
		a.visited[i] = false
	}
}

func (a *Array) VisitedAt(id int, flag bool) {
	if id < 0 || id >= len(a.visited) {
		return
	}
	a.visited[id] = flag
}
