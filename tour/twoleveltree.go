package tour

import (
	"sort"

	"github.com/katalvlaran/lktsp/datastore"
)

// treeSegment is one outer-ring node of a TwoLevelTree. Unlike
// TwoLevelList's segment, a treeSegment does not store its own ring
// neighbors: ring adjacency is derived on demand from TwoLevelTree.ring,
// a slice of segment ids kept sorted by a monotonic ordering key — the
// "intermediate" complexity point between Array's flat O(n) and
// TwoLevelList's fully O(1)-linked ring (see DESIGN.md).
type treeSegment struct {
	reverse bool
	head    int
	tail    int
	length  int
}

func (s treeSegment) First() int {
	if s.reverse {
		return s.tail
	}
	return s.head
}

func (s treeSegment) Last() int {
	if s.reverse {
		return s.head
	}
	return s.tail
}

type treeVertexRec struct {
	rank    int // physical rank within its segment
	segment int // stable segment id (index into TwoLevelTree.segs)
	prev    int
	next    int
	visited bool
}

// treeKeyGap is the initial spacing between consecutive ring-ordering
// keys. Splits insert new segments at a key midway between two existing
// keys; periodic rebuild re-establishes even spacing once keys have been
// repeatedly bisected.
const treeKeyGap = 1 << 20

// TwoLevelTree is the intermediate Tour implementation between Array and
// TwoLevelList: segments are linked internally the same way, but ring
// position is resolved by binary search over a sorted key array
// (O(log s)) rather than stored O(1) next/prev segment pointers, and a
// split inserts into that sorted array in O(s). It exists to
// differentially test TwoLevelList against a structurally independent
// implementation of the same three-case flip algorithm.
type TwoLevelTree struct {
	ds *datastore.DataStore

	vertices  []treeVertexRec
	segs      []treeSegment
	ring      []int // segment ids, sorted ascending by key[id]
	key       []float64
	targetLen int
	total     float64
}

func NewTwoLevelTree(ds *datastore.DataStore) *TwoLevelTree {
	return &TwoLevelTree{ds: ds}
}

// NewTwoLevelTreeWithSegmentLen builds an empty TwoLevelTree with a fixed
// target segment length instead of the default ceil(sqrt(n)).
func NewTwoLevelTreeWithSegmentLen(ds *datastore.DataStore, segLen int) *TwoLevelTree {
	return &TwoLevelTree{ds: ds, targetLen: segLen}
}

var _ Tour = (*TwoLevelTree)(nil)

type treeVertex struct {
	owner *TwoLevelTree
	id    int
}

func (v treeVertex) ID() int           { return v.id }
func (v treeVertex) Visited() bool     { return v.owner.vertices[v.id].visited }
func (v treeVertex) SetVisited(f bool) { v.owner.vertices[v.id].visited = f }

func (t *TwoLevelTree) Apply(order TourOrder) error {
	n := t.ds.Len()
	o := order.Slice()
	if err := validatePermutation(o, n); err != nil {
		return err
	}
	if t.targetLen == 0 {
		t.targetLen = segSizeFor(n)
	}
	return t.buildFrom(o)
}

func (t *TwoLevelTree) buildFrom(o []int) error {
	n := len(o)
	segLen := t.targetLen
	numSegs := (n + segLen - 1) / segLen
	if numSegs < 1 {
		numSegs = 1
	}

	t.vertices = make([]treeVertexRec, n)
	t.segs = make([]treeSegment, numSegs)
	t.ring = make([]int, numSegs)
	t.key = make([]float64, numSegs)

	idx := 0
	for s := 0; s < numSegs; s++ {
		start := idx
		end := start + segLen
		if end > n {
			end = n
		}
		ids := o[start:end]
		for i, id := range ids {
			prev, next := -1, -1
			if i > 0 {
				prev = ids[i-1]
			}
			if i < len(ids)-1 {
				next = ids[i+1]
			}
			t.vertices[id] = treeVertexRec{rank: i, segment: s, prev: prev, next: next}
		}
		t.segs[s] = treeSegment{reverse: false, head: ids[0], tail: ids[len(ids)-1], length: len(ids)}
		t.ring[s] = s
		t.key[s] = float64(s) * treeKeyGap
		idx = end
	}

	var total float64
	for i := 0; i < n; i++ {
		d, err := t.ds.Distance(o[i], o[(i+1)%n])
		if err != nil {
			return err
		}
		total += d
	}
	t.total = total
	return nil
}

func (t *TwoLevelTree) Len() int { return len(t.vertices) }

func (t *TwoLevelTree) Get(id int) (Vertex, bool) {
	if id < 0 || id >= len(t.vertices) {
		return nil, false
	}
	return treeVertex{owner: t, id: id}, true
}

// ringIndexOf returns segID's position within t.ring via binary search
// over t.key. Complexity: O(log s).
func (t *TwoLevelTree) ringIndexOf(segID int) int {
	k := t.key[segID]
	i := sort.Search(len(t.ring), func(i int) bool { return t.key[t.ring[i]] >= k })
	return i
}

func (t *TwoLevelTree) ringNext(segID int) int {
	i := t.ringIndexOf(segID)
	return t.ring[(i+1)%len(t.ring)]
}

func (t *TwoLevelTree) ringPrev(segID int) int {
	i := t.ringIndexOf(segID)
	return t.ring[(i-1+len(t.ring))%len(t.ring)]
}

func (t *TwoLevelTree) Successor(v Vertex) (Vertex, bool) {
	id := v.ID()
	if id < 0 || id >= len(t.vertices) {
		return nil, false
	}
	vr := t.vertices[id]
	s := t.segs[vr.segment]
	isLast := (!s.reverse && vr.rank == s.length-1) || (s.reverse && vr.rank == 0)
	if isLast {
		nextSeg := t.ringNext(vr.segment)
		return treeVertex{owner: t, id: t.segs[nextSeg].First()}, true
	}
	if s.reverse {
		return treeVertex{owner: t, id: vr.prev}, true
	}
	return treeVertex{owner: t, id: vr.next}, true
}

func (t *TwoLevelTree) Predecessor(v Vertex) (Vertex, bool) {
	id := v.ID()
	if id < 0 || id >= len(t.vertices) {
		return nil, false
	}
	vr := t.vertices[id]
	s := t.segs[vr.segment]
	isFirst := (!s.reverse && vr.rank == 0) || (s.reverse && vr.rank == s.length-1)
	if isFirst {
		prevSeg := t.ringPrev(vr.segment)
		return treeVertex{owner: t, id: t.segs[prevSeg].Last()}, true
	}
	if s.reverse {
		return treeVertex{owner: t, id: vr.next}, true
	}
	return treeVertex{owner: t, id: vr.prev}, true
}

func (t *TwoLevelTree) Between(a, b, c Vertex) bool {
	ida, idb, idc := a.ID(), b.ID(), c.ID()
	va, vb, vc := t.vertices[ida], t.vertices[idb], t.vertices[idc]
	sa, sb, sc := va.segment, vb.segment, vc.segment
	eqAB, eqBC, eqCA := sa == sb, sb == sc, sc == sa

	switch {
	case eqAB && eqBC && eqCA:
		return t.segs[sa].reverse != rankBetween(va.rank, vb.rank, vc.rank)
	case eqAB && !eqBC && !eqCA:
		return t.segs[sa].reverse != (vb.rank > va.rank)
	case !eqAB && eqBC && !eqCA:
		return t.segs[sb].reverse != (vb.rank <= vc.rank)
	case !eqAB && !eqBC && eqCA:
		return t.segs[sc].reverse != (vc.rank < va.rank)
	case !eqAB && !eqBC && !eqCA:
		return rankBetween(t.ringIndexOf(sa), t.ringIndexOf(sb), t.ringIndexOf(sc))
	default:
		invariantViolation("Between: non-transitive segment equality")
		return false
	}
}

func (t *TwoLevelTree) logicalPos(segIdx, vID int) int {
	s := t.segs[segIdx]
	if s.reverse {
		return s.length - 1 - t.vertices[vID].rank
	}
	return t.vertices[vID].rank
}

func (t *TwoLevelTree) logicalLE(segIdx, xID, yID int) bool {
	return t.logicalPos(segIdx, xID) <= t.logicalPos(segIdx, yID)
}

func (t *TwoLevelTree) logicalIDs(segIdx int) []int {
	s := t.segs[segIdx]
	out := make([]int, 0, s.length)
	cur := s.First()
	for i := 0; i < s.length; i++ {
		out = append(out, cur)
		if s.reverse {
			cur = t.vertices[cur].prev
		} else {
			cur = t.vertices[cur].next
		}
	}
	return out
}

func (t *TwoLevelTree) reverseWithinSegment(segIdx, xID, yID int) {
	s := &t.segs[segIdx]
	rx, ry := t.vertices[xID].rank, t.vertices[yID].rank
	lo, hi := rx, ry
	loID, hiID := xID, yID
	if lo > hi {
		lo, hi = hi, lo
		loID, hiID = hiID, loID
	}

	n := hi - lo + 1
	ids := make([]int, 0, n)
	cur := loID
	for {
		ids = append(ids, cur)
		if cur == hiID {
			break
		}
		cur = t.vertices[cur].next
	}

	before, after := -1, -1
	if lo > 0 {
		before = t.vertices[loID].prev
	}
	if hi < s.length-1 {
		after = t.vertices[hiID].next
	}

	for i := 0; i < n; i++ {
		id := ids[n-1-i]
		rank := lo + i
		var prevID, nextID int
		if i == 0 {
			prevID = before
		} else {
			prevID = ids[n-i]
		}
		if i == n-1 {
			nextID = after
		} else {
			nextID = ids[n-2-i]
		}
		t.vertices[id].rank = rank
		t.vertices[id].prev = prevID
		t.vertices[id].next = nextID
	}
	if before != -1 {
		t.vertices[before].next = hiID
	}
	if after != -1 {
		t.vertices[after].prev = loID
	}
	if lo == 0 {
		s.head = hiID
	}
	if hi == s.length-1 {
		s.tail = loID
	}
}

// reverseSegmentRun reverses the ring run from fromID to toID inclusive
// (walking via ringNext): toggles each segment's reverse bit and rewrites
// their positions in t.ring. Complexity: O(run length) lookups plus an
// O(s) slice rewrite, matching the O(s) split cost this type targets.
func (t *TwoLevelTree) reverseSegmentRun(fromID, toID int) {
	run := []int{fromID}
	for run[len(run)-1] != toID {
		run = append(run, t.ringNext(run[len(run)-1]))
	}
	m := len(run)
	for _, id := range run {
		t.segs[id].reverse = !t.segs[id].reverse
	}

	startIdx := t.ringIndexOf(fromID)
	for i := 0; i < m; i++ {
		pos := (startIdx + i) % len(t.ring)
		t.ring[pos] = run[m-1-i]
	}
	t.renumberKeys()
}

// renumberKeys reassigns evenly spaced keys to every ring slot, restoring
// room for future bisection-based inserts. Complexity: O(s).
func (t *TwoLevelTree) renumberKeys() {
	for i, segID := range t.ring {
		t.key[segID] = float64(i) * treeKeyGap
	}
}

func (t *TwoLevelTree) allocSegment() int {
	id := len(t.segs)
	t.segs = append(t.segs, treeSegment{})
	t.key = append(t.key, 0)
	return id
}

func (t *TwoLevelTree) installSegment(segID int, ids []int) {
	L := len(ids)
	for i, id := range ids {
		visited := t.vertices[id].visited
		prev, next := -1, -1
		if i > 0 {
			prev = ids[i-1]
		}
		if i < L-1 {
			next = ids[i+1]
		}
		t.vertices[id] = treeVertexRec{rank: i, segment: segID, prev: prev, next: next, visited: visited}
	}
	t.segs[segID].reverse = false
	t.segs[segID].head = ids[0]
	t.segs[segID].tail = ids[L-1]
	t.segs[segID].length = L
}

// insertRingBefore inserts newID into t.ring immediately before refID,
// assigning it a key midway between refID and its current predecessor
// (or simply below refID's key if refID is the ring's first slot).
// Complexity: O(s) for the slice shift.
func (t *TwoLevelTree) insertRingBefore(refID, newID int) {
	idx := t.ringIndexOf(refID)
	var newKey float64
	if idx == 0 {
		newKey = t.key[refID] - treeKeyGap
	} else {
		prevID := t.ring[idx-1]
		newKey = (t.key[prevID] + t.key[refID]) / 2
	}
	t.key[newID] = newKey
	t.ring = append(t.ring, 0)
	copy(t.ring[idx+1:], t.ring[idx:])
	t.ring[idx] = newID
}

func (t *TwoLevelTree) insertRingAfter(refID, newID int) {
	idx := t.ringIndexOf(refID)
	var newKey float64
	if idx == len(t.ring)-1 {
		newKey = t.key[refID] + treeKeyGap
	} else {
		nextID := t.ring[idx+1]
		newKey = (t.key[refID] + t.key[nextID]) / 2
	}
	t.key[newID] = newKey
	insertAt := idx + 1
	t.ring = append(t.ring, 0)
	copy(t.ring[insertAt+1:], t.ring[insertAt:])
	t.ring[insertAt] = newID
}

func (t *TwoLevelTree) ensureSegmentStart(vID int) {
	segIdx := t.vertices[vID].segment
	s := t.segs[segIdx]
	if vID == s.First() {
		return
	}

	p := t.logicalPos(segIdx, vID)
	headLen := p
	tailLen := s.length - p
	all := t.logicalIDs(segIdx)

	if headLen <= tailLen {
		headIDs := append([]int(nil), all[:headLen]...)
		remIDs := append([]int(nil), all[headLen:]...)
		newID := t.allocSegment()
		t.installSegment(newID, headIDs)
		t.installSegment(segIdx, remIDs)
		t.insertRingBefore(segIdx, newID)
	} else {
		tailIDs := append([]int(nil), all[headLen:]...)
		remIDs := append([]int(nil), all[:headLen]...)
		newID := t.allocSegment()
		t.installSegment(newID, tailIDs)
		t.installSegment(segIdx, remIDs)
		t.insertRingAfter(segIdx, newID)
	}
	t.maybeRebuild()
}

func (t *TwoLevelTree) maybeRebuild() {
	limit := 4*t.targetLen + 8
	if len(t.ring) > limit {
		t.rebuild()
	}
}

func (t *TwoLevelTree) rebuild() {
	n := len(t.vertices)
	order := make([]int, 0, n)
	visited := make([]bool, n)
	for id := range t.vertices {
		visited[id] = t.vertices[id].visited
	}

	cur := t.segs[t.ring[0]].First()
	for i := 0; i < n; i++ {
		order = append(order, cur)
		v, _ := t.Get(cur)
		nxt, _ := t.Successor(v)
		cur = nxt.ID()
	}
	_ = t.buildFrom(order)
	for id := range t.vertices {
		t.vertices[id].visited = visited[id]
	}
}

func (t *TwoLevelTree) Flip(aID, bID, cID, dID int) error {
	if succ, ok := t.Successor(treeVertex{owner: t, id: aID}); !ok || succ.ID() != bID {
		invariantViolation("Flip: b is not Successor(a)")
	}
	if succ, ok := t.Successor(treeVertex{owner: t, id: cID}); !ok || succ.ID() != dID {
		invariantViolation("Flip: d is not Successor(c)")
	}

	oldAB, err := t.ds.Distance(aID, bID)
	if err != nil {
		return err
	}
	oldCD, err := t.ds.Distance(cID, dID)
	if err != nil {
		return err
	}
	newAC, err := t.ds.Distance(aID, cID)
	if err != nil {
		return err
	}
	newBD, err := t.ds.Distance(bID, dID)
	if err != nil {
		return err
	}

	t.flip(aID, bID, cID, dID)
	t.total += (newAC + newBD) - (oldAB + oldCD)
	return nil
}

// flip mirrors TwoLevelList.flip's three-case algorithm. The run reversed
// in Case 2 is always the b..c run, never d..a: reversing d..a instead
// produces the same undirected edge set but leaves Successor(a) pointing
// at a's old predecessor rather than c, breaking the Successor(a)==c,
// Successor(b)==d contract Flip must guarantee. Ring size stays O(sqrt(n))
// regardless of which of the two complementary runs is reversed, so always
// choosing b..c costs at most a constant factor, never the asymptotic
// bound.
func (t *TwoLevelTree) flip(aID, bID, cID, dID int) {
	segB := t.vertices[bID].segment
	segC := t.vertices[cID].segment

	if segB == segC && t.logicalLE(segB, bID, cID) {
		if bID == t.segs[segB].First() && cID == t.segs[segB].Last() {
			t.segs[segB].reverse = !t.segs[segB].reverse
		} else {
			t.reverseWithinSegment(segB, bID, cID)
		}
		return
	}

	needRetry := false
	if bID != t.segs[t.vertices[bID].segment].First() {
		t.ensureSegmentStart(bID)
		needRetry = true
	}
	if dID != t.segs[t.vertices[dID].segment].First() {
		t.ensureSegmentStart(dID)
		needRetry = true
	}
	if needRetry {
		t.flip(aID, bID, cID, dID)
		return
	}

	segB = t.vertices[bID].segment
	segC = t.vertices[cID].segment
	t.reverseSegmentRun(segB, segC)
	t.maybeRebuild()
}

func (t *TwoLevelTree) TotalDistance() float64 { return t.total }

func (t *TwoLevelTree) Reset() {
	for i := range t.vertices {
		t.vertices[i].visited = false
	}
}

func (t *TwoLevelTree) VisitedAt(id int, flag bool) {
	if id < 0 || id >= len(t.vertices) {
		return
	}
	t.vertices[id].visited = flag
}
