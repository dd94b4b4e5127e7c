package tour

import (
	"math"

	"github.com/katalvlaran/lktsp/datastore"
)

// segment is one node of the two-level list's outer ring. Vertices inside a
// segment are a physical doubly-linked list (vertexRec.prev/next, ascending
// by rank); reverse reinterprets that physical list as logical tour order
// without touching a single link — this is what makes whole-segment
// reversal O(1).
//
// head/tail are the PHYSICAL extremes (rank 0 and rank length-1). First()
// and Last() expose the LOGICAL extremes, derived from reverse.
type segment struct {
	rank    int  // position in the segment ring, 0..numSegments-1
	reverse bool // reinterprets physical order as logical order when true
	head    int  // vertex id at physical rank 0
	tail    int  // vertex id at physical rank length-1
	length  int
	prev    int // ring-predecessor segment index
	next    int // ring-successor segment index
}

func (s segment) First() int {
	if s.reverse {
		return s.tail
	}
	return s.head
}

func (s segment) Last() int {
	if s.reverse {
		return s.head
	}
	return s.tail
}

// vertexRec is a city's position inside the two-level structure. prev/next
// are physical (intra-segment only, -1 at a segment's physical boundary);
// cross-segment navigation goes through the owning segment's ring links
// instead of a stored per-vertex cross-link.
type vertexRec struct {
	rank    int
	segment int
	prev    int
	next    int
	visited bool
}

// TwoLevelList is the production Tour implementation: O(1) successor,
// predecessor, and between; O(sqrt(n)) flip. Segments are sized to roughly
// sqrt(n) vertices each, rebalanced by splitting (on flip) and by an
// occasional full rebuild once the segment count drifts too far from
// sqrt(n) (see maybeRebuild). Segments are never merged incrementally;
// the full rebuild is the only operation that shrinks the segment count.
type TwoLevelList struct {
	ds *datastore.DataStore

	vertices  []vertexRec
	segments  []segment
	targetLen int
	total     float64
}

// NewTwoLevelList builds an empty TwoLevelList bound to ds. Call Apply
// before use.
func NewTwoLevelList(ds *datastore.DataStore) *TwoLevelList {
	return &TwoLevelList{ds: ds}
}

// NewTwoLevelListWithSegmentLen builds an empty TwoLevelList with a fixed
// target segment length instead of the default ceil(sqrt(n)). Mainly
// useful for tests that need to pin segment boundaries deterministically.
func NewTwoLevelListWithSegmentLen(ds *datastore.DataStore, segLen int) *TwoLevelList {
	return &TwoLevelList{ds: ds, targetLen: segLen}
}

var _ Tour = (*TwoLevelList)(nil)

type tllVertex struct {
	owner *TwoLevelList
	id    int
}

func (v tllVertex) ID() int           { return v.id }
func (v tllVertex) Visited() bool     { return v.owner.vertices[v.id].visited }
func (v tllVertex) SetVisited(f bool) { v.owner.vertices[v.id].visited = f }

// segSizeFor returns the target segment length for an n-city tour: ceil(sqrt(n)),
// at least 1.
func segSizeFor(n int) int {
	s := int(math.Ceil(math.Sqrt(float64(n))))
	if s < 1 {
		s = 1
	}
	return s
}

func (t *TwoLevelList) Apply(order TourOrder) error {
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

// buildFrom lays out o into fresh, evenly-sized segments and recomputes
// total distance. Every vertex's visited flag is reset to false.
func (t *TwoLevelList) buildFrom(o []int) error {
	n := len(o)
	segLen := t.targetLen
	numSegs := (n + segLen - 1) / segLen
	if numSegs < 1 {
		numSegs = 1
	}

	t.vertices = make([]vertexRec, n)
	t.segments = make([]segment, numSegs)

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
			t.vertices[id] = vertexRec{rank: i, segment: s, prev: prev, next: next}
		}
		t.segments[s] = segment{
			rank: s, reverse: false,
			head: ids[0], tail: ids[len(ids)-1], length: len(ids),
			prev: (s - 1 + numSegs) % numSegs,
			next: (s + 1) % numSegs,
		}
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

func (t *TwoLevelList) Len() int { return len(t.vertices) }

func (t *TwoLevelList) Get(id int) (Vertex, bool) {
	if id < 0 || id >= len(t.vertices) {
		return nil, false
	}
	return tllVertex{owner: t, id: id}, true
}

func (t *TwoLevelList) Successor(v Vertex) (Vertex, bool) {
	id := v.ID()
	if id < 0 || id >= len(t.vertices) {
		return nil, false
	}
	vr := t.vertices[id]
	s := t.segments[vr.segment]
	isLast := (!s.reverse && vr.rank == s.length-1) || (s.reverse && vr.rank == 0)
	if isLast {
		return tllVertex{owner: t, id: t.segments[s.next].First()}, true
	}
	if s.reverse {
		return tllVertex{owner: t, id: vr.prev}, true
	}
	return tllVertex{owner: t, id: vr.next}, true
}

func (t *TwoLevelList) Predecessor(v Vertex) (Vertex, bool) {
	id := v.ID()
	if id < 0 || id >= len(t.vertices) {
		return nil, false
	}
	vr := t.vertices[id]
	s := t.segments[vr.segment]
	isFirst := (!s.reverse && vr.rank == 0) || (s.reverse && vr.rank == s.length-1)
	if isFirst {
		return tllVertex{owner: t, id: t.segments[s.prev].Last()}, true
	}
	if s.reverse {
		return tllVertex{owner: t, id: vr.next}, true
	}
	return tllVertex{owner: t, id: vr.prev}, true
}

// Between implements the spec's five-case analysis (same segment, two
// segments-equal patterns, all-distinct) via XOR against each relevant
// segment's reverse bit. The three "exactly two of {SA=SB,SB=SC,SC=SA}
// true" patterns are unreachable under correct segment bookkeeping (segment
// membership is an equivalence relation): reaching one is a structural
// invariant violation, not a legitimate input.
func (t *TwoLevelList) Between(a, b, c Vertex) bool {
	ida, idb, idc := a.ID(), b.ID(), c.ID()
	va, vb, vc := t.vertices[ida], t.vertices[idb], t.vertices[idc]
	sa, sb, sc := va.segment, vb.segment, vc.segment
	eqAB, eqBC, eqCA := sa == sb, sb == sc, sc == sa

	switch {
	case eqAB && eqBC && eqCA:
		return t.segments[sa].reverse != rankBetween(va.rank, vb.rank, vc.rank)
	case eqAB && !eqBC && !eqCA:
		return t.segments[sa].reverse != (vb.rank > va.rank)
	case !eqAB && eqBC && !eqCA:
		return t.segments[sb].reverse != (vb.rank <= vc.rank)
	case !eqAB && !eqBC && eqCA:
		return t.segments[sc].reverse != (vc.rank < va.rank)
	case !eqAB && !eqBC && !eqCA:
		return rankBetween(t.segments[sa].rank, t.segments[sb].rank, t.segments[sc].rank)
	default:
		invariantViolation("Between: non-transitive segment equality")
		return false
	}
}

func (t *TwoLevelList) logicalPos(segIdx, vID int) int {
	s := t.segments[segIdx]
	if s.reverse {
		return s.length - 1 - t.vertices[vID].rank
	}
	return t.vertices[vID].rank
}

func (t *TwoLevelList) logicalLE(segIdx, xID, yID int) bool {
	return t.logicalPos(segIdx, xID) <= t.logicalPos(segIdx, yID)
}

// logicalIDs returns every vertex id in segIdx, in logical tour order.
func (t *TwoLevelList) logicalIDs(segIdx int) []int {
	s := t.segments[segIdx]
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

// reverseWithinSegment reverses the logical arc [xID..yID] (inclusive),
// both of which lie in segIdx. It mirrors the physical rank range
// [min(rank_x,rank_y), max(rank_x,rank_y)] — which always equals the
// physical span of the logical arc regardless of the segment's reverse
// bit — rewriting prev/next links and ranks in place.
//
// Complexity: O(segment length) = O(sqrt(n)).
func (t *TwoLevelList) reverseWithinSegment(segIdx, xID, yID int) {
	s := &t.segments[segIdx]
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

// reverseSegmentRun reverses a contiguous ring run of whole segments from
// fromIdx to toIdx inclusive (walking via .next): toggles each segment's
// reverse bit, reverses their order in the ring, and renumbers every
// segment's ring rank from scratch. Renumbering from scratch (rather than
// patching ranks in place mid-swap) is deliberate: an in-place patch is
// exactly where the run can silently mis-renumber when it wraps the ring's
// rank-0 boundary (see DESIGN.md Open Questions).
//
// Complexity: O(number of segments) = O(sqrt(n)).
func (t *TwoLevelList) reverseSegmentRun(fromIdx, toIdx int) {
	run := []int{fromIdx}
	for run[len(run)-1] != toIdx {
		run = append(run, t.segments[run[len(run)-1]].next)
	}
	m := len(run)

	for _, idx := range run {
		t.segments[idx].reverse = !t.segments[idx].reverse
	}

	if m == len(t.segments) {
		// The run is the entire ring: just flip every segment's ring
		// direction in place, no external splice needed.
		for _, idx := range run {
			t.segments[idx].prev, t.segments[idx].next = t.segments[idx].next, t.segments[idx].prev
		}
		t.renumberSegmentRanks()
		return
	}

	before := t.segments[fromIdx].prev
	after := t.segments[toIdx].next
	for i := 0; i < m; i++ {
		idx := run[m-1-i]
		var p, n int
		if i == 0 {
			p = before
		} else {
			p = run[m-i]
		}
		if i == m-1 {
			n = after
		} else {
			n = run[m-2-i]
		}
		t.segments[idx].prev = p
		t.segments[idx].next = n
	}
	t.segments[before].next = run[m-1]
	t.segments[after].prev = run[0]
	t.renumberSegmentRanks()
}

func (t *TwoLevelList) renumberSegmentRanks() {
	cur := 0
	for i := 0; i < len(t.segments); i++ {
		t.segments[cur].rank = i
		cur = t.segments[cur].next
	}
}

// allocSegment appends a fresh, unlinked segment slot and returns its
// index. The caller must install contents and splice it into the ring
// before any other operation observes it.
func (t *TwoLevelList) allocSegment() int {
	idx := len(t.segments)
	t.segments = append(t.segments, segment{})
	return idx
}

// installSegment rebuilds segIdx's physical contents from ids (given in
// logical order), with reverse reset to false. Vertices' visited flags
// are preserved.
func (t *TwoLevelList) installSegment(segIdx int, ids []int) {
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
		t.vertices[id] = vertexRec{rank: i, segment: segIdx, prev: prev, next: next, visited: visited}
	}
	t.segments[segIdx].reverse = false
	t.segments[segIdx].head = ids[0]
	t.segments[segIdx].tail = ids[L-1]
	t.segments[segIdx].length = L
}

func (t *TwoLevelList) spliceBefore(refIdx, newIdx int) {
	p := t.segments[refIdx].prev
	t.segments[p].next = newIdx
	t.segments[newIdx].prev = p
	t.segments[newIdx].next = refIdx
	t.segments[refIdx].prev = newIdx
	t.renumberSegmentRanks()
}

func (t *TwoLevelList) spliceAfter(refIdx, newIdx int) {
	n := t.segments[refIdx].next
	t.segments[refIdx].next = newIdx
	t.segments[newIdx].prev = refIdx
	t.segments[newIdx].next = n
	t.segments[n].prev = newIdx
	t.renumberSegmentRanks()
}

// ensureSegmentStart splits vID's segment, if needed, so that vID becomes
// the logical First() of some segment. It moves the SHORTER of the two
// resulting parts into a brand-new segment spliced into the ring, so the
// new segment is at most half the original segment's length; both parts
// are reinstalled, so the work is proportional to the whole segment.
//
// Complexity: O(segment length) = O(sqrt(n)) amortized.
func (t *TwoLevelList) ensureSegmentStart(vID int) {
	segIdx := t.vertices[vID].segment
	s := t.segments[segIdx]
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
		newIdx := t.allocSegment()
		t.installSegment(newIdx, headIDs)
		t.installSegment(segIdx, remIDs)
		t.spliceBefore(segIdx, newIdx)
	} else {
		tailIDs := append([]int(nil), all[headLen:]...)
		remIDs := append([]int(nil), all[:headLen]...)
		newIdx := t.allocSegment()
		t.installSegment(newIdx, tailIDs)
		t.installSegment(segIdx, remIDs)
		t.spliceAfter(segIdx, newIdx)
	}
	t.maybeRebuild()
}

// maybeRebuild triggers a full, balanced rebuild once the segment count
// has drifted too far above sqrt(n), bounding the amortized cost of
// repeated splits (see the TwoLevelList doc comment).
func (t *TwoLevelList) maybeRebuild() {
	limit := 4*t.targetLen + 8
	if len(t.segments) > limit {
		t.rebuild()
	}
}

func (t *TwoLevelList) rebuild() {
	n := len(t.vertices)
	order := make([]int, 0, n)
	visited := make([]bool, n)
	for id := range t.vertices {
		visited[id] = t.vertices[id].visited
	}

	cur := t.segments[0].First()
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

func (t *TwoLevelList) Flip(aID, bID, cID, dID int) error {
	if succ, ok := t.Successor(tllVertex{owner: t, id: aID}); !ok || succ.ID() != bID {
		invariantViolation("Flip: b is not Successor(a)")
	}
	if succ, ok := t.Successor(tllVertex{owner: t, id: cID}); !ok || succ.ID() != dID {
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

// flip implements the spec's three-case flip algorithm: intra-segment
// reversal (Case 1), whole-segment-run reversal (Case 2), and — when
// neither endpoint sits on a segment boundary — at most two splits
// followed by a single re-entry into cases 1/2 (Case 3).
//
// The run reversed in Case 2 is always the b..c run, never d..a: reversing
// d..a instead produces the same undirected edge set but leaves
// Successor(a)==old-predecessor-of-a rather than c, breaking the
// Successor(a)==c, Successor(b)==d contract Flip must guarantee. Total
// segment count stays O(sqrt(n)) regardless of which of the two
// complementary runs is reversed, so always choosing b..c costs at most a
// constant factor, never the asymptotic bound.
func (t *TwoLevelList) flip(aID, bID, cID, dID int) {
	segB := t.vertices[bID].segment
	segC := t.vertices[cID].segment

	if segB == segC && t.logicalLE(segB, bID, cID) {
		if bID == t.segments[segB].First() && cID == t.segments[segB].Last() {
			t.segments[segB].reverse = !t.segments[segB].reverse
		} else {
			t.reverseWithinSegment(segB, bID, cID)
		}
		return
	}

	needRetry := false
	if bID != t.segments[t.vertices[bID].segment].First() {
		t.ensureSegmentStart(bID)
		needRetry = true
	}
	if dID != t.segments[t.vertices[dID].segment].First() {
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

func (t *TwoLevelList) TotalDistance() float64 { return t.total }

func (t *TwoLevelList) Reset() {
	for i := range t.vertices {
		t.vertices[i].visited = false
	}
}

func (t *TwoLevelList) VisitedAt(id int, flag bool) {
	if id < 0 || id >= len(t.vertices) {
		return
	}
	t.vertices[id].visited = flag
}
