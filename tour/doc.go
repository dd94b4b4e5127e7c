// Package tour defines the Tour contract — the single abstraction every
// construction and local-search algorithm in lktsp is written against — and
// three independent implementations of it:
//
//   - Array: a position-array reference implementation. O(1) successor/
//     predecessor/between, O(n) flip. Used to cross-check the others.
//   - TwoLevelTree: an intermediate representation, segments kept in a
//     rank-sorted slice with binary-search lookup. O(log s) ring
//     navigation, O(s) split/insert.
//   - TwoLevelList: the production representation. O(1) successor/
//     predecessor/between, O(sqrt(n)) flip. This is what greedy and kopt
//     run against in practice.
//
// All three satisfy the same Tour interface and must agree on successor
// order and total distance after any sequence of flips (see the property
// tests in this package).
package tour
