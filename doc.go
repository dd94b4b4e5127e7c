// Package lktsp is a Lin–Kernighan-style solver for the symmetric Traveling
// Salesman Problem, built around a fast mutable tour representation.
//
// What is lktsp?
//
//	A small, dependency-light library that brings together:
//
//	  - datastore/ — cities, coordinates, pluggable distance metrics
//	  - tour/      — the Tour contract and three interchangeable implementations
//	                 (Array, TwoLevelTree, TwoLevelList)
//	  - greedy/    — nearest-neighbor construction of an initial cycle
//	  - kopt/      — 2-opt local search driven purely by the Tour contract
//	  - tsplib/    — TSPLIB NODE_COORD_SECTION loader
//	  - cmd/solve/ — command-line entry point
//
// Why lktsp?
//
//   - The hard part is isolated — every algorithm is written once against the
//     Tour interface and never assumes which representation backs it.
//   - TwoLevelList gives O(1) successor/predecessor/between and O(sqrt(n))
//     flip, which is what makes k-opt practical on non-trivial instances.
//   - Array and TwoLevelTree exist to differentially test TwoLevelList: same
//     sequence of flips, same resulting tour, same total distance.
//
// Quick ASCII example of the two-level structure (n=10, segments of ~3):
//
//	segment ring:   [S0]──[S1]──[S2]──[S3]──(back to S0)
//	S0 vertices:     0 → 1 → 2
//	S1 vertices:     3 → 4 → 5
//
// See SPEC_FULL.md and DESIGN.md for the full component breakdown and the
// rationale behind every design decision.
package lktsp
