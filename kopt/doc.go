// Package kopt drives local search over a tour.Tour, improving it with
// bounded-neighborhood 2-opt moves until no improving move remains, a
// trial budget is exhausted, or a deadline passes.
//
// The driver is written entirely against the tour.Tour contract
// (Len, Get, Successor, Flip, TotalDistance) — it never inspects which
// concrete implementation (Array, TwoLevelTree, TwoLevelList) it is
// driving, so the exact same code differentially tests all three.
package kopt
