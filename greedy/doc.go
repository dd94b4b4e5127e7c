// Package greedy builds an initial tour with the nearest-neighbor
// heuristic: starting from a chosen city, repeatedly walk to the closest
// unvisited city until every city has been visited once.
//
// The constructor consults the DataStore's precomputed candidate
// shortlist first (O(k) per step) and only falls back to a full O(n)
// scan when every candidate has already been visited — the common case
// on all but the last few steps of the walk.
package greedy
