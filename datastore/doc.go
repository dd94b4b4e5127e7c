// Package datastore holds the cities a tour is built over, the distance
// metric between them, and a per-city candidate (nearest-neighbor) shortlist
// used by construction and local-search to avoid O(n) full scans.
//
// Design goals:
//   - Immutable coordinates: once loaded, a City's position never changes.
//   - Pluggable metric: Euclidean2D, Geo, Manhattan, and ATT all satisfy the
//     same Metric interface; callers choose one at construction time.
//   - Cheap repeated queries: pairwise distances are cached on first use,
//     candidate lists are precomputed once via Candidates(k).
package datastore
