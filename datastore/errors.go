package datastore

import "errors"

// Construction / lookup errors.
var (
	// ErrNoCities is returned by New when given an empty city slice.
	ErrNoCities = errors.New("datastore: no cities supplied")

	// ErrDuplicateID is returned by New when two cities share an id.
	ErrDuplicateID = errors.New("datastore: duplicate city id")

	// ErrNodeNotFound is returned when a city id is outside [0, Len()-1].
	ErrNodeNotFound = errors.New("datastore: node not found")

	// ErrUnsupportedMetric is returned when a Metric is nil or unrecognized.
	ErrUnsupportedMetric = errors.New("datastore: unsupported metric")
)

// Candidate-list errors.
var (
	// ErrBadCandidateWidth is returned by Candidates when k is out of range.
	ErrBadCandidateWidth = errors.New("datastore: candidate width out of range")

	// ErrCandidatesNotBuilt is returned by CandidatesOf before Candidates ran.
	ErrCandidatesNotBuilt = errors.New("datastore: candidate lists not built")
)
