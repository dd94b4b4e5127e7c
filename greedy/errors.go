package greedy

import "errors"

var (
	// ErrEmptyDataStore is returned when the DataStore has no cities.
	ErrEmptyDataStore = errors.New("greedy: data store has no cities")

	// ErrStartOutOfRange is returned when the requested start city id is
	// outside [0, n).
	ErrStartOutOfRange = errors.New("greedy: start city out of range")
)
