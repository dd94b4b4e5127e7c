package kopt

import "errors"

var (
	// ErrUnsupportedWidth is returned when Options.KOptWidth is not one of
	// the supported candidate-list widths (2, 3, 5).
	ErrUnsupportedWidth = errors.New("kopt: unsupported k-opt width")

	// ErrTimeLimit is returned when Options.TimeLimit elapses before the
	// driver reaches a local optimum or its trial budget.
	ErrTimeLimit = errors.New("kopt: time limit exceeded")
)
