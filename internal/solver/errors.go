package solver

import "errors"

var (
	// ErrPointSize indicates a point dimension the 4-lane kernel cannot process.
	ErrPointSize = errors.New("solver: point size must be a positive multiple of 4")

	// ErrConfig indicates invalid step or tolerance settings.
	ErrConfig = errors.New("solver: invalid configuration")

	// ErrNilArgument indicates a missing derivative function or cache.
	ErrNilArgument = errors.New("solver: derivative and cache are required")
)
