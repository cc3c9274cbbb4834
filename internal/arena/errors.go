package arena

import (
	"errors"
	"fmt"
)

// ErrBlockSize is raised when a block of the wrong length is released.
var ErrBlockSize = errors.New("arena: released block has wrong size")

// MapError reports a failed mapping or unmapping of a block.
type MapError struct {
	Op   string
	Size int
	Err  error
}

func (e *MapError) Error() string {
	return fmt.Sprintf("arena: %s of %d bytes failed: %v", e.Op, e.Size, e.Err)
}

func (e *MapError) Unwrap() error {
	return e.Err
}
