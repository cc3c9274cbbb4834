//go:build !unix

package arena

// Large heap allocations start on a runtime page boundary, which is enough
// alignment for the 4-lane kernel.
func osMapAnon(size int) ([]byte, error) {
	return make([]byte, size), nil
}

func osUnmap([]byte) error {
	return nil
}
