package arena

import "unsafe"

// Mapper obtains and returns page-backed memory.
type Mapper interface {
	Map(size int) ([]byte, error)
	Unmap(b []byte) error
}

// AnonMapper maps private anonymous memory from the operating system.
type AnonMapper struct{}

func (AnonMapper) Map(size int) ([]byte, error) { return osMapAnon(size) }
func (AnonMapper) Unmap(b []byte) error         { return osUnmap(b) }

// Floats reinterprets a block as a slice of float64 values. The result
// aliases b.
func Floats(b []byte) []float64 {
	if len(b) < 8 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(unsafe.SliceData(b))), len(b)/8) //nolint:gosec // blocks are page aligned
}
