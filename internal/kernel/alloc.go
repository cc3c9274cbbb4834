package kernel

import "unsafe"

// Alignment is the byte alignment of scratch vectors, one 256-bit register.
const Alignment = 32

// AllocAligned allocates n float64 values starting on an Alignment boundary.
func AllocAligned(n int) []float64 {
	if n == 0 {
		return nil
	}

	// Over-allocate so the start can be shifted up to the next boundary.
	buf := make([]float64, n+Alignment/8)
	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := ((Alignment - addr&(Alignment-1)) & (Alignment - 1)) / 8

	return buf[offset : offset+uintptr(n) : offset+uintptr(n)]
}
