// Package kernel provides the elementwise vector arithmetic used by the
// solver's stage combinations.
//
// Every function works on groups of [Lanes] coordinates, so slice lengths must
// be a multiple of [Lanes]. The implementation is chosen once at start-up:
// a fused multiply-add variant when the CPU supports it, a separate
// multiply and add variant otherwise. Callers never see which one runs, so
// the lane strategy can change without touching the steppers.
package kernel
