//go:build amd64

package kernel

import "golang.org/x/sys/cpu"

func init() {
	if cpu.X86.HasFMA && cpu.X86.HasAVX2 {
		axpyImpl = axpyFMA
		combineImpl = combineFMA
		isa = "fma"
	}
}
