//go:build unix && !linux

package arena

import "golang.org/x/sys/unix"

// MAP_POPULATE is Linux only; pages are touched on first write instead.
func osMapAnon(size int) ([]byte, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_ANON | unix.MAP_PRIVATE

	return unix.Mmap(-1, 0, size, prot, flags)
}

func osUnmap(b []byte) error {
	return unix.Munmap(b)
}
