//go:build linux

package arena

import "golang.org/x/sys/unix"

func osMapAnon(size int) ([]byte, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_ANON | unix.MAP_PRIVATE | unix.MAP_POPULATE

	return unix.Mmap(-1, 0, size, prot, flags)
}

func osUnmap(b []byte) error {
	return unix.Munmap(b)
}
