//go:build linux

package sysmem

import "golang.org/x/sys/unix"

// totalPhysicalBytes reads total RAM via sysinfo(2), the Go equivalent of
// the original sysconf(_SC_PHYS_PAGES) * sysconf(_SC_PAGE_SIZE).
func totalPhysicalBytes() (uint64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	return uint64(info.Totalram) * uint64(info.Unit), true
}
