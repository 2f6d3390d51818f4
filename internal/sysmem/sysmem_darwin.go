//go:build darwin

package sysmem

import "golang.org/x/sys/unix"

// totalPhysicalBytes reads total RAM via the hw.memsize sysctl, the macOS
// analogue of the Linux sysinfo(2) path.
func totalPhysicalBytes() (uint64, bool) {
	v, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, false
	}
	return v, true
}
