//go:build windows

package sysmem

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// totalPhysicalBytes calls GlobalMemoryStatusEx, exactly as the original
// memory.h does under _WIN32.
func totalPhysicalBytes() (uint64, bool) {
	var status windows.MemoryStatusEx
	status.Length = uint32(unsafe.Sizeof(status))
	if err := windows.GlobalMemoryStatusEx(&status); err != nil {
		return 0, false
	}
	return status.TotalPhys, true
}
