// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// goString converts a NUL-terminated C string owned by the driver.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	return windows.BytePtrToString((*byte)(unsafe.Pointer(p)))
}
