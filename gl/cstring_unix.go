// SPDX-License-Identifier: Unlicense OR MIT

//go:build darwin || linux || freebsd || netbsd

package gl

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// goString converts a NUL-terminated C string owned by the driver.
func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	return unix.BytePtrToString((*byte)(unsafe.Pointer(p)))
}
