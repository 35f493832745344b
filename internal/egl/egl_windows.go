// SPDX-License-Identifier: Unlicense OR MIT

package egl

import (
	"fmt"
	"os"
	"unsafe"

	syscall "golang.org/x/sys/windows"
)

// libraryEnv overrides the EGL library path.
const libraryEnv = "HEADLESS_EGL_LIBRARY"

var libEGL = syscall.DLL{}

func loadLibrary() error {
	name := "libEGL.dll"
	if path, ok := os.LookupEnv(libraryEnv); ok && path != "" {
		name = path
	}
	if err := loadDLL(&libEGL, name); err != nil {
		return err
	}
	return bindProcs(func(name string) (uintptr, error) {
		p, err := libEGL.FindProc(name)
		if err != nil {
			return 0, err
		}
		return p.Addr(), nil
	})
}

func loadDLL(dll *syscall.DLL, name string) error {
	handle, err := syscall.LoadLibraryEx(name, 0, syscall.LOAD_LIBRARY_SEARCH_DEFAULT_DIRS)
	if err != nil {
		return fmt.Errorf("egl: failed to load %s: %v", name, err)
	}
	dll.Handle = handle
	dll.Name = name
	return nil
}

func cString(s string) (*byte, error) {
	return syscall.BytePtrFromString(s)
}

func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	return syscall.BytePtrToString((*byte)(unsafe.Pointer(p)))
}
