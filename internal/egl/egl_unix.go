// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package egl

import (
	"errors"
	"fmt"
	"os"
	"unsafe"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"
)

// libraryEnv overrides the EGL library path.
const libraryEnv = "HEADLESS_EGL_LIBRARY"

func loadLibrary() error {
	names := []string{"libEGL.so.1", "libEGL.so"}
	if path, ok := os.LookupEnv(libraryEnv); ok && path != "" {
		names = []string{path}
	}
	var errs []error
	for _, name := range names {
		lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return bindProcs(func(name string) (uintptr, error) {
			return purego.Dlsym(lib, name)
		})
	}
	return fmt.Errorf("egl: failed to load EGL: %w", errors.Join(errs...))
}

func cString(s string) (*byte, error) {
	return unix.BytePtrFromString(s)
}

func goString(p uintptr) string {
	if p == 0 {
		return ""
	}
	return unix.BytePtrToString((*byte)(unsafe.Pointer(p)))
}
