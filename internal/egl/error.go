// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

package egl

import "fmt"

// Error is an eglGetError code.
type Error _EGLint

const (
	errSuccess           Error = 0x3000
	errNotInitialized    Error = 0x3001
	errBadAccess         Error = 0x3002
	errBadAlloc          Error = 0x3003
	errBadAttribute      Error = 0x3004
	errBadConfig         Error = 0x3005
	errBadContext        Error = 0x3006
	errBadCurrentSurface Error = 0x3007
	errBadDisplay        Error = 0x3008
	errBadMatch          Error = 0x3009
	errBadNativePixmap   Error = 0x300a
	errBadNativeWindow   Error = 0x300b
	errBadParameter      Error = 0x300c
	errBadSurface        Error = 0x300d
	errContextLost       Error = 0x300e
	errBadDevice         Error = 0x322b
)

var errorNames = map[Error]string{
	errSuccess:           "EGL_SUCCESS",
	errNotInitialized:    "EGL_NOT_INITIALIZED",
	errBadAccess:         "EGL_BAD_ACCESS",
	errBadAlloc:          "EGL_BAD_ALLOC",
	errBadAttribute:      "EGL_BAD_ATTRIBUTE",
	errBadConfig:         "EGL_BAD_CONFIG",
	errBadContext:        "EGL_BAD_CONTEXT",
	errBadCurrentSurface: "EGL_BAD_CURRENT_SURFACE",
	errBadDisplay:        "EGL_BAD_DISPLAY",
	errBadMatch:          "EGL_BAD_MATCH",
	errBadNativePixmap:   "EGL_BAD_NATIVE_PIXMAP",
	errBadNativeWindow:   "EGL_BAD_NATIVE_WINDOW",
	errBadParameter:      "EGL_BAD_PARAMETER",
	errBadSurface:        "EGL_BAD_SURFACE",
	errContextLost:       "EGL_CONTEXT_LOST",
	errBadDevice:         "EGL_BAD_DEVICE_EXT",
}

func (e Error) Error() string {
	if name, ok := errorNames[e]; ok {
		return fmt.Sprintf("%s (0x%x)", name, int32(e))
	}
	return fmt.Sprintf("EGL error 0x%x", int32(e))
}
