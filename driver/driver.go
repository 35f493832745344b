// SPDX-License-Identifier: Unlicense OR MIT

// Package driver defines the platform capabilities needed to acquire a
// headless rendering context: device enumeration, display creation,
// configuration queries, context creation, surfaceless activation and
// symbol resolution.
//
// A Platform is implemented by a native backend such as EGL. Package
// drivertest contains an in-memory implementation for tests.
package driver

import "fmt"

// Platform is the entry point of a native graphics backend.
type Platform interface {
	// Devices lists the rendering devices in platform order.
	Devices() ([]Device, error)
	// OpenDisplay opens a display bound to dev.
	OpenDisplay(dev Device) (Display, error)
}

// Device is a physical or virtual rendering adapter.
type Device interface {
	// Name returns the human readable device name, if known.
	Name() (string, bool)
	// Vendor returns the device vendor, if known.
	Vendor() (string, bool)
}

// Display is bound to a single Device and owns every Config and
// RenderContext derived from it.
type Display interface {
	// Configs returns the configurations matching t.
	Configs(t ConfigTemplate) ([]Config, error)
	// CreateContext creates a context that is not current on any thread.
	CreateContext(cfg Config, attrs ContextAttributes) (RenderContext, error)
	// ProcAddress returns the address of the named graphics function,
	// or 0 if the symbol is unknown.
	ProcAddress(name string) uintptr
	// Release destroys the display. It must be called after every
	// RenderContext created from the display has been released.
	Release()
}

// Config is an immutable description of a renderable format.
type Config interface {
	// Samples returns the multisample count.
	Samples() int
	// AlphaSize returns the alpha channel precision in bits.
	AlphaSize() int
}

// RenderContext is a command submission context.
type RenderContext interface {
	// MakeCurrentSurfaceless binds the context to the calling thread
	// without any draw or read surface.
	MakeCurrentSurfaceless() error
	// Release unbinds and destroys the context.
	Release()
}

// SurfaceType is a set of drawable kinds a Config must support.
// The zero value requests no drawable at all.
type SurfaceType uint32

const (
	SurfaceWindow SurfaceType = 1 << iota
	SurfacePbuffer
	SurfacePixmap
)

// Renderable is a set of client APIs a Config must support.
type Renderable uint32

const (
	RenderableGL Renderable = 1 << iota
	RenderableGLES2
	RenderableGLES3
)

// ConfigTemplate describes the requested configuration.
type ConfigTemplate struct {
	AlphaSize   int
	SurfaceType SurfaceType
	Renderable  Renderable
}

// API selects the client API profile of a RenderContext.
type API uint8

const (
	// APIDefault is the platform's default desktop profile.
	APIDefault API = iota
	// APIGLES is the embedded profile.
	APIGLES
)

func (a API) String() string {
	switch a {
	case APIDefault:
		return "OpenGL"
	case APIGLES:
		return "OpenGL ES"
	default:
		return fmt.Sprintf("API(%d)", uint8(a))
	}
}

// Version is a client API version. The zero Version lets the platform
// pick.
type Version struct {
	Major, Minor int
}

// NativeWindow is a platform window handle. Headless contexts use the
// zero value.
type NativeWindow uintptr

// ContextAttributes describes the requested RenderContext.
type ContextAttributes struct {
	API     API
	Version Version
	Window  NativeWindow
}
