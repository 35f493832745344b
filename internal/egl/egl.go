// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

// Package egl implements driver.Platform with EGL devices
// (EGL_EXT_device_enumeration and EGL_EXT_platform_device) and surfaceless
// contexts (EGL_KHR_surfaceless_context).
package egl

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/ebitengine/purego"

	"github.com/headlessgl/headless/driver"
)

type (
	_EGLint       int32
	_EGLenum      uint32
	_EGLBoolean   uint32
	_EGLDisplay   uintptr
	_EGLConfig    uintptr
	_EGLContext   uintptr
	_EGLSurface   uintptr
	_EGLDeviceEXT uintptr
)

var (
	nilEGLDisplay _EGLDisplay
	nilEGLSurface _EGLSurface
	nilEGLContext _EGLContext
)

const (
	_EGL_ALPHA_SIZE                      = 0x3021
	_EGL_CONTEXT_MAJOR_VERSION           = 0x3098
	_EGL_CONTEXT_MINOR_VERSION           = 0x30fb
	_EGL_CONTEXT_OPENGL_CORE_PROFILE_BIT = 0x1
	_EGL_CONTEXT_OPENGL_PROFILE_MASK     = 0x30fd
	_EGL_DRM_DEVICE_FILE_EXT             = 0x3233
	_EGL_EXTENSIONS                      = 0x3055
	_EGL_NONE                            = 0x3038
	_EGL_OPENGL_API                      = 0x30a2
	_EGL_OPENGL_BIT                      = 0x8
	_EGL_OPENGL_ES2_BIT                  = 0x4
	_EGL_OPENGL_ES3_BIT                  = 0x40
	_EGL_OPENGL_ES_API                   = 0x30a0
	_EGL_PBUFFER_BIT                     = 0x1
	_EGL_PIXMAP_BIT                      = 0x2
	_EGL_PLATFORM_DEVICE_EXT             = 0x313f
	_EGL_RENDERABLE_TYPE                 = 0x3040
	_EGL_RENDERER_EXT                    = 0x335f
	_EGL_SAMPLES                         = 0x3031
	_EGL_SURFACE_TYPE                    = 0x3033
	_EGL_VENDOR                          = 0x3053
	_EGL_WINDOW_BIT                      = 0x4
)

var (
	_eglBindAPI           func(api _EGLenum) _EGLBoolean
	_eglChooseConfig      func(disp _EGLDisplay, attribs *_EGLint, configs *_EGLConfig, size _EGLint, num *_EGLint) _EGLBoolean
	_eglCreateContext     func(disp _EGLDisplay, cfg _EGLConfig, share _EGLContext, attribs *_EGLint) _EGLContext
	_eglDestroyContext    func(disp _EGLDisplay, ctx _EGLContext) _EGLBoolean
	_eglGetConfigAttrib   func(disp _EGLDisplay, cfg _EGLConfig, attr _EGLint, value *_EGLint) _EGLBoolean
	_eglGetCurrentContext func() _EGLContext
	_eglGetError          func() _EGLint
	_eglGetProcAddress    func(name *byte) uintptr
	_eglInitialize        func(disp _EGLDisplay, major, minor *_EGLint) _EGLBoolean
	_eglMakeCurrent       func(disp _EGLDisplay, draw, read _EGLSurface, ctx _EGLContext) _EGLBoolean
	_eglQueryString       func(disp _EGLDisplay, name _EGLint) uintptr
	_eglReleaseThread     func() _EGLBoolean
	_eglTerminate         func(disp _EGLDisplay) _EGLBoolean

	// Extension entry points, resolved through eglGetProcAddress.
	_eglQueryDevicesEXT       func(max _EGLint, devices *_EGLDeviceEXT, num *_EGLint) _EGLBoolean
	_eglQueryDeviceStringEXT  func(dev _EGLDeviceEXT, name _EGLint) uintptr
	_eglGetPlatformDisplayEXT func(platform _EGLenum, native uintptr, attribs *_EGLint) _EGLDisplay
)

var (
	loadOnce sync.Once
	loadErr  error
	extOnce  sync.Once
	extErr   error
)

func loadEGL() error {
	loadOnce.Do(func() {
		loadErr = loadLibrary()
	})
	return loadErr
}

// bindProcs binds the core entry points, locating each with lookup.
func bindProcs(lookup func(name string) (uintptr, error)) error {
	procs := map[string]any{
		"eglBindAPI":           &_eglBindAPI,
		"eglChooseConfig":      &_eglChooseConfig,
		"eglCreateContext":     &_eglCreateContext,
		"eglDestroyContext":    &_eglDestroyContext,
		"eglGetConfigAttrib":   &_eglGetConfigAttrib,
		"eglGetCurrentContext": &_eglGetCurrentContext,
		"eglGetError":          &_eglGetError,
		"eglGetProcAddress":    &_eglGetProcAddress,
		"eglInitialize":        &_eglInitialize,
		"eglMakeCurrent":       &_eglMakeCurrent,
		"eglQueryString":       &_eglQueryString,
		"eglReleaseThread":     &_eglReleaseThread,
		"eglTerminate":         &_eglTerminate,
	}
	for name, fn := range procs {
		addr, err := lookup(name)
		if err != nil {
			return fmt.Errorf("egl: failed to locate %s: %w", name, err)
		}
		if addr == 0 {
			return fmt.Errorf("egl: failed to locate %s", name)
		}
		purego.RegisterFunc(fn, addr)
	}
	return nil
}

func loadDeviceExtensions() error {
	extOnce.Do(func() {
		exts := map[string]any{
			"eglQueryDevicesEXT":       &_eglQueryDevicesEXT,
			"eglQueryDeviceStringEXT":  &_eglQueryDeviceStringEXT,
			"eglGetPlatformDisplayEXT": &_eglGetPlatformDisplayEXT,
		}
		for name, fn := range exts {
			addr := eglGetProcAddress(name)
			if addr == 0 {
				extErr = fmt.Errorf("egl: %s not available", name)
				return
			}
			purego.RegisterFunc(fn, addr)
		}
	})
	return extErr
}

// Platform is the EGL driver.Platform.
type Platform struct{}

// NewPlatform returns the EGL platform. The EGL library is loaded on
// first use.
func NewPlatform() *Platform {
	return new(Platform)
}

type device struct {
	dev    _EGLDeviceEXT
	name   string
	vendor string
}

func (d *device) Name() (string, bool) {
	return d.name, d.name != ""
}

func (d *device) Vendor() (string, bool) {
	return d.vendor, d.vendor != ""
}

// Display is an initialized EGL display.
type Display struct {
	disp         _EGLDisplay
	major, minor int
	surfaceless  bool
}

// Config is an EGL frame buffer configuration.
type Config struct {
	cfg     _EGLConfig
	samples int
	alpha   int
}

func (c *Config) Samples() int   { return c.samples }
func (c *Config) AlphaSize() int { return c.alpha }

// Context is an EGL rendering context.
type Context struct {
	disp *Display
	ctx  _EGLContext
	api  _EGLenum
}

// Devices implements driver.Platform.
func (p *Platform) Devices() ([]driver.Device, error) {
	if err := loadEGL(); err != nil {
		return nil, err
	}
	// Client extensions are queried on EGL_NO_DISPLAY.
	exts := strings.Fields(eglQueryString(nilEGLDisplay, _EGL_EXTENSIONS))
	if !hasExtension(exts, "EGL_EXT_device_enumeration") && !hasExtension(exts, "EGL_EXT_device_base") {
		return nil, errors.New("egl: EGL_EXT_device_enumeration not supported")
	}
	if !hasExtension(exts, "EGL_EXT_platform_device") {
		return nil, errors.New("egl: EGL_EXT_platform_device not supported")
	}
	if err := loadDeviceExtensions(); err != nil {
		return nil, err
	}
	var n _EGLint
	if _eglQueryDevicesEXT(0, nil, &n) == 0 {
		return nil, fmt.Errorf("eglQueryDevicesEXT failed: %w", eglGetError())
	}
	if n == 0 {
		return nil, nil
	}
	handles := make([]_EGLDeviceEXT, n)
	if _eglQueryDevicesEXT(n, &handles[0], &n) == 0 {
		return nil, fmt.Errorf("eglQueryDevicesEXT failed: %w", eglGetError())
	}
	devs := make([]driver.Device, 0, n)
	for _, h := range handles[:n] {
		devs = append(devs, newDevice(h))
	}
	return devs, nil
}

func newDevice(h _EGLDeviceEXT) *device {
	d := &device{dev: h}
	exts := strings.Fields(eglQueryDeviceString(h, _EGL_EXTENSIONS))
	if hasExtension(exts, "EGL_EXT_device_query_name") {
		d.name = eglQueryDeviceString(h, _EGL_RENDERER_EXT)
		d.vendor = eglQueryDeviceString(h, _EGL_VENDOR)
	}
	if d.name == "" && hasExtension(exts, "EGL_EXT_device_drm") {
		d.name = eglQueryDeviceString(h, _EGL_DRM_DEVICE_FILE_EXT)
	}
	return d
}

// OpenDisplay implements driver.Platform.
func (p *Platform) OpenDisplay(dev driver.Device) (driver.Display, error) {
	d, ok := dev.(*device)
	if !ok {
		return nil, fmt.Errorf("egl: not an EGL device: %T", dev)
	}
	attribs := []_EGLint{_EGL_NONE}
	disp := _eglGetPlatformDisplayEXT(_EGL_PLATFORM_DEVICE_EXT, uintptr(d.dev), &attribs[0])
	runtime.KeepAlive(attribs)
	if disp == nilEGLDisplay {
		return nil, fmt.Errorf("eglGetPlatformDisplayEXT failed: %w", eglGetError())
	}
	major, minor, ok := eglInitialize(disp)
	if !ok {
		return nil, fmt.Errorf("eglInitialize failed: %w", eglGetError())
	}
	exts := strings.Fields(eglQueryString(disp, _EGL_EXTENSIONS))
	return &Display{
		disp:        disp,
		major:       int(major),
		minor:       int(minor),
		surfaceless: hasExtension(exts, "EGL_KHR_surfaceless_context"),
	}, nil
}

// Configs implements driver.Display.
func (d *Display) Configs(t driver.ConfigTemplate) ([]driver.Config, error) {
	attribs := configAttribs(t)
	var n _EGLint
	if _eglChooseConfig(d.disp, &attribs[0], nil, 0, &n) == 0 {
		return nil, fmt.Errorf("eglChooseConfig failed: %w", eglGetError())
	}
	if n == 0 {
		return nil, nil
	}
	handles := make([]_EGLConfig, n)
	if _eglChooseConfig(d.disp, &attribs[0], &handles[0], n, &n) == 0 {
		return nil, fmt.Errorf("eglChooseConfig failed: %w", eglGetError())
	}
	runtime.KeepAlive(attribs)
	cfgs := make([]driver.Config, 0, n)
	for _, h := range handles[:n] {
		samples, ok := eglGetConfigAttrib(d.disp, h, _EGL_SAMPLES)
		if !ok {
			return nil, fmt.Errorf("eglGetConfigAttrib(EGL_SAMPLES) failed: %w", eglGetError())
		}
		alpha, ok := eglGetConfigAttrib(d.disp, h, _EGL_ALPHA_SIZE)
		if !ok {
			return nil, fmt.Errorf("eglGetConfigAttrib(EGL_ALPHA_SIZE) failed: %w", eglGetError())
		}
		cfgs = append(cfgs, &Config{cfg: h, samples: int(samples), alpha: int(alpha)})
	}
	return cfgs, nil
}

// CreateContext implements driver.Display.
func (d *Display) CreateContext(cfg driver.Config, attrs driver.ContextAttributes) (driver.RenderContext, error) {
	c, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("egl: not an EGL config: %T", cfg)
	}
	if attrs.Window != 0 {
		return nil, errors.New("egl: window surfaces are not supported")
	}
	api := clientAPI(attrs.API)
	if api == 0 {
		return nil, fmt.Errorf("egl: unsupported client API %v", attrs.API)
	}
	if _eglBindAPI(api) == 0 {
		return nil, fmt.Errorf("eglBindAPI(%v) failed: %w", attrs.API, eglGetError())
	}
	var ctx _EGLContext
	for _, ctxAttribs := range contextAttribs(attrs) {
		ctx = _eglCreateContext(d.disp, c.cfg, nilEGLContext, &ctxAttribs[0])
		runtime.KeepAlive(ctxAttribs)
		if ctx != nilEGLContext {
			break
		}
	}
	if ctx == nilEGLContext {
		return nil, fmt.Errorf("eglCreateContext(%v) failed: %w", attrs.API, eglGetError())
	}
	return &Context{disp: d, ctx: ctx, api: api}, nil
}

// ProcAddress implements driver.Display.
func (d *Display) ProcAddress(name string) uintptr {
	return eglGetProcAddress(name)
}

// Release implements driver.Display.
func (d *Display) Release() {
	if d.disp == nilEGLDisplay {
		return
	}
	eglTerminate(d.disp)
	d.disp = nilEGLDisplay
}

// MakeCurrentSurfaceless implements driver.RenderContext.
func (c *Context) MakeCurrentSurfaceless() error {
	if !c.disp.surfaceless {
		return errors.New("EGL_KHR_surfaceless_context not supported")
	}
	// The bound API is per thread and selects which current context
	// eglMakeCurrent replaces.
	if _eglBindAPI(c.api) == 0 {
		return fmt.Errorf("eglBindAPI failed: %w", eglGetError())
	}
	if _eglMakeCurrent(c.disp.disp, nilEGLSurface, nilEGLSurface, c.ctx) == 0 {
		return fmt.Errorf("eglMakeCurrent failed: %w", eglGetError())
	}
	return nil
}

// Release implements driver.RenderContext.
func (c *Context) Release() {
	if c.ctx == nilEGLContext {
		return
	}
	_eglBindAPI(c.api)
	if _eglGetCurrentContext() == c.ctx {
		_eglMakeCurrent(c.disp.disp, nilEGLSurface, nilEGLSurface, nilEGLContext)
	}
	_eglDestroyContext(c.disp.disp, c.ctx)
	_eglReleaseThread()
	c.ctx = nilEGLContext
}

func clientAPI(api driver.API) _EGLenum {
	switch api {
	case driver.APIDefault:
		return _EGL_OPENGL_API
	case driver.APIGLES:
		return _EGL_OPENGL_ES_API
	default:
		return 0
	}
}

// configAttribs converts t to an eglChooseConfig attribute list. The
// surface type is always present because EGL defaults it to
// EGL_WINDOW_BIT.
func configAttribs(t driver.ConfigTemplate) []_EGLint {
	attribs := []_EGLint{
		_EGL_ALPHA_SIZE, _EGLint(t.AlphaSize),
		_EGL_SURFACE_TYPE, surfaceBits(t.SurfaceType),
	}
	if t.Renderable != 0 {
		attribs = append(attribs, _EGL_RENDERABLE_TYPE, renderableBits(t.Renderable))
	}
	return append(attribs, _EGL_NONE)
}

func surfaceBits(s driver.SurfaceType) _EGLint {
	var bits _EGLint
	if s&driver.SurfaceWindow != 0 {
		bits |= _EGL_WINDOW_BIT
	}
	if s&driver.SurfacePbuffer != 0 {
		bits |= _EGL_PBUFFER_BIT
	}
	if s&driver.SurfacePixmap != 0 {
		bits |= _EGL_PIXMAP_BIT
	}
	return bits
}

func renderableBits(r driver.Renderable) _EGLint {
	var bits _EGLint
	if r&driver.RenderableGL != 0 {
		bits |= _EGL_OPENGL_BIT
	}
	if r&driver.RenderableGLES2 != 0 {
		bits |= _EGL_OPENGL_ES2_BIT
	}
	if r&driver.RenderableGLES3 != 0 {
		bits |= _EGL_OPENGL_ES3_BIT
	}
	return bits
}

// contextAttribs returns the eglCreateContext attribute lists to try in
// order. An unpinned OpenGL ES version tries 3 and falls back to 2.
func contextAttribs(attrs driver.ContextAttributes) [][]_EGLint {
	ver := attrs.Version
	if ver.Major == 0 {
		switch attrs.API {
		case driver.APIGLES:
			return [][]_EGLint{
				{_EGL_CONTEXT_MAJOR_VERSION, 3, _EGL_NONE},
				{_EGL_CONTEXT_MAJOR_VERSION, 2, _EGL_NONE},
			}
		default:
			return [][]_EGLint{{_EGL_NONE}}
		}
	}
	attribs := []_EGLint{
		_EGL_CONTEXT_MAJOR_VERSION, _EGLint(ver.Major),
		_EGL_CONTEXT_MINOR_VERSION, _EGLint(ver.Minor),
	}
	// Profiles exist from OpenGL 3.2.
	if attrs.API == driver.APIDefault && (ver.Major > 3 || ver.Major == 3 && ver.Minor >= 2) {
		attribs = append(attribs, _EGL_CONTEXT_OPENGL_PROFILE_MASK, _EGL_CONTEXT_OPENGL_CORE_PROFILE_BIT)
	}
	return [][]_EGLint{append(attribs, _EGL_NONE)}
}

func hasExtension(exts []string, ext string) bool {
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

func eglGetError() Error {
	return Error(_eglGetError())
}

func eglGetConfigAttrib(disp _EGLDisplay, cfg _EGLConfig, attr _EGLint) (_EGLint, bool) {
	var val _EGLint
	r := _eglGetConfigAttrib(disp, cfg, attr, &val)
	return val, r != 0
}

func eglInitialize(disp _EGLDisplay) (_EGLint, _EGLint, bool) {
	var maj, min _EGLint
	r := _eglInitialize(disp, &maj, &min)
	return maj, min, r != 0
}

func eglGetProcAddress(name string) uintptr {
	cname, err := cString(name)
	if err != nil {
		return 0
	}
	addr := _eglGetProcAddress(cname)
	runtime.KeepAlive(cname)
	return addr
}

func eglQueryString(disp _EGLDisplay, name _EGLint) string {
	return goString(_eglQueryString(disp, name))
}

func eglQueryDeviceString(dev _EGLDeviceEXT, name _EGLint) string {
	return goString(_eglQueryDeviceStringEXT(dev, name))
}

func eglTerminate(disp _EGLDisplay) bool {
	return _eglTerminate(disp) != 0
}

// Version returns the EGL version reported by eglInitialize.
func (d *Display) Version() (major, minor int) {
	return d.major, d.minor
}
