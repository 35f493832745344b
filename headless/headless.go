// SPDX-License-Identifier: Unlicense OR MIT

// Package headless acquires a GPU rendering context that has no window
// or surface, for offscreen rendering, image generation and tests.
//
// New selects the first rendering device, opens a display for it, picks
// the surfaceless configuration with the most samples, creates a context
// (desktop OpenGL, falling back to OpenGL ES), makes it current without a
// surface and loads the GL function table through the display:
//
//	ctx, err := headless.New()
//	if err != nil {
//		return err
//	}
//	defer ctx.Release()
//	fmt.Println(ctx.GetString(gl.VERSION))
//
// The context is current on the OS thread of the goroutine that called
// New, and that goroutine stays locked to its thread until the last handle
// is released. GL calls and the final Release must be made from that
// goroutine.
package headless

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/headlessgl/headless/driver"
	"github.com/headlessgl/headless/gl"
)

// Context is a headless graphics context. It embeds the GL function table
// of its render context. Clones share the same render context, which is
// destroyed when the last clone is released.
type Context struct {
	*gl.Functions

	info     Info
	shared   *shared
	released atomic.Bool
}

// Info describes an acquired context.
type Info struct {
	Device    string
	Vendor    string
	Samples   int
	AlphaSize int
	API       driver.API
}

// shared owns the platform resources of a Context and its clones.
type shared struct {
	refs atomic.Int32
	disp driver.Display
	ctx  driver.RenderContext
	log  *slog.Logger
}

func (s *shared) acquire() {
	s.refs.Add(1)
}

func (s *shared) release() {
	if s.refs.Add(-1) != 0 {
		return
	}
	s.ctx.Release()
	s.disp.Release()
	unlockOSThread()
	s.log.Debug("released headless context")
}

type acquisition struct {
	opts   options
	log    *slog.Logger
	stage  Stage
	dev    driver.Device
	disp   driver.Display
	cfg    driver.Config
	ctx    driver.RenderContext
	api    driver.API
	locked bool
}

// New acquires a headless context. On failure every resource created so
// far is released and the returned error is an *Error.
func New(opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.deviceFromEnv()
	a := &acquisition{opts: o, log: o.log()}
	c, err := a.run()
	if err != nil {
		a.abort()
		return nil, err
	}
	return c, nil
}

func (a *acquisition) run() (*Context, error) {
	p := a.opts.platform
	if p == nil {
		return nil, a.fail(ErrNoDevices, errNoPlatform)
	}
	var err error
	a.dev, err = selectDevice(p, a.opts.deviceIndex, a.log)
	if err != nil {
		return nil, a.fail(ErrNoDevices, err)
	}
	a.advance(StageDeviceSelected)

	a.disp, err = openDisplay(p, a.dev, a.log)
	if err != nil {
		return nil, a.fail(ErrDisplayCreation, err)
	}
	a.advance(StageDisplayOpen)

	a.cfg, err = chooseConfig(a.disp, configTemplate(a.opts.alphaSize), a.log)
	if err != nil {
		return nil, a.fail(ErrNoConfigs, err)
	}
	a.advance(StageConfigSelected)

	a.ctx, a.api, err = createContext(a.disp, a.cfg, a.log)
	if err != nil {
		return nil, a.fail(ErrContextCreation, err)
	}
	a.advance(StageContextCreated)

	if err := activate(a.ctx); err != nil {
		return nil, a.fail(ErrContextActivation, err)
	}
	a.locked = true
	a.advance(StageContextCurrent)

	if a.opts.initializer == nil {
		return nil, a.fail(ErrGraphicsInit, errNoInitializer)
	}
	funcs, err := a.opts.initializer(loaderFor(a.disp))
	if err != nil {
		return nil, a.fail(ErrGraphicsInit, err)
	}
	if funcs == nil {
		return nil, a.fail(ErrGraphicsInit, errNoFunctions)
	}
	v := funcs.Version()
	a.log.Info("graphics initialized", "version", fmt.Sprintf("%d.%d", v[0], v[1]), "es", funcs.IsES())
	a.advance(StageReady)

	s := &shared{disp: a.disp, ctx: a.ctx, log: a.log}
	s.acquire()
	return &Context{
		Functions: funcs,
		shared:    s,
		info: Info{
			Device:    deviceName(a.dev),
			Vendor:    deviceVendor(a.dev),
			Samples:   a.cfg.Samples(),
			AlphaSize: a.cfg.AlphaSize(),
			API:       a.api,
		},
	}, nil
}

func (a *acquisition) advance(s Stage) {
	a.stage = s
	a.log.Debug("headless acquisition", "stage", s)
}

func (a *acquisition) fail(kind, cause error) error {
	return &Error{Stage: a.stage, Err: wrap(kind, cause)}
}

// abort releases the resources of a failed acquisition in reverse order.
func (a *acquisition) abort() {
	if a.ctx != nil {
		a.ctx.Release()
		a.ctx = nil
	}
	if a.locked {
		unlockOSThread()
		a.locked = false
	}
	if a.disp != nil {
		a.disp.Release()
		a.disp = nil
	}
}

// Info returns a description of the acquired context.
func (c *Context) Info() Info {
	return c.info
}

// Clone returns a new handle to the same context. Each handle must be
// released. Clone panics if c is released.
func (c *Context) Clone() *Context {
	if c.released.Load() {
		panic("headless: Clone of a released Context")
	}
	c.shared.acquire()
	return &Context{
		Functions: c.Functions,
		info:      c.info,
		shared:    c.shared,
	}
}

// Release drops the handle. The last Release destroys the render context
// and its display, then unlocks the goroutine that called New from its OS
// thread; it must run on that goroutine. Release is a no-op on a released
// handle.
func (c *Context) Release() {
	if !c.released.CompareAndSwap(false, true) {
		return
	}
	c.shared.release()
	c.Functions = nil
}
