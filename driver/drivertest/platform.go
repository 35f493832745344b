// SPDX-License-Identifier: Unlicense OR MIT

// Package drivertest implements an in-memory driver.Platform that records
// every call made against it.
package drivertest

import (
	"errors"
	"fmt"

	"github.com/headlessgl/headless/driver"
)

// Device is a fake rendering device. Empty strings are reported as
// unknown.
type Device struct {
	DeviceName   string
	DeviceVendor string
}

func (d *Device) Name() (string, bool) {
	return d.DeviceName, d.DeviceName != ""
}

func (d *Device) Vendor() (string, bool) {
	return d.DeviceVendor, d.DeviceVendor != ""
}

// Config is a fake configuration.
type Config struct {
	// ID identifies the config in test assertions.
	ID         int
	NumSamples int
	Alpha      int
}

func (c *Config) Samples() int   { return c.NumSamples }
func (c *Config) AlphaSize() int { return c.Alpha }

// Platform is a scripted driver.Platform. The exported fields up to
// Symbols configure its behavior; the remaining fields record calls.
type Platform struct {
	DeviceList  []*Device
	DevicesErr  error
	OpenErr     error
	ConfigList  []*Config
	ConfigsErr  error
	CreateErr   map[driver.API]error
	ActivateErr error
	Symbols     map[string]uintptr

	// Events lists every call in order, for example "open GPU0",
	// "create OpenGL", "activate", "release context", "release display".
	Events []string
	// Opened is the device passed to OpenDisplay.
	Opened *Device
	// Template is the template passed to Configs.
	Template driver.ConfigTemplate
	// Chosen is the config passed to the last successful CreateContext.
	Chosen *Config
	// Attributes records every CreateContext request.
	Attributes []driver.ContextAttributes
	// Activations counts MakeCurrentSurfaceless calls.
	Activations int
	// Current is the context bound by the last successful activation.
	Current *Context

	displays  int
	contexts  int
	lookups   []string
	displayUp bool
}

// NewPlatform returns a Platform with one device, one 4x multisampled
// config and no failures.
func NewPlatform() *Platform {
	return &Platform{
		DeviceList: []*Device{{DeviceName: "GPU0", DeviceVendor: "MockVendor"}},
		ConfigList: []*Config{{ID: 0, NumSamples: 4, Alpha: 8}},
	}
}

func (p *Platform) record(format string, args ...any) {
	p.Events = append(p.Events, fmt.Sprintf(format, args...))
}

// Devices implements driver.Platform.
func (p *Platform) Devices() ([]driver.Device, error) {
	p.record("devices")
	if p.DevicesErr != nil {
		return nil, p.DevicesErr
	}
	devs := make([]driver.Device, len(p.DeviceList))
	for i, d := range p.DeviceList {
		devs[i] = d
	}
	return devs, nil
}

// OpenDisplay implements driver.Platform.
func (p *Platform) OpenDisplay(dev driver.Device) (driver.Display, error) {
	d, ok := dev.(*Device)
	if !ok {
		return nil, fmt.Errorf("drivertest: foreign device %T", dev)
	}
	p.record("open %s", d.DeviceName)
	if p.OpenErr != nil {
		return nil, p.OpenErr
	}
	p.Opened = d
	p.displays++
	p.displayUp = true
	return &Display{p: p}, nil
}

// LiveDisplays returns the number of opened and not yet released displays.
func (p *Platform) LiveDisplays() int {
	return p.displays
}

// LiveContexts returns the number of created and not yet released contexts.
func (p *Platform) LiveContexts() int {
	return p.contexts
}

// Lookups returns the symbol names resolved through ProcAddress.
func (p *Platform) Lookups() []string {
	return p.lookups
}

// Display is the driver.Display of a Platform.
type Display struct {
	p        *Platform
	released bool
}

// Configs implements driver.Display.
func (d *Display) Configs(t driver.ConfigTemplate) ([]driver.Config, error) {
	d.p.record("configs")
	d.p.Template = t
	if d.p.ConfigsErr != nil {
		return nil, d.p.ConfigsErr
	}
	cfgs := make([]driver.Config, len(d.p.ConfigList))
	for i, c := range d.p.ConfigList {
		cfgs[i] = c
	}
	return cfgs, nil
}

// CreateContext implements driver.Display.
func (d *Display) CreateContext(cfg driver.Config, attrs driver.ContextAttributes) (driver.RenderContext, error) {
	d.p.record("create %s", attrs.API)
	d.p.Attributes = append(d.p.Attributes, attrs)
	if err := d.p.CreateErr[attrs.API]; err != nil {
		return nil, err
	}
	c, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("drivertest: foreign config %T", cfg)
	}
	d.p.Chosen = c
	d.p.contexts++
	return &Context{p: d.p, API: attrs.API}, nil
}

// ProcAddress implements driver.Display.
func (d *Display) ProcAddress(name string) uintptr {
	d.p.lookups = append(d.p.lookups, name)
	return d.p.Symbols[name]
}

// Release implements driver.Display.
func (d *Display) Release() {
	if d.released {
		panic("drivertest: display released twice")
	}
	if d.p.contexts > 0 {
		panic("drivertest: display released before its contexts")
	}
	d.released = true
	d.p.record("release display")
	d.p.displays--
	d.p.displayUp = false
}

// Context is the driver.RenderContext of a Platform.
type Context struct {
	p        *Platform
	API      driver.API
	current  bool
	released bool
}

// IsCurrent reports whether the context is bound.
func (c *Context) IsCurrent() bool {
	return c.current
}

// MakeCurrentSurfaceless implements driver.RenderContext.
func (c *Context) MakeCurrentSurfaceless() error {
	c.p.record("activate")
	c.p.Activations++
	if c.p.ActivateErr != nil {
		return c.p.ActivateErr
	}
	if !c.p.displayUp {
		return errors.New("drivertest: display is not open")
	}
	c.current = true
	c.p.Current = c
	return nil
}

// Release implements driver.RenderContext.
func (c *Context) Release() {
	if c.released {
		panic("drivertest: context released twice")
	}
	c.released = true
	c.current = false
	if c.p.Current == c {
		c.p.Current = nil
	}
	c.p.record("release context")
	c.p.contexts--
}
