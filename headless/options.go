// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/headlessgl/headless/driver"
	"github.com/headlessgl/headless/gl"
)

// DeviceEnv selects the device index when WithDeviceIndex is not given.
// Invalid values are logged and ignored.
const DeviceEnv = "HEADLESS_DEVICE"

// Initializer builds the graphics context from a symbol loader. It runs
// with the render context current.
type Initializer func(load gl.LoaderFunc) (*gl.Functions, error)

// Option configures New.
type Option func(*options)

type options struct {
	platform    driver.Platform
	initializer Initializer
	logger      *slog.Logger
	deviceIndex int
	deviceSet   bool
	alphaSize   int
}

// newPlatform returns the native platform, or nil if none is built in.
var newPlatform func() driver.Platform

func defaultOptions() options {
	o := options{
		initializer: gl.New,
		alphaSize:   8,
	}
	if newPlatform != nil {
		o.platform = newPlatform()
	}
	return o
}

// deviceFromEnv applies DeviceEnv unless WithDeviceIndex was given.
func (o *options) deviceFromEnv() {
	if o.deviceSet {
		return
	}
	v, ok := os.LookupEnv(DeviceEnv)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(v)
	if err != nil || idx < 0 {
		o.log().Warn("ignoring invalid device index", "env", DeviceEnv, "value", v)
		return
	}
	o.deviceIndex = idx
}

// WithPlatform replaces the native platform.
func WithPlatform(p driver.Platform) Option {
	return func(o *options) {
		o.platform = p
	}
}

// WithInitializer replaces gl.New as the graphics context initializer.
func WithInitializer(init Initializer) Option {
	return func(o *options) {
		o.initializer = init
	}
}

// WithLogger sets the logger for a single New call, overriding SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithDeviceIndex selects the device at index i in platform order instead
// of the first one. It takes precedence over DeviceEnv.
func WithDeviceIndex(i int) Option {
	return func(o *options) {
		o.deviceIndex = i
		o.deviceSet = true
	}
}

// WithAlphaSize overrides the requested alpha channel precision.
func WithAlphaSize(bits int) Option {
	return func(o *options) {
		o.alphaSize = bits
	}
}

func (o *options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return Logger()
}
