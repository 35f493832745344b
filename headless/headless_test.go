// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/headlessgl/headless/driver"
	"github.com/headlessgl/headless/driver/drivertest"
	"github.com/headlessgl/headless/gl"
)

// stubInit stands in for gl.New, which would call into the driver.
func stubInit(load gl.LoaderFunc) (*gl.Functions, error) {
	load("glGetString")
	return new(gl.Functions), nil
}

func newTestContext(t *testing.T, p *drivertest.Platform, opts ...Option) (*Context, error) {
	t.Helper()
	opts = append([]Option{WithPlatform(p), WithInitializer(stubInit)}, opts...)
	return New(opts...)
}

type threadLocks struct {
	locks, unlocks int
}

// countThreadLocks replaces the thread affinity hooks for the duration of
// the test.
func countThreadLocks(t *testing.T) *threadLocks {
	t.Helper()
	l := new(threadLocks)
	lock, unlock := lockOSThread, unlockOSThread
	lockOSThread = func() { l.locks++ }
	unlockOSThread = func() { l.unlocks++ }
	t.Cleanup(func() {
		lockOSThread, unlockOSThread = lock, unlock
	})
	return l
}

func TestEndToEnd(t *testing.T) {
	p := drivertest.NewPlatform()
	p.ConfigList = []*drivertest.Config{
		{ID: 0, NumSamples: 1, Alpha: 8},
		{ID: 1, NumSamples: 4, Alpha: 8},
		{ID: 2, NumSamples: 8, Alpha: 8},
	}
	c, err := newTestContext(t, p)
	require.NoError(t, err)
	defer c.Release()

	require.NotNil(t, p.Chosen)
	assert.Equal(t, 2, p.Chosen.ID)
	assert.Equal(t, 1, p.Activations)
	assert.Equal(t, Info{
		Device:    "GPU0",
		Vendor:    "MockVendor",
		Samples:   8,
		AlphaSize: 8,
		API:       driver.APIDefault,
	}, c.Info())
	assert.Equal(t, []string{
		"devices",
		"open GPU0",
		"configs",
		"create OpenGL",
		"activate",
	}, p.Events)
}

func TestSelectsFirstDevice(t *testing.T) {
	for i := 0; i < 3; i++ {
		p := drivertest.NewPlatform()
		p.DeviceList = []*drivertest.Device{
			{DeviceName: "GPU0"},
			{DeviceName: "GPU1"},
			{DeviceName: "GPU2"},
		}
		c, err := newTestContext(t, p)
		require.NoError(t, err)
		assert.Same(t, p.DeviceList[0], p.Opened)
		c.Release()
	}
}

func TestDeviceIndex(t *testing.T) {
	p := drivertest.NewPlatform()
	p.DeviceList = []*drivertest.Device{{DeviceName: "GPU0"}, {DeviceName: "GPU1"}}
	c, err := newTestContext(t, p, WithDeviceIndex(1))
	require.NoError(t, err)
	defer c.Release()
	assert.Same(t, p.DeviceList[1], p.Opened)
}

func TestDeviceIndexEnv(t *testing.T) {
	t.Setenv(DeviceEnv, "1")
	p := drivertest.NewPlatform()
	p.DeviceList = []*drivertest.Device{{DeviceName: "GPU0"}, {DeviceName: "GPU1"}}
	c, err := newTestContext(t, p)
	require.NoError(t, err)
	defer c.Release()
	assert.Same(t, p.DeviceList[1], p.Opened)
}

func TestDeviceIndexOverridesEnv(t *testing.T) {
	t.Setenv(DeviceEnv, "1")
	p := drivertest.NewPlatform()
	p.DeviceList = []*drivertest.Device{{DeviceName: "GPU0"}, {DeviceName: "GPU1"}}
	c, err := newTestContext(t, p, WithDeviceIndex(0))
	require.NoError(t, err)
	defer c.Release()
	assert.Same(t, p.DeviceList[0], p.Opened)
}

func TestDeviceIndexEnvInvalid(t *testing.T) {
	t.Setenv(DeviceEnv, "second")
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))
	p := drivertest.NewPlatform()
	c, err := newTestContext(t, p, WithLogger(l))
	require.NoError(t, err)
	defer c.Release()
	assert.Same(t, p.DeviceList[0], p.Opened)
	assert.Contains(t, buf.String(), "level=WARN msg=\"ignoring invalid device index\"")
	assert.Contains(t, buf.String(), "value=second")
}

func TestDeviceIndexOutOfRange(t *testing.T) {
	p := drivertest.NewPlatform()
	_, err := newTestContext(t, p, WithDeviceIndex(3))
	assert.ErrorIs(t, err, ErrNoDevices)
	assert.Nil(t, p.Opened)
}

func TestUnknownDeviceStrings(t *testing.T) {
	p := drivertest.NewPlatform()
	p.DeviceList = []*drivertest.Device{{}}
	c, err := newTestContext(t, p)
	require.NoError(t, err)
	defer c.Release()
	assert.Equal(t, "UNKNOWN", c.Info().Device)
	assert.Equal(t, "UNKNOWN", c.Info().Vendor)
}

func TestNoDevices(t *testing.T) {
	p := drivertest.NewPlatform()
	p.DeviceList = nil
	_, err := newTestContext(t, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDevices)
	assert.ErrorIs(t, err, ErrNoContext)
	assert.NotErrorIs(t, err, ErrGraphicsInit)
	var herr *Error
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, StageUnstarted, herr.Stage)
	assert.Equal(t, []string{"devices"}, p.Events)
	assert.Zero(t, p.LiveDisplays())
}

func TestDeviceQueryFails(t *testing.T) {
	p := drivertest.NewPlatform()
	p.DevicesErr = errors.New("EGL_EXT_device_enumeration not supported")
	_, err := newTestContext(t, p)
	assert.ErrorIs(t, err, ErrNoDevices)
	assert.ErrorIs(t, err, p.DevicesErr)
	assert.Nil(t, p.Opened)
}

func TestNoPlatform(t *testing.T) {
	_, err := New(WithPlatform(nil), WithInitializer(stubInit))
	assert.ErrorIs(t, err, ErrNoDevices)
}

func TestDisplayCreationFails(t *testing.T) {
	p := drivertest.NewPlatform()
	p.OpenErr = errors.New("permission denied")
	_, err := newTestContext(t, p)
	assert.ErrorIs(t, err, ErrDisplayCreation)
	assert.ErrorIs(t, err, p.OpenErr)
	assert.Equal(t, []string{"devices", "open GPU0"}, p.Events)
}

func TestConfigTemplate(t *testing.T) {
	p := drivertest.NewPlatform()
	c, err := newTestContext(t, p)
	require.NoError(t, err)
	defer c.Release()
	assert.Equal(t, driver.ConfigTemplate{
		AlphaSize:   8,
		SurfaceType: 0,
		Renderable:  driver.RenderableGLES2,
	}, p.Template)
}

func TestAlphaSizeOption(t *testing.T) {
	p := drivertest.NewPlatform()
	c, err := newTestContext(t, p, WithAlphaSize(0))
	require.NoError(t, err)
	defer c.Release()
	assert.Equal(t, 0, p.Template.AlphaSize)
}

func TestNoConfigs(t *testing.T) {
	p := drivertest.NewPlatform()
	p.ConfigList = nil
	_, err := newTestContext(t, p)
	assert.ErrorIs(t, err, ErrNoConfigs)
	var herr *Error
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, StageDisplayOpen, herr.Stage)
	assert.Zero(t, p.LiveDisplays())
	assert.Equal(t, "release display", p.Events[len(p.Events)-1])
}

func TestConfigQueryFails(t *testing.T) {
	p := drivertest.NewPlatform()
	p.ConfigsErr = errors.New("EGL_BAD_ATTRIBUTE")
	_, err := newTestContext(t, p)
	assert.ErrorIs(t, err, ErrNoConfigs)
	assert.Zero(t, p.LiveDisplays())
}

func TestFallbackProfile(t *testing.T) {
	p := drivertest.NewPlatform()
	p.CreateErr = map[driver.API]error{
		driver.APIDefault: errors.New("EGL_BAD_MATCH"),
	}
	c, err := newTestContext(t, p)
	require.NoError(t, err)
	defer c.Release()
	require.Len(t, p.Attributes, 2)
	assert.Equal(t, driver.APIDefault, p.Attributes[0].API)
	assert.Equal(t, driver.APIGLES, p.Attributes[1].API)
	assert.Equal(t, driver.Version{}, p.Attributes[1].Version)
	assert.Equal(t, driver.APIGLES, c.Info().API)
	assert.Equal(t, 1, p.Activations)
	assert.Equal(t, 1, p.LiveContexts())
}

func TestNoWindowHandle(t *testing.T) {
	p := drivertest.NewPlatform()
	c, err := newTestContext(t, p)
	require.NoError(t, err)
	defer c.Release()
	for _, attrs := range p.Attributes {
		assert.Zero(t, attrs.Window)
	}
}

func TestBothProfilesFail(t *testing.T) {
	p := drivertest.NewPlatform()
	errDefault := errors.New("no desktop profile")
	errGLES := errors.New("no embedded profile")
	p.CreateErr = map[driver.API]error{
		driver.APIDefault: errDefault,
		driver.APIGLES:    errGLES,
	}
	_, err := newTestContext(t, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrContextCreation)
	assert.ErrorIs(t, err, ErrNoContext)
	assert.ErrorIs(t, err, errDefault)
	assert.ErrorIs(t, err, errGLES)
	var herr *Error
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, StageConfigSelected, herr.Stage)
	assert.Zero(t, p.Activations)
	assert.Nil(t, p.Current)
	assert.Zero(t, p.LiveContexts())
	assert.Zero(t, p.LiveDisplays())
}

func TestActivationFails(t *testing.T) {
	p := drivertest.NewPlatform()
	p.ActivateErr = errors.New("EGL_KHR_surfaceless_context not supported")
	_, err := newTestContext(t, p)
	assert.ErrorIs(t, err, ErrContextActivation)
	assert.Equal(t, 1, p.Activations)
	assert.Empty(t, p.Lookups())
	assert.Zero(t, p.LiveContexts())
	assert.Zero(t, p.LiveDisplays())
	assert.Equal(t, []string{"release context", "release display"}, p.Events[len(p.Events)-2:])
}

func TestLoaderRunsOnCurrentContext(t *testing.T) {
	p := drivertest.NewPlatform()
	p.Symbols = map[string]uintptr{"glGetString": 0x1000}
	var addr uintptr
	c, err := newTestContext(t, p, WithInitializer(func(load gl.LoaderFunc) (*gl.Functions, error) {
		require.NotNil(t, p.Current)
		assert.True(t, p.Current.IsCurrent())
		addr = load("glGetString")
		assert.Zero(t, load("glUnknownEXT"))
		return new(gl.Functions), nil
	}))
	require.NoError(t, err)
	defer c.Release()
	assert.Equal(t, uintptr(0x1000), addr)
	assert.Equal(t, []string{"glGetString", "glUnknownEXT"}, p.Lookups())
}

func TestGraphicsInitFails(t *testing.T) {
	p := drivertest.NewPlatform()
	// No symbols: gl.New fails before calling anything.
	_, err := New(WithPlatform(p))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGraphicsInit)
	assert.NotErrorIs(t, err, ErrNoContext)
	var herr *Error
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, StageContextCurrent, herr.Stage)
	assert.NotEmpty(t, p.Lookups())
	assert.Zero(t, p.LiveContexts())
	assert.Zero(t, p.LiveDisplays())
}

func TestInitializerReturnsNil(t *testing.T) {
	p := drivertest.NewPlatform()
	_, err := newTestContext(t, p, WithInitializer(func(gl.LoaderFunc) (*gl.Functions, error) {
		return nil, nil
	}))
	assert.ErrorIs(t, err, ErrGraphicsInit)
	assert.Zero(t, p.LiveDisplays())
}

func TestReleaseUnlocksThread(t *testing.T) {
	locks := countThreadLocks(t)
	p := drivertest.NewPlatform()
	c, err := newTestContext(t, p)
	require.NoError(t, err)
	assert.Equal(t, threadLocks{locks: 1}, *locks)

	c2 := c.Clone()
	c.Release()
	assert.Equal(t, threadLocks{locks: 1}, *locks)
	c2.Release()
	assert.Equal(t, threadLocks{locks: 1, unlocks: 1}, *locks)
	c2.Release()
	assert.Equal(t, threadLocks{locks: 1, unlocks: 1}, *locks)
	assert.Equal(t, []string{"release context", "release display"}, p.Events[len(p.Events)-2:])
}

func TestFailedAcquisitionUnlocksThread(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *drivertest.Platform) []Option
		want  threadLocks
	}{
		{"no devices", func(p *drivertest.Platform) []Option {
			p.DeviceList = nil
			return nil
		}, threadLocks{}},
		{"no context", func(p *drivertest.Platform) []Option {
			p.CreateErr = map[driver.API]error{
				driver.APIDefault: errors.New("EGL_BAD_CONFIG"),
				driver.APIGLES:    errors.New("EGL_BAD_CONFIG"),
			}
			return nil
		}, threadLocks{}},
		{"activation", func(p *drivertest.Platform) []Option {
			p.ActivateErr = errors.New("EGL_BAD_ACCESS")
			return nil
		}, threadLocks{locks: 1, unlocks: 1}},
		{"graphics init", func(p *drivertest.Platform) []Option {
			return []Option{WithInitializer(func(gl.LoaderFunc) (*gl.Functions, error) {
				return nil, errors.New("gl: missing functions: glClear")
			})}
		}, threadLocks{locks: 1, unlocks: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			locks := countThreadLocks(t)
			p := drivertest.NewPlatform()
			_, err := newTestContext(t, p, tt.setup(p)...)
			require.Error(t, err)
			assert.Equal(t, tt.want, *locks)
		})
	}
}

func TestSequentialAcquisitions(t *testing.T) {
	locks := countThreadLocks(t)
	p := drivertest.NewPlatform()
	for i := 0; i < 3; i++ {
		c, err := newTestContext(t, p)
		require.NoError(t, err)
		c.Release()
		assert.Zero(t, p.LiveContexts())
		assert.Zero(t, p.LiveDisplays())
	}
	assert.Equal(t, threadLocks{locks: 3, unlocks: 3}, *locks)
}

func TestCloneSharesContext(t *testing.T) {
	p := drivertest.NewPlatform()
	c, err := newTestContext(t, p)
	require.NoError(t, err)
	c2 := c.Clone()
	c3 := c2.Clone()

	assert.Same(t, c.Functions, c2.Functions)
	assert.Same(t, c.Functions, c3.Functions)
	assert.Same(t, c.shared, c3.shared)
	assert.Equal(t, c.Info(), c3.Info())
	assert.Equal(t, 1, p.LiveContexts())

	c.Release()
	c.Release()
	assert.Nil(t, c.Functions)
	assert.NotNil(t, c2.Functions)
	assert.Equal(t, 1, p.LiveContexts())
	c3.Release()
	assert.Equal(t, 1, p.LiveContexts())
	assert.NotContains(t, p.Events, "release context")

	c2.Release()
	assert.Zero(t, p.LiveContexts())
	assert.Zero(t, p.LiveDisplays())
	assert.Equal(t, []string{"release context", "release display"}, p.Events[len(p.Events)-2:])

	c2.Release()
	assert.Panics(t, func() { c2.Clone() })
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := drivertest.NewPlatform()
	p.DeviceList = append(p.DeviceList, &drivertest.Device{})
	c, err := newTestContext(t, p, WithLogger(l))
	require.NoError(t, err)
	defer c.Release()

	out := buf.String()
	assert.Contains(t, out, "name=GPU0 vendor=MockVendor")
	assert.Contains(t, out, "index=1 name=UNKNOWN vendor=UNKNOWN")
	assert.Contains(t, out, "picked config")
	assert.Contains(t, out, "samples=4")
	assert.Contains(t, out, "graphics initialized")
	assert.Contains(t, out, "stage=Ready")
}

func TestSetLogger(t *testing.T) {
	defer SetLogger(nil)
	l := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	SetLogger(l)
	assert.Same(t, l, Logger())
	SetLogger(nil)
	assert.False(t, Logger().Enabled(context.Background(), slog.LevelError))
}

func TestErrorString(t *testing.T) {
	err := &Error{Stage: StageDisplayOpen, Err: wrap(ErrNoConfigs, errors.New("none"))}
	assert.Equal(t, "headless: no graphics context: no configs available: none", err.Error())
	assert.Equal(t, "ContextCurrent", StageContextCurrent.String())
}
