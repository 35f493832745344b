// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"runtime"

	"github.com/headlessgl/headless/driver"
	"github.com/headlessgl/headless/gl"
)

// Thread affinity of the acquiring goroutine. Tests replace them to count
// lock and unlock calls.
var (
	lockOSThread   = runtime.LockOSThread
	unlockOSThread = runtime.UnlockOSThread
)

// activate makes ctx current on the calling thread without a surface. On
// success the calling goroutine stays locked to its thread until the last
// handle of the context is released.
func activate(ctx driver.RenderContext) error {
	lockOSThread()
	if err := ctx.MakeCurrentSurfaceless(); err != nil {
		unlockOSThread()
		return err
	}
	return nil
}

// loaderFor resolves GL symbols through disp. It must only be used while a
// context of disp is current.
func loaderFor(disp driver.Display) gl.LoaderFunc {
	return func(name string) uintptr {
		return disp.ProcAddress(name)
	}
}
