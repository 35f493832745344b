// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd || windows

package headless

import (
	"github.com/headlessgl/headless/driver"
	"github.com/headlessgl/headless/internal/egl"
)

func init() {
	newPlatform = func() driver.Platform {
		return egl.NewPlatform()
	}
}
