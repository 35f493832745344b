// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"errors"
	"log/slog"

	"github.com/headlessgl/headless/driver"
)

// openDisplay opens the display of dev. There is no fallback to a
// default or native display.
func openDisplay(p driver.Platform, dev driver.Device, log *slog.Logger) (driver.Display, error) {
	disp, err := p.OpenDisplay(dev)
	if err != nil {
		return nil, err
	}
	if disp == nil {
		return nil, errors.New("platform returned no display")
	}
	if v, ok := disp.(interface{ Version() (int, int) }); ok {
		major, minor := v.Version()
		log.Debug("display open", "version", [2]int{major, minor})
	}
	return disp, nil
}
