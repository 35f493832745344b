// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/headlessgl/headless/driver"
)

const unknown = "UNKNOWN"

// selectDevice lists the platform devices and picks the one at index,
// which is 0 unless overridden. Platform order is taken as is.
func selectDevice(p driver.Platform, index int, log *slog.Logger) (driver.Device, error) {
	devs, err := p.Devices()
	if err != nil {
		return nil, err
	}
	if len(devs) == 0 {
		return nil, errors.New("device list is empty")
	}
	for i, d := range devs {
		log.Info("device", "index", i, "name", deviceName(d), "vendor", deviceVendor(d))
	}
	if index < 0 || index >= len(devs) {
		return nil, fmt.Errorf("device index %d out of range (%d devices)", index, len(devs))
	}
	return devs[index], nil
}

func deviceName(d driver.Device) string {
	if n, ok := d.Name(); ok {
		return n
	}
	return unknown
}

func deviceVendor(d driver.Device) string {
	if v, ok := d.Vendor(); ok {
		return v
	}
	return unknown
}
