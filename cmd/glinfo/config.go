// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/headlessgl/headless/headless"
)

type config struct {
	Device     int
	Output     string
	Width      int
	Height     int
	Color      [4]float32
	Extensions bool
	Verbose    bool

	// deviceSet reports whether Device came from the file or a flag.
	deviceSet bool
}

func defaultConfig() *config {
	return &config{
		Width:  256,
		Height: 256,
		Color:  [4]float32{0.8, 0.2, 0.2, 1},
	}
}

// loadConfig returns the defaults overlaid with the TOML file at path, if
// any.
func loadConfig(path string) (*config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't read config file: %w", err)
	}
	cfg.deviceSet = md.IsDefined("Device")
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d in %s", cfg.Width, cfg.Height, path)
	}
	return cfg, nil
}

// applyFlags overrides cfg with the flags set on the command line.
func (cfg *config) applyFlags() error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "device":
			cfg.Device = *device
			cfg.deviceSet = true
		case "o":
			cfg.Output = *output
		case "size":
			cfg.Width, cfg.Height, err = parseSize(*size)
		case "color":
			cfg.Color, err = parseColor(*clearColor)
		case "ext":
			cfg.Extensions = *extensions
		case "v":
			cfg.Verbose = *verbose
		}
	})
	return err
}

// options returns the acquisition options of cfg. Without an explicit
// device the headless.DeviceEnv variable applies.
func (cfg *config) options() []headless.Option {
	if !cfg.deviceSet {
		return nil
	}
	return []headless.Option{headless.WithDeviceIndex(cfg.Device)}
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, expected WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	return w, h, nil
}

func parseColor(s string) ([4]float32, error) {
	var c [4]float32
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return c, fmt.Errorf("invalid color %q, expected r,g,b,a", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return c, fmt.Errorf("invalid color %q: %w", s, err)
		}
		if v < 0 || v > 1 {
			return c, fmt.Errorf("color component %v out of range [0,1]", v)
		}
		c[i] = float32(v)
	}
	return c, nil
}
