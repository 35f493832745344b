// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"errors"
	"log/slog"

	"github.com/headlessgl/headless/driver"
)

// configTemplate requests configs without any drawable surface, which
// makes them usable for surfaceless contexts. Configs are also required to
// be OpenGL ES 2 renderable so the GLES fallback profile can use them.
func configTemplate(alphaSize int) driver.ConfigTemplate {
	return driver.ConfigTemplate{
		AlphaSize:   alphaSize,
		SurfaceType: 0,
		Renderable:  driver.RenderableGLES2,
	}
}

func chooseConfig(disp driver.Display, t driver.ConfigTemplate, log *slog.Logger) (driver.Config, error) {
	cfgs, err := disp.Configs(t)
	if err != nil {
		return nil, err
	}
	cfg := bestConfig(cfgs)
	if cfg == nil {
		return nil, errors.New("no config matches the surfaceless template")
	}
	log.Info("picked config", "samples", cfg.Samples(), "alpha", cfg.AlphaSize(), "candidates", len(cfgs))
	return cfg, nil
}

// bestConfig returns the config with the most samples. The first of
// several equal configs wins.
func bestConfig(cfgs []driver.Config) driver.Config {
	var best driver.Config
	for _, c := range cfgs {
		if best == nil || c.Samples() > best.Samples() {
			best = c
		}
	}
	return best
}
