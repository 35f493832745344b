// SPDX-License-Identifier: Unlicense OR MIT

package headless

import (
	"errors"
	"log/slog"

	"github.com/headlessgl/headless/driver"
)

// contextProfiles lists the context requests in fallback order. Not every
// driver exposes a desktop profile; OpenGL ES is the fallback.
var contextProfiles = []driver.ContextAttributes{
	{API: driver.APIDefault},
	{API: driver.APIGLES},
}

// createContext creates a context for cfg, trying each profile in turn.
// When every profile fails the returned error joins all causes.
func createContext(disp driver.Display, cfg driver.Config, log *slog.Logger) (driver.RenderContext, driver.API, error) {
	var errs []error
	for i, attrs := range contextProfiles {
		ctx, err := disp.CreateContext(cfg, attrs)
		if err == nil && ctx == nil {
			err = errors.New("platform returned no context")
		}
		if err != nil {
			errs = append(errs, err)
			if i < len(contextProfiles)-1 {
				log.Warn("context creation failed, trying next profile", "api", attrs.API, "err", err)
			}
			continue
		}
		log.Info("created context", "api", attrs.API)
		return ctx, attrs.API, nil
	}
	return nil, 0, errors.Join(errs...)
}
