// Package api provides the HTTP API for the application
package api

import (
	"chattally/internal/platform/config"
	"chattally/internal/platform/logger"
	phttp "chattally/internal/platform/net/http"
	"chattally/internal/platform/store"

	"chattally/internal/modkit"
	"chattally/internal/modkit/httpkit"
	"chattally/internal/modkit/module"
	"chattally/internal/modkit/swaggerkit"

	datamod "chattally/internal/services/api/data/module"
	metamod "chattally/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}

	mods := []module.Module{
		metamod.New(deps),
		datamod.New(deps, datamod.FromConfig(deps.Cfg)),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
