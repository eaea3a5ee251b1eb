// Package module wires the snapshot data store into the API using modkit
package module

import (
	"net/http"

	modkit "chattally/internal/modkit"
	"chattally/internal/modkit/httpkit"
	str "chattally/internal/platform/strings"
	"chattally/internal/services/api/data/domain"
	datahttp "chattally/internal/services/api/data/http"
	datarepo "chattally/internal/services/api/data/repo"
	datasvc "chattally/internal/services/api/data/service"
)

// Module implements the data module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc datasvc.Service
}

// New constructs the data module. Every route sits behind the shared token
func New(deps modkit.Deps, opts Options, modOpts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("data"),
		modkit.WithPrefix("/data"),
	}, modOpts...)...)

	svc := datasvc.New(deps.PG, datarepo.NewPG())
	auth := httpkit.NewHeaderPort("X-Auth-Token", opts.Token)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Service: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		httpkit.Protected(r, auth, func(pr httpkit.Router) {
			datahttp.Register(pr, m.svc)
		})
		if external != nil {
			external(r)
		}
	}
	return m
}

// Ports names the data module's exported ports
type Ports struct {
	Service domain.ServicePort
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
