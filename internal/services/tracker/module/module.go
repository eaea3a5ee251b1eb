// Package module wires the tracker engine into trackerd using modkit
package module

import (
	"net/http"

	"chattally/internal/adapters/capture"
	modkit "chattally/internal/modkit"
	"chattally/internal/modkit/httpkit"
	str "chattally/internal/platform/strings"
	"chattally/internal/services/tracker/domain"
	trackerhttp "chattally/internal/services/tracker/http"
	"chattally/internal/services/tracker/repo"
	"chattally/internal/services/tracker/service"
)

// Ports exposed by the tracker module
type Ports struct {
	Engine  domain.EnginePort
	Subject domain.SubjectPort
}

// Module implements the tracker service module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)

	ports Ports
}

// New constructs a new tracker module. Wire inbound ports with
// modkit.WithPorts(tracker/domain.Ports{...})
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("tracker"),
		modkit.WithPrefix(""),
	}, opts...)...)

	in, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("tracker module: expected WithPorts(tracker/domain.Ports)")
	}
	if in.Settings == nil || in.Pending == nil || in.Detector == nil ||
		in.Reader == nil || in.Recorder == nil || in.Sync == nil || in.Notifier == nil {
		panic("tracker module: Ports incomplete")
	}

	o := FromConfig(deps.Cfg)
	subject := service.NewSubjectTracker(deps.PG, repo.NewPG(), in.Reader)
	engine := service.NewEngine(in, subject, capture.NewClassifier(capture.Config{
		Hosts:       o.Hosts,
		PathSegment: o.PathSegment,
	}))

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
	}
	m.ports = Ports{Engine: engine, Subject: subject}

	external := b.Register
	m.register = func(r httpkit.Router) {
		trackerhttp.Register(r, engine)
		if external != nil {
			external(r)
		}
	}
	return m
}

// Engine returns the concrete engine for the daemon's run loops
func (m *Module) Engine() *service.Engine {
	return m.ports.Engine.(*service.Engine)
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	if m.prefix == "" {
		for _, mw := range m.mws {
			r.Use(mw)
		}
		m.register(r)
		return
	}
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		m.register(rr)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return m.prefix }
