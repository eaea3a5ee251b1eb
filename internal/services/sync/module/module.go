// Package module wires the sync engine
package module

import (
	"chattally/internal/adapters/remote"
	"chattally/internal/modkit"
	"chattally/internal/modkit/httpkit"
	"chattally/internal/services/sync/domain"
	"chattally/internal/services/sync/service"
)

// Ports exposed by the sync module
type Ports struct {
	Engine domain.EnginePort
}

// Module implements the sync service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new sync module. Wire inbound ports with
// modkit.WithPorts(sync/domain.Ports{...}); when Client is nil one is built
// from config
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("sync"),
	}, opts...)...)

	in, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("sync module: expected WithPorts(sync/domain.Ports)")
	}
	if in.Reader == nil || in.Merger == nil {
		panic("sync module: Ports missing Reader or Merger")
	}
	if in.Client == nil {
		o := FromConfig(deps.Cfg)
		in.Client = remote.NewClient(remote.Options{
			BaseURL: o.BaseURL,
			Token:   o.Token,
			Timeout: o.Timeout,
		})
	}

	m := &Module{deps: deps}
	m.ports = Ports{Engine: service.New(in.Client, in.Reader, in.Merger)}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "sync" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module; the tracker mounts the sync routes
func (m *Module) MountRoutes(r httpkit.Router) {}
