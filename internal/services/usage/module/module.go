// Package module wires the usage recorder
package module

import (
	"chattally/internal/modkit"
	"chattally/internal/modkit/httpkit"
	"chattally/internal/services/usage/domain"
	"chattally/internal/services/usage/repo"
	"chattally/internal/services/usage/service"
)

// Ports exposed by the usage module
type Ports struct {
	Recorder domain.RecorderPort
	Reader   domain.ReaderPort
	Merger   domain.MergerPort
}

// Module implements the usage service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new usage module. Wire inbound ports with
// modkit.WithPorts(usage/domain.Ports{...}); Settings is required, Notifier
// is optional
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("usage"),
	}, opts...)...)

	in, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("usage module: expected WithPorts(usage/domain.Ports)")
	}
	if in.Settings == nil {
		panic("usage module: Ports missing Settings")
	}

	svc := service.New(deps.PG, repo.NewPG(), in, deps.CH)

	m := &Module{deps: deps}
	m.ports = Ports{Recorder: svc, Reader: svc, Merger: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "usage" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module; usage has no routes of its own
func (m *Module) MountRoutes(r httpkit.Router) {}
