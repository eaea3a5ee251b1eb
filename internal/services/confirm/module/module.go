// Package module wires the success detector
package module

import (
	"chattally/internal/modkit"
	"chattally/internal/modkit/httpkit"
	"chattally/internal/services/confirm/domain"
	"chattally/internal/services/confirm/repo"
	"chattally/internal/services/confirm/service"
)

// Ports exposed by the confirm module
type Ports struct {
	Detector domain.DetectorPort
}

// Module implements the confirm service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new confirm module. Wire inbound ports with
// modkit.WithPorts(confirm/domain.Ports{...})
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("confirm"),
	}, opts...)...)

	in, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("confirm module: expected WithPorts(confirm/domain.Ports)")
	}
	if in.Pending == nil || in.Recorder == nil {
		panic("confirm module: Ports missing Pending or Recorder")
	}

	tf := deps.Cfg.Prefix("CORE_TRACKER_")
	svc := service.New(deps.PG, repo.NewPG(), in.Pending, in.Recorder, in.Pusher, service.Config{
		Window: tf.MayDuration("DEDUP_WINDOW", domain.DefaultWindow),
	})

	m := &Module{deps: deps}
	m.ports = Ports{Detector: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "confirm" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module; the detector has no routes of its own
func (m *Module) MountRoutes(r httpkit.Router) {}
