// Package module wires the settings service
package module

import (
	"chattally/internal/modkit"
	"chattally/internal/modkit/httpkit"
	"chattally/internal/services/settings/domain"
	"chattally/internal/services/settings/repo"
	"chattally/internal/services/settings/service"
)

// Ports exposed by the settings module
type Ports struct {
	Reader domain.ReaderPort
	Writer domain.WriterPort
}

// Module implements the settings service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new settings module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())
	m := &Module{deps: deps}
	m.ports = Ports{Reader: svc, Writer: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "settings" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
