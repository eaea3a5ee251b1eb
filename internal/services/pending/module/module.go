// Package module wires the pending correlation store
package module

import (
	"chattally/internal/modkit"
	"chattally/internal/modkit/httpkit"
	"chattally/internal/services/pending/domain"
	"chattally/internal/services/pending/repo"
	"chattally/internal/services/pending/service"
)

// Ports exposed by the pending module
type Ports struct {
	Store domain.StorePort
}

// Module implements the pending store module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new pending module
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.PG, repo.NewPG())
	m := &Module{deps: deps}
	m.ports = Ports{Store: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "pending" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
