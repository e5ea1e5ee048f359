// Package module wires the catalog service together
package module

import (
	"context"

	"querybind/internal/platform/config"
	perr "querybind/internal/platform/errors"
	phttp "querybind/internal/platform/net/http"
	"querybind/internal/platform/store"
	"querybind/internal/repokit"
	"querybind/internal/services/catalog/domain"
	cataloghttp "querybind/internal/services/catalog/http"
	"querybind/internal/services/catalog/repo"
	"querybind/internal/services/catalog/service"

	"github.com/google/uuid"
)

// Deps carries the platform pieces the module needs
type Deps struct {
	Cfg config.Conf
	PG  repokit.TxRunner
}

// Ports exposed by the catalog module
type Ports struct {
	Reader domain.ReaderPort
	Query  domain.QueryPort
}

// Options tunes the catalog module from config
type Options struct {
	DefaultSize int
	HardLimit   int
}

// FromConfig reads catalog options (CATALOG_*)
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CATALOG_")
	return Options{
		DefaultSize: c.MayInt("PAGE_SIZE", 20),
		HardLimit:   c.MayInt("HARD_LIMIT", 200),
	}
}

// Module is the catalog service module
type Module struct {
	deps  Deps
	svc   *service.Service
	ports Ports
}

// New constructs the catalog module
func New(deps Deps) *Module {
	opts := FromConfig(deps.Cfg)

	binder := repo.NewPG()
	svc := service.New(deps.PG, binder, service.Config{
		DefaultSize: opts.DefaultSize,
		HardLimit:   opts.HardLimit,
	})

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{
		Reader: svc,
		Query:  svc,
	}
	return m
}

// NewFromStore is a convenience constructor over the platform store
func NewFromStore(cfg config.Conf, st *store.Store) *Module {
	return New(Deps{Cfg: cfg, PG: st.PG})
}

// Name identifies the module
func (m *Module) Name() string { return "catalog" }

// Ports returns the module's exposed ports
func (m *Module) Ports() Ports { return m.ports }

// Source enumerates the repositories this module contributes to the
// domain resolver. Products are keyed by UUID
func (m *Module) Source() repokit.Source {
	return repokit.SourceFunc(func() []repokit.Registration {
		return []repokit.Registration{
			{
				Info: repokit.Info[domain.Product, uuid.UUID](),
				Repo: repokit.FindFunc(func(ctx context.Context, id any) (any, bool, error) {
					uid, ok := id.(uuid.UUID)
					if !ok {
						return nil, false, perr.Conversionf("catalog: expected uuid identifier, got %T", id)
					}
					p, found, err := m.svc.GetProduct(ctx, uid)
					if err != nil || !found {
						return nil, false, err
					}
					return p, true, nil
				}),
			},
		}
	})
}

// MountRoutes mounts the catalog endpoints behind the given resolver
func (m *Module) MountRoutes(r phttp.Router, resolver *repokit.Resolver) {
	cataloghttp.Register(r, m.svc, resolver)
}
