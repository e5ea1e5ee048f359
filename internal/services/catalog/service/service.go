// Package service implements the catalog finder dispatch layer
package service

import (
	"context"

	"querybind/internal/bindkit"
	"querybind/internal/paging"
	perr "querybind/internal/platform/errors"
	"querybind/internal/repokit"
	"querybind/internal/services/catalog/domain"
	"querybind/internal/services/catalog/repo"

	"github.com/google/uuid"
)

// Config tunes finder execution
type Config struct {
	// DefaultSize applies when a finder is invoked without a page window
	DefaultSize int

	// HardLimit caps any single result set
	HardLimit int
}

// Service executes catalog finders from raw positional argument lists.
// Each finder owns a parameter shape; bindkit splits the arguments into
// page window, sort, and bind values before the repository is called
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	cfg    Config
}

// New constructs the catalog service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], cfg Config) *Service {
	if db == nil {
		panic("catalog: service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("catalog: service requires a non-nil binder")
	}
	if cfg.DefaultSize <= 0 {
		cfg.DefaultSize = 20
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 200
	}
	return &Service{db: db, binder: binder, cfg: cfg}
}

// Finder shapes, one per finder method, built once and reused
var (
	searchByNameShape = bindkit.MustParameters(
		bindkit.Parameter{Name: "name", Role: bindkit.RoleBindable},
		bindkit.Parameter{Name: "page", Role: bindkit.RolePageable},
	)

	priceBetweenShape = bindkit.MustParameters(
		bindkit.Parameter{Name: "minCents", Role: bindkit.RoleBindable},
		bindkit.Parameter{Name: "maxCents", Role: bindkit.RoleBindable},
		bindkit.Parameter{Name: "sort", Role: bindkit.RoleSort},
	)
)

// GetProduct looks a product up by its identifier
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, bool, error) {
	return repokit.MustBind(s.binder, s.db).FindByID(ctx, id)
}

// SearchByName expects args (name string, page paging.Page).
// A nil page argument falls back to the default window
func (s *Service) SearchByName(ctx context.Context, args ...any) ([]domain.Product, int, error) {
	acc, err := bindkit.NewAccessor(searchByNameShape, args)
	if err != nil {
		return nil, 0, err
	}
	if acc.HasBindableNull() {
		return nil, 0, perr.InvalidArgf("catalog: nil bind value in SearchByName")
	}
	name, ok := acc.BindableValue(0).(string)
	if !ok {
		return nil, 0, perr.InvalidArgf("catalog: name must be a string, got %T", acc.BindableValue(0))
	}

	page, ok := acc.Pageable()
	if !ok {
		page = paging.MustPage(0, s.cfg.DefaultSize, paging.Unsorted())
	}
	if page.Size() > s.cfg.HardLimit {
		page = paging.MustPage(page.Number(), s.cfg.HardLimit, page.Sort())
	}
	sort, _ := acc.Sort()

	return repokit.MustBind(s.binder, s.db).SearchByName(ctx, name, page, sort)
}

// PriceBetween expects args (minCents int64, maxCents int64, sort paging.Sort)
func (s *Service) PriceBetween(ctx context.Context, args ...any) ([]domain.Product, int, error) {
	acc, err := bindkit.NewAccessor(priceBetweenShape, args)
	if err != nil {
		return nil, 0, err
	}
	if acc.HasBindableNull() {
		return nil, 0, perr.InvalidArgf("catalog: nil bind value in PriceBetween")
	}
	minCents, okMin := acc.BindableValue(0).(int64)
	maxCents, okMax := acc.BindableValue(1).(int64)
	if !okMin || !okMax {
		return nil, 0, perr.InvalidArgf("catalog: price bounds must be int64")
	}
	sort, _ := acc.Sort()

	out, err := repokit.MustBind(s.binder, s.db).PriceBetween(ctx, minCents, maxCents, sort, s.cfg.HardLimit)
	if err != nil {
		return nil, 0, err
	}
	return out, len(out), nil
}
