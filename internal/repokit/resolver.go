package repokit

import (
	"context"
	"reflect"
	"sync/atomic"

	"querybind/internal/convertkit"
	perr "querybind/internal/platform/errors"
	"querybind/internal/platform/logger"
)

// Resolver converts arbitrary source values into domain entities managed by
// registered repositories. It converts the source into the repository's
// identifier type through the conversion service, then looks the entity up
// by that identifier.
//
// The registry is populated during a single Initialize pass and read-only
// afterwards; Matches and Resolve may then run concurrently without locking
type Resolver struct {
	conversions convertkit.Service
	registry    map[reflect.Type]Registration
	initialized atomic.Bool
}

// New creates a Resolver bound to a conversion service
func New(conversions convertkit.Service) *Resolver {
	if conversions == nil {
		panic("repokit: resolver requires a non-nil conversion service")
	}
	return &Resolver{
		conversions: conversions,
		registry:    map[reflect.Type]Registration{},
	}
}

// RegisterRepository records repo as the manager of info's domain type.
// The first registration per distinct domain type wins; later duplicates
// are ignored so the wiring pass stays idempotent
func (r *Resolver) RegisterRepository(info EntityInfo, repo Repository) {
	if info == nil {
		panic("repokit: nil entity info")
	}
	if repo == nil {
		panic("repokit: nil repository")
	}
	dt := info.DomainType()
	if _, ok := r.registry[dt]; ok {
		return
	}
	r.registry[dt] = Registration{Info: info, Repo: repo}
}

// RegistrationFor returns the registration managing domainType, matching
// exact type identity (not assignability)
func (r *Resolver) RegistrationFor(domainType reflect.Type) (Registration, bool) {
	reg, ok := r.registry[domainType]
	return reg, ok
}

// Matches reports whether a value of type src can be resolved into the
// domain type dst: dst must have a registered repository and the conversion
// service must be able to produce that repository's identifier type.
// Matches satisfies convertkit.Rule
func (r *Resolver) Matches(src, dst reflect.Type) bool {
	reg, ok := r.registry[dst]
	if !ok {
		return false
	}
	return r.conversions.CanConvert(src, reg.Info.IDType())
}

// Resolve converts v into domainType's identifier and looks the entity up.
// A repository miss is (nil, false, nil). Resolving an unregistered domain
// type is a precondition failure: gate with Matches first
func (r *Resolver) Resolve(ctx context.Context, v any, domainType reflect.Type) (any, bool, error) {
	reg, ok := r.registry[domainType]
	if !ok {
		return nil, false, perr.UnresolvedTypef("no repository registered for domain type %s", domainType)
	}
	id, err := r.conversions.Convert(ctx, v, reg.Info.IDType())
	if err != nil {
		return nil, false, err
	}
	return reg.Repo.FindByID(ctx, id)
}

// Convert satisfies convertkit.Rule so the resolver can sit in the
// conversion registry. An absent entity converts to nil
func (r *Resolver) Convert(ctx context.Context, v any, _, dst reflect.Type) (any, error) {
	entity, ok, err := r.Resolve(ctx, v, dst)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return entity, nil
}

// Initialize registers every repository the source knows about, then plugs
// the resolver itself into the conversion service so conversion requests
// targeting managed domain types route through it. One-shot: a second call
// is rejected
func (r *Resolver) Initialize(src Source) error {
	if src == nil {
		return perr.InvalidArgf("repokit: nil repository source")
	}
	if !r.initialized.CompareAndSwap(false, true) {
		return perr.Invariantf("repokit: resolver already initialized")
	}
	regs := src.Registrations()
	for _, reg := range regs {
		r.RegisterRepository(reg.Info, reg.Repo)
	}
	r.conversions.Register(r)
	logger.Named("repokit").Debug().Int("repositories", len(regs)).Msg("resolver initialized")
	return nil
}
