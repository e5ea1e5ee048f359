// Package repokit provides the repository registry and the domain resolver
// that turns raw identifier representations into managed entities
package repokit

import (
	"context"
	"reflect"
)

// EntityInfo describes a managed entity: its domain type and the type of
// its identifier. Registrations are keyed by the domain type itself, so
// two infos for the same domain type address the same registry slot
type EntityInfo interface {
	DomainType() reflect.Type
	IDType() reflect.Type
}

type entityInfo struct {
	domain reflect.Type
	id     reflect.Type
}

func (e entityInfo) DomainType() reflect.Type { return e.domain }
func (e entityInfo) IDType() reflect.Type     { return e.id }

// Info builds an EntityInfo for entity type E keyed by identifier type ID
func Info[E any, ID any]() EntityInfo {
	return entityInfo{domain: reflect.TypeFor[E](), id: reflect.TypeFor[ID]()}
}

// Repository is the minimal lookup capability the resolver needs from a
// concrete repository. A miss is (nil, false, nil), never an error
type Repository interface {
	FindByID(ctx context.Context, id any) (any, bool, error)
}

// FindFunc adapts a lookup function to Repository
type FindFunc func(ctx context.Context, id any) (any, bool, error)

// FindByID calls the underlying function
func (f FindFunc) FindByID(ctx context.Context, id any) (any, bool, error) { return f(ctx, id) }

// Registration pairs an EntityInfo with the Repository managing it
type Registration struct {
	Info EntityInfo
	Repo Repository
}

// Source enumerates the repositories available at wiring time.
// The enumeration is a snapshot, not a live feed
type Source interface {
	Registrations() []Registration
}

// SourceFunc adapts a function to Source
type SourceFunc func() []Registration

// Registrations calls the underlying function
func (f SourceFunc) Registrations() []Registration { return f() }
