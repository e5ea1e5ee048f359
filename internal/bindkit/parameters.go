// Package bindkit classifies the positional arguments of a finder
// invocation into paging, sorting, and bindable query values. Classification
// is driven entirely by an externally supplied parameter shape; the package
// never inspects argument types to decide roles
package bindkit

import (
	"fmt"
	"slices"

	perr "querybind/internal/platform/errors"
)

// Role classifies one positional finder parameter
type Role uint8

const (
	// RoleBindable marks a literal value bound into the query
	RoleBindable Role = iota

	// RolePageable marks the page window parameter
	RolePageable

	// RoleSort marks the explicit sort parameter
	RoleSort
)

// String returns the role name
func (r Role) String() string {
	switch r {
	case RoleBindable:
		return "bindable"
	case RolePageable:
		return "pageable"
	case RoleSort:
		return "sort"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Parameter describes one positional parameter of a finder method
type Parameter struct {
	Name string
	Role Role
}

// Parameters is the ordered shape of a finder's parameter list. It records
// where the special parameters sit and maps bindable-only indices back to
// argument positions. Build once per finder method and reuse across calls
type Parameters struct {
	params        []Parameter
	pageableIndex int
	sortIndex     int
	bindable      []int
}

// NewParameters validates and indexes a parameter shape.
// At most one pageable and one sort parameter may be declared
func NewParameters(params []Parameter) (*Parameters, error) {
	p := &Parameters{
		params:        slices.Clone(params),
		pageableIndex: -1,
		sortIndex:     -1,
	}
	for i, d := range params {
		switch d.Role {
		case RoleBindable:
			p.bindable = append(p.bindable, i)
		case RolePageable:
			if p.pageableIndex >= 0 {
				return nil, perr.Invariantf(
					"bindkit: pageable parameters at positions %d and %d", p.pageableIndex, i)
			}
			p.pageableIndex = i
		case RoleSort:
			if p.sortIndex >= 0 {
				return nil, perr.Invariantf(
					"bindkit: sort parameters at positions %d and %d", p.sortIndex, i)
			}
			p.sortIndex = i
		default:
			return nil, perr.InvalidArgf("bindkit: unknown role %d at position %d", d.Role, i)
		}
	}
	return p, nil
}

// MustParameters is NewParameters for static shapes; panics on invalid input
func MustParameters(params ...Parameter) *Parameters {
	p, err := NewParameters(params)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the total number of parameters
func (p *Parameters) Len() int { return len(p.params) }

// At returns the descriptor at position i
func (p *Parameters) At(i int) Parameter { return p.params[i] }

// HasPageable reports whether the shape declares a pageable parameter
func (p *Parameters) HasPageable() bool { return p.pageableIndex >= 0 }

// PageableIndex returns the pageable argument position, or -1
func (p *Parameters) PageableIndex() int { return p.pageableIndex }

// HasSort reports whether the shape declares an explicit sort parameter
func (p *Parameters) HasSort() bool { return p.sortIndex >= 0 }

// SortIndex returns the sort argument position, or -1
func (p *Parameters) SortIndex() int { return p.sortIndex }

// BindableLen returns the number of bindable parameters
func (p *Parameters) BindableLen() int { return len(p.bindable) }

// BindableIndex maps a bindable-only index to its argument position.
// Out-of-range indices are a programmer error
func (p *Parameters) BindableIndex(i int) int {
	if i < 0 || i >= len(p.bindable) {
		panic(fmt.Sprintf("bindkit: bindable index %d out of range [0,%d)", i, len(p.bindable)))
	}
	return p.bindable[i]
}
