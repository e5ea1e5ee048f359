// Package paging provides page window and sort ordering value types shared
// by finder methods, repositories, and transport layers
package paging

import (
	"strings"

	perr "querybind/internal/platform/errors"
)

// Direction is the ordering direction of a single sort property
type Direction uint8

const (
	// Asc sorts ascending
	Asc Direction = iota

	// Desc sorts descending
	Desc
)

// String returns the SQL spelling of the direction
func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// ParseDirection parses "asc"/"desc" (case-insensitive)
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Asc, perr.InvalidArgf("invalid sort direction %q", s)
	}
}

// Order pairs a property with a direction
type Order struct {
	Property  string
	Direction Direction
}

// Sort is an ordered list of Orders; the zero value is unsorted
type Sort struct {
	orders []Order
}

// Unsorted returns the empty sort
func Unsorted() Sort { return Sort{} }

// By builds an ascending sort over the given properties
func By(properties ...string) Sort {
	orders := make([]Order, 0, len(properties))
	for _, p := range properties {
		if p = strings.TrimSpace(p); p != "" {
			orders = append(orders, Order{Property: p, Direction: Asc})
		}
	}
	return Sort{orders: orders}
}

// ByOrders builds a sort from explicit orders
func ByOrders(orders ...Order) Sort {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Property != "" {
			out = append(out, o)
		}
	}
	return Sort{orders: out}
}

// IsSorted reports whether the sort carries at least one order
func (s Sort) IsSorted() bool { return len(s.orders) > 0 }

// Orders returns a copy of the orders in declaration order
func (s Sort) Orders() []Order {
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// And appends other's orders after s's
func (s Sort) And(other Sort) Sort {
	if !other.IsSorted() {
		return s
	}
	merged := make([]Order, 0, len(s.orders)+len(other.orders))
	merged = append(merged, s.orders...)
	merged = append(merged, other.orders...)
	return Sort{orders: merged}
}

// SQL renders the sort as an "order by" clause using columns as the
// property-to-column whitelist. Properties outside the whitelist fail so
// user-supplied sorts can never reach the query text directly.
// Returns "" for an unsorted Sort
func (s Sort) SQL(columns map[string]string) (string, error) {
	if !s.IsSorted() {
		return "", nil
	}
	parts := make([]string, 0, len(s.orders))
	for _, o := range s.orders {
		col, ok := columns[o.Property]
		if !ok {
			return "", perr.InvalidArgf("unsortable property %q", o.Property)
		}
		parts = append(parts, col+" "+o.Direction.String())
	}
	return "order by " + strings.Join(parts, ", "), nil
}

// ParseSort parses "property[,asc|desc]" into a single-order Sort.
// An empty expression yields Unsorted
func ParseSort(expr string) (Sort, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Unsorted(), nil
	}
	prop, dir, _ := strings.Cut(expr, ",")
	prop = strings.TrimSpace(prop)
	if prop == "" {
		return Unsorted(), perr.InvalidArgf("invalid sort expression %q", expr)
	}
	d, err := ParseDirection(dir)
	if err != nil {
		return Unsorted(), err
	}
	return ByOrders(Order{Property: prop, Direction: d}), nil
}

// Page describes a result page window plus an optional embedded sort.
// The zero value is page 0 with no size; use PageOf for validated construction
type Page struct {
	number int
	size   int
	sort   Sort
}

// PageOf builds a validated page window
func PageOf(number, size int, sort Sort) (Page, error) {
	if number < 0 {
		return Page{}, perr.InvalidArgf("page number must not be negative, got %d", number)
	}
	if size < 1 {
		return Page{}, perr.InvalidArgf("page size must be at least 1, got %d", size)
	}
	return Page{number: number, size: size, sort: sort}, nil
}

// MustPage is PageOf for static values; panics on invalid input
func MustPage(number, size int, sort Sort) Page {
	p, err := PageOf(number, size, sort)
	if err != nil {
		panic(err)
	}
	return p
}

// Number returns the zero-based page number
func (p Page) Number() int { return p.number }

// Size returns the page size
func (p Page) Size() int { return p.size }

// Sort returns the embedded sort, possibly unsorted
func (p Page) Sort() Sort { return p.sort }

// Offset returns the row offset of the window
func (p Page) Offset() int { return p.number * p.size }

// Limit returns the row limit of the window
func (p Page) Limit() int { return p.size }
