package bindkit

import (
	"iter"
	"slices"

	"querybind/internal/paging"
	perr "querybind/internal/platform/errors"
)

// Accessor is a read-only view over one finder invocation's argument values,
// classified by a Parameters shape. It owns a defensive copy of the values,
// so later mutation of the caller's slice cannot leak into the view.
// Construct per invocation; never share across goroutines
type Accessor struct {
	params *Parameters
	values []any
}

// NewAccessor pairs a shape with the raw argument values.
// Shape and value lengths must agree exactly
func NewAccessor(params *Parameters, values []any) (*Accessor, error) {
	if params == nil {
		return nil, perr.Invariantf("bindkit: nil parameters")
	}
	if values == nil {
		return nil, perr.Invariantf("bindkit: nil values")
	}
	if params.Len() != len(values) {
		return nil, perr.Invariantf("bindkit: %d values for %d parameters", len(values), params.Len())
	}
	return &Accessor{params: params, values: slices.Clone(values)}, nil
}

// Parameters returns the shape backing the accessor
func (a *Accessor) Parameters() *Parameters { return a.params }

// Pageable returns the page window argument. ok is false when the shape
// declares no pageable parameter or when the argument is nil
func (a *Accessor) Pageable() (paging.Page, bool) {
	if !a.params.HasPageable() {
		return paging.Page{}, false
	}
	v := a.values[a.params.PageableIndex()]
	if v == nil {
		return paging.Page{}, false
	}
	p, ok := v.(paging.Page)
	return p, ok
}

// Sort returns the effective sort of the invocation. An explicit sort
// parameter always wins; otherwise the sort embedded in the pageable
// argument applies. ok is false when neither yields an order
func (a *Accessor) Sort() (paging.Sort, bool) {
	if a.params.HasSort() {
		v := a.values[a.params.SortIndex()]
		if v == nil {
			return paging.Sort{}, false
		}
		s, ok := v.(paging.Sort)
		if !ok {
			return paging.Sort{}, false
		}
		return s, s.IsSorted()
	}
	if p, ok := a.Pageable(); ok {
		s := p.Sort()
		return s, s.IsSorted()
	}
	return paging.Sort{}, false
}

// BindableValue returns the raw argument behind bindable-only index i.
// The value may be nil
func (a *Accessor) BindableValue(i int) any {
	return a.values[a.params.BindableIndex(i)]
}

// HasBindableNull reports whether any bindable argument is nil.
// Callers use it to short-circuit null-unsafe query execution
func (a *Accessor) HasBindableNull() bool {
	for i := 0; i < a.params.BindableLen(); i++ {
		if a.BindableValue(i) == nil {
			return true
		}
	}
	return false
}

// Bindables yields the bindable arguments in ascending bindable order.
// The sequence is lazy, read-only, and restartable per call
func (a *Accessor) Bindables() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := 0; i < a.params.BindableLen(); i++ {
			if !yield(a.BindableValue(i)) {
				return
			}
		}
	}
}

// BindableSlice materializes Bindables into a fresh slice, convenient for
// passing straight to a query as args
func (a *Accessor) BindableSlice() []any {
	out := make([]any, 0, a.params.BindableLen())
	for v := range a.Bindables() {
		out = append(out, v)
	}
	return out
}
