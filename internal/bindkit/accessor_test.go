package bindkit_test

import (
	"testing"

	"querybind/internal/bindkit"
	"querybind/internal/paging"
	perr "querybind/internal/platform/errors"
)

func shape(roles ...bindkit.Role) *bindkit.Parameters {
	params := make([]bindkit.Parameter, len(roles))
	for i, r := range roles {
		params[i] = bindkit.Parameter{Name: "p", Role: r}
	}
	p, err := bindkit.NewParameters(params)
	if err != nil {
		panic(err)
	}
	return p
}

func TestNewAccessor_LengthMismatch(t *testing.T) {
	cases := []struct {
		name   string
		params *bindkit.Parameters
		values []any
	}{
		{"more values than params", shape(bindkit.RoleBindable), []any{"a", "b"}},
		{"fewer values than params", shape(bindkit.RoleBindable, bindkit.RoleBindable), []any{"a"}},
		{"zero params non-zero values", shape(), []any{"a"}},
		{"non-zero params zero values", shape(bindkit.RoleBindable), []any{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := bindkit.NewAccessor(c.params, c.values)
			if !perr.IsCode(err, perr.ErrorCodeInvariant) {
				t.Fatalf("expected invariant error got %v", err)
			}
		})
	}
}

func TestNewAccessor_NilInputs(t *testing.T) {
	if _, err := bindkit.NewAccessor(nil, []any{}); !perr.IsCode(err, perr.ErrorCodeInvariant) {
		t.Fatalf("expected invariant error for nil params got %v", err)
	}
	if _, err := bindkit.NewAccessor(shape(), nil); !perr.IsCode(err, perr.ErrorCodeInvariant) {
		t.Fatalf("expected invariant error for nil values got %v", err)
	}
}

func TestAccessor_DefensiveCopy(t *testing.T) {
	values := []any{"original"}
	acc, err := bindkit.NewAccessor(shape(bindkit.RoleBindable), values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	values[0] = "mutated"
	if got := acc.BindableValue(0); got != "original" {
		t.Fatalf("accessor observed caller mutation: %v", got)
	}
}

func TestAccessor_Pageable(t *testing.T) {
	byName := paging.By("name")
	page := paging.MustPage(0, 10, byName)

	// the canonical three-parameter shape: bindable, pageable, bindable
	s := shape(bindkit.RoleBindable, bindkit.RolePageable, bindkit.RoleBindable)
	acc, err := bindkit.NewAccessor(s, []any{"abc", page, nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := acc.Pageable()
	if !ok {
		t.Fatalf("expected a page window")
	}
	if got.Number() != 0 || got.Size() != 10 {
		t.Fatalf("expected page 0 size 10 got %d/%d", got.Number(), got.Size())
	}
	sort, ok := acc.Sort()
	if !ok {
		t.Fatalf("expected the pageable-embedded sort")
	}
	if orders := sort.Orders(); len(orders) != 1 || orders[0].Property != "name" {
		t.Fatalf("expected sort by name got %+v", sort.Orders())
	}
}

func TestAccessor_PageableNil(t *testing.T) {
	s := shape(bindkit.RolePageable)
	acc, err := bindkit.NewAccessor(s, []any{nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := acc.Pageable(); ok {
		t.Fatalf("expected no page window for nil argument")
	}
	if _, ok := acc.Sort(); ok {
		t.Fatalf("expected no sort for nil pageable")
	}
}

func TestAccessor_PageableUndeclared(t *testing.T) {
	acc, err := bindkit.NewAccessor(shape(bindkit.RoleBindable), []any{"x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := acc.Pageable(); ok {
		t.Fatalf("expected no page window without a pageable parameter")
	}
}

func TestAccessor_ExplicitSortWins(t *testing.T) {
	embedded := paging.MustPage(1, 5, paging.By("embedded"))
	explicit := paging.By("explicit")

	s := shape(bindkit.RolePageable, bindkit.RoleSort)
	acc, err := bindkit.NewAccessor(s, []any{embedded, explicit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sort, ok := acc.Sort()
	if !ok {
		t.Fatalf("expected a sort")
	}
	if orders := sort.Orders(); orders[0].Property != "explicit" {
		t.Fatalf("expected the explicit sort to win got %+v", orders)
	}
}

func TestAccessor_ExplicitSortWithoutPageable(t *testing.T) {
	explicit := paging.By("name")

	s := shape(bindkit.RoleBindable, bindkit.RoleSort)
	acc, err := bindkit.NewAccessor(s, []any{"abc", explicit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sort, ok := acc.Sort()
	if !ok {
		t.Fatalf("expected a sort")
	}
	if orders := sort.Orders(); orders[0].Property != "name" {
		t.Fatalf("unexpected sort %+v", orders)
	}
}

func TestAccessor_DeclaredSortNeverFallsBack(t *testing.T) {
	// a declared sort parameter suppresses the pageable-embedded sort even
	// when its value carries no orders
	embedded := paging.MustPage(1, 5, paging.By("embedded"))

	s := shape(bindkit.RolePageable, bindkit.RoleSort)
	for _, sortArg := range []any{nil, paging.Unsorted()} {
		acc, err := bindkit.NewAccessor(s, []any{embedded, sortArg})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := acc.Sort(); ok {
			t.Fatalf("expected no sort for sort argument %v", sortArg)
		}
	}
}

func TestAccessor_Bindables(t *testing.T) {
	s := shape(bindkit.RoleBindable, bindkit.RolePageable, bindkit.RoleBindable)
	acc, err := bindkit.NewAccessor(s, []any{"abc", paging.MustPage(0, 10, paging.Unsorted()), nil})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := acc.BindableValue(0); got != "abc" {
		t.Fatalf("expected first bindable abc got %v", got)
	}
	if got := acc.BindableValue(1); got != nil {
		t.Fatalf("expected second bindable nil got %v", got)
	}
	if !acc.HasBindableNull() {
		t.Fatalf("expected HasBindableNull")
	}

	var collected []any
	for v := range acc.Bindables() {
		collected = append(collected, v)
	}
	if len(collected) != 2 || collected[0] != "abc" || collected[1] != nil {
		t.Fatalf("unexpected bindable sequence %v", collected)
	}

	// the sequence restarts per call and supports early break
	for range acc.Bindables() {
		break
	}
	if got := acc.BindableSlice(); len(got) != 2 {
		t.Fatalf("expected a fresh full slice got %v", got)
	}
}

func TestAccessor_HasBindableNullFalse(t *testing.T) {
	s := shape(bindkit.RoleBindable, bindkit.RoleBindable)
	acc, err := bindkit.NewAccessor(s, []any{"a", int64(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.HasBindableNull() {
		t.Fatalf("expected no nil bindables")
	}
}

func TestAccessor_SortWrongDynamicType(t *testing.T) {
	s := shape(bindkit.RoleSort)
	acc, err := bindkit.NewAccessor(s, []any{"not a sort"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := acc.Sort(); ok {
		t.Fatalf("expected no sort for mistyped argument")
	}
}
