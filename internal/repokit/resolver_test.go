package repokit_test

import (
	"context"
	"reflect"
	"testing"

	"querybind/internal/convertkit"
	perr "querybind/internal/platform/errors"
	"querybind/internal/platform/testkit"
	"querybind/internal/repokit"

	"github.com/google/uuid"
)

type account struct {
	ID   uuid.UUID
	Name string
}

type invoice struct {
	ID int64
}

var (
	accountType = reflect.TypeFor[account]()
	invoiceType = reflect.TypeFor[invoice]()
)

// memRepo backs a registration with a fixed entity set
func memRepo(entities map[any]any) repokit.Repository {
	return repokit.FindFunc(func(_ context.Context, id any) (any, bool, error) {
		e, ok := entities[id]
		if !ok {
			return nil, false, nil
		}
		return e, true, nil
	})
}

func TestNew_PanicsOnNilService(t *testing.T) {
	testkit.MustPanic(t, func() { repokit.New(nil) })
}

func TestRegisterRepository_Validation(t *testing.T) {
	r := repokit.New(convertkit.New())
	testkit.MustPanic(t, func() { r.RegisterRepository(nil, memRepo(nil)) })
	testkit.MustPanic(t, func() { r.RegisterRepository(repokit.Info[account, uuid.UUID](), nil) })
}

func TestRegisterRepository_FirstWins(t *testing.T) {
	id := uuid.New()
	first := account{ID: id, Name: "first"}
	second := account{ID: id, Name: "second"}

	r := repokit.New(convertkit.New())
	r.RegisterRepository(repokit.Info[account, uuid.UUID](), memRepo(map[any]any{id: first}))
	r.RegisterRepository(repokit.Info[account, uuid.UUID](), memRepo(map[any]any{id: second}))

	got, ok, err := r.Resolve(context.Background(), id.String(), accountType)
	if err != nil || !ok {
		t.Fatalf("unexpected resolve result ok=%v err=%v", ok, err)
	}
	if got.(account).Name != "first" {
		t.Fatalf("expected the first registration to win got %+v", got)
	}
}

func TestMatches(t *testing.T) {
	r := repokit.New(convertkit.New())
	r.RegisterRepository(repokit.Info[account, uuid.UUID](), memRepo(nil))
	r.RegisterRepository(repokit.Info[invoice, int64](), memRepo(nil))

	cases := []struct {
		name string
		src  reflect.Type
		dst  reflect.Type
		want bool
	}{
		{"string to uuid-keyed entity", reflect.TypeFor[string](), accountType, true},
		{"string to int-keyed entity", reflect.TypeFor[string](), invoiceType, true},
		{"int widens to int64 key", reflect.TypeFor[int](), invoiceType, true},
		{"unregistered domain type", reflect.TypeFor[string](), reflect.TypeFor[struct{ X int }](), false},
		{"inconvertible source", reflect.TypeFor[chan int](), accountType, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := r.Matches(c.src, c.dst); got != c.want {
				t.Fatalf("expected %v got %v", c.want, got)
			}
		})
	}
}

func TestResolve_RoundTrip(t *testing.T) {
	id := uuid.New()
	want := account{ID: id, Name: "acme"}

	r := repokit.New(convertkit.New())
	r.RegisterRepository(repokit.Info[account, uuid.UUID](), memRepo(map[any]any{id: want}))

	// raw string id converts to uuid.UUID before lookup
	got, ok, err := r.Resolve(context.Background(), id.String(), accountType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a hit")
	}
	if got.(account) != want {
		t.Fatalf("expected %+v got %+v", want, got)
	}

	// already-typed id passes through unconverted
	got, ok, err = r.Resolve(context.Background(), id, accountType)
	if err != nil || !ok || got.(account) != want {
		t.Fatalf("expected pass-through hit got %+v ok=%v err=%v", got, ok, err)
	}
}

func TestResolve_Absent(t *testing.T) {
	r := repokit.New(convertkit.New())
	r.RegisterRepository(repokit.Info[account, uuid.UUID](), memRepo(nil))

	got, ok, err := r.Resolve(context.Background(), uuid.New().String(), accountType)
	if err != nil {
		t.Fatalf("a repository miss must not be an error, got %v", err)
	}
	if ok || got != nil {
		t.Fatalf("expected (nil,false) got (%v,%v)", got, ok)
	}
}

func TestResolve_Unregistered(t *testing.T) {
	r := repokit.New(convertkit.New())
	_, _, err := r.Resolve(context.Background(), "x", accountType)
	if !perr.IsCode(err, perr.ErrorCodeUnresolvedType) {
		t.Fatalf("expected unresolved type error got %v", err)
	}
}

func TestResolve_ConversionFailurePropagates(t *testing.T) {
	r := repokit.New(convertkit.New())
	r.RegisterRepository(repokit.Info[account, uuid.UUID](), memRepo(nil))

	_, _, err := r.Resolve(context.Background(), "not-a-uuid", accountType)
	if !perr.IsCode(err, perr.ErrorCodeConversion) {
		t.Fatalf("expected conversion error got %v", err)
	}
}

func TestResolve_RepositoryErrorPropagates(t *testing.T) {
	boom := perr.DBf("connection reset")
	r := repokit.New(convertkit.New())
	r.RegisterRepository(
		repokit.Info[account, uuid.UUID](),
		repokit.FindFunc(func(_ context.Context, _ any) (any, bool, error) {
			return nil, false, boom
		}),
	)

	_, _, err := r.Resolve(context.Background(), uuid.New().String(), accountType)
	if err != boom {
		t.Fatalf("expected the repository error unchanged got %v", err)
	}
}

func TestConvert_AbsentEntityIsNil(t *testing.T) {
	r := repokit.New(convertkit.New())
	r.RegisterRepository(repokit.Info[account, uuid.UUID](), memRepo(nil))

	got, err := r.Convert(context.Background(), uuid.New().String(), reflect.TypeFor[string](), accountType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent entity got %v", got)
	}
}

func TestInitialize(t *testing.T) {
	id := uuid.New()
	want := account{ID: id, Name: "acme"}

	conversions := convertkit.New()
	r := repokit.New(conversions)

	src := repokit.SourceFunc(func() []repokit.Registration {
		return []repokit.Registration{
			{Info: repokit.Info[account, uuid.UUID](), Repo: memRepo(map[any]any{id: want})},
		}
	})
	if err := r.Initialize(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the resolver now serves entity targets through the conversion service
	if !conversions.CanConvert(reflect.TypeFor[string](), accountType) {
		t.Fatalf("expected the conversion service to reach the resolver")
	}
	got, err := conversions.Convert(context.Background(), id.String(), accountType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.(account) != want {
		t.Fatalf("expected %+v got %+v", want, got)
	}
}

func TestInitialize_OneShot(t *testing.T) {
	r := repokit.New(convertkit.New())
	src := repokit.SourceFunc(func() []repokit.Registration { return nil })

	if err := r.Initialize(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Initialize(src); !perr.IsCode(err, perr.ErrorCodeInvariant) {
		t.Fatalf("expected invariant error on second initialize got %v", err)
	}
}

func TestInitialize_NilSource(t *testing.T) {
	r := repokit.New(convertkit.New())
	if err := r.Initialize(nil); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument got %v", err)
	}
}

func TestRegistrationFor(t *testing.T) {
	info := repokit.Info[account, uuid.UUID]()
	r := repokit.New(convertkit.New())
	r.RegisterRepository(info, memRepo(nil))

	reg, ok := r.RegistrationFor(accountType)
	if !ok {
		t.Fatalf("expected a registration")
	}
	if reg.Info.DomainType() != accountType || reg.Info.IDType() != reflect.TypeFor[uuid.UUID]() {
		t.Fatalf("unexpected registration %+v", reg)
	}
	if _, ok := r.RegistrationFor(invoiceType); ok {
		t.Fatalf("expected no registration for unmanaged type")
	}
}

func TestInfo(t *testing.T) {
	info := repokit.Info[invoice, int64]()
	if info.DomainType() != invoiceType {
		t.Fatalf("unexpected domain type %s", info.DomainType())
	}
	if info.IDType() != reflect.TypeFor[int64]() {
		t.Fatalf("unexpected id type %s", info.IDType())
	}
}
