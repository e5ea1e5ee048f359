package http_test

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"querybind/internal/convertkit"
	"querybind/internal/paging"
	perr "querybind/internal/platform/errors"
	phttp "querybind/internal/platform/net/http"
	"querybind/internal/platform/store"
	"querybind/internal/repokit"
	"querybind/internal/services/catalog/domain"
	cataloghttp "querybind/internal/services/catalog/http"
	"querybind/internal/services/catalog/repo"
	"querybind/internal/services/catalog/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type noopDB struct{}

func (noopDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (noopDB) Query(context.Context, string, ...any) (store.Rows, error)     { return nil, nil }
func (noopDB) QueryRow(context.Context, string, ...any) store.Row            { return nil }
func (noopDB) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(noopDB{})
}

type fakeRepo struct {
	products []domain.Product
	total    int
}

func (f *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Product, bool, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return domain.Product{}, false, nil
}

func (f *fakeRepo) SearchByName(
	_ context.Context, _ string, _ paging.Page, _ paging.Sort,
) ([]domain.Product, int, error) {
	return f.products, f.total, nil
}

func (f *fakeRepo) PriceBetween(
	_ context.Context, _, _ int64, _ paging.Sort, _ int,
) ([]domain.Product, error) {
	return f.products, nil
}

func newHandler(t *testing.T, f *fakeRepo) stdhttp.Handler {
	t.Helper()

	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f })
	svc := service.New(noopDB{}, binder, service.Config{})

	resolver := repokit.New(convertkit.New())
	resolver.RegisterRepository(
		repokit.Info[domain.Product, uuid.UUID](),
		repokit.FindFunc(func(ctx context.Context, id any) (any, bool, error) {
			uid, ok := id.(uuid.UUID)
			if !ok {
				return nil, false, perr.Conversionf("expected uuid, got %T", id)
			}
			p, found, err := f.FindByID(ctx, uid)
			if err != nil || !found {
				return nil, false, err
			}
			return p, true, nil
		}),
	)

	m := chi.NewRouter()
	cataloghttp.Register(phttp.AdaptChi(m), svc, resolver)
	return m
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:         uuid.New(),
		Name:       "widget",
		PriceCents: 1999,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func do(t *testing.T, h stdhttp.Handler, method, path, body string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope %q: %v", rr.Body.String(), err)
	}
	return rr, env
}

func TestGetProduct_ResolvesRawPathVariable(t *testing.T) {
	want := sampleProduct()
	h := newHandler(t, &fakeRepo{products: []domain.Product{want}})

	rr, env := do(t, h, stdhttp.MethodGet, "/products/"+want.ID.String(), "")
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rr.Code, rr.Body.String())
	}

	raw, err := json.Marshal(env.Data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got domain.Product
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID || got.Name != want.Name {
		t.Fatalf("expected %+v got %+v", want, got)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	h := newHandler(t, &fakeRepo{})

	rr, env := do(t, h, stdhttp.MethodGet, "/products/"+uuid.NewString(), "")
	if rr.Code != stdhttp.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
	if env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestGetProduct_UnparsableID(t *testing.T) {
	h := newHandler(t, &fakeRepo{})

	rr, env := do(t, h, stdhttp.MethodGet, "/products/not-a-uuid", "")
	if rr.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rr.Code)
	}
	if env.Code != perr.ErrorCodeConversion {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestSearch(t *testing.T) {
	h := newHandler(t, &fakeRepo{products: []domain.Product{sampleProduct()}, total: 9})

	rr, env := do(t, h, stdhttp.MethodPost, "/products/search",
		`{"name":"wid","page":1,"size":5,"sort":"name,asc"}`)
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rr.Code, rr.Body.String())
	}
	if env.Page == nil || env.Page.Total != 9 || env.Page.Page != 1 || env.Page.PageSize != 5 {
		t.Fatalf("unexpected page block %+v", env.Page)
	}
}

func TestSearch_ValidationFailure(t *testing.T) {
	h := newHandler(t, &fakeRepo{})

	rr, env := do(t, h, stdhttp.MethodPost, "/products/search", `{"page":0,"size":5}`)
	if rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	if env.Code != perr.ErrorCodeValidation {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestSearch_BadSortDirection(t *testing.T) {
	h := newHandler(t, &fakeRepo{})

	rr, _ := do(t, h, stdhttp.MethodPost, "/products/search",
		`{"name":"wid","page":0,"size":5,"sort":"name,sideways"}`)
	if rr.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rr.Code)
	}
}

func TestPriceRange(t *testing.T) {
	h := newHandler(t, &fakeRepo{products: []domain.Product{sampleProduct(), sampleProduct()}})

	rr, env := do(t, h, stdhttp.MethodPost, "/products/price-range",
		`{"min_cents":100,"max_cents":5000,"sort":"price,desc"}`)
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200 got %d (%s)", rr.Code, rr.Body.String())
	}
	if env.Page == nil || env.Page.Total != 2 {
		t.Fatalf("unexpected page block %+v", env.Page)
	}
}

func TestPriceRange_InvertedBounds(t *testing.T) {
	h := newHandler(t, &fakeRepo{})

	rr, env := do(t, h, stdhttp.MethodPost, "/products/price-range",
		`{"min_cents":5000,"max_cents":100}`)
	if rr.Code != stdhttp.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	if env.Code != perr.ErrorCodeValidation {
		t.Fatalf("unexpected envelope %+v", env)
	}
}
