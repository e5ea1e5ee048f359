// Package repo provides postgres access for the catalog
package repo

import (
	"context"
	"errors"

	"querybind/internal/paging"
	perr "querybind/internal/platform/errors"
	"querybind/internal/repokit"
	"querybind/internal/services/catalog/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repo defines the repository contract for products
type Repo interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Product, bool, error)
	SearchByName(ctx context.Context, name string, page paging.Page, sort paging.Sort) ([]domain.Product, int, error)
	PriceBetween(ctx context.Context, minCents, maxCents int64, sort paging.Sort, limit int) ([]domain.Product, error)
}

type (
	// PG implements the Repo interface using Postgres
	PG struct{}

	// queries holds the database query methods
	queries struct{ q repokit.Queryer }
)

// NewPG creates a new Postgres repository binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Postgres queryer to the Repo implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) FindByID(ctx context.Context, id uuid.UUID) (domain.Product, bool, error) {
	const sql = `
select id, name, description, price_cents, created_at
from products
where id = $1
`
	var p domain.Product
	err := r.q.QueryRow(ctx, sql, id).Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, false, nil
	}
	if err != nil {
		return domain.Product{}, false, perr.FromPostgres(err, "catalog: find product")
	}
	return p, true, nil
}

func (r *queries) SearchByName(
	ctx context.Context,
	name string,
	page paging.Page,
	sort paging.Sort,
) ([]domain.Product, int, error) {
	orderBy, err := sort.SQL(domain.SortColumns())
	if err != nil {
		return nil, 0, err
	}
	if orderBy == "" {
		orderBy, _ = domain.DefaultSort().SQL(domain.SortColumns())
	}

	var total int
	const countSQL = `select count(*) from products where name ilike '%' || $1 || '%'`
	if err := r.q.QueryRow(ctx, countSQL, name).Scan(&total); err != nil {
		return nil, 0, perr.FromPostgres(err, "catalog: count products")
	}

	sql := `
select id, name, description, price_cents, created_at
from products
where name ilike '%' || $1 || '%'
` + orderBy + `
limit $2 offset $3
`
	rows, err := r.q.Query(ctx, sql, name, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, perr.FromPostgres(err, "catalog: search products")
	}
	defer rows.Close()

	out, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *queries) PriceBetween(
	ctx context.Context,
	minCents, maxCents int64,
	sort paging.Sort,
	limit int,
) ([]domain.Product, error) {
	orderBy, err := sort.SQL(domain.SortColumns())
	if err != nil {
		return nil, err
	}
	if orderBy == "" {
		orderBy = "order by price_cents asc"
	}

	sql := `
select id, name, description, price_cents, created_at
from products
where price_cents between $1 and $2
` + orderBy + `
limit $3
`
	rows, err := r.q.Query(ctx, sql, minCents, maxCents, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "catalog: price range")
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows repokit.Rows) ([]domain.Product, error) {
	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.CreatedAt); err != nil {
			return nil, perr.FromPostgres(err, "catalog: scan product")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "catalog: iterate products")
	}
	return out, nil
}
