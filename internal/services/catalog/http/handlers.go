// Package http provides http transport for the catalog
package http

import (
	stdhttp "net/http"
	"reflect"

	"querybind/internal/paging"
	perr "querybind/internal/platform/errors"
	phttp "querybind/internal/platform/net/http"
	"querybind/internal/platform/net/http/bind"
	"querybind/internal/repokit"
	"querybind/internal/services/catalog/domain"
	svc "querybind/internal/services/catalog/service"
)

var productType = reflect.TypeFor[domain.Product]()

// Register mounts catalog endpoints on the given router
func Register(r phttp.Router, s *svc.Service, resolver *repokit.Resolver) {
	h := &handlers{svc: s, resolver: resolver}
	r.Route("/products", func(pr phttp.Router) {
		pr.Get("/{id}", h.get)
		pr.Post("/search", h.search)
		pr.Post("/price-range", h.priceRange)
	})
}

type handlers struct {
	svc      *svc.Service
	resolver *repokit.Resolver
}

// get resolves the raw path variable into a Product through the domain
// resolver, so any identifier representation the conversion registry can
// turn into a UUID works here
func (h *handlers) get(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	raw := phttp.Param(r, "id")

	entity, ok, err := h.resolver.Resolve(r.Context(), raw, productType)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	if !ok {
		phttp.RespondError(w, r, perr.NotFoundf("product %q not found", raw))
		return
	}
	phttp.RespondOK(w, r, entity)
}

func (h *handlers) search(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	in, err := bind.ParseJSON[domain.SearchInput](r)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	sort, err := paging.ParseSort(in.Sort)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	page, err := paging.PageOf(in.Page, in.Size, sort)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	items, total, err := h.svc.SearchByName(r.Context(), in.Name, page)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondList(w, r, items, total, page.Number(), page.Size())
}

func (h *handlers) priceRange(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	in, err := bind.ParseJSON[domain.PriceRangeInput](r)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	sort, err := paging.ParseSort(in.Sort)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	items, total, err := h.svc.PriceBetween(r.Context(), in.MinCents, in.MaxCents, sort)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondList(w, r, items, total, 0, len(items))
}
