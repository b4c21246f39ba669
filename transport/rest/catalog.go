package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/playroom/internal/catalog"
	"github.com/rocketscienceinc/playroom/internal/entity"
)

type catalogService interface {
	State() catalog.State
	SetFilters(patch entity.FilterPatch) catalog.State
	ClearFilters() catalog.State
	SetPage(page int) catalog.State
	SetLimit(limit int) catalog.State
	ClearError() catalog.State
	FetchProducts(ctx context.Context) (catalog.State, error)
	FetchProduct(ctx context.Context, id string) (*entity.Product, error)
	CreateProduct(ctx context.Context, form entity.ProductForm) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id string, form entity.ProductForm) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type pageRequest struct {
	Page int `json:"page"`
}

type limitRequest struct {
	Limit int `json:"limit"`
}

type catalogHandlers struct {
	logger   *slog.Logger
	products catalogService
}

func newCatalogHandlers(logger *slog.Logger, products catalogService) *catalogHandlers {
	return &catalogHandlers{
		logger:   logger.With("handler", "catalog"),
		products: products,
	}
}

func (that *catalogHandlers) routes(r chi.Router) {
	r.Get("/", that.state)
	r.Patch("/filters", that.setFilters)
	r.Delete("/filters", that.clearFilters)
	r.Put("/page", that.setPage)
	r.Put("/limit", that.setLimit)
	r.Delete("/error", that.clearError)
	r.Post("/refresh", that.refresh)

	r.Post("/products", that.createProduct)
	r.Get("/products/{id}", that.getProduct)
	r.Put("/products/{id}", that.updateProduct)
	r.Delete("/products/{id}", that.deleteProduct)
}

func (that *catalogHandlers) state(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, that.products.State())
}

func (that *catalogHandlers) setFilters(w http.ResponseWriter, r *http.Request) {
	var patch entity.FilterPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, that.products.SetFilters(patch))
}

func (that *catalogHandlers) clearFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, that.products.ClearFilters())
}

func (that *catalogHandlers) setPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeJSON(r, &req); err != nil || req.Page < 1 {
		writeBadRequest(w, "page must be a positive number")
		return
	}

	writeJSON(w, http.StatusOK, that.products.SetPage(req.Page))
}

func (that *catalogHandlers) setLimit(w http.ResponseWriter, r *http.Request) {
	var req limitRequest
	if err := decodeJSON(r, &req); err != nil || req.Limit < 1 {
		writeBadRequest(w, "limit must be a positive number")
		return
	}

	writeJSON(w, http.StatusOK, that.products.SetLimit(req.Limit))
}

func (that *catalogHandlers) clearError(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, that.products.ClearError())
}

// refresh answers with the store state even when the fetch failed; the
// failure is carried in its error field.
func (that *catalogHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	state, err := that.products.FetchProducts(r.Context())
	if err != nil {
		that.logger.Warn("refresh failed", "error", err)
		writeJSON(w, http.StatusBadGateway, state)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (that *catalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := that.products.FetchProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, that.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (that *catalogHandlers) createProduct(w http.ResponseWriter, r *http.Request) {
	var form entity.ProductForm
	if err := decodeJSON(r, &form); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	product, err := that.products.CreateProduct(r.Context(), form)
	if err != nil {
		writeError(w, that.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func (that *catalogHandlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	var form entity.ProductForm
	if err := decodeJSON(r, &form); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	product, err := that.products.UpdateProduct(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeError(w, that.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (that *catalogHandlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := that.products.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, that.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
