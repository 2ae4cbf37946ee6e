package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hankjoberg-netizen/voltstore/internal/catalog"
	"github.com/hankjoberg-netizen/voltstore/internal/domain"
)

type ProductHandler struct {
	catalog *catalog.Store
}

func NewProductHandler(store *catalog.Store) *ProductHandler {
	return &ProductHandler{catalog: store}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
	Query    string           `json:"query,omitempty"`
}

// GET /api/v1/products?q=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	products := h.catalog.Search(q)
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products, Query: q})
}

// GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.catalog.FindByID(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	respondJSON(w, http.StatusOK, product)
}
