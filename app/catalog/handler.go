package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/buildermart/sales-api/models"
	"github.com/buildermart/sales-api/tiles"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Category struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Product struct {
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Unit         string    `json:"unit"`
	Category     *Category `json:"category"`
	PcsPerCarton int       `json:"pcs_per_carton"`
	SqftPerPcs   float64   `json:"sqft_per_pcs"`
	IsTile       bool      `json:"is_tile"`
}

type ProductProvider interface {
	GetFilteredProducts(offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByCode(code string) (*models.Product, error)
}

type CatalogHandler struct {
	repo ProductProvider
}

func NewCatalogHandler(r ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		repo: r,
	}
}

func toProduct(p *models.Product) Product {
	out := Product{
		Code:         p.Code,
		Name:         p.Name,
		Price:        p.Price.InexactFloat64(),
		Unit:         p.UnitType.Code,
		PcsPerCarton: p.PcsPerCarton,
		SqftPerPcs:   p.SqftPerPcs.InexactFloat64(),
		IsTile:       tiles.IsTileProduct(p),
	}
	if p.Category != nil {
		out.Category = &Category{
			Code: p.Category.Code,
			Name: p.Category.Name,
		}
	}
	return out
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	// Parse filters
	categoryCode := r.URL.Query().Get("category")

	var priceFilter *float64
	if priceStr := r.URL.Query().Get("price_lt"); priceStr != "" {
		if val, err := strconv.ParseFloat(priceStr, 64); err == nil {
			priceFilter = &val
		}
	}

	filters := models.ProductFilters{
		CategoryCode:  categoryCode,
		PriceLessThan: priceFilter,
	}

	res, total, err := h.repo.GetFilteredProducts(offset, limit, filters)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to get products")
		return
	}

	products := make([]Product, len(res))
	for i := range res {
		products[i] = toProduct(&res[i])
	}

	w.Header().Set("Content-Type", "application/json")
	response := Response{
		Total:    int(total),
		Products: products,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	product, err := h.repo.GetByCode(code)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "Product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toProduct(product)); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
