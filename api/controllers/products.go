package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/giggleglory/backoffice/api/responses"
	"github.com/giggleglory/backoffice/api/validators"
	product "github.com/giggleglory/backoffice/internal/products"
	"github.com/giggleglory/backoffice/pkg/logger"
)

const maxCategoryFilterLen = 120

// productRequest is the admin product form. Brand, category and age group
// are display names; unknown names are created.
type productRequest struct {
	Name        string           `json:"name" validate:"required"`
	SKU         string           `json:"sku" validate:"required"`
	Price       decimal.Decimal  `json:"price" validate:"gte=0"`
	Discount    decimal.Decimal  `json:"discount" validate:"gte=0,lte=100"`
	Description string           `json:"description"`
	Keywords    product.Keywords `json:"keywords"`
	MetaTitle   string           `json:"metaTitle"`
	MetaDesc    string           `json:"metaDesc"`
	Brand       string           `json:"brand" validate:"required"`
	Category    string           `json:"category" validate:"required"`
	AgeGroup    string           `json:"ageGroup" validate:"required"`
	ImageURLs   *[]string        `json:"imageUrls,omitempty" validate:"omitempty,dive,required"`
	// Accepted for form round trips; updates always reactivate.
	IsActive *bool `json:"isActive,omitempty"`
}

func (p productRequest) toInput() product.ProductInput {
	return product.ProductInput{
		Name:        p.Name,
		SKU:         p.SKU,
		Price:       p.Price,
		Discount:    p.Discount,
		Description: p.Description,
		Keywords:    []string(p.Keywords),
		MetaTitle:   p.MetaTitle,
		MetaDesc:    p.MetaDesc,
		Brand:       p.Brand,
		Category:    p.Category,
		AgeGroup:    p.AgeGroup,
		ImageURLs:   p.ImageURLs,
	}
}

type updateProductResponse struct {
	Status  string              `json:"status"`
	Updated *product.ProductDTO `json:"updated"`
}

func ListProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("product"))
			return
		}
		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, products)
	}
}

func GetProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("product"))
			return
		}
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, dto)
	}
}

func CreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("product"))
			return
		}
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, err := svc.CreateProduct(r.Context(), payload.toInput()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatus(w, http.StatusCreated)
	}
}

// UpdateProduct overwrites the product and echoes the stored result.
func UpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("product"))
			return
		}
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.UpdateProduct(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, updateProductResponse{Status: "success", Updated: updated})
	}
}

func DeleteProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("product"))
			return
		}
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatus(w, http.StatusOK)
	}
}

// RecommendedProducts serves the storefront shelf, optionally filtered by
// category name.
func RecommendedProducts(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("product"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", product.DefaultRecommendedLimit, 1, product.MaxRecommendedLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category := validators.SanitizeString(r.URL.Query().Get("category"), maxCategoryFilterLen)

		items, err := svc.Recommended(r.Context(), limit, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, items)
	}
}
