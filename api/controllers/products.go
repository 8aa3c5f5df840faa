package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/showroom-backend/api/responses"
	"github.com/angelmondragon/showroom-backend/api/validators"
	productsvc "github.com/angelmondragon/showroom-backend/internal/products"
	"github.com/angelmondragon/showroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/types"
)

const maxSearchLen = 100

// ListProducts serves the filtered, sorted catalog.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters, err := parseListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func parseListFilters(r *http.Request) (productsvc.ListFilters, error) {
	filters := productsvc.ListFilters{
		Query:      validators.SanitizeString(r.URL.Query().Get("q"), maxSearchLen),
		Categories: validators.ParseQueryList(r, "category"),
		Sort:       enums.ProductSortPopularity,
	}

	var err error
	if filters.PriceMin, err = validators.ParseQueryDecimal(r, "priceMin"); err != nil {
		return filters, err
	}
	if filters.PriceMax, err = validators.ParseQueryDecimal(r, "priceMax"); err != nil {
		return filters, err
	}
	if filters.PriceMin != nil && filters.PriceMax != nil && filters.PriceMin.GreaterThan(*filters.PriceMax) {
		return filters, pkgerrors.New(pkgerrors.CodeValidation, "priceMin must not exceed priceMax")
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("sortBy")); raw != "" {
		sort, err := enums.ParseProductSort(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sortBy").WithDetails(map[string]any{"field": "sortBy"})
		}
		filters.Sort = sort
	}
	return filters, nil
}

// GetProduct returns one product or 404.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func FeaturedProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Featured(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func PromoProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Promo(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// RelatedProducts lists same-category products, excluding the one being viewed.
func RelatedProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := validators.SanitizeString(r.URL.Query().Get("category"), maxSearchLen)
		if category == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category is required").WithDetails(map[string]any{"field": "category"}))
			return
		}
		exclude, err := validators.ParseQueryUUID(r, "exclude")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Related(r.Context(), category, exclude)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func ProductCategories(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

type createProductRequest struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	LongDescription string           `json:"longDescription"`
	Price           decimal.Decimal  `json:"price"`
	DiscountPrice   *decimal.Decimal `json:"discountPrice"`
	Category        string           `json:"category"`
	Condition       string           `json:"condition"`
	Mileage         *int             `json:"mileage"`
	FuelType        *string          `json:"fuelType"`
	IsFeatured      bool             `json:"isFeatured"`
	IsPromo         bool             `json:"isPromo"`
	Popularity      *int             `json:"popularity"`
	Images          []string         `json:"images"`
}

func (r createProductRequest) toInput() productsvc.CreateProductInput {
	input := productsvc.CreateProductInput{
		Name:            r.Name,
		Description:     r.Description,
		LongDescription: r.LongDescription,
		Price:           r.Price,
		DiscountPrice:   r.DiscountPrice,
		Category:        r.Category,
		Condition:       enums.ProductCondition(r.Condition),
		Mileage:         r.Mileage,
		IsFeatured:      r.IsFeatured,
		IsPromo:         r.IsPromo,
		Popularity:      r.Popularity,
		Images:          r.Images,
	}
	if r.FuelType != nil && *r.FuelType != "" {
		fuel := enums.FuelType(*r.FuelType)
		input.FuelType = &fuel
	}
	return input
}

// CreateProduct uploads the inline images and inserts the product.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// updateProductRequest keeps omitted and null apart: Nullable for clearable
// columns, a pointer slice for images.
type updateProductRequest struct {
	Name            *string                         `json:"name"`
	Description     *string                         `json:"description"`
	LongDescription *string                         `json:"longDescription"`
	Price           *decimal.Decimal                `json:"price"`
	DiscountPrice   types.Nullable[decimal.Decimal] `json:"discountPrice"`
	Category        *string                         `json:"category"`
	Condition       *string                         `json:"condition"`
	Mileage         types.Nullable[int]             `json:"mileage"`
	FuelType        types.Nullable[string]          `json:"fuelType"`
	IsFeatured      *bool                           `json:"isFeatured"`
	IsPromo         *bool                           `json:"isPromo"`
	Popularity      *int                            `json:"popularity"`
	Images          *[]string                       `json:"images"`
}

func (r updateProductRequest) toInput() productsvc.UpdateProductInput {
	input := productsvc.UpdateProductInput{
		Name:            r.Name,
		Description:     r.Description,
		LongDescription: r.LongDescription,
		Price:           r.Price,
		DiscountPrice:   r.DiscountPrice,
		Category:        r.Category,
		Mileage:         r.Mileage,
		IsFeatured:      r.IsFeatured,
		IsPromo:         r.IsPromo,
		Popularity:      r.Popularity,
	}
	if r.Condition != nil {
		condition := enums.ProductCondition(*r.Condition)
		input.Condition = &condition
	}
	switch {
	case r.FuelType.Null(), r.FuelType.Set() && *r.FuelType.Value == "":
		input.FuelType = types.Nullable[enums.FuelType]{Valid: true}
	case r.FuelType.Set():
		input.FuelType = types.Some(enums.FuelType(*r.FuelType.Value))
	}
	if r.Images != nil {
		images := *r.Images
		if images == nil {
			images = []string{}
		}
		input.Images = images
	}
	return input
}

// UpdateProduct applies a partial update; images, when present, are reconciled.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes the product and its images; absent products still yield 204.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

type homepageRequest struct {
	FeaturedProductIDs []uuid.UUID `json:"featuredProductIds" validate:"required"`
	PromoProductIDs    []uuid.UUID `json:"promoProductIds" validate:"required"`
}

// UpdateHomepage replaces the featured and promo selections.
func UpdateHomepage(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload homepageRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.UpdateHomepage(r.Context(), productsvc.HomepageSettingsInput{
			FeaturedProductIDs: payload.FeaturedProductIDs,
			PromoProductIDs:    payload.PromoProductIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

func productIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}
