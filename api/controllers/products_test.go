package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	productsvc "github.com/angelmondragon/showroom-backend/internal/products"
	"github.com/angelmondragon/showroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
)

type stubProductService struct {
	productsvc.Service

	filters  productsvc.ListFilters
	create   productsvc.CreateProductInput
	update   productsvc.UpdateProductInput
	homepage productsvc.HomepageSettingsInput
	related  struct {
		category string
		exclude  uuid.UUID
	}
	deleted uuid.UUID
	product *productsvc.ProductDTO
	err     error
}

func (s *stubProductService) List(ctx context.Context, filters productsvc.ListFilters) ([]productsvc.ProductDTO, error) {
	s.filters = filters
	return []productsvc.ProductDTO{}, s.err
}

func (s *stubProductService) Get(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubProductService) Related(ctx context.Context, category string, exclude uuid.UUID) ([]productsvc.ProductDTO, error) {
	s.related.category = category
	s.related.exclude = exclude
	return []productsvc.ProductDTO{}, s.err
}

func (s *stubProductService) Create(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	s.create = input
	return s.product, s.err
}

func (s *stubProductService) Update(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	s.update = input
	return s.product, s.err
}

func (s *stubProductService) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = id
	return s.err
}

func (s *stubProductService) UpdateHomepage(ctx context.Context, input productsvc.HomepageSettingsInput) error {
	s.homepage = input
	return s.err
}

func TestListProductsParsesFilters(t *testing.T) {
	svc := &stubProductService{}
	req := jsonRequest(http.MethodGet, "/api/products?q=%20avanza%20&category=MPV&category=SUV&priceMin=100&priceMax=500.5&sortBy=price-desc", "")

	rec := serve(ListProducts(svc, testLogger()), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "avanza", svc.filters.Query)
	assert.Equal(t, []string{"MPV", "SUV"}, svc.filters.Categories)
	require.NotNil(t, svc.filters.PriceMin)
	assert.Equal(t, "100", svc.filters.PriceMin.String())
	assert.Equal(t, "500.5", svc.filters.PriceMax.String())
	assert.Equal(t, enums.ProductSortPriceDesc, svc.filters.Sort)
	assert.Equal(t, "[]", string(decodeEnvelope(t, rec).Data))
}

func TestListProductsDefaultsAndRejections(t *testing.T) {
	svc := &stubProductService{}
	rec := serve(ListProducts(svc, testLogger()), jsonRequest(http.MethodGet, "/api/products", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, enums.ProductSortPopularity, svc.filters.Sort)

	for _, target := range []string{
		"/api/products?sortBy=cheapest",
		"/api/products?priceMin=abc",
		"/api/products?priceMin=500&priceMax=100",
	} {
		rec := serve(ListProducts(svc, testLogger()), jsonRequest(http.MethodGet, target, ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetProduct(t *testing.T) {
	id := uuid.New()
	svc := &stubProductService{product: &productsvc.ProductDTO{ID: id, Name: "Avanza"}}

	rec := serve(GetProduct(svc, testLogger()), withURLParam(jsonRequest(http.MethodGet, "/api/products/"+id.String(), ""), "id", id.String()))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(GetProduct(svc, testLogger()), withURLParam(jsonRequest(http.MethodGet, "/api/products/nope", ""), "id", "nope"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	rec = serve(GetProduct(missing, testLogger()), withURLParam(jsonRequest(http.MethodGet, "/", ""), "id", id.String()))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRelatedProductsRequiresCategory(t *testing.T) {
	svc := &stubProductService{}
	rec := serve(RelatedProducts(svc, testLogger()), jsonRequest(http.MethodGet, "/api/products/related", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	exclude := uuid.New()
	rec = serve(RelatedProducts(svc, testLogger()), jsonRequest(http.MethodGet, "/api/products/related?category=SUV&exclude="+exclude.String(), ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SUV", svc.related.category)
	assert.Equal(t, exclude, svc.related.exclude)
}

func TestCreateProductMapsPayload(t *testing.T) {
	svc := &stubProductService{product: &productsvc.ProductDTO{ID: uuid.New()}}
	body := `{
		"name": "Toyota Avanza",
		"description": "Family friendly MPV",
		"longDescription": "Seven seats, economical engine and a roomy cabin.",
		"price": 250000000,
		"discountPrice": 240000000,
		"category": "MPV",
		"condition": "Bekas",
		"mileage": 42000,
		"fuelType": "Bensin",
		"images": ["data:image/png;base64,AAAA"]
	}`

	rec := serve(CreateProduct(svc, testLogger()), jsonRequest(http.MethodPost, "/api/products", body))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Toyota Avanza", svc.create.Name)
	assert.Equal(t, enums.ProductConditionUsed, svc.create.Condition)
	require.NotNil(t, svc.create.FuelType)
	assert.Equal(t, enums.FuelType("Bensin"), *svc.create.FuelType)
	require.NotNil(t, svc.create.DiscountPrice)
	assert.Equal(t, "240000000", svc.create.DiscountPrice.String())
	assert.Nil(t, svc.create.Popularity)
	assert.Len(t, svc.create.Images, 1)
}

func TestCreateProductSurfacesValidationDetails(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string{"name": "must be at least 3 characters"})}
	rec := serve(CreateProduct(svc, testLogger()), jsonRequest(http.MethodPost, "/api/products", `{"name":"x"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	assert.Contains(t, details, "name")
}

func TestUpdateProductDistinguishesOmittedAndEmptyImages(t *testing.T) {
	id := uuid.New().String()
	cases := []struct {
		name       string
		body       string
		wantImages []string
		wantNil    bool
	}{
		{name: "omitted", body: `{"name":"Renamed car"}`, wantNil: true},
		{name: "explicit null", body: `{"images":null}`, wantNil: true},
		{name: "empty array", body: `{"images":[]}`, wantImages: []string{}},
		{name: "mixed", body: `{"images":["https://cdn/a.png","data:image/png;base64,AAAA"]}`, wantImages: []string{"https://cdn/a.png", "data:image/png;base64,AAAA"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubProductService{product: &productsvc.ProductDTO{}}
			req := withURLParam(jsonRequest(http.MethodPut, "/api/products/"+id, tc.body), "id", id)
			rec := serve(UpdateProduct(svc, testLogger()), req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			if tc.wantNil {
				assert.Nil(t, svc.update.Images)
				return
			}
			require.NotNil(t, svc.update.Images)
			assert.Equal(t, tc.wantImages, svc.update.Images)
		})
	}
}

func TestUpdateProductNullableFields(t *testing.T) {
	id := uuid.New().String()
	svc := &stubProductService{product: &productsvc.ProductDTO{}}
	req := withURLParam(jsonRequest(http.MethodPut, "/", `{"discountPrice":null,"fuelType":"Diesel","condition":"Baru"}`), "id", id)

	rec := serve(UpdateProduct(svc, testLogger()), req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.update.DiscountPrice.Null())
	require.True(t, svc.update.FuelType.Set())
	assert.Equal(t, enums.FuelType("Diesel"), *svc.update.FuelType.Value)
	require.NotNil(t, svc.update.Condition)
	assert.Equal(t, enums.ProductConditionNew, *svc.update.Condition)
	assert.False(t, svc.update.Mileage.Valid)
}

func TestDeleteProductReturnsNoContent(t *testing.T) {
	id := uuid.New()
	svc := &stubProductService{}
	rec := serve(DeleteProduct(svc, testLogger()), withURLParam(jsonRequest(http.MethodDelete, "/", ""), "id", id.String()))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, svc.deleted)
}

func TestUpdateHomepage(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	svc := &stubProductService{}
	body := `{"featuredProductIds":["` + a.String() + `"],"promoProductIds":["` + b.String() + `"]}`

	rec := serve(UpdateHomepage(svc, testLogger()), jsonRequest(http.MethodPut, "/api/settings/homepage", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uuid.UUID{a}, svc.homepage.FeaturedProductIDs)
	assert.Equal(t, []uuid.UUID{b}, svc.homepage.PromoProductIDs)

	rec = serve(UpdateHomepage(svc, testLogger()), jsonRequest(http.MethodPut, "/api/settings/homepage", `{"featuredProductIds":["bad"]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
