package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/showroom-backend/pkg/db/models"
	"github.com/angelmondragon/showroom-backend/pkg/enums"
	"github.com/angelmondragon/showroom-backend/pkg/types"
)

// ProductDTO is the client-facing product record.
type ProductDTO struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	LongDescription string    `json:"longDescription"`
	Price           float64   `json:"price"`
	DiscountPrice   *float64  `json:"discountPrice"`
	EffectivePrice  float64   `json:"effectivePrice"`
	Category        string    `json:"category"`
	Images          []string  `json:"images"`
	Popularity      int       `json:"popularity"`
	IsFeatured      bool      `json:"isFeatured"`
	IsPromo         bool      `json:"isPromo"`
	Condition       string    `json:"condition"`
	Mileage         *int      `json:"mileage"`
	FuelType        *string   `json:"fuelType"`
	ReleaseDate     time.Time `json:"releaseDate"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewProductDTO maps a product row to its client representation.
func NewProductDTO(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		LongDescription: p.LongDescription,
		Price:           p.Price.InexactFloat64(),
		EffectivePrice:  p.EffectivePrice().InexactFloat64(),
		Category:        p.Category,
		Images:          append([]string{}, p.Images...),
		Popularity:      p.Popularity,
		IsFeatured:      p.IsFeatured,
		IsPromo:         p.IsPromo,
		Condition:       p.Condition.String(),
		Mileage:         p.Mileage,
		ReleaseDate:     p.ReleaseDate,
		CreatedAt:       p.CreatedAt,
	}
	if p.DiscountPrice != nil {
		v := p.DiscountPrice.InexactFloat64()
		dto.DiscountPrice = &v
	}
	if p.FuelType != nil {
		v := p.FuelType.String()
		dto.FuelType = &v
	}
	return dto
}

func newProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewProductDTO(&rows[i]))
	}
	return out
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name            string
	Description     string
	LongDescription string
	Price           decimal.Decimal
	DiscountPrice   *decimal.Decimal
	Category        string
	Condition       enums.ProductCondition
	Mileage         *int
	FuelType        *enums.FuelType
	IsFeatured      bool
	IsPromo         bool
	// Popularity defaults to 80 when nil.
	Popularity *int
	// Images must all be data:image URIs.
	Images []string
}

// UpdateProductInput holds optional mutation values for a product. Nullable
// fields distinguish an omitted key from an explicit null that clears the column.
type UpdateProductInput struct {
	Name            *string
	Description     *string
	LongDescription *string
	Price           *decimal.Decimal
	DiscountPrice   types.Nullable[decimal.Decimal]
	Category        *string
	Condition       *enums.ProductCondition
	Mileage         types.Nullable[int]
	FuelType        types.Nullable[enums.FuelType]
	IsFeatured      *bool
	IsPromo         *bool
	Popularity      *int
	// Images is nil when the field was omitted; an empty slice removes every image.
	Images []string
}

// HomepageSettingsInput replaces the featured and promo selections.
type HomepageSettingsInput struct {
	FeaturedProductIDs []uuid.UUID
	PromoProductIDs    []uuid.UUID
}
