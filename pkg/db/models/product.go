package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/angelmondragon/showroom-backend/pkg/db/types"
	"github.com/angelmondragon/showroom-backend/pkg/enums"
)

// Product is a vehicle listing in the showroom catalog.
type Product struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Name            string                 `gorm:"column:name;not null"`
	Description     string                 `gorm:"column:description;not null"`
	LongDescription string                 `gorm:"column:long_description;not null"`
	Price           decimal.Decimal        `gorm:"column:price;type:numeric(14,2);not null"`
	DiscountPrice   *decimal.Decimal       `gorm:"column:discount_price;type:numeric(14,2)"`
	Category        string                 `gorm:"column:category;not null;index:products_category_idx"`
	Images          dbtypes.StringArray    `gorm:"column:images;not null"`
	Popularity      int                    `gorm:"column:popularity;not null"`
	IsFeatured      bool                   `gorm:"column:is_featured;not null;default:false"`
	IsPromo         bool                   `gorm:"column:is_promo;not null;default:false"`
	Condition       enums.ProductCondition `gorm:"column:condition;not null"`
	Mileage         *int                   `gorm:"column:mileage"`
	FuelType        *enums.FuelType        `gorm:"column:fuel_type"`
	ReleaseDate     time.Time              `gorm:"column:release_date;not null"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Images == nil {
		p.Images = dbtypes.StringArray{}
	}
	return nil
}

// EffectivePrice is the discount price when it is set and positive, otherwise the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil && p.DiscountPrice.IsPositive() {
		return *p.DiscountPrice
	}
	return p.Price
}
