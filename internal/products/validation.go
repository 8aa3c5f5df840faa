package product

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/showroom-backend/internal/media"
	"github.com/angelmondragon/showroom-backend/pkg/db/models"
	"github.com/angelmondragon/showroom-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
)

const (
	minNameLen            = 3
	minDescriptionLen     = 10
	minLongDescriptionLen = 20
	maxPopularity         = 100
	defaultPopularity     = 80
)

type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(map[string]string(f))
}

func checkMinLen(errs fieldErrors, field, value string, min int) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		errs.add(field, "must be at least "+strconv.Itoa(min)+" characters")
	}
}

func checkDiscount(errs fieldErrors, price decimal.Decimal, discount *decimal.Decimal) {
	if discount == nil {
		return
	}
	if !discount.IsPositive() {
		errs.add("discountPrice", "must be a positive number")
		return
	}
	if discount.GreaterThanOrEqual(price) {
		errs.add("discountPrice", "must be less than the original price")
	}
}

func checkMileage(errs fieldErrors, condition enums.ProductCondition, mileage *int) {
	if mileage != nil && *mileage < 0 {
		errs.add("mileage", "must be a non-negative number")
	}
	if condition == enums.ProductConditionUsed && mileage == nil {
		errs.add("mileage", "is required for used cars")
	}
}

func checkPopularity(errs fieldErrors, popularity *int) {
	if popularity != nil && (*popularity < 0 || *popularity > maxPopularity) {
		errs.add("popularity", "must be between 0 and 100")
	}
}

func validateCreate(input CreateProductInput) error {
	errs := fieldErrors{}
	checkMinLen(errs, "name", input.Name, minNameLen)
	checkMinLen(errs, "description", input.Description, minDescriptionLen)
	checkMinLen(errs, "longDescription", input.LongDescription, minLongDescriptionLen)
	if !input.Price.IsPositive() {
		errs.add("price", "must be a positive number")
	} else {
		checkDiscount(errs, input.Price, input.DiscountPrice)
	}
	if strings.TrimSpace(input.Category) == "" {
		errs.add("category", "is required")
	}
	if !input.Condition.IsValid() {
		errs.add("condition", "must be Baru or Bekas")
	} else {
		checkMileage(errs, input.Condition, input.Mileage)
	}
	if input.FuelType != nil && !input.FuelType.IsValid() {
		errs.add("fuelType", "is invalid")
	}
	checkPopularity(errs, input.Popularity)

	if len(input.Images) == 0 {
		errs.add("images", "at least one image is required")
	}
	for _, img := range input.Images {
		if !media.IsInlineImage(img) {
			errs.add("images", "only new image uploads are allowed for creation")
			break
		}
	}
	return errs.err()
}

// validateUpdateFields checks the provided fields on their own, before any lookup.
func validateUpdateFields(input UpdateProductInput) error {
	errs := fieldErrors{}
	if input.Name != nil {
		checkMinLen(errs, "name", *input.Name, minNameLen)
	}
	if input.Description != nil {
		checkMinLen(errs, "description", *input.Description, minDescriptionLen)
	}
	if input.LongDescription != nil {
		checkMinLen(errs, "longDescription", *input.LongDescription, minLongDescriptionLen)
	}
	if input.Price != nil && !input.Price.IsPositive() {
		errs.add("price", "must be a positive number")
	}
	if input.DiscountPrice.Set() && !input.DiscountPrice.Value.IsPositive() {
		errs.add("discountPrice", "must be a positive number")
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) == "" {
		errs.add("category", "is required")
	}
	if input.Condition != nil && !input.Condition.IsValid() {
		errs.add("condition", "must be Baru or Bekas")
	}
	if input.Mileage.Set() && *input.Mileage.Value < 0 {
		errs.add("mileage", "must be a non-negative number")
	}
	if input.FuelType.Set() && !input.FuelType.Value.IsValid() {
		errs.add("fuelType", "is invalid")
	}
	checkPopularity(errs, input.Popularity)
	return errs.err()
}

// validateMerged checks cross-field rules once the update is applied to the stored row.
func validateMerged(p *models.Product) error {
	errs := fieldErrors{}
	checkDiscount(errs, p.Price, p.DiscountPrice)
	checkMileage(errs, p.Condition, p.Mileage)
	return errs.err()
}

func applyUpdateToProduct(p *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		p.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		p.Description = strings.TrimSpace(*input.Description)
	}
	if input.LongDescription != nil {
		p.LongDescription = strings.TrimSpace(*input.LongDescription)
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.DiscountPrice.Valid {
		p.DiscountPrice = input.DiscountPrice.Value
	}
	if input.Category != nil {
		p.Category = strings.TrimSpace(*input.Category)
	}
	if input.Condition != nil {
		p.Condition = *input.Condition
	}
	if input.Mileage.Valid {
		p.Mileage = input.Mileage.Value
	}
	if input.FuelType.Valid {
		p.FuelType = input.FuelType.Value
	}
	if input.IsFeatured != nil {
		p.IsFeatured = *input.IsFeatured
	}
	if input.IsPromo != nil {
		p.IsPromo = *input.IsPromo
	}
	if input.Popularity != nil {
		p.Popularity = *input.Popularity
	}
}
