package enums

import "fmt"

// ProductCondition distinguishes new stock from used vehicles.
type ProductCondition string

const (
	ProductConditionNew  ProductCondition = "Baru"
	ProductConditionUsed ProductCondition = "Bekas"
)

var validProductConditions = []ProductCondition{
	ProductConditionNew,
	ProductConditionUsed,
}

// String implements fmt.Stringer.
func (c ProductCondition) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCondition.
func (c ProductCondition) IsValid() bool {
	for _, candidate := range validProductConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCondition converts raw input into a ProductCondition.
func ParseProductCondition(value string) (ProductCondition, error) {
	for _, candidate := range validProductConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product condition %q", value)
}

// FuelType is the optional drivetrain energy source.
type FuelType string

const (
	FuelTypeGasoline FuelType = "Bensin"
	FuelTypeDiesel   FuelType = "Diesel"
	FuelTypeElectric FuelType = "Listrik"
	FuelTypeHybrid   FuelType = "Hybrid"
)

var validFuelTypes = []FuelType{
	FuelTypeGasoline,
	FuelTypeDiesel,
	FuelTypeElectric,
	FuelTypeHybrid,
}

// String implements fmt.Stringer.
func (f FuelType) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FuelType.
func (f FuelType) IsValid() bool {
	for _, candidate := range validFuelTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFuelType converts raw input into a FuelType.
func ParseFuelType(value string) (FuelType, error) {
	for _, candidate := range validFuelTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fuel type %q", value)
}

// ProductSort is the catalog ordering requested by the listing endpoint.
type ProductSort string

const (
	ProductSortPopularity ProductSort = "popularity"
	ProductSortPriceAsc   ProductSort = "price-asc"
	ProductSortPriceDesc  ProductSort = "price-desc"
	ProductSortNewest     ProductSort = "newest"
)

var validProductSorts = []ProductSort{
	ProductSortPopularity,
	ProductSortPriceAsc,
	ProductSortPriceDesc,
	ProductSortNewest,
}

// String implements fmt.Stringer.
func (s ProductSort) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductSort.
func (s ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductSort converts raw input into a ProductSort. Empty input selects popularity.
func ParseProductSort(value string) (ProductSort, error) {
	if value == "" {
		return ProductSortPopularity, nil
	}
	for _, candidate := range validProductSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort %q", value)
}
