package enums

import "testing"

func TestParseProductCondition(t *testing.T) {
	got, err := ParseProductCondition("Bekas")
	if err != nil || got != ProductConditionUsed {
		t.Fatalf("expected used condition, got %q err=%v", got, err)
	}
	if _, err := ParseProductCondition("bekas"); err == nil {
		t.Fatal("condition parsing is case sensitive")
	}
}

func TestFuelTypeIsValid(t *testing.T) {
	for _, f := range []FuelType{FuelTypeGasoline, FuelTypeDiesel, FuelTypeElectric, FuelTypeHybrid} {
		if !f.IsValid() {
			t.Fatalf("expected %q to be valid", f)
		}
	}
	if FuelType("Solar").IsValid() {
		t.Fatal("unexpected valid fuel type")
	}
}

func TestParseProductSortDefaultsToPopularity(t *testing.T) {
	got, err := ParseProductSort("")
	if err != nil || got != ProductSortPopularity {
		t.Fatalf("expected popularity default, got %q err=%v", got, err)
	}
	if _, err := ParseProductSort("cheapest"); err == nil {
		t.Fatal("expected unknown sort to fail")
	}
	got, err = ParseProductSort("newest")
	if err != nil || got != ProductSortNewest {
		t.Fatalf("expected newest, got %q err=%v", got, err)
	}
}

func TestParseUserRoleNormalizes(t *testing.T) {
	got, err := ParseUserRole(" ADMIN ")
	if err != nil || got != UserRoleAdmin {
		t.Fatalf("expected admin, got %q err=%v", got, err)
	}
	if _, err := ParseUserRole("owner"); err == nil {
		t.Fatal("expected unknown role to fail")
	}
}
