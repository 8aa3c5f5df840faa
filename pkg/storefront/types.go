package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product mirrors the catalog record served by the API.
type Product struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	LongDescription string    `json:"longDescription"`
	Price           float64   `json:"price"`
	DiscountPrice   *float64  `json:"discountPrice"`
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

// EffectivePrice is the discount price when present and positive, else the list price.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		return decimal.NewFromFloat(*p.DiscountPrice)
	}
	return decimal.NewFromFloat(p.Price)
}

// CartLine is one product and its quantity.
type CartLine struct {
	Quantity int     `json:"quantity"`
	Product  Product `json:"product"`
}

// WishlistEntry is one saved product.
type WishlistEntry struct {
	Product Product `json:"product"`
}

// User is the account payload returned by register, login and account updates.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	ProfilePicture *string   `json:"profilePicture"`
}

// Session is the authenticated identity, or nil when signed out.
type Session struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
}

// IsAdmin reports whether the session carries the admin role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == "admin"
}
