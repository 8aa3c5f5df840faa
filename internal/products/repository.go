package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/showroom-backend/pkg/db/models"
	"github.com/angelmondragon/showroom-backend/pkg/enums"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Query      string
	Categories []string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Sort       enums.ProductSort
}

// Repository wires together all product-related persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Exists reports whether a product row is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns products matching filters in the requested order.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.Product, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{})

	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if len(filters.Categories) > 0 {
		qb = qb.Where("category IN ?", filters.Categories)
	}
	if filters.PriceMin != nil {
		qb = qb.Where("price >= ?", *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		qb = qb.Where("price <= ?", *filters.PriceMax)
	}

	switch filters.Sort {
	case enums.ProductSortPriceAsc:
		qb = qb.Order("price ASC")
	case enums.ProductSortPriceDesc:
		qb = qb.Order("price DESC")
	case enums.ProductSortNewest:
		qb = qb.Order("release_date DESC")
	default:
		qb = qb.Order("popularity DESC")
	}

	var rows []models.Product
	err := qb.Order("created_at DESC").Order("id ASC").Find(&rows).Error
	return rows, err
}

// ListFeatured returns up to limit products flagged for the homepage carousel.
func (r *Repository) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	return r.listFlagged(ctx, "is_featured", limit)
}

// ListPromo returns up to limit products flagged as promotions.
func (r *Repository) ListPromo(ctx context.Context, limit int) ([]models.Product, error) {
	return r.listFlagged(ctx, "is_promo", limit)
}

func (r *Repository) listFlagged(ctx context.Context, column string, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where(column+" = ?", true).
		Order("popularity DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// ListRelated returns products in the same category, excluding one product.
func (r *Repository) ListRelated(ctx context.Context, category string, exclude uuid.UUID, limit int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("category = ? AND id <> ?", category, exclude).
		Order("popularity DESC").
		Limit(limit).
		Find(&rows).
		Error
	return rows, err
}

// Categories returns the distinct categories in use, sorted.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).
		Error
	return categories, err
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct writes every column of an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID and reports whether a row was removed.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected > 0, res.Error
}

// ResetHomepageFlags clears the featured and promo flags on every product.
func (r *Repository) ResetHomepageFlags(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(&models.Product{}).
		Updates(map[string]any{"is_featured": false, "is_promo": false}).
		Error
}

// SetFlag turns a boolean homepage flag on for the given products.
func (r *Repository) SetFlag(ctx context.Context, column string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id IN ?", ids).
		Update(column, true).
		Error
}
