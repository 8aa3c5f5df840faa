package banners

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/showroom-backend/pkg/db/models"
)

// Repository reads homepage banners.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every banner by ascending sort order.
func (r *Repository) List(ctx context.Context) ([]models.Banner, error) {
	var rows []models.Banner
	err := r.db.WithContext(ctx).
		Order("sort_order ASC").
		Order("created_at ASC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a banner. Used by seeding and tests.
func (r *Repository) Create(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}
