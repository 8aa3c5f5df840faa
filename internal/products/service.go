package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/showroom-backend/internal/media"
	"github.com/angelmondragon/showroom-backend/pkg/config"
	"github.com/angelmondragon/showroom-backend/pkg/db"
	"github.com/angelmondragon/showroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
)

// Service exposes catalog reads and admin product management.
type Service interface {
	List(ctx context.Context, filters ListFilters) ([]ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	Featured(ctx context.Context) ([]ProductDTO, error)
	Promo(ctx context.Context) ([]ProductDTO, error)
	Related(ctx context.Context, category string, exclude uuid.UUID) ([]ProductDTO, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateHomepage(ctx context.Context, input HomepageSettingsInput) error
}

type imageManager interface {
	Reconcile(ctx context.Context, productID string, existing, requested []string) (media.ReconcileResult, error)
	UploadAll(ctx context.Context, folder string, sources []string) ([]string, error)
	DeleteAll(ctx context.Context, reason, productID string, urls []string) error
}

// ServiceParams wires the product service. Cache is optional.
type ServiceParams struct {
	Repo          *Repository
	DB            *db.Client
	Images        imageManager
	Cache         *CatalogCache
	Catalog       config.CatalogConfig
	ProductFolder string
	Logger        *logger.Logger
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	images   imageManager
	cache    *CatalogCache
	limits   config.CatalogConfig
	folder   string
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs a product service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("product repository required")
	}
	if params.DB == nil {
		return nil, errors.New("db client required")
	}
	if params.Images == nil {
		return nil, errors.New("image manager required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	limits := params.Catalog
	if limits.FeaturedLimit <= 0 {
		limits.FeaturedLimit = 12
	}
	if limits.PromoLimit <= 0 {
		limits.PromoLimit = 10
	}
	if limits.RelatedLimit <= 0 {
		limits.RelatedLimit = 4
	}
	folder := params.ProductFolder
	if folder == "" {
		folder = "products"
	}
	return &service{
		repo:     params.Repo,
		dbClient: params.DB,
		images:   params.Images,
		cache:    params.Cache,
		limits:   limits,
		folder:   folder,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]ProductDTO, error) {
	if filters.PriceMin != nil && filters.PriceMax != nil && filters.PriceMin.GreaterThan(*filters.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "priceMin cannot exceed priceMax")
	}
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return newProductDTOs(rows), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewProductDTO(product)
	return &dto, nil
}

func (s *service) Featured(ctx context.Context) ([]ProductDTO, error) {
	return loadCached(ctx, s.cache, cacheKeyFeatured, func(ctx context.Context) ([]ProductDTO, error) {
		rows, err := s.repo.ListFeatured(ctx, s.limits.FeaturedLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured products")
		}
		return newProductDTOs(rows), nil
	})
}

func (s *service) Promo(ctx context.Context) ([]ProductDTO, error) {
	return loadCached(ctx, s.cache, cacheKeyPromo, func(ctx context.Context) ([]ProductDTO, error) {
		rows, err := s.repo.ListPromo(ctx, s.limits.PromoLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promo products")
		}
		return newProductDTOs(rows), nil
	})
}

func (s *service) Related(ctx context.Context, category string, exclude uuid.UUID) ([]ProductDTO, error) {
	category = strings.TrimSpace(category)
	if category == "" || exclude == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category and exclude parameters are required")
	}
	rows, err := s.repo.ListRelated(ctx, category, exclude, s.limits.RelatedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list related products")
	}
	return newProductDTOs(rows), nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	return loadCached(ctx, s.cache, cacheKeyCategories, func(ctx context.Context) ([]string, error) {
		categories, err := s.repo.Categories(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
		}
		if categories == nil {
			categories = []string{}
		}
		return categories, nil
	})
}

// Create uploads the inline images, then inserts the row. Uploaded blobs are
// removed again when the insert fails.
func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	urls, err := s.images.UploadAll(ctx, s.folder, input.Images)
	if err != nil {
		return nil, err
	}

	popularity := defaultPopularity
	if input.Popularity != nil {
		popularity = *input.Popularity
	}
	product := &models.Product{
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		LongDescription: strings.TrimSpace(input.LongDescription),
		Price:           input.Price,
		DiscountPrice:   input.DiscountPrice,
		Category:        strings.TrimSpace(input.Category),
		Images:          urls,
		Popularity:      popularity,
		IsFeatured:      input.IsFeatured,
		IsPromo:         input.IsPromo,
		Condition:       input.Condition,
		Mileage:         input.Mileage,
		FuelType:        input.FuelType,
		ReleaseDate:     s.now().UTC(),
	}

	if _, err := s.repo.CreateProduct(ctx, product); err != nil {
		_ = s.images.DeleteAll(context.WithoutCancel(ctx), media.ReasonUploadAbort, "", urls)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	s.invalidate(ctx)
	logCtx := s.logg.WithProductID(ctx, product.ID.String())
	s.logg.Info(s.logg.WithField(logCtx, "images", len(urls)), "product.created")

	dto := NewProductDTO(product)
	return &dto, nil
}

// Update applies a partial update. Images, when provided, are reconciled against
// the stored list before the row is written.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if err := validateUpdateFields(input); err != nil {
		return nil, err
	}
	if _, err := media.PlanImageChanges(nil, input.Images); err != nil {
		return nil, err
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdateToProduct(product, input)
	if err := validateMerged(product); err != nil {
		return nil, err
	}

	result, err := s.images.Reconcile(ctx, id.String(), product.Images, input.Images)
	if err != nil {
		return nil, err
	}
	product.Images = result.Images

	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		if len(result.Uploaded) > 0 {
			_ = s.images.DeleteAll(context.WithoutCancel(ctx), media.ReasonUploadAbort, id.String(), result.Uploaded)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	s.invalidate(ctx)
	logCtx := s.logg.WithProductID(ctx, id.String())
	s.logg.Info(s.logg.WithFields(logCtx, map[string]any{
		"uploaded": len(result.Uploaded),
		"deleted":  len(result.Deleted),
	}), "product.updated")

	dto := NewProductDTO(product)
	return &dto, nil
}

// Delete removes the product images best effort, then the row. Deleting an
// absent product succeeds.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	logCtx := s.logg.WithProductID(ctx, id.String())
	if len(product.Images) > 0 {
		if err := s.images.DeleteAll(ctx, media.ReasonProductDelete, id.String(), product.Images); err != nil {
			s.logg.Warn(logCtx, "product.image_cleanup_incomplete")
		}
	}

	if _, err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}

	s.invalidate(ctx)
	s.logg.Info(logCtx, "product.deleted")
	return nil
}

// UpdateHomepage resets every featured and promo flag, then sets the selected ones,
// in a single transaction.
func (s *service) UpdateHomepage(ctx context.Context, input HomepageSettingsInput) error {
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ResetHomepageFlags(ctx); err != nil {
			return err
		}
		if err := txRepo.SetFlag(ctx, "is_featured", input.FeaturedProductIDs); err != nil {
			return err
		}
		return txRepo.SetFlag(ctx, "is_promo", input.PromoProductIDs)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update homepage settings")
	}

	s.invalidate(ctx)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"featured": len(input.FeaturedProductIDs),
		"promo":    len(input.PromoProductIDs),
	}), "homepage.updated")
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logg.Error(ctx, "catalog.cache_invalidate_failed", err)
	}
}
