package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"

	products "github.com/angelmondragon/showroom-backend/internal/products"
	"github.com/angelmondragon/showroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
)

// EntryDTO is one wishlist entry as returned to clients.
type EntryDTO struct {
	Product products.ProductDTO `json:"product"`
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	ProductRepo  *products.Repository
	Logger       *logger.Logger
}

// Service exposes business rules for wishlist management.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]EntryDTO, error)
	Add(ctx context.Context, userID, productID uuid.UUID) (*EntryDTO, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	wishlistRepo *Repository
	productRepo  *products.Repository
	logg         *logger.Logger
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, errors.New("wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, errors.New("product repo is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &service{
		wishlistRepo: params.WishlistRepo,
		productRepo:  params.ProductRepo,
		logg:         params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]EntryDTO, error) {
	rows, err := s.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	out := make([]EntryDTO, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil {
			continue
		}
		out = append(out, toEntryDTO(row))
	}
	return out, nil
}

// Add is idempotent: an existing entry is returned unchanged.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*EntryDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	exists, err := s.productRepo.Exists(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if err := s.wishlistRepo.AddItem(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	item, err := s.wishlistRepo.Find(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist item")
	}

	s.logg.Info(s.logg.WithProductID(s.logg.WithUserID(ctx, userID.String()), productID.String()), "wishlist.item_added")
	dto := toEntryDTO(*item)
	return &dto, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	removed, err := s.wishlistRepo.RemoveItem(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}

func toEntryDTO(item models.WishlistItem) EntryDTO {
	return EntryDTO{Product: products.NewProductDTO(item.Product)}
}
