package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	products "github.com/angelmondragon/showroom-backend/internal/products"
	"github.com/angelmondragon/showroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
)

// LineDTO is one cart line as returned to clients.
type LineDTO struct {
	Quantity int                 `json:"quantity"`
	Product  products.ProductDTO `json:"product"`
}

// AddItemInput is the POST body. Quantity defaults to 1.
type AddItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"omitempty,min=1"`
}

// UpdateQuantityInput is the PUT body.
type UpdateQuantityInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1"`
}

// RemoveItemInput is the DELETE body.
type RemoveItemInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    *Repository
	ProductRepo *products.Repository
	Logger      *logger.Logger
}

// Service manages a user's cart lines.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]LineDTO, error)
	Add(ctx context.Context, userID uuid.UUID, input AddItemInput) (*LineDTO, error)
	UpdateQuantity(ctx context.Context, userID uuid.UUID, input UpdateQuantityInput) (*LineDTO, error)
	Remove(ctx context.Context, userID uuid.UUID, input RemoveItemInput) error
}

type service struct {
	cartRepo    *Repository
	productRepo *products.Repository
	logg        *logger.Logger
}

// NewService builds a cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, errors.New("cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, errors.New("product repo is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &service{
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		logg:        params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]LineDTO, error) {
	rows, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}
	out := make([]LineDTO, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil {
			continue
		}
		out = append(out, toLineDTO(row))
	}
	return out, nil
}

// Add increments an existing line by the requested quantity or creates it.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddItemInput) (*LineDTO, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	exists, err := s.productRepo.Exists(ctx, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	item, err := s.cartRepo.Upsert(ctx, userID, input.ProductID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}

	logCtx := s.logg.WithProductID(s.logg.WithUserID(ctx, userID.String()), input.ProductID.String())
	s.logg.Info(s.logg.WithFields(logCtx, map[string]any{
		"added":    quantity,
		"quantity": item.Quantity,
	}), "cart.item_added")

	dto := toLineDTO(*item)
	return &dto, nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID uuid.UUID, input UpdateQuantityInput) (*LineDTO, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	updated, err := s.cartRepo.UpdateQuantity(ctx, userID, input.ProductID, input.Quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	item, err := s.cartRepo.Find(ctx, userID, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}
	dto := toLineDTO(*item)
	return &dto, nil
}

func (s *service) Remove(ctx context.Context, userID uuid.UUID, input RemoveItemInput) error {
	if input.ProductID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	removed, err := s.cartRepo.Delete(ctx, userID, input.ProductID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	s.logg.Info(s.logg.WithProductID(s.logg.WithUserID(ctx, userID.String()), input.ProductID.String()), "cart.item_removed")
	return nil
}

func toLineDTO(item models.CartItem) LineDTO {
	return LineDTO{
		Quantity: item.Quantity,
		Product:  products.NewProductDTO(item.Product),
	}
}
