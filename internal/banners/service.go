package banners

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/angelmondragon/showroom-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
)

// BannerDTO is a hero slide as served to the storefront.
type BannerDTO struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Subtitle *string   `json:"subtitle"`
	ImageURL string    `json:"imageUrl"`
	LinkURL  *string   `json:"linkUrl"`
	Order    int       `json:"order"`
}

type Service interface {
	List(ctx context.Context) ([]BannerDTO, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("banner repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]BannerDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	out := make([]BannerDTO, 0, len(rows))
	for _, b := range rows {
		out = append(out, fromModel(b))
	}
	return out, nil
}

func fromModel(b models.Banner) BannerDTO {
	return BannerDTO{
		ID:       b.ID,
		Title:    b.Title,
		Subtitle: b.Subtitle,
		ImageURL: b.ImageURL,
		LinkURL:  b.LinkURL,
		Order:    b.Order,
	}
}
