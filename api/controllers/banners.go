package controllers

import (
	"net/http"

	"github.com/angelmondragon/showroom-backend/api/responses"
	"github.com/angelmondragon/showroom-backend/internal/banners"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
)

func ListBanners(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
