package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/showroom-backend/api/controllers"
	"github.com/angelmondragon/showroom-backend/api/middleware"
	"github.com/angelmondragon/showroom-backend/internal/auth"
	"github.com/angelmondragon/showroom-backend/internal/banners"
	"github.com/angelmondragon/showroom-backend/internal/cart"
	products "github.com/angelmondragon/showroom-backend/internal/products"
	"github.com/angelmondragon/showroom-backend/internal/users"
	"github.com/angelmondragon/showroom-backend/internal/wishlist"
	"github.com/angelmondragon/showroom-backend/pkg/auth/session"
	"github.com/angelmondragon/showroom-backend/pkg/config"
	"github.com/angelmondragon/showroom-backend/pkg/enums"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
	"github.com/angelmondragon/showroom-backend/pkg/metrics"
	"github.com/angelmondragon/showroom-backend/pkg/redis"
)

// RouterParams collects what the HTTP surface needs. Metrics and MetricsHandler are optional.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             controllers.Pinger
	Redis          *redis.Client
	Sessions       session.AccessSessionChecker
	Auth           auth.Service
	Users          users.Service
	Products       products.Service
	Banners        banners.Service
	Cart           cart.Service
	Wishlist       wishlist.Service
	Metrics        *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(cfg.App.AllowedOrigins, cfg.App.IsDev()),
	)

	requireSession := middleware.Auth(cfg.JWT, p.Sessions, logg)
	requireAdmin := middleware.RequireRole(enums.UserRoleAdmin.String(), logg)
	idempotent := middleware.Idempotency(p.Redis, logg)
	loginLimit := middleware.AuthRateLimit(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit), p.Redis, logg)
	registerLimit := middleware.AuthRateLimit(middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit), p.Redis, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"db":    p.DB,
			"redis": p.Redis,
		}, logg))
	})

	if p.MetricsHandler != nil {
		r.Handle("/metrics", p.MetricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", controllers.AuthLogin(p.Auth, cfg.JWT, logg))
		r.With(registerLimit, idempotent).Post("/register", controllers.AuthRegister(p.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(p.Auth, cfg.JWT, logg))
		r.Get("/session", controllers.AuthSession(p.Auth, cfg.JWT, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(p.Products, logg))
		r.Get("/featured", controllers.FeaturedProducts(p.Products, logg))
		r.Get("/promo", controllers.PromoProducts(p.Products, logg))
		r.Get("/related", controllers.RelatedProducts(p.Products, logg))
		r.Get("/categories", controllers.ProductCategories(p.Products, logg))
		r.Get("/{id}", controllers.GetProduct(p.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(requireSession, requireAdmin)
			r.With(idempotent).Post("/", controllers.CreateProduct(p.Products, logg))
			r.Put("/{id}", controllers.UpdateProduct(p.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(p.Products, logg))
		})
	})

	r.Get("/api/banners", controllers.ListBanners(p.Banners, logg))

	r.Group(func(r chi.Router) {
		r.Use(requireSession)

		r.With(requireAdmin).Put("/api/settings/homepage", controllers.UpdateHomepage(p.Products, logg))

		r.Route("/api/user/account", func(r chi.Router) {
			r.Get("/", controllers.GetAccount(p.Users, logg))
			r.Put("/", controllers.UpdateAccount(p.Users, logg))
		})

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", controllers.CartList(p.Cart, logg))
			r.With(idempotent).Post("/", controllers.CartAdd(p.Cart, logg))
			r.Put("/", controllers.CartUpdate(p.Cart, logg))
			r.Delete("/", controllers.CartRemove(p.Cart, logg))
		})

		r.Route("/api/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(p.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(p.Wishlist, logg))
			r.Delete("/", controllers.WishlistRemove(p.Wishlist, logg))
		})
	})

	return r
}
