package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var devCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// CORS applies the configured origin policy; dev falls back to local frontends
// when no origins are configured.
func CORS(origins []string, dev bool) func(http.Handler) http.Handler {
	allowed := origins
	if len(allowed) == 0 && dev {
		allowed = devCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Requested-With", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
