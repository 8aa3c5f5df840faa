package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/showroom-backend/api/middleware"
	"github.com/angelmondragon/showroom-backend/api/responses"
	"github.com/angelmondragon/showroom-backend/api/validators"
	"github.com/angelmondragon/showroom-backend/internal/auth"
	"github.com/angelmondragon/showroom-backend/internal/users"
	"github.com/angelmondragon/showroom-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
	"github.com/angelmondragon/showroom-backend/pkg/logger"
)

type userEnvelope struct {
	User *users.UserDTO `json:"user"`
}

// AuthRegister creates a user account. It does not sign the user in.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, userEnvelope{User: user})
	}
}

// AuthLogin verifies credentials and sets the HTTP-only session cookie.
func AuthLogin(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, sessionCookie(cfg, result.Token, result.ExpiresAt))
		responses.WriteSuccess(w, userEnvelope{User: result.User})
	}
}

// AuthLogout revokes the presented session, if any, and always clears the cookie.
func AuthLogout(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc != nil {
			if token := middleware.SessionToken(r, cfg.CookieName); token != "" {
				if err := svc.Logout(r.Context(), token); err != nil && logg != nil {
					logg.Error(r.Context(), "auth.logout_revoke_failed", err)
				}
			}
		}

		http.SetCookie(w, sessionCookie(cfg, "", time.Unix(0, 0)))
		responses.WriteSuccess(w, map[string]bool{"success": true})
	}
}

// AuthSession reports the current session, or null when there is none.
func AuthSession(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		info, err := svc.Session(r.Context(), middleware.SessionToken(r, cfg.CookieName))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, info)
	}
}

func sessionCookie(cfg config.JWTConfig, value string, expires time.Time) *http.Cookie {
	name := cfg.CookieName
	if name == "" {
		name = "session"
	}
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	}
	if value == "" {
		c.MaxAge = -1
	} else if ttl := time.Until(expires); ttl > 0 {
		c.MaxAge = int(ttl.Seconds())
	}
	return c
}
