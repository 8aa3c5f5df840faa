package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/showroom-backend/internal/auth"
	"github.com/angelmondragon/showroom-backend/internal/users"
	"github.com/angelmondragon/showroom-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/showroom-backend/pkg/errors"
)

type stubAuthService struct {
	registered  *users.UserDTO
	login       *auth.LoginResult
	session     *auth.SessionInfo
	err         error
	logoutToken string
	gotRegister auth.RegisterRequest
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error) {
	s.gotRegister = req
	return s.registered, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	return s.login, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	s.logoutToken = token
	return s.err
}

func (s *stubAuthService) Session(ctx context.Context, token string) (*auth.SessionInfo, error) {
	if token == "" {
		return nil, nil
	}
	return s.session, s.err
}

var testJWT = config.JWTConfig{CookieName: "session", CookieSecure: true}

func TestAuthRegisterReturnsCreatedUser(t *testing.T) {
	user := &users.UserDTO{ID: uuid.New(), Name: "Rina", Email: "rina@example.com", Role: "user"}
	svc := &stubAuthService{registered: user}

	rec := serve(AuthRegister(svc, testLogger()), jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Rina","email":"rina@example.com","password":"secret1"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		User users.UserDTO `json:"user"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.User.ID != user.ID {
		t.Fatalf("expected user %s got %s", user.ID, body.User.ID)
	}
	if svc.gotRegister.Email != "rina@example.com" {
		t.Fatalf("unexpected request forwarded: %+v", svc.gotRegister)
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	rec := serve(AuthRegister(&stubAuthService{}, testLogger()), jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Rina","email":"rina@example.com","password":"123"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthRegisterConflict(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}
	rec := serve(AuthRegister(svc, testLogger()), jsonRequest(http.MethodPost, "/api/auth/register", `{"name":"Rina","email":"rina@example.com","password":"secret1"}`))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}

func TestAuthLoginSetsHTTPOnlyCookie(t *testing.T) {
	expires := time.Now().Add(7 * 24 * time.Hour)
	svc := &stubAuthService{login: &auth.LoginResult{
		Token:     "signed.jwt.token",
		ExpiresAt: expires,
		User:      &users.UserDTO{ID: uuid.New(), Email: "rina@example.com"},
	}}

	rec := serve(AuthLogin(svc, testJWT, testLogger()), jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"rina@example.com","password":"secret1"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "session" || c.Value != "signed.jwt.token" {
		t.Fatalf("unexpected cookie %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly || !c.Secure || c.Path != "/" {
		t.Fatalf("cookie flags wrong: %+v", c)
	}
	if c.MaxAge <= 0 {
		t.Fatalf("expected positive max age, got %d", c.MaxAge)
	}
	if string(decodeEnvelope(t, rec).Data) == "null" {
		t.Fatal("expected user payload")
	}
}

func TestAuthLoginBadCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	rec := serve(AuthLogin(svc, testJWT, testLogger()), jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"rina@example.com","password":"wrong"}`))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no cookie expected on failed login")
	}
}

func TestAuthLogoutRevokesAndClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	req := jsonRequest(http.MethodPost, "/api/auth/logout", "")
	req.AddCookie(&http.Cookie{Name: "session", Value: "tok"})

	rec := serve(AuthLogout(svc, testJWT, testLogger()), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.logoutToken != "tok" {
		t.Fatalf("expected token revoked, got %q", svc.logoutToken)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Fatalf("expected cleared cookie, got %+v", cookies)
	}
}

func TestAuthLogoutSucceedsWhenRevokeFails(t *testing.T) {
	svc := &stubAuthService{err: errors.New("redis down")}
	req := jsonRequest(http.MethodPost, "/api/auth/logout", "")
	req.AddCookie(&http.Cookie{Name: "session", Value: "tok"})

	if rec := serve(AuthLogout(svc, testJWT, testLogger()), req); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestAuthSession(t *testing.T) {
	info := &auth.SessionInfo{UserID: uuid.New(), Role: "admin", Name: "Admin", Email: "admin@example.com"}
	svc := &stubAuthService{session: info}

	t.Run("anonymous is null", func(t *testing.T) {
		rec := serve(AuthSession(svc, testJWT, testLogger()), jsonRequest(http.MethodGet, "/api/auth/session", ""))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		if got := string(decodeEnvelope(t, rec).Data); got != "null" {
			t.Fatalf("expected null data, got %s", got)
		}
	})

	t.Run("cookie session", func(t *testing.T) {
		req := jsonRequest(http.MethodGet, "/api/auth/session", "")
		req.AddCookie(&http.Cookie{Name: "session", Value: "tok"})
		rec := serve(AuthSession(svc, testJWT, testLogger()), req)

		var got auth.SessionInfo
		if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.UserID != info.UserID || got.Role != "admin" {
			t.Fatalf("unexpected session %+v", got)
		}
	})
}
