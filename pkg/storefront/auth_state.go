package storefront

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/multierr"
)

// AuthAPI is the remote side of authentication.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*User, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*Session, error)
}

// AuthObserver reacts to sign-in and sign-out. Cart and wishlist stores implement it.
type AuthObserver interface {
	OnLogin(ctx context.Context, session *Session) error
	OnLogout(ctx context.Context)
}

// AuthState tracks the signed-in identity and tells observers when it changes.
type AuthState struct {
	api AuthAPI

	mu        sync.RWMutex
	session   *Session
	observers []AuthObserver
}

func NewAuthState(api AuthAPI) (*AuthState, error) {
	if api == nil {
		return nil, errors.New("auth api is required")
	}
	return &AuthState{api: api}, nil
}

// Observe registers o for later identity changes.
func (a *AuthState) Observe(o AuthObserver) {
	a.mu.Lock()
	a.observers = append(a.observers, o)
	a.mu.Unlock()
}

func (a *AuthState) Authenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session != nil
}

// Session returns a copy of the current identity, or nil when signed out.
func (a *AuthState) Session() *Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return nil
	}
	s := *a.session
	return &s
}

// Login signs in and lets every observer reload. Observer failures are
// returned together after all observers ran; the sign-in itself stands.
func (a *AuthState) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := a.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	session := &Session{UserID: user.ID, Role: user.Role, Name: user.Name, Email: user.Email}
	return user, a.setSession(ctx, session)
}

// Logout ends the session locally even when the server call fails.
func (a *AuthState) Logout(ctx context.Context) error {
	remoteErr := a.api.Logout(ctx)
	_ = a.setSession(ctx, nil)
	return remoteErr
}

// Refresh asks the server for the current session and notifies observers when
// the owner changed.
func (a *AuthState) Refresh(ctx context.Context) error {
	session, err := a.api.Session(ctx)
	if err != nil {
		return err
	}
	return a.setSession(ctx, session)
}

func (a *AuthState) setSession(ctx context.Context, next *Session) error {
	a.mu.Lock()
	prev := a.session
	a.session = next
	observers := append([]AuthObserver(nil), a.observers...)
	a.mu.Unlock()

	if sameOwner(prev, next) {
		return nil
	}
	if next == nil {
		for _, o := range observers {
			o.OnLogout(ctx)
		}
		return nil
	}

	var errs error
	if prev != nil {
		for _, o := range observers {
			o.OnLogout(ctx)
		}
	}
	for _, o := range observers {
		errs = multierr.Append(errs, o.OnLogin(ctx, next))
	}
	return errs
}

func sameOwner(a, b *Session) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.UserID == b.UserID
}
