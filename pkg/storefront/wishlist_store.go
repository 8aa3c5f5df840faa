package storefront

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// WishlistAPI is the remote side of the wishlist.
type WishlistAPI interface {
	Wishlist(ctx context.Context) ([]WishlistEntry, error)
	AddToWishlist(ctx context.Context, productID uuid.UUID) (*WishlistEntry, error)
	RemoveFromWishlist(ctx context.Context, productID uuid.UUID) error
}

// WishlistStore keeps a local wishlist in step with the server. Entries have set semantics.
type WishlistStore struct {
	api  WishlistAPI
	auth Authenticator
	col  *collection[WishlistEntry]
}

func NewWishlistStore(api WishlistAPI, auth Authenticator) (*WishlistStore, error) {
	if api == nil {
		return nil, errors.New("wishlist api is required")
	}
	return &WishlistStore{api: api, auth: auth, col: newCollection[WishlistEntry]()}, nil
}

func (s *WishlistStore) authenticated() bool {
	return s.auth == nil || s.auth.Authenticated()
}

func (s *WishlistStore) Load(ctx context.Context) error {
	if !s.authenticated() {
		s.col.replace(nil)
		return nil
	}
	entries, err := s.api.Wishlist(ctx)
	if err != nil {
		return err
	}
	s.col.replace(entries)
	return nil
}

// Add is idempotent. A product already in the local set makes no request.
func (s *WishlistStore) Add(ctx context.Context, product Product) error {
	if !s.authenticated() {
		return ErrUnauthenticated
	}
	if s.IsWishlisted(product.ID) {
		return nil
	}
	entry, err := s.api.AddToWishlist(ctx, product.ID)
	if err != nil {
		return err
	}
	added := WishlistEntry{Product: product}
	if entry != nil {
		added = *entry
	}

	entries := s.col.snapshot()
	if !containsProduct(entries, product.ID) {
		entries = append(entries, added)
	}
	s.col.replace(entries)
	return nil
}

// Remove drops the entry locally at once and rolls back if the server call fails.
func (s *WishlistStore) Remove(ctx context.Context, productID uuid.UUID) error {
	if !s.authenticated() {
		return ErrUnauthenticated
	}
	return s.col.optimistic(ctx,
		func(entries []WishlistEntry) []WishlistEntry {
			out := entries[:0]
			for _, entry := range entries {
				if entry.Product.ID != productID {
					out = append(out, entry)
				}
			}
			return out
		},
		func(ctx context.Context) error {
			return s.api.RemoveFromWishlist(ctx, productID)
		},
	)
}

func (s *WishlistStore) Clear() {
	s.col.replace(nil)
}

func (s *WishlistStore) IsWishlisted(productID uuid.UUID) bool {
	return containsProduct(s.col.snapshot(), productID)
}

func (s *WishlistStore) Entries() []WishlistEntry {
	return s.col.snapshot()
}

func (s *WishlistStore) Count() int {
	return len(s.col.snapshot())
}

func (s *WishlistStore) LastMutation() MutationState {
	return s.col.lastMutationState()
}

func (s *WishlistStore) Subscribe(fn func([]WishlistEntry)) func() {
	return s.col.subscribe(fn)
}

func (s *WishlistStore) OnLogin(ctx context.Context, _ *Session) error {
	return s.Load(ctx)
}

func (s *WishlistStore) OnLogout(context.Context) {
	s.Clear()
}

func containsProduct(entries []WishlistEntry, productID uuid.UUID) bool {
	for _, entry := range entries {
		if entry.Product.ID == productID {
			return true
		}
	}
	return false
}
