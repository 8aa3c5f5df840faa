package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartAPI is the remote side of the cart.
type CartAPI interface {
	Cart(ctx context.Context) ([]CartLine, error)
	AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*CartLine, error)
	UpdateCartQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*CartLine, error)
	RemoveFromCart(ctx context.Context, productID uuid.UUID) error
}

// CartSnapshot is an immutable view handed to subscribers.
type CartSnapshot struct {
	Lines []CartLine
	Count int
	Total decimal.Decimal
}

// CartStore keeps a local cart in step with the server.
type CartStore struct {
	api  CartAPI
	auth Authenticator
	col  *collection[CartLine]
}

// NewCartStore wires a store to its remote API. auth may be nil for a store
// that always treats the caller as signed in.
func NewCartStore(api CartAPI, auth Authenticator) (*CartStore, error) {
	if api == nil {
		return nil, errors.New("cart api is required")
	}
	return &CartStore{api: api, auth: auth, col: newCollection[CartLine]()}, nil
}

func (s *CartStore) authenticated() bool {
	return s.auth == nil || s.auth.Authenticated()
}

// Load replaces local state with the server's cart. Signed out, the cart is
// emptied without a request.
func (s *CartStore) Load(ctx context.Context) error {
	if !s.authenticated() {
		s.col.replace(nil)
		return nil
	}
	lines, err := s.api.Cart(ctx)
	if err != nil {
		return err
	}
	s.col.replace(lines)
	return nil
}

// Add puts one unit of product into the cart, then reloads so the quantity
// reflects the server's upsert. When only the reload fails the error wraps
// ErrCartReload: the increment was applied and local state is stale.
func (s *CartStore) Add(ctx context.Context, product Product) error {
	if !s.authenticated() {
		return ErrUnauthenticated
	}
	if _, err := s.api.AddToCart(ctx, product.ID, 1); err != nil {
		return err
	}
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrCartReload, err)
	}
	return nil
}

// Remove drops the line locally at once and rolls back if the server call fails.
func (s *CartStore) Remove(ctx context.Context, productID uuid.UUID) error {
	if !s.authenticated() {
		return ErrUnauthenticated
	}
	return s.col.optimistic(ctx,
		func(lines []CartLine) []CartLine {
			out := lines[:0]
			for _, line := range lines {
				if line.Product.ID != productID {
					out = append(out, line)
				}
			}
			return out
		},
		func(ctx context.Context) error {
			return s.api.RemoveFromCart(ctx, productID)
		},
	)
}

// UpdateQuantity sets the line quantity optimistically. Zero or less removes the line.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}
	if !s.authenticated() {
		return ErrUnauthenticated
	}
	return s.col.optimistic(ctx,
		func(lines []CartLine) []CartLine {
			for i := range lines {
				if lines[i].Product.ID == productID {
					lines[i].Quantity = quantity
				}
			}
			return lines
		},
		func(ctx context.Context) error {
			_, err := s.api.UpdateCartQuantity(ctx, productID, quantity)
			return err
		},
	)
}

// Clear empties local state only.
func (s *CartStore) Clear() {
	s.col.replace(nil)
}

func (s *CartStore) Lines() []CartLine {
	return s.col.snapshot()
}

// Count is the sum of quantities.
func (s *CartStore) Count() int {
	return cartCount(s.col.snapshot())
}

// Total is the sum of effective price times quantity.
func (s *CartStore) Total() decimal.Decimal {
	return cartTotal(s.col.snapshot())
}

func (s *CartStore) Snapshot() CartSnapshot {
	return newCartSnapshot(s.col.snapshot())
}

// LastMutation reports how the most recent optimistic change settled.
func (s *CartStore) LastMutation() MutationState {
	return s.col.lastMutationState()
}

// Subscribe registers fn for every state change and returns its cancel func.
func (s *CartStore) Subscribe(fn func(CartSnapshot)) func() {
	return s.col.subscribe(func(lines []CartLine) {
		fn(newCartSnapshot(lines))
	})
}

// OnLogin reloads the cart for the new owner.
func (s *CartStore) OnLogin(ctx context.Context, _ *Session) error {
	return s.Load(ctx)
}

// OnLogout drops the previous owner's cart.
func (s *CartStore) OnLogout(context.Context) {
	s.Clear()
}

func newCartSnapshot(lines []CartLine) CartSnapshot {
	return CartSnapshot{Lines: lines, Count: cartCount(lines), Total: cartTotal(lines)}
}

func cartCount(lines []CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

func cartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
