package storefront

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

var errNetwork = errors.New("connection reset")

// fakeServer is an in-memory cart and wishlist backend.
type fakeServer struct {
	mu       sync.Mutex
	products map[uuid.UUID]Product
	cart     []CartLine
	wishlist []WishlistEntry
	calls    map[string]int
	fail     map[string]error
}

func newFakeServer(products ...Product) *fakeServer {
	f := &fakeServer{
		products: map[uuid.UUID]Product{},
		calls:    map[string]int{},
		fail:     map[string]error{},
	}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeServer) enter(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	err := f.fail[op]
	delete(f.fail, op)
	return err
}

func (f *fakeServer) failNext(op string, err error) {
	f.mu.Lock()
	f.fail[op] = err
	f.mu.Unlock()
}

func (f *fakeServer) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeServer) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeServer) Cart(ctx context.Context) ([]CartLine, error) {
	if err := f.enter("cart.list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneItems(f.cart), nil
}

func (f *fakeServer) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*CartLine, error) {
	if err := f.enter("cart.add"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[productID]
	if !ok {
		return nil, &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND"}
	}
	for i := range f.cart {
		if f.cart[i].Product.ID == productID {
			f.cart[i].Quantity += quantity
			line := f.cart[i]
			return &line, nil
		}
	}
	line := CartLine{Quantity: quantity, Product: product}
	f.cart = append(f.cart, line)
	return &line, nil
}

func (f *fakeServer) UpdateCartQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*CartLine, error) {
	if err := f.enter("cart.update"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].Product.ID == productID {
			f.cart[i].Quantity = quantity
			line := f.cart[i]
			return &line, nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND"}
}

func (f *fakeServer) RemoveFromCart(ctx context.Context, productID uuid.UUID) error {
	if err := f.enter("cart.remove"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.cart {
		if f.cart[i].Product.ID == productID {
			f.cart = append(f.cart[:i], f.cart[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND"}
}

func (f *fakeServer) Wishlist(ctx context.Context) ([]WishlistEntry, error) {
	if err := f.enter("wishlist.list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneItems(f.wishlist), nil
}

func (f *fakeServer) AddToWishlist(ctx context.Context, productID uuid.UUID) (*WishlistEntry, error) {
	if err := f.enter("wishlist.add"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.wishlist {
		if e.Product.ID == productID {
			entry := e
			return &entry, nil
		}
	}
	product, ok := f.products[productID]
	if !ok {
		return nil, &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND"}
	}
	entry := WishlistEntry{Product: product}
	f.wishlist = append(f.wishlist, entry)
	return &entry, nil
}

func (f *fakeServer) RemoveFromWishlist(ctx context.Context, productID uuid.UUID) error {
	if err := f.enter("wishlist.remove"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.wishlist {
		if f.wishlist[i].Product.ID == productID {
			f.wishlist = append(f.wishlist[:i], f.wishlist[i+1:]...)
			return nil
		}
	}
	return &APIError{Status: http.StatusNotFound, Code: "NOT_FOUND"}
}

type staticAuth bool

func (a staticAuth) Authenticated() bool { return bool(a) }

func product(name string, price float64, discount *float64) Product {
	return Product{ID: uuid.New(), Name: name, Price: price, DiscountPrice: discount}
}

func float(v float64) *float64 { return &v }
