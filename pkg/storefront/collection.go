package storefront

import (
	"context"
	"sync"
)

// Authenticator reports whether a user is signed in.
type Authenticator interface {
	Authenticated() bool
}

// collection is the local copy of one remote per-user list. Subscribers are
// called outside the lock with a private copy of the items.
type collection[T any] struct {
	mu           sync.Mutex
	items        []T
	subs         map[int]func([]T)
	nextSub      int
	lastMutation MutationState
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{subs: map[int]func([]T){}, lastMutation: MutationConfirmed}
}

func (c *collection[T]) snapshot() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items)
}

func (c *collection[T]) replace(items []T) {
	c.mu.Lock()
	c.items = cloneItems(items)
	view, subs := cloneItems(c.items), c.subscribersLocked()
	c.mu.Unlock()
	notifyAll(subs, view)
}

func (c *collection[T]) subscribe(fn func([]T)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// optimistic applies a local change, then runs remote. A remote failure
// restores the exact pre-mutation snapshot.
func (c *collection[T]) optimistic(ctx context.Context, apply func([]T) []T, remote func(context.Context) error) error {
	c.mu.Lock()
	m := Begin(cloneItems(c.items))
	c.items = apply(cloneItems(c.items))
	c.lastMutation = m.State()
	view, subs := cloneItems(c.items), c.subscribersLocked()
	c.mu.Unlock()
	notifyAll(subs, view)

	if err := remote(ctx); err != nil {
		previous, rbErr := m.Rollback()
		if rbErr != nil {
			return rbErr
		}
		c.mu.Lock()
		c.items = previous
		c.lastMutation = m.State()
		view, subs = cloneItems(c.items), c.subscribersLocked()
		c.mu.Unlock()
		notifyAll(subs, view)
		return err
	}

	if err := m.Confirm(); err != nil {
		return err
	}
	c.mu.Lock()
	c.lastMutation = m.State()
	c.mu.Unlock()
	return nil
}

func (c *collection[T]) lastMutationState() MutationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastMutation
}

func (c *collection[T]) subscribersLocked() []func([]T) {
	out := make([]func([]T), 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}

func notifyAll[T any](subs []func([]T), view []T) {
	for _, fn := range subs {
		fn(cloneItems(view))
	}
}

func cloneItems[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
