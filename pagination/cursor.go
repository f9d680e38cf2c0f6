// Package pagination implements the offset cursor behind the launcher's
// infinite-scroll lists (mods, modpacks, news).
package pagination

import (
	"context"
	"fmt"
	"sync"
)

// FetchFunc loads one page of results at the given offset.
type FetchFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// Cursor accumulates pages from a FetchFunc and tracks exhaustion: a page
// shorter than the limit means there is nothing after it.
type Cursor[T any] struct {
	fetch FetchFunc[T]
	limit int

	mu      sync.Mutex
	items   []T
	offset  int
	hasMore bool
	loading bool
	err     error
}

// New creates a cursor over fetch with the given page size.
func New[T any](fetch FetchFunc[T], limit int) *Cursor[T] {
	if limit <= 0 {
		limit = 20
	}
	return &Cursor[T]{fetch: fetch, limit: limit, hasMore: true}
}

// Refresh resets the cursor and loads the first page. Called whenever the
// underlying search parameters change.
func (c *Cursor[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.items = nil
	c.offset = 0
	c.hasMore = true
	c.err = nil
	c.mu.Unlock()

	return c.fetchPage(ctx)
}

// LoadMore fetches the next page. It is a no-op while a fetch is in flight
// or once the cursor is exhausted, so a scroll sentinel can call it freely.
func (c *Cursor[T]) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.loading || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	return c.fetchPage(ctx)
}

// fetchPage performs one fetch at the current offset. The caller must have
// set loading. A failed fetch records the error and leaves the offset alone
// so the next attempt retries the same page.
func (c *Cursor[T]) fetchPage(ctx context.Context) error {
	c.mu.Lock()
	offset := c.offset
	c.mu.Unlock()

	page, err := c.fetch(ctx, offset, c.limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = fmt.Errorf("failed to load page at offset %d: %w", offset, err)
		return c.err
	}
	c.err = nil
	c.items = append(c.items, page...)
	c.offset += c.limit
	c.hasMore = len(page) == c.limit
	return nil
}

// Items returns a copy of everything accumulated so far.
func (c *Cursor[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// HasMore reports whether another page may exist.
func (c *Cursor[T]) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Loading reports whether a fetch is in flight.
func (c *Cursor[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last fetch error, cleared by the next successful fetch.
func (c *Cursor[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
