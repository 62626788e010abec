// Package collection owns the in-memory record lists.
//
// Every mutation runs the same sequence under one lock: change the list, persist it,
// then re-render the view from the very slice that was persisted. The cached view and
// its controls therefore never describe a different state than the store holds.
package collection

import (
	"context"
	"html/template"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"tradedesk/internal/store"
)

// RenderFunc turns a snapshot of records into markup.
type RenderFunc[T any] func(items []T) template.HTML

// Option configures a Manager.
type Option func(*options)

type options struct {
	size prometheus.Gauge
}

// WithSizeGauge reports the list length after every change.
func WithSizeGauge(g prometheus.Gauge) Option {
	return func(o *options) { o.size = g }
}

// Manager owns the ordered list of one entity kind.
// Records handed to Add are assumed valid.
type Manager[T any] struct {
	mu     sync.RWMutex
	key    string
	store  *store.Store
	render RenderFunc[T]
	size   prometheus.Gauge

	items []T
	view  template.HTML
}

// New loads the list stored under key and renders it.
func New[T any](ctx context.Context, st *store.Store, key string, render RenderFunc[T], opts ...Option) *Manager[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager[T]{
		key:    key,
		store:  st,
		render: render,
		size:   o.size,
		items:  store.Load[T](ctx, st, key),
	}
	m.refresh()
	return m
}

// Key returns the store key of the collection.
func (m *Manager[T]) Key() string {
	return m.key
}

// Add appends rec, then saves and re-renders.
func (m *Manager[T]) Add(ctx context.Context, rec T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = append(m.items, rec)
	m.commit(ctx)
}

// Remove drops every record matching match, then saves and re-renders even when
// nothing matched. It returns the number of records removed.
func (m *Manager[T]) Remove(ctx context.Context, match func(T) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]T, 0, len(m.items))
	for _, it := range m.items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	removed := len(m.items) - len(kept)
	m.items = kept
	m.commit(ctx)
	return removed
}

// Snapshot returns a copy of the current list.
func (m *Manager[T]) Snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, len(m.items))
	copy(out, m.items)
	return out
}

// At returns the record at index i.
func (m *Manager[T]) At(i int) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var zero T
	if i < 0 || i >= len(m.items) {
		return zero, false
	}
	return m.items[i], true
}

// Len returns the number of records.
func (m *Manager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// View returns the markup rendered after the latest change.
func (m *Manager[T]) View() template.HTML {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view
}

// commit must be called with mu held.
func (m *Manager[T]) commit(ctx context.Context) {
	m.store.Save(ctx, m.key, m.items)
	m.refresh()
}

func (m *Manager[T]) refresh() {
	if m.render != nil {
		m.view = m.render(m.items)
	}
	if m.size != nil {
		m.size.Set(float64(len(m.items)))
	}
}
