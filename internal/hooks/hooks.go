// Package hooks implements named actions and filters that extensions attach to.
//
// Callbacks run in ascending priority; callbacks with equal priority run in the
// order they were added. A Registry is not safe for concurrent mutation: build
// it at boot, then Clone it for each request that attaches request-scoped hooks.
package hooks

import (
	"context"
	"sort"
)

const (
	// ActionFieldsRegister fires once at setup with the *settings.Registry.
	ActionFieldsRegister = "fields_register"
	// ActionCartLoaded fires per request after the cart session is resolved, with the *Registry
	// serving that request.
	ActionCartLoaded = "cart_loaded_from_session"
	// FilterAvailableGateways receives and returns gateways.Available.
	FilterAvailableGateways = "available_payment_gateways"
)

// DefaultPriority matches the slot most extensions use.
const DefaultPriority = 10

type entry struct {
	priority int
	seq      int
	fn       any
}

type Registry struct {
	filters map[string][]entry
	actions map[string][]entry
	seq     int
}

func New() *Registry {
	return &Registry{filters: map[string][]entry{}, actions: map[string][]entry{}}
}

// Clone returns an independent registry holding the same callbacks.
func (r *Registry) Clone() *Registry {
	c := &Registry{filters: make(map[string][]entry, len(r.filters)), actions: make(map[string][]entry, len(r.actions)), seq: r.seq}
	for k, v := range r.filters {
		c.filters[k] = append([]entry(nil), v...)
	}
	for k, v := range r.actions {
		c.actions[k] = append([]entry(nil), v...)
	}
	return c
}

func (r *Registry) HasFilter(name string) bool { return len(r.filters[name]) > 0 }

func (r *Registry) HasAction(name string) bool { return len(r.actions[name]) > 0 }

func (r *Registry) add(m map[string][]entry, name string, priority int, fn any) {
	r.seq++
	list := append(m[name], entry{priority: priority, seq: r.seq, fn: fn})
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].priority != list[j].priority {
			return list[i].priority < list[j].priority
		}
		return list[i].seq < list[j].seq
	})
	m[name] = list
}

// AddFilter attaches fn to the named filter.
func AddFilter[T any](r *Registry, name string, priority int, fn func(ctx context.Context, v T) T) {
	r.add(r.filters, name, priority, fn)
}

// ApplyFilters threads v through every callback attached to name. Callbacks
// registered for a different value type are skipped.
func ApplyFilters[T any](ctx context.Context, r *Registry, name string, v T) T {
	if r == nil {
		return v
	}
	for _, e := range r.filters[name] {
		if fn, ok := e.fn.(func(context.Context, T) T); ok {
			v = fn(ctx, v)
		}
	}
	return v
}

// AddAction attaches fn to the named action.
func AddAction[T any](r *Registry, name string, priority int, fn func(ctx context.Context, v T)) {
	r.add(r.actions, name, priority, fn)
}

// DoAction invokes every callback attached to name with v.
func DoAction[T any](ctx context.Context, r *Registry, name string, v T) {
	if r == nil {
		return
	}
	// snapshot: actions may attach further hooks to r while running
	list := append([]entry(nil), r.actions[name]...)
	for _, e := range list {
		if fn, ok := e.fn.(func(context.Context, T)); ok {
			fn(ctx, v)
		}
	}
}
