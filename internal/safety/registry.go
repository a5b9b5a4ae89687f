package safety

import "slices"

type entry[T any, V any] struct {
	name string
	impl T
	last V
}

// registry keeps entries in registration order so a cycle iterates them
// deterministically without allocating.
type registry[T any, V any] struct {
	kind    string
	entries []entry[T, V]
}

func newRegistry[T any, V any](kind string) registry[T, V] {
	return registry[T, V]{kind: kind, entries: make([]entry[T, V], 0, 4)}
}

func (r *registry[T, V]) add(name string, impl T) error {
	if name == "" {
		return &ConfigError{Kind: r.kind, Name: name, Wrapped: ErrEmptyName}
	}
	if any(impl) == nil {
		return &ConfigError{Kind: r.kind, Name: name, Wrapped: ErrNilComponent}
	}
	if r.index(name) >= 0 {
		return &ConfigError{Kind: r.kind, Name: name, Wrapped: ErrDuplicateName}
	}
	r.entries = append(r.entries, entry[T, V]{name: name, impl: impl})
	return nil
}

func (r *registry[T, V]) remove(name string) error {
	i := r.index(name)
	if i < 0 {
		return &ConfigError{Kind: r.kind, Name: name, Wrapped: ErrNotFound}
	}
	r.entries = slices.Delete(r.entries, i, i+1)
	return nil
}

func (r *registry[T, V]) get(name string) (T, bool) {
	if i := r.index(name); i >= 0 {
		return r.entries[i].impl, true
	}
	var zero T
	return zero, false
}

func (r *registry[T, V]) names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.name
	}
	return names
}

func (r *registry[T, V]) clear() {
	r.entries = slices.Delete(r.entries, 0, len(r.entries))
}

func (r *registry[T, V]) index(name string) int {
	return slices.IndexFunc(r.entries, func(e entry[T, V]) bool { return e.name == name })
}
