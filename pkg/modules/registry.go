package modules

import (
	"fmt"
	"sort"
)

// Registry holds modules in registration order.
type Registry struct {
	modules []Module
	byName  map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Module)}
}

// Register adds m. Anchors must be unique.
func (r *Registry) Register(m Module) error {
	anchor := m.Info().Anchor
	if anchor == "" {
		return fmt.Errorf("module %q has no anchor", m.Info().Name)
	}
	if _, ok := r.byName[anchor]; ok {
		return fmt.Errorf("module %q already registered", anchor)
	}
	r.modules = append(r.modules, m)
	r.byName[anchor] = m
	return nil
}

// MustRegister is Register for package initialisation; it panics on error.
func (r *Registry) MustRegister(modules ...Module) {
	for _, m := range modules {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
}

// Get returns the module with the given anchor.
func (r *Registry) Get(anchor string) (Module, bool) {
	m, ok := r.byName[anchor]
	return m, ok
}

// All returns the modules in registration order.
func (r *Registry) All() []Module {
	return append([]Module(nil), r.modules...)
}

// Anchors returns every registered anchor, sorted.
func (r *Registry) Anchors() []string {
	anchors := make([]string, 0, len(r.byName))
	for a := range r.byName {
		anchors = append(anchors, a)
	}
	sort.Strings(anchors)
	return anchors
}

// Select returns the modules named in include (all when empty) minus those
// in exclude, in registration order. Unknown names are an error.
func (r *Registry) Select(include, exclude []string) ([]Module, error) {
	for _, names := range [][]string{include, exclude} {
		for _, n := range names {
			if _, ok := r.byName[n]; !ok {
				return nil, fmt.Errorf("unknown module %q (known: %v)", n, r.Anchors())
			}
		}
	}

	inc := toSet(include)
	exc := toSet(exclude)

	var out []Module
	for _, m := range r.modules {
		anchor := m.Info().Anchor
		if len(inc) > 0 && !inc[anchor] {
			continue
		}
		if exc[anchor] {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
