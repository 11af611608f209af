// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package registry maps persisted type ids to their type descriptors.
package registry

import (
	"github.com/samber/lo"

	"github.com/GameFoundry/bsf-sub024/core/fault"
	"github.com/GameFoundry/bsf-sub024/framework/binary"
)

// Registry represents a mapping of type ids to their TypeDescriptor.
//
// A Registry is populated once, before any concurrent use, and is read-only
// afterwards. Lookups need no locking.
type Registry struct {
	fallbacks []*Registry
	ids       map[uint32]*binary.TypeDescriptor
	known     map[*binary.TypeDescriptor]bool
	order     []*binary.TypeDescriptor
}

var (
	// Global is the default global Registry.
	Global = New()
)

// New creates a new registry layered on top of the specified fallbacks.
// Types registered in a fallback are visible through the new registry.
func New(fallbacks ...*Registry) *Registry {
	return &Registry{
		fallbacks: fallbacks,
		ids:       map[uint32]*binary.TypeDescriptor{},
		known:     map[*binary.TypeDescriptor]bool{},
	}
}

// Register adds t to the registry.
//
// It fails if the type id is already in use (several abstract types may
// share the binary.AbstractTypeID), if the base of t has not been registered,
// or if t can reach itself through references that are not weak.
// Registering the same descriptor twice is a no-op.
func (r *Registry) Register(t *binary.TypeDescriptor) error {
	if t == nil {
		return fault.Configurationf("attempt to register a nil type")
	}
	if r.Contains(t) {
		return nil
	}
	if t.ID() > binary.MaxTypeID {
		return fault.Configurationf("type %s has id %#x, which does not fit in 31 bits", t.Name(), t.ID())
	}
	if t.ID() != binary.AbstractTypeID {
		if old := r.FindTypeByID(t.ID()); old != nil {
			return fault.Configurationf("type %s reuses the id %d of %s", t.Name(), t.ID(), old.Name())
		}
	}
	if !t.IsAbstract() && t.ID() == binary.AbstractTypeID {
		return fault.Configurationf("type %s: only abstract types may use the abstract type id", t.Name())
	}
	if b := t.Base(); b != nil && !r.Contains(b) {
		return fault.Configurationf("base %s of type %s is not registered", b.Name(), t.Name())
	}
	if err := checkCircular(t); err != nil {
		return err
	}
	if t.ID() != binary.AbstractTypeID {
		r.ids[t.ID()] = t
	}
	r.known[t] = true
	r.order = append(r.order, t)
	return nil
}

// RegisterAll registers each type in order, stopping at the first error.
// Bases must precede the types derived from them.
func (r *Registry) RegisterAll(types ...*binary.TypeDescriptor) error {
	for _, t := range types {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Contains reports whether t is registered in r or one of its fallbacks.
func (r *Registry) Contains(t *binary.TypeDescriptor) bool {
	if r.known[t] {
		return true
	}
	for _, f := range r.fallbacks {
		if f.Contains(t) {
			return true
		}
	}
	return false
}

// FindTypeByID returns the type with the given id, or nil if there is none.
// Types using binary.AbstractTypeID are never returned.
func (r *Registry) FindTypeByID(id uint32) *binary.TypeDescriptor {
	if t, found := r.ids[id]; found {
		return t
	}
	for _, f := range r.fallbacks {
		if t := f.FindTypeByID(id); t != nil {
			return t
		}
	}
	return nil
}

// Count returns the number of types reachable through this registry.
// Because it sums the counts of the registries it depends on, this may be
// more than the number of unique types.
func (r *Registry) Count() int {
	size := len(r.order)
	for _, f := range r.fallbacks {
		size += f.Count()
	}
	return size
}

// Roots returns the registered types that have no base, in registration
// order. Fallbacks are not included.
func (r *Registry) Roots() []*binary.TypeDescriptor {
	return lo.Filter(r.order, func(t *binary.TypeDescriptor, _ int) bool { return t.Base() == nil })
}

// Visit invokes the visitor for every type reachable through this registry,
// walking each tree of types from its root to its derived types.
// The visitor may be called with the same type more than once if it is
// present in multiple registries.
func (r *Registry) Visit(visitor func(*binary.TypeDescriptor)) {
	r.VisitDirect(visitor)
	for _, f := range r.fallbacks {
		f.Visit(visitor)
	}
}

// VisitDirect invokes the visitor for every type registered directly in
// this registry.
func (r *Registry) VisitDirect(visitor func(*binary.TypeDescriptor)) {
	for _, root := range r.Roots() {
		visitor(root)
		r.VisitDerived(root, visitor)
	}
}

// VisitDerived invokes the visitor for every registered type derived,
// directly or indirectly, from t. Parents are visited before their children.
func (r *Registry) VisitDerived(t *binary.TypeDescriptor, visitor func(*binary.TypeDescriptor)) {
	for _, d := range t.DerivedTypes() {
		if !r.Contains(d) {
			continue
		}
		visitor(d)
		r.VisitDerived(d, visitor)
	}
}

// Names returns the names of the types registered directly in r, in
// registration order.
func (r *Registry) Names() []string {
	return lo.Map(r.order, func(t *binary.TypeDescriptor, _ int) string { return t.Name() })
}
