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

package binary

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"github.com/GameFoundry/bsf-sub024/core/fault"
)

const (
	// MaxTypeID is the largest type id that fits in the wire format.
	MaxTypeID = 1<<31 - 1
	// AbstractTypeID is the type id shared by all abstract types. It is
	// exempt from the registry's duplicate id check.
	AbstractTypeID uint32 = MaxTypeID
	// BaseClassFieldID is the field id under which the part of an object
	// described by its base type is stored. It cannot be used by a field.
	BaseClassFieldID uint16 = 0xFFFF
)

// TypeDescriptor describes a Reflectable type: its id, its fields, its base
// type and how to create an instance of it.
//
// Descriptors are created once, before the type is registered, and live for
// the life of the process. They are not safe for concurrent modification,
// but once registered they are only read.
type TypeDescriptor struct {
	id      uint32
	name    string
	base    *TypeDescriptor
	factory func() Reflectable
	fields  []Field
	byID    map[uint16]Field
	byName  map[string]Field
	derived []*TypeDescriptor

	// OnEncode, if not nil, is called once per object of this type before any
	// of the object is written. It is called for every type of the object's
	// hierarchy, base first.
	OnEncode func(obj Reflectable)
	// OnDecoded, if not nil, is called once the whole graph holding obj has
	// been decoded and every reference resolved. Objects reachable through
	// strong references are notified before the objects that refer to them.
	OnDecoded func(obj Reflectable)
}

// NewType returns a new type descriptor. A nil factory makes the type
// abstract. base may be nil; otherwise the new type is added to its derived
// types.
func NewType(id uint32, name string, factory func() Reflectable, base *TypeDescriptor) *TypeDescriptor {
	t := &TypeDescriptor{
		id:      id,
		name:    name,
		base:    base,
		factory: factory,
		byID:    map[uint16]Field{},
		byName:  map[string]Field{},
	}
	if base != nil {
		base.derived = append(base.derived, t)
	}
	return t
}

// NewAbstractType returns a new abstract type descriptor using the
// AbstractTypeID.
func NewAbstractType(name string, base *TypeDescriptor) *TypeDescriptor {
	return NewType(AbstractTypeID, name, nil, base)
}

// ID returns the persisted type id.
func (t *TypeDescriptor) ID() uint32 { return t.id }

// Name returns the name of the type.
func (t *TypeDescriptor) Name() string { return t.name }

func (t *TypeDescriptor) String() string { return t.name }

// Base returns the descriptor of the base type, or nil.
func (t *TypeDescriptor) Base() *TypeDescriptor { return t.base }

// DerivedTypes returns the types created with t as their base, in creation
// order.
func (t *TypeDescriptor) DerivedTypes() []*TypeDescriptor { return t.derived }

// IsAbstract reports whether instances of the type can not be created.
func (t *TypeDescriptor) IsAbstract() bool { return t.factory == nil }

// IsDerivedFrom reports whether t is other or has other as a direct or
// indirect base.
func (t *TypeDescriptor) IsDerivedFrom(other *TypeDescriptor) bool {
	for c := t; c != nil; c = c.base {
		if c == other {
			return true
		}
	}
	return false
}

// Hierarchy returns t and its bases, root base first.
func (t *TypeDescriptor) Hierarchy() []*TypeDescriptor {
	var out []*TypeDescriptor
	for c := t; c != nil; c = c.base {
		out = append(out, c)
	}
	slices.Reverse(out)
	return out
}

// CreateInstance returns a new default instance ready to have its fields
// populated.
func (t *TypeDescriptor) CreateInstance() (Reflectable, error) {
	if t.factory == nil {
		return nil, fault.Configurationf("cannot instantiate abstract type %s", t.name)
	}
	obj := t.factory()
	if IsNil(obj) {
		return nil, fault.Configurationf("factory of %s returned nil", t.name)
	}
	if obj.Descriptor() != t {
		return nil, fault.Configurationf("factory of %s returned a %T described by %v", t.name, obj, obj.Descriptor())
	}
	return obj, nil
}

// AddField appends f to the type's own fields.
// Field ids and names must be unique among the type's own fields. The fields
// of the base type form a separate namespace.
func (t *TypeDescriptor) AddField(f Field) error {
	if f.ID() == BaseClassFieldID {
		return fault.Configurationf("%s.%s uses the reserved field id %#x", t.name, f.Name(), f.ID())
	}
	if old, dup := t.byID[f.ID()]; dup {
		return fault.Configurationf("%s.%s reuses the id %d of %s", t.name, f.Name(), f.ID(), old.Name())
	}
	if _, dup := t.byName[f.Name()]; dup {
		return fault.Configurationf("%s has two fields named %s", t.name, f.Name())
	}
	if err := f.validate(); err != nil {
		return errors.Wrapf(err, "%s.%s", t.name, f.Name())
	}
	t.fields = append(t.fields, f)
	t.byID[f.ID()] = f
	t.byName[f.Name()] = f
	return nil
}

// AddFields calls AddField for each field, stopping at the first error.
func (t *TypeDescriptor) AddFields(fields ...Field) error {
	for _, f := range fields {
		if err := t.AddField(f); err != nil {
			return err
		}
	}
	return nil
}

// Fields returns the type's own fields in declaration order.
func (t *TypeDescriptor) Fields() []Field { return t.fields }

// Field returns the own field with the given id, or nil.
func (t *TypeDescriptor) Field(id uint16) Field { return t.byID[id] }

// FieldByName returns the own field with the given name, or nil.
func (t *TypeDescriptor) FieldByName(name string) Field { return t.byName[name] }

// Format implements fmt.Formatter. The verb 'v' with the '+' flag prints the
// type's fields as well as its name.
func (t *TypeDescriptor) Format(f fmt.State, c rune) {
	if t == nil {
		fmt.Fprint(f, "<nil>")
		return
	}
	fmt.Fprintf(f, "%s#%d", t.name, t.id)
	if c != 'v' || !f.Flag('+') {
		return
	}
	if t.base != nil {
		fmt.Fprintf(f, ":%s", t.base.name)
	}
	fmt.Fprint(f, "{")
	for i, field := range t.fields {
		if i != 0 {
			fmt.Fprint(f, ",")
		}
		fmt.Fprintf(f, "%s@%d %v", field.Name(), field.ID(), field.Kind())
		if field.IsArray() {
			fmt.Fprint(f, "[]")
		}
	}
	fmt.Fprint(f, "}")
}
