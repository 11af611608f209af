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
	"github.com/GameFoundry/bsf-sub024/core/fault"
)

// ReflectableField is a field holding sub-objects, either embedded by value
// (KindReflectable) or referenced (KindReflectablePtr).
// Assigning through a missing setter is a configuration error.
type ReflectableField interface {
	Field
	// Type returns the declared type of the field's values. Assigned values
	// must be of that type or derived from it.
	Type() *TypeDescriptor
	// Value returns the field value, or nil.
	Value(obj Reflectable) Reflectable
	// SetValue assigns v, which may be nil.
	SetValue(obj Reflectable, v Reflectable) error

	ValueAt(obj Reflectable, i int) Reflectable
	SetValueAt(obj Reflectable, i int, v Reflectable) error
}

type objectField[O, T Reflectable] struct {
	field[O]
	kind  Kind
	decl  *TypeDescriptor
	get   func(O) T
	set   func(O, T)
	getAt func(O, int) T
	setAt func(O, int, T)
}

// Nested returns a scalar Reflectable field: a sub-object stored inside its
// owner. get returns the sub-object, set copies a decoded one back.
func Nested[O, T Reflectable](id uint16, name string, decl *TypeDescriptor, get func(O) T, set func(O, T)) ReflectableField {
	return &objectField[O, T]{
		field: field[O]{id: id, name: name, strict: true},
		kind:  KindReflectable,
		decl:  decl,
		get:   get,
		set:   set,
	}
}

// NestedArray returns an array Reflectable field.
func NestedArray[O, T Reflectable](id uint16, name string, decl *TypeDescriptor,
	size func(O) int, resize func(O, int), get func(O, int) T, set func(O, int, T)) ReflectableField {
	return &objectField[O, T]{
		field: field[O]{id: id, name: name, array: true, strict: true, size: size, resize: resize},
		kind:  KindReflectable,
		decl:  decl,
		getAt: get,
		setAt: set,
	}
}

// Ptr returns a scalar ReflectablePtr field.
func Ptr[O, T Reflectable](id uint16, name string, decl *TypeDescriptor, get func(O) T, set func(O, T)) ReflectableField {
	return ptr(id, name, decl, false, get, set)
}

// WeakPtr returns a scalar ReflectablePtr field that is exempt from the
// circular reference check.
func WeakPtr[O, T Reflectable](id uint16, name string, decl *TypeDescriptor, get func(O) T, set func(O, T)) ReflectableField {
	return ptr(id, name, decl, true, get, set)
}

func ptr[O, T Reflectable](id uint16, name string, decl *TypeDescriptor, weak bool, get func(O) T, set func(O, T)) ReflectableField {
	return &objectField[O, T]{
		field: field[O]{id: id, name: name, weak: weak, strict: true},
		kind:  KindReflectablePtr,
		decl:  decl,
		get:   get,
		set:   set,
	}
}

// PtrArray returns an array ReflectablePtr field.
func PtrArray[O, T Reflectable](id uint16, name string, decl *TypeDescriptor,
	size func(O) int, resize func(O, int), get func(O, int) T, set func(O, int, T)) ReflectableField {
	return ptrArray(id, name, decl, false, size, resize, get, set)
}

// WeakPtrArray returns an array ReflectablePtr field that is exempt from the
// circular reference check.
func WeakPtrArray[O, T Reflectable](id uint16, name string, decl *TypeDescriptor,
	size func(O) int, resize func(O, int), get func(O, int) T, set func(O, int, T)) ReflectableField {
	return ptrArray(id, name, decl, true, size, resize, get, set)
}

func ptrArray[O, T Reflectable](id uint16, name string, decl *TypeDescriptor, weak bool,
	size func(O) int, resize func(O, int), get func(O, int) T, set func(O, int, T)) ReflectableField {
	return &objectField[O, T]{
		field: field[O]{id: id, name: name, array: true, weak: weak, strict: true, size: size, resize: resize},
		kind:  KindReflectablePtr,
		decl:  decl,
		getAt: get,
		setAt: set,
	}
}

func (f *objectField[O, T]) Kind() Kind            { return f.kind }
func (f *objectField[O, T]) HasDynamicSize() bool  { return false }
func (f *objectField[O, T]) Type() *TypeDescriptor { return f.decl }

func (f *objectField[O, T]) Size() uint8 {
	if f.kind == KindReflectablePtr {
		return 4
	}
	return 0
}

func (f *objectField[O, T]) validate() error {
	if f.decl == nil {
		return fault.Configurationf("field %s has no declared type", f.name)
	}
	return f.validateAccess(f.get != nil || f.getAt != nil)
}

func (f *objectField[O, T]) Value(obj Reflectable) Reflectable {
	f.scalar()
	return box(f.get(f.owner(obj)))
}

func (f *objectField[O, T]) SetValue(obj Reflectable, v Reflectable) error {
	f.scalar()
	o := f.owner(obj)
	if f.set == nil {
		return f.noSetter("setter")
	}
	t, err := f.unbox(v)
	if err != nil {
		return err
	}
	f.set(o, t)
	return nil
}

func (f *objectField[O, T]) ValueAt(obj Reflectable, i int) Reflectable {
	f.vector()
	return box(f.getAt(f.owner(obj), i))
}

func (f *objectField[O, T]) SetValueAt(obj Reflectable, i int, v Reflectable) error {
	f.vector()
	o := f.owner(obj)
	if f.setAt == nil {
		return f.noSetter("setter")
	}
	t, err := f.unbox(v)
	if err != nil {
		return err
	}
	f.setAt(o, i, t)
	return nil
}

// box converts a typed value into a Reflectable, mapping nil pointers to nil.
func box[T Reflectable](v T) Reflectable {
	if IsNil(v) {
		return nil
	}
	return v
}

func (f *objectField[O, T]) unbox(v Reflectable) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fault.Configurationf("field %s cannot hold a %T", f.name, v)
	}
	return t, nil
}
