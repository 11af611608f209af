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

	"github.com/GameFoundry/bsf-sub024/core/fault"
)

// Field describes one field of a type and gives access to it on objects of
// that type.
//
// All methods taking an object panic if the object is not of the Go type the
// field was declared on. Scalar accessors panic when called on an array
// field, and array accessors panic when called on a scalar field.
type Field interface {
	// ID returns the persisted field id.
	ID() uint16
	// Name returns the field name. Names are not persisted.
	Name() string
	Kind() Kind
	IsArray() bool
	// IsWeak reports whether a ReflectablePtr field is exempt from the
	// circular reference check. A weak target may not be fully decoded when
	// it is assigned.
	IsWeak() bool
	// HasDynamicSize reports whether each value carries a leading length.
	HasDynamicSize() bool
	// Size returns the size byte of the field's wire header.
	Size() uint8
	// ArraySize returns the number of elements of an array field.
	ArraySize(obj Reflectable) int
	// SetArraySize resizes an array field to n elements.
	SetArraySize(obj Reflectable, n int) error

	validate() error
}

// field holds the state common to all field kinds of owner type O.
type field[O Reflectable] struct {
	id     uint16
	name   string
	array  bool
	weak   bool
	strict bool // a missing setter is an error rather than a no-op
	size   func(O) int
	resize func(O, int)
}

func (f *field[O]) ID() uint16    { return f.id }
func (f *field[O]) Name() string  { return f.name }
func (f *field[O]) IsArray() bool { return f.array }
func (f *field[O]) IsWeak() bool  { return f.weak }

func (f *field[O]) owner(obj Reflectable) O {
	o, ok := obj.(O)
	if !ok {
		var want O
		panic(fmt.Sprintf("field %s belongs to %T, not %T", f.name, want, obj))
	}
	return o
}

func (f *field[O]) scalar() {
	if f.array {
		panic(fmt.Sprintf("scalar access to array field %s", f.name))
	}
}

func (f *field[O]) vector() {
	if !f.array {
		panic(fmt.Sprintf("array access to scalar field %s", f.name))
	}
}

func (f *field[O]) ArraySize(obj Reflectable) int {
	f.vector()
	return f.size(f.owner(obj))
}

func (f *field[O]) SetArraySize(obj Reflectable, n int) error {
	f.vector()
	o := f.owner(obj)
	if f.resize == nil {
		return f.noSetter("size setter")
	}
	f.resize(o, n)
	return nil
}

// noSetter reports an assignment through a missing setter.
func (f *field[O]) noSetter(what string) error {
	if f.strict {
		return fault.Configurationf("field %s has no %s", f.name, what)
	}
	return nil
}

func (f *field[O]) validateAccess(hasGetter bool) error {
	if !hasGetter {
		return fault.Configurationf("field %s has no getter", f.name)
	}
	if f.array && f.size == nil {
		return fault.Configurationf("array field %s has no size getter", f.name)
	}
	return nil
}
