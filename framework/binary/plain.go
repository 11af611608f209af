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
	"github.com/GameFoundry/bsf-sub024/core/data/pod"
	"github.com/GameFoundry/bsf-sub024/core/fault"
)

// PlainField is a field holding values laid out by a pod.Type.
// A missing setter makes the Read methods decode and discard the value.
type PlainField interface {
	Field
	// ValueSize returns the number of bytes WriteValue writes.
	ValueSize(obj Reflectable) uint32
	// WriteValue writes the field value into dst, which holds at least
	// ValueSize bytes, and returns the number of bytes written.
	WriteValue(obj Reflectable, dst []byte) int
	// ReadValue decodes a value from src, assigns it and returns the number
	// of bytes consumed.
	ReadValue(obj Reflectable, src []byte) (int, error)

	ValueSizeAt(obj Reflectable, i int) uint32
	WriteValueAt(obj Reflectable, i int, dst []byte) int
	ReadValueAt(obj Reflectable, i int, src []byte) (int, error)
}

type plainField[O Reflectable, T any] struct {
	field[O]
	t     pod.Type[T]
	get   func(O) T
	set   func(O, T)
	getAt func(O, int) T
	setAt func(O, int, T)
}

// Plain returns a scalar Plain field. set may be nil.
func Plain[O Reflectable, T any](id uint16, name string, t pod.Type[T], get func(O) T, set func(O, T)) PlainField {
	return &plainField[O, T]{
		field: field[O]{id: id, name: name},
		t:     t,
		get:   get,
		set:   set,
	}
}

// PlainArray returns an array Plain field. resize and set may be nil.
func PlainArray[O Reflectable, T any](id uint16, name string, t pod.Type[T],
	size func(O) int, resize func(O, int), get func(O, int) T, set func(O, int, T)) PlainField {
	return &plainField[O, T]{
		field: field[O]{id: id, name: name, array: true, size: size, resize: resize},
		t:     t,
		getAt: get,
		setAt: set,
	}
}

func (f *plainField[O, T]) Kind() Kind           { return KindPlain }
func (f *plainField[O, T]) HasDynamicSize() bool { return f.t.Dynamic() }

func (f *plainField[O, T]) Size() uint8 {
	if f.t.Dynamic() {
		return 0
	}
	return uint8(pod.FixedSize(f.t))
}

func (f *plainField[O, T]) validate() error {
	if f.t == nil {
		return fault.Configurationf("field %s has no plain type", f.name)
	}
	if !f.t.Dynamic() {
		if s := pod.FixedSize(f.t); s == 0 || s > 255 {
			return fault.Configurationf("field %s has fixed size %d outside 1..255, use a dynamic size type", f.name, s)
		}
	}
	return f.validateAccess(f.get != nil || f.getAt != nil)
}

func (f *plainField[O, T]) ValueSize(obj Reflectable) uint32 {
	f.scalar()
	return f.t.Size(f.get(f.owner(obj)))
}

func (f *plainField[O, T]) WriteValue(obj Reflectable, dst []byte) int {
	f.scalar()
	return f.t.Write(dst, f.get(f.owner(obj)))
}

func (f *plainField[O, T]) ReadValue(obj Reflectable, src []byte) (int, error) {
	f.scalar()
	o := f.owner(obj)
	var v T
	n, err := f.t.Read(src, &v)
	if err != nil {
		return 0, err
	}
	if f.set != nil {
		f.set(o, v)
	}
	return n, nil
}

func (f *plainField[O, T]) ValueSizeAt(obj Reflectable, i int) uint32 {
	f.vector()
	return f.t.Size(f.getAt(f.owner(obj), i))
}

func (f *plainField[O, T]) WriteValueAt(obj Reflectable, i int, dst []byte) int {
	f.vector()
	return f.t.Write(dst, f.getAt(f.owner(obj), i))
}

func (f *plainField[O, T]) ReadValueAt(obj Reflectable, i int, src []byte) (int, error) {
	f.vector()
	o := f.owner(obj)
	var v T
	n, err := f.t.Read(src, &v)
	if err != nil {
		return 0, err
	}
	if f.setAt != nil {
		f.setAt(o, i, v)
	}
	return n, nil
}
