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

import "github.com/GameFoundry/bsf-sub024/core/fault"

// DataBlockField is a field holding an opaque byte range. DataBlock fields
// are always scalar. A missing setter makes SetBlock a no-op.
type DataBlockField interface {
	Field
	Block(obj Reflectable) []byte
	SetBlock(obj Reflectable, data []byte) error
}

type blockField[O Reflectable] struct {
	field[O]
	get func(O) []byte
	set func(O, []byte)
}

// DataBlock returns a DataBlock field. set may be nil.
func DataBlock[O Reflectable](id uint16, name string, get func(O) []byte, set func(O, []byte)) DataBlockField {
	return &blockField[O]{field: field[O]{id: id, name: name}, get: get, set: set}
}

func (f *blockField[O]) Kind() Kind           { return KindDataBlock }
func (f *blockField[O]) HasDynamicSize() bool { return false }
func (f *blockField[O]) Size() uint8          { return 0 }

func (f *blockField[O]) validate() error {
	if f.array {
		return fault.Configurationf("data block field %s cannot be an array", f.name)
	}
	return f.validateAccess(f.get != nil)
}

func (f *blockField[O]) Block(obj Reflectable) []byte {
	f.scalar()
	return f.get(f.owner(obj))
}

func (f *blockField[O]) SetBlock(obj Reflectable, data []byte) error {
	f.scalar()
	o := f.owner(obj)
	if f.set == nil {
		return f.noSetter("setter")
	}
	f.set(o, data)
	return nil
}
