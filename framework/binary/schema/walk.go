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

package schema

import (
	"github.com/GameFoundry/bsf-sub024/core/data/binary"
	"github.com/GameFoundry/bsf-sub024/core/fault"
	fb "github.com/GameFoundry/bsf-sub024/framework/binary"
)

// ReadCount reads the element count of an array entry. The count is checked
// against the smallest possible element size so that a corrupt count cannot
// force a huge allocation.
func ReadCount(r *binary.Reader, m FieldMetadata) (int, error) {
	count := r.Uint32()
	if err := r.Error(); err != nil {
		return 0, err
	}
	least := uint64(LengthSize)
	if m.Kind() == fb.KindPlain && !m.HasDynamicSize() {
		least = uint64(m.Size)
	}
	if uint64(count)*least > uint64(r.Len()) {
		return 0, fault.Protocolf("%v: %d elements do not fit in %d bytes", m, count, r.Len())
	}
	return int(count), nil
}

// ReadElement reads one element of an entry and returns its payload.
//
// For plain values the payload is the encoded value, including the length
// prefix of dynamic size values. For references it is the 4 byte target id.
// For sub-objects and data blocks it is the bytes following the length
// prefix. A nil sub-object has an empty payload.
// The payload aliases the reader's data.
func ReadElement(r *binary.Reader, m FieldMetadata) ([]byte, error) {
	var n int
	switch m.Kind() {
	case fb.KindPlain:
		if !m.HasDynamicSize() {
			n = int(m.Size)
			break
		}
		size, ok := r.PeekUint32()
		if !ok {
			return nil, fault.Protocolf("%v: truncated length at offset %d", m, r.Offset())
		}
		if size < LengthSize {
			return nil, fault.Protocolf("%v: dynamic value length %d is smaller than its prefix", m, size)
		}
		n = int(size)
	case fb.KindReflectablePtr:
		n = LengthSize
	case fb.KindReflectable, fb.KindDataBlock:
		n = int(r.Uint32())
	}
	data := r.Data(n)
	if err := r.Error(); err != nil {
		return nil, err
	}
	return data, nil
}

// Skip consumes the payload of an entry whose header has been read.
func Skip(r *binary.Reader, m FieldMetadata) error {
	count := 1
	if m.IsArray() {
		var err error
		if count, err = ReadCount(r, m); err != nil {
			return err
		}
	}
	for i := 0; i < count; i++ {
		if _, err := ReadElement(r, m); err != nil {
			return err
		}
	}
	return nil
}

// ReadFieldHeader reads the next field header of an object. ok is false when
// the field list has ended: at the end of r or at the next object marker.
func ReadFieldHeader(r *binary.Reader) (m FieldMetadata, ok bool, err error) {
	w, more := r.PeekUint32()
	if !more {
		if err := r.Error(); err != nil {
			return FieldMetadata{}, false, err
		}
		if r.Len() != 0 {
			return FieldMetadata{}, false, fault.Protocolf("%d trailing bytes at offset %d", r.Len(), r.Offset())
		}
		return FieldMetadata{}, false, nil
	}
	if IsObjectMarker(w) {
		return FieldMetadata{}, false, nil
	}
	r.Skip(FieldMetadataSize)
	m, err = ParseField(w)
	return m, err == nil, err
}

// Visitor receives the structure of a stream from Walk.
type Visitor interface {
	// BeginObject starts an object chunk. Chunks of sub-objects are nested
	// inside the field that holds them.
	BeginObject(m ObjectMetadata) error
	EndObject() error
	// BeginField starts a field entry. count is the number of elements of an
	// array entry, or -1 for a scalar entry.
	BeginField(m FieldMetadata, count int) error
	EndField() error
	// Value receives an element that is not a sub-object, or a nil
	// sub-object, with its payload as returned by ReadElement.
	Value(m FieldMetadata, payload []byte) error
}

// Walk reports the structure of the encoded stream data to v without
// interpreting any field against a type descriptor.
func Walk(data []byte, v Visitor) error {
	r := binary.NewReader(data)
	for r.Len() > 0 {
		m, err := ReadObject(r)
		if err != nil {
			return err
		}
		if m.ObjectID == 0 {
			return fault.Protocolf("top level %v has no object id", m)
		}
		if err := walkObject(r, m, v); err != nil {
			return err
		}
	}
	return nil
}

func walkObject(r *binary.Reader, m ObjectMetadata, v Visitor) error {
	if err := v.BeginObject(m); err != nil {
		return err
	}
	for {
		f, ok, err := ReadFieldHeader(r)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := walkField(r, f, v); err != nil {
			return err
		}
	}
	return v.EndObject()
}

func walkField(r *binary.Reader, f FieldMetadata, v Visitor) error {
	count, n := -1, 1
	if f.IsArray() {
		var err error
		if count, err = ReadCount(r, f); err != nil {
			return err
		}
		n = count
	}
	if err := v.BeginField(f, count); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		payload, err := ReadElement(r, f)
		if err != nil {
			return err
		}
		if f.Kind() != fb.KindReflectable || len(payload) == 0 {
			if err := v.Value(f, payload); err != nil {
				return err
			}
			continue
		}
		sub := binary.NewReader(payload)
		m, err := ReadObject(sub)
		if err != nil {
			return err
		}
		m.BaseClassPart = f.IsBaseClass()
		if err := walkObject(sub, m, v); err != nil {
			return err
		}
		if sub.Len() != 0 {
			return fault.Protocolf("%v: %d bytes left after the nested object", f, sub.Len())
		}
	}
	return v.EndField()
}
