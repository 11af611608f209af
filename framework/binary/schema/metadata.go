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

// Package schema describes the wire layout of encoded object graphs.
//
// A stream is a sequence of object chunks. Each chunk starts with an object
// marker and a type id, followed by field entries. Every field entry starts
// with a field marker packing the field id, a size byte and flags, followed
// by the field payload. Object markers have their lowest bit set, field
// markers have it clear, so a field list ends at the next object marker or at
// the end of the enclosing region.
package schema

import (
	"fmt"
	"strings"

	"github.com/GameFoundry/bsf-sub024/core/data/binary"
	"github.com/GameFoundry/bsf-sub024/core/fault"
	fb "github.com/GameFoundry/bsf-sub024/framework/binary"
)

const (
	// ObjectMetadataSize is the encoded size of an ObjectMetadata.
	ObjectMetadataSize = 8
	// FieldMetadataSize is the encoded size of a FieldMetadata.
	FieldMetadataSize = 4
	// LengthSize is the size of element counts and length prefixes.
	LengthSize = 4
	// MaxObjectID is the largest object id that fits in an object marker.
	MaxObjectID = 1<<31 - 1
)

// Flags is the low byte of a field marker.
type Flags uint8

const (
	FlagObject         Flags = 0x01 // never set in a field marker
	FlagArray          Flags = 0x02
	FlagDataBlock      Flags = 0x04
	FlagReflectable    Flags = 0x08
	FlagReflectablePtr Flags = 0x10
	FlagDynamicSize    Flags = 0x20

	kindFlags = FlagDataBlock | FlagReflectable | FlagReflectablePtr
)

func (f Flags) String() string {
	names := []string{}
	for _, n := range []struct {
		flag Flags
		name string
	}{
		{FlagObject, "object"},
		{FlagArray, "array"},
		{FlagDataBlock, "datablock"},
		{FlagReflectable, "reflectable"},
		{FlagReflectablePtr, "ptr"},
		{FlagDynamicSize, "dynamic"},
	} {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// ObjectMetadata is the header of an object chunk.
type ObjectMetadata struct {
	// ObjectID identifies the object within one stream. It is zero for
	// objects stored by value, which are never shared.
	ObjectID uint32
	// TypeID is the id of the object's type.
	TypeID uint32
	// BaseClassPart is true for the chunk holding the part of an object
	// described by its base type. It is not stored in the chunk itself but
	// implied by the field carrying it.
	BaseClassPart bool
}

// IsObjectMarker reports whether w is an object marker.
func IsObjectMarker(w uint32) bool { return w&uint32(FlagObject) != 0 }

// Marker returns the first word of the chunk header.
func (m ObjectMetadata) Marker() uint32 { return m.ObjectID<<1 | uint32(FlagObject) }

// Write writes the chunk header.
func (m ObjectMetadata) Write(w *binary.Writer) {
	w.Uint32(m.Marker())
	w.Uint32(m.TypeID)
}

// ReadObject reads a chunk header.
func ReadObject(r *binary.Reader) (ObjectMetadata, error) {
	marker := r.Uint32()
	typeID := r.Uint32()
	if err := r.Error(); err != nil {
		return ObjectMetadata{}, err
	}
	if !IsObjectMarker(marker) {
		return ObjectMetadata{}, fault.Protocolf("expected an object marker at offset %d, got %#08x", r.Offset()-ObjectMetadataSize, marker)
	}
	return ObjectMetadata{ObjectID: marker >> 1, TypeID: typeID}, nil
}

func (m ObjectMetadata) String() string {
	if m.BaseClassPart {
		return fmt.Sprintf("base(type %d)", m.TypeID)
	}
	return fmt.Sprintf("object %d (type %d)", m.ObjectID, m.TypeID)
}

// FieldMetadata is the header of a field entry.
type FieldMetadata struct {
	ID    uint16
	Size  uint8
	Flags Flags
}

// FieldOf returns the header written for f.
func FieldOf(f fb.Field) FieldMetadata {
	m := FieldMetadata{ID: f.ID(), Size: f.Size()}
	switch f.Kind() {
	case fb.KindReflectable:
		m.Flags |= FlagReflectable
	case fb.KindReflectablePtr:
		m.Flags |= FlagReflectablePtr
	case fb.KindDataBlock:
		m.Flags |= FlagDataBlock
	}
	if f.IsArray() {
		m.Flags |= FlagArray
	}
	if f.HasDynamicSize() {
		m.Flags |= FlagDynamicSize
	}
	return m
}

// BaseClassField returns the header of the entry holding the base class part
// of an object.
func BaseClassField() FieldMetadata {
	return FieldMetadata{ID: fb.BaseClassFieldID, Flags: FlagReflectable}
}

// Word returns the encoded field marker.
func (m FieldMetadata) Word() uint32 {
	return uint32(m.ID)<<16 | uint32(m.Size)<<8 | uint32(m.Flags)
}

// ParseField decodes a field marker.
func ParseField(w uint32) (FieldMetadata, error) {
	m := FieldMetadata{ID: uint16(w >> 16), Size: uint8(w >> 8), Flags: Flags(w)}
	if m.Flags&FlagObject != 0 {
		return FieldMetadata{}, fault.Protocolf("%#08x is an object marker, not a field marker", w)
	}
	if _, err := m.kind(); err != nil {
		return FieldMetadata{}, err
	}
	return m, nil
}

func (m FieldMetadata) kind() (fb.Kind, error) {
	switch m.Flags & kindFlags {
	case 0:
		if m.Size == 0 && !m.HasDynamicSize() {
			return 0, fault.Protocolf("field %d is a fixed size plain value of size 0", m.ID)
		}
		return fb.KindPlain, nil
	case FlagReflectable:
		return fb.KindReflectable, nil
	case FlagReflectablePtr:
		return fb.KindReflectablePtr, nil
	case FlagDataBlock:
		return fb.KindDataBlock, nil
	default:
		return 0, fault.Protocolf("field %d has conflicting flags %v", m.ID, m.Flags)
	}
}

// Kind returns the kind of field the header describes.
func (m FieldMetadata) Kind() fb.Kind {
	k, _ := m.kind()
	return k
}

func (m FieldMetadata) IsArray() bool        { return m.Flags&FlagArray != 0 }
func (m FieldMetadata) HasDynamicSize() bool { return m.Flags&FlagDynamicSize != 0 }

// IsBaseClass reports whether the entry holds the base class part.
func (m FieldMetadata) IsBaseClass() bool { return m.ID == fb.BaseClassFieldID }

// Check returns a protocol error if the header does not describe f.
func (m FieldMetadata) Check(f fb.Field) error {
	want := FieldOf(f)
	if m != want {
		return fault.Protocolf("field %s: stream has %v, type declares %v", f.Name(), m, want)
	}
	return nil
}

func (m FieldMetadata) String() string {
	return fmt.Sprintf("field %d (size %d, %v)", m.ID, m.Size, m.Flags)
}
