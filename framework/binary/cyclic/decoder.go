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

package cyclic

import (
	"context"

	"github.com/pkg/errors"

	cb "github.com/GameFoundry/bsf-sub024/core/data/binary"
	"github.com/GameFoundry/bsf-sub024/core/data/endian"
	"github.com/GameFoundry/bsf-sub024/core/fault"
	"github.com/GameFoundry/bsf-sub024/core/log"
	"github.com/GameFoundry/bsf-sub024/framework/binary"
	"github.com/GameFoundry/bsf-sub024/framework/binary/registry"
	"github.com/GameFoundry/bsf-sub024/framework/binary/schema"
)

// Decoder rebuilds object graphs from streams written by an Encoder.
type Decoder struct {
	// Registry resolves persisted type ids. If nil, registry.Global is used.
	Registry *registry.Registry
}

// NewDecoder returns a Decoder resolving types through reg.
func NewDecoder(reg *registry.Registry) *Decoder { return &Decoder{Registry: reg} }

// decoding is the state of a single Decode call.
type decoding struct {
	reg     *registry.Registry
	objects map[uint32]binary.Reflectable
	order   []binary.Reflectable
	pending []reference
	// nested holds the sub-objects stored by value, innermost first. They are
	// handed to their owners once every reference inside them is resolved.
	nested  []placement
	skipped int
}

// reference is a ReflectablePtr value waiting for its target to be known.
type reference struct {
	field  binary.ReflectableField
	owner  binary.Reflectable
	target uint32
	index  int // -1 for scalar fields
}

// placement is a decoded sub-object waiting to be stored in its owner.
type placement struct {
	field binary.ReflectableField
	owner binary.Reflectable
	child binary.Reflectable
	index int // -1 for scalar fields
}

// Decode rebuilds the graph encoded in data and returns its root.
// Any error aborts the whole decode and no object is returned.
func (d *Decoder) Decode(ctx context.Context, data []byte) (binary.Reflectable, error) {
	ctx = log.Enter(ctx, "Decode")
	reg := d.Registry
	if reg == nil {
		reg = registry.Global
	}
	s := &decoding{
		reg:     reg,
		objects: map[uint32]binary.Reflectable{},
	}
	root, err := s.decode(ctx, data)
	if err != nil {
		failed("decode", err)
		log.W(ctx, "Decode of %d bytes failed: %v", len(data), err)
		return nil, err
	}
	objectsDecoded.Add(float64(len(s.objects)))
	bytesDecoded.Add(float64(len(data)))
	log.D(ctx, "Decoded %d objects from %d bytes, skipped %d unknown fields", len(s.objects), len(data), s.skipped)
	return root, nil
}

func (s *decoding) decode(ctx context.Context, data []byte) (binary.Reflectable, error) {
	r := cb.NewReader(data)
	if r.Len() == 0 {
		return nil, fault.Protocolf("empty stream")
	}
	for r.Len() > 0 {
		m, err := schema.ReadObject(r)
		if err != nil {
			return nil, err
		}
		if m.ObjectID == 0 {
			return nil, fault.Protocolf("top level %v has no object id", m)
		}
		if _, dup := s.objects[m.ObjectID]; dup {
			return nil, fault.Protocolf("object %d is encoded twice", m.ObjectID)
		}
		obj, err := s.instantiate(m.TypeID)
		if err != nil {
			return nil, errors.WithMessagef(err, "object %d", m.ObjectID)
		}
		s.objects[m.ObjectID] = obj
		s.order = append(s.order, obj)
		if err := s.readFields(ctx, r, obj, obj.Descriptor()); err != nil {
			return nil, errors.WithMessagef(err, "object %d (%v)", m.ObjectID, obj.Descriptor())
		}
	}
	root, found := s.objects[1]
	if !found {
		return nil, fault.Protocolf("stream has no root object")
	}
	if err := s.resolve(); err != nil {
		return nil, err
	}
	if err := s.place(); err != nil {
		return nil, err
	}
	s.notify(root)
	return root, nil
}

func (s *decoding) instantiate(typeID uint32) (binary.Reflectable, error) {
	t := s.reg.FindTypeByID(typeID)
	if t == nil {
		return nil, fault.Protocolf("unknown type id %d", typeID)
	}
	return t.CreateInstance()
}

// readFields reads the field entries of obj at level t of its hierarchy,
// up to the end of r or the next object marker.
func (s *decoding) readFields(ctx context.Context, r *cb.Reader, obj binary.Reflectable, t *binary.TypeDescriptor) error {
	for {
		m, ok, err := schema.ReadFieldHeader(r)
		if err != nil || !ok {
			return err
		}
		if m.IsBaseClass() {
			if err := s.readBase(ctx, r, obj, t, m); err != nil {
				return err
			}
			continue
		}
		f := t.Field(m.ID)
		if f == nil {
			log.D(ctx, "Skipping unknown %v of %v", m, t)
			s.skipped++
			if err := schema.Skip(r, m); err != nil {
				return err
			}
			continue
		}
		if err := m.Check(f); err != nil {
			return err
		}
		if err := s.readField(ctx, r, obj, f, m); err != nil {
			return errors.WithMessagef(err, "field %s", f.Name())
		}
	}
}

func (s *decoding) readBase(ctx context.Context, r *cb.Reader, obj binary.Reflectable, t *binary.TypeDescriptor, m schema.FieldMetadata) error {
	if m != schema.BaseClassField() {
		return fault.Protocolf("malformed base class entry %v", m)
	}
	payload, err := schema.ReadElement(r, m)
	if err != nil {
		return err
	}
	base := t.Base()
	if base == nil {
		log.D(ctx, "Dropping base class part of %v, which has no base", t)
		s.skipped++
		return nil
	}
	if len(payload) == 0 {
		return nil
	}
	sub := cb.NewReader(payload)
	bm, err := schema.ReadObject(sub)
	if err != nil {
		return err
	}
	if bm.ObjectID != 0 || bm.TypeID != base.ID() {
		return fault.Protocolf("base class part of %v is %v, expected type %d", t, bm, base.ID())
	}
	if err := s.readFields(ctx, sub, obj, base); err != nil {
		return errors.WithMessagef(err, "base %v", base)
	}
	if sub.Len() != 0 {
		return fault.Protocolf("%d bytes left after the base class part of %v", sub.Len(), t)
	}
	return nil
}

func (s *decoding) readField(ctx context.Context, r *cb.Reader, obj binary.Reflectable, f binary.Field, m schema.FieldMetadata) error {
	if !f.IsArray() {
		return s.readElement(ctx, r, obj, f, m, -1)
	}
	count, err := schema.ReadCount(r, m)
	if err != nil {
		return err
	}
	if err := f.SetArraySize(obj, count); err != nil {
		return err
	}
	if count > 0 && f.ArraySize(obj) != count {
		// No size setter: the values are read and dropped.
		for i := 0; i < count; i++ {
			if _, err := schema.ReadElement(r, m); err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i < count; i++ {
		if err := s.readElement(ctx, r, obj, f, m, i); err != nil {
			return err
		}
	}
	return nil
}

// readElement reads element i of f, or its scalar value if i is negative.
func (s *decoding) readElement(ctx context.Context, r *cb.Reader, obj binary.Reflectable, f binary.Field, m schema.FieldMetadata, i int) error {
	payload, err := schema.ReadElement(r, m)
	if err != nil {
		return err
	}
	switch f := f.(type) {
	case binary.PlainField:
		var n int
		if i < 0 {
			n, err = f.ReadValue(obj, payload)
		} else {
			n, err = f.ReadValueAt(obj, i, payload)
		}
		if err != nil {
			return err
		}
		if n != len(payload) {
			return fault.Protocolf("value of %d bytes decoded from %d", n, len(payload))
		}
		return nil

	case binary.ReflectableField:
		if f.Kind() == binary.KindReflectablePtr {
			s.pending = append(s.pending, reference{
				field:  f,
				owner:  obj,
				target: endian.Order.Uint32(payload),
				index:  i,
			})
			return nil
		}
		child, err := s.readNested(ctx, payload, f)
		if err != nil {
			return err
		}
		s.nested = append(s.nested, placement{field: f, owner: obj, child: child, index: i})
		return nil

	case binary.DataBlockField:
		return f.SetBlock(obj, append([]byte(nil), payload...))
	}
	return fault.Configurationf("field %s has unknown kind %v", f.Name(), f.Kind())
}

// readNested decodes a sub-object stored by value. An empty payload is a
// nil sub-object.
func (s *decoding) readNested(ctx context.Context, payload []byte, f binary.ReflectableField) (binary.Reflectable, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	sub := cb.NewReader(payload)
	m, err := schema.ReadObject(sub)
	if err != nil {
		return nil, err
	}
	if m.ObjectID != 0 {
		return nil, fault.Protocolf("sub-object stored by value has object id %d", m.ObjectID)
	}
	child, err := s.instantiate(m.TypeID)
	if err != nil {
		return nil, err
	}
	t := child.Descriptor()
	if !t.IsDerivedFrom(f.Type()) {
		return nil, fault.Protocolf("%v stored in a field of type %v", t, f.Type())
	}
	if err := s.readFields(ctx, sub, child, t); err != nil {
		return nil, err
	}
	if sub.Len() != 0 {
		return nil, fault.Protocolf("%d bytes left after sub-object %v", sub.Len(), t)
	}
	return child, nil
}

// resolve assigns every recorded reference now that all objects exist.
func (s *decoding) resolve() error {
	for _, p := range s.pending {
		var target binary.Reflectable
		if p.target != 0 {
			obj, found := s.objects[p.target]
			if !found {
				return fault.Protocolf("field %s references missing object %d", p.field.Name(), p.target)
			}
			if !obj.Descriptor().IsDerivedFrom(p.field.Type()) {
				return fault.Protocolf("field %s of type %v references %v", p.field.Name(), p.field.Type(), obj.Descriptor())
			}
			target = obj
		}
		if err := assign(p.field, p.owner, p.index, target); err != nil {
			return err
		}
	}
	return nil
}

// place stores the sub-objects decoded by value. A sub-object is complete
// when it is placed, as its own sub-objects were recorded before it.
func (s *decoding) place() error {
	for _, p := range s.nested {
		if err := assign(p.field, p.owner, p.index, p.child); err != nil {
			return errors.WithMessagef(err, "field %s", p.field.Name())
		}
	}
	return nil
}

func assign(f binary.ReflectableField, obj binary.Reflectable, i int, v binary.Reflectable) error {
	if i < 0 {
		return f.SetValue(obj, v)
	}
	return f.SetValueAt(obj, i, v)
}

// notify calls the OnDecoded hooks, visiting the sub-objects held by value
// and the targets of strong references before their owners. Weak references
// impose no order.
func (s *decoding) notify(root binary.Reflectable) {
	done := map[binary.Reflectable]bool{}
	var visit func(obj binary.Reflectable)
	visit = func(obj binary.Reflectable) {
		if binary.IsNil(obj) || done[obj] {
			return
		}
		done[obj] = true
		for _, t := range obj.Descriptor().Hierarchy() {
			for _, f := range t.Fields() {
				if f, ok := f.(binary.ReflectableField); ok && !f.IsWeak() {
					visitHeld(obj, f, visit)
				}
			}
		}
		for _, t := range obj.Descriptor().Hierarchy() {
			if t.OnDecoded != nil {
				t.OnDecoded(obj)
			}
		}
	}
	visit(root)
	for _, obj := range s.order {
		visit(obj)
	}
}

// visitHeld calls visit with each value f holds in obj, as the owner holds
// it after decoding.
func visitHeld(obj binary.Reflectable, f binary.ReflectableField, visit func(binary.Reflectable)) {
	if !f.IsArray() {
		visit(f.Value(obj))
		return
	}
	for i, n := 0, f.ArraySize(obj); i < n; i++ {
		visit(f.ValueAt(obj, i))
	}
}
