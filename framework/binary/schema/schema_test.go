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

package schema_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GameFoundry/bsf-sub024/core/data/binary"
	"github.com/GameFoundry/bsf-sub024/core/fault"
	fb "github.com/GameFoundry/bsf-sub024/framework/binary"
	"github.com/GameFoundry/bsf-sub024/framework/binary/schema"
	"github.com/GameFoundry/bsf-sub024/framework/binary/test"
)

func TestObjectMetadata(t *testing.T) {
	m := schema.ObjectMetadata{ObjectID: 7, TypeID: test.MeshID}
	assert.Equal(t, uint32(15), m.Marker())
	assert.True(t, schema.IsObjectMarker(m.Marker()))

	buf := make([]byte, schema.ObjectMetadataSize)
	w := binary.NewWriter(buf)
	m.Write(w)
	require.NoError(t, w.Error())
	assert.Equal(t, test.Bytes{}.Words(15, test.MeshID).Data, buf)

	got, err := schema.ReadObject(binary.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = schema.ReadObject(binary.NewReader(test.Bytes{}.Words(14, 1).Data))
	assert.ErrorIs(t, err, fault.ErrProtocol, "field marker")
	_, err = schema.ReadObject(binary.NewReader(test.Bytes{}.Words(15).Data))
	assert.ErrorIs(t, err, fault.ErrProtocol, "short")
}

func TestFieldOf(t *testing.T) {
	_, err := test.NewRegistry()
	require.NoError(t, err)
	for _, tc := range []struct {
		field    fb.Field
		expected schema.FieldMetadata
		word     uint32
	}{
		{test.MeshType.FieldByName("Vertices"), schema.FieldMetadata{ID: 1, Size: 12, Flags: schema.FlagArray}, 0x00010c02},
		{test.MeshType.FieldByName("Indices"), schema.FieldMetadata{ID: 2, Flags: schema.FlagDynamicSize}, 0x00020020},
		{test.MeshType.FieldByName("Payload"), schema.FieldMetadata{ID: 4, Flags: schema.FlagDataBlock}, 0x00040004},
		{test.RenderableType.FieldByName("Mesh"), schema.FieldMetadata{ID: 1, Size: 4, Flags: schema.FlagReflectablePtr}, 0x00010410},
		{test.RenderableType.FieldByName("Materials"), schema.FieldMetadata{ID: 2, Size: 4, Flags: schema.FlagReflectablePtr | schema.FlagArray}, 0x00020412},
		{test.RenderableType.FieldByName("Offset"), schema.FieldMetadata{ID: 3, Flags: schema.FlagReflectable}, 0x00030008},
		{test.SceneObjectType.FieldByName("Tags"), schema.FieldMetadata{ID: 6, Flags: schema.FlagDynamicSize | schema.FlagArray}, 0x00060022},
	} {
		require.NotNil(t, tc.field)
		m := schema.FieldOf(tc.field)
		assert.Equal(t, tc.expected, m, tc.field.Name())
		assert.Equal(t, tc.word, m.Word(), tc.field.Name())
		assert.Equal(t, tc.field.Kind(), m.Kind(), tc.field.Name())
		assert.NoError(t, m.Check(tc.field))
		parsed, err := schema.ParseField(m.Word())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	base := schema.BaseClassField()
	assert.Equal(t, uint32(0xFFFF0008), base.Word())
	assert.True(t, base.IsBaseClass())
	assert.Equal(t, fb.KindReflectable, base.Kind())
}

func TestParseFieldErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		word uint32
	}{
		{"object marker", 0x00010001},
		{"ptr and reflectable", 0x00010418},
		{"datablock and ptr", 0x00010014},
		{"empty fixed size", 0x00010000},
	} {
		_, err := schema.ParseField(tc.word)
		assert.ErrorIs(t, err, fault.ErrProtocol, tc.name)
	}
}

func TestCheck(t *testing.T) {
	_, err := test.NewRegistry()
	require.NoError(t, err)
	mesh := test.RenderableType.FieldByName("Mesh")
	for _, m := range []schema.FieldMetadata{
		{ID: 1, Size: 4},
		{ID: 1, Size: 4, Flags: schema.FlagReflectablePtr | schema.FlagArray},
		{ID: 1, Flags: schema.FlagReflectable},
	} {
		assert.ErrorIs(t, m.Check(mesh), fault.ErrProtocol, "%v", m)
	}
}

func TestSkip(t *testing.T) {
	for _, tc := range []struct {
		name string
		m    schema.FieldMetadata
		data test.Bytes
	}{
		{"fixed", schema.FieldMetadata{ID: 1, Size: 6}, test.Bytes{}.Add(1, 2, 3, 4, 5, 6)},
		{"dynamic", schema.FieldMetadata{ID: 1, Flags: schema.FlagDynamicSize}, test.Bytes{}.String("abc")},
		{"fixed array", schema.FieldMetadata{ID: 1, Size: 2, Flags: schema.FlagArray}, test.Bytes{}.Words(2).Add(1, 2, 3, 4)},
		{"dynamic array", schema.FieldMetadata{ID: 1, Flags: schema.FlagDynamicSize | schema.FlagArray}, test.Bytes{}.Words(2).String("a").String("")},
		{"ptr array", schema.FieldMetadata{ID: 1, Size: 4, Flags: schema.FlagReflectablePtr | schema.FlagArray}, test.Bytes{}.Words(3, 1, 0, 2)},
		{"nested", schema.FieldMetadata{ID: 1, Flags: schema.FlagReflectable}, test.Bytes{}.Words(8, 1, 103)},
		{"nil nested", schema.FieldMetadata{ID: 1, Flags: schema.FlagReflectable}, test.Bytes{}.Words(0)},
		{"datablock", schema.FieldMetadata{ID: 1, Flags: schema.FlagDataBlock}, test.Bytes{}.Words(3).Add(1, 2, 3)},
	} {
		data := tc.data.Add(0xaa).Data
		r := binary.NewReader(data)
		require.NoError(t, schema.Skip(r, tc.m), tc.name)
		assert.Equal(t, 1, r.Len(), tc.name)

		for n := 0; n < len(data)-1; n++ {
			err := schema.Skip(binary.NewReader(data[:n]), tc.m)
			assert.ErrorIs(t, err, fault.ErrProtocol, "%s truncated to %d bytes", tc.name, n)
		}
	}
}

func TestReadCountTooLarge(t *testing.T) {
	m := schema.FieldMetadata{ID: 1, Size: 8, Flags: schema.FlagArray}
	_, err := schema.ReadCount(binary.NewReader(test.Bytes{}.Words(3).Add(make([]byte, 16)...).Data), m)
	assert.ErrorIs(t, err, fault.ErrProtocol)
}

func TestReadFieldHeader(t *testing.T) {
	r := binary.NewReader(test.Bytes{}.Words(0x00010410, 3).Data)
	m, ok, err := schema.ReadFieldHeader(r)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, schema.FieldMetadata{ID: 1, Size: 4, Flags: schema.FlagReflectablePtr}, m)

	// An object marker ends the field list without being consumed.
	_, ok, err = schema.ReadFieldHeader(r)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, r.Len())

	r = binary.NewReader(nil)
	_, ok, err = schema.ReadFieldHeader(r)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = schema.ReadFieldHeader(binary.NewReader([]byte{1, 2}))
	assert.ErrorIs(t, err, fault.ErrProtocol)
}

// recorder writes one line per visitor call.
type recorder struct {
	lines []string
}

func (r *recorder) add(format string, args ...any) error {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
	return nil
}

func (r *recorder) BeginObject(m schema.ObjectMetadata) error { return r.add("begin %v", m) }
func (r *recorder) EndObject() error                          { return r.add("end") }
func (r *recorder) EndField() error                           { return r.add("/field") }

func (r *recorder) BeginField(m schema.FieldMetadata, count int) error {
	if count < 0 {
		return r.add("field %d", m.ID)
	}
	return r.add("field %d[%d]", m.ID, count)
}

func (r *recorder) Value(m schema.FieldMetadata, payload []byte) error {
	return r.add("value %d bytes", len(payload))
}

func TestWalk(t *testing.T) {
	data := test.Bytes{}.
		Words(3, test.RenderableID).
		Words(0xFFFF0008, 21, 1, fb.AbstractTypeID).
		Words(0x00010410, 2).
		Words(0x00020100).Add(1).
		Words(0x00010410, 3).
		Words(0x00020412, 2, 4, 5).
		Words(0x00030008, 0).
		Words(5, test.MeshID)
	v := &recorder{}
	require.NoError(t, schema.Walk(data.Data, v))
	assert.Equal(t, []string{
		fmt.Sprintf("begin object 1 (type %d)", test.RenderableID),
		"field 65535",
		fmt.Sprintf("begin base(type %d)", fb.AbstractTypeID),
		"field 1", "value 4 bytes", "/field",
		"field 2", "value 1 bytes", "/field",
		"end",
		"/field",
		"field 1", "value 4 bytes", "/field",
		"field 2[2]", "value 4 bytes", "value 4 bytes", "/field",
		"field 3", "value 0 bytes", "/field",
		"end",
		fmt.Sprintf("begin object 2 (type %d)", test.MeshID),
		"end",
	}, v.lines)

	err := schema.Walk(test.Bytes{}.Words(1, test.MeshID).Data, v)
	assert.ErrorIs(t, err, fault.ErrProtocol, "top level chunk without id")
	err = schema.Walk(test.Bytes{}.Words(3, test.MeshID, 0x00030008, 12, 1, test.TransformID, 0).Data, v)
	assert.ErrorIs(t, err, fault.ErrProtocol, "bytes left in nested chunk")
}
