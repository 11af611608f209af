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

package binary_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GameFoundry/bsf-sub024/core/data/binary"
	"github.com/GameFoundry/bsf-sub024/core/fault"
)

func TestReadWrite(t *testing.T) {
	buf := make([]byte, 1+1+2+4+8+4+8+1)
	w := binary.NewWriter(buf)
	w.Uint8(0xfe)
	w.Int8(-2)
	w.Int16(-300)
	w.Uint32(0xdeadbeef)
	w.Int64(-1 << 40)
	w.Float32(64.5)
	w.Float64(-0.25)
	w.Bool(true)
	require.NoError(t, w.Error())

	r := binary.NewReader(buf)
	assert.Equal(t, uint8(0xfe), r.Uint8())
	assert.Equal(t, int8(-2), r.Int8())
	assert.Equal(t, int16(-300), r.Int16())
	assert.Equal(t, uint32(0xdeadbeef), r.Uint32())
	assert.Equal(t, int64(-1<<40), r.Int64())
	assert.Equal(t, float32(64.5), r.Float32())
	assert.Equal(t, -0.25, r.Float64())
	assert.True(t, r.Bool())
	assert.NoError(t, r.Error())
	assert.Equal(t, 0, r.Len())
}

func TestReaderOverrun(t *testing.T) {
	r := binary.NewReader([]byte{1, 2, 3})
	assert.Equal(t, uint32(0), r.Uint32())
	err := r.Error()
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.ErrProtocol))
	// Sticky: later reads that would fit still fail.
	assert.Equal(t, uint8(0), r.Uint8())
	assert.Equal(t, err, r.Error())
}

func TestReaderPeekAndData(t *testing.T) {
	buf := make([]byte, 12)
	w := binary.NewWriter(buf)
	w.Uint32(7)
	w.Uint32(8)
	w.Uint32(9)
	require.NoError(t, w.Error())

	r := binary.NewReader(buf)
	v, ok := r.PeekUint32()
	assert.True(t, ok)
	assert.Equal(t, uint32(7), v)
	assert.Equal(t, 0, r.Offset())

	assert.Equal(t, buf[:8], r.Data(8))
	assert.Equal(t, 8, r.Offset())
	assert.Equal(t, uint32(9), r.Uint32())

	_, ok = r.PeekUint32()
	assert.False(t, ok)
	assert.Nil(t, r.Data(1))
	assert.ErrorIs(t, r.Error(), fault.ErrProtocol)
}

func TestWriterOverrun(t *testing.T) {
	w := binary.NewWriter(make([]byte, 2))
	w.Uint32(1)
	assert.True(t, errors.Is(w.Error(), fault.ErrCapacity))
	buf := make([]byte, 4)
	w = binary.NewWriter(buf)
	w.Uint16(0xffff)
	w.Uint32(1)
	w.Uint8(1)
	assert.ErrorIs(t, w.Error(), fault.ErrCapacity)
	assert.Equal(t, []byte{0xff, 0xff, 0, 0}, buf)
}
