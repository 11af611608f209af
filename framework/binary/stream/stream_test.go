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

package stream_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GameFoundry/bsf-sub024/core/data/endian"
	"github.com/GameFoundry/bsf-sub024/core/fault"
	"github.com/GameFoundry/bsf-sub024/framework/binary/stream"
)

func words(v ...uint32) []byte {
	out := []byte{}
	for _, w := range v {
		out = endian.Order.AppendUint32(out, w)
	}
	return out
}

func TestAtomicWritesFlush(t *testing.T) {
	c := stream.NewCollector()
	defer c.Release()
	var sizes []int
	flush := func(filled []byte) ([]byte, error) {
		sizes = append(sizes, len(filled))
		return c.Flush(filled)
	}
	b := stream.NewBuffer(make([]byte, 10), flush)
	for _, v := range []uint32{1, 2, 3} {
		require.NoError(t, b.PutUint32(v))
	}
	require.NoError(t, b.Close())
	// Two words fit in 10 bytes, the third is never split.
	assert.Equal(t, []int{8, 4}, sizes)
	assert.Equal(t, words(1, 2, 3), c.Bytes())
	assert.Equal(t, 12, b.Written())
	assert.Equal(t, 2, b.Flushes())
}

func TestWriteStraddles(t *testing.T) {
	var out []byte
	b := stream.NewBuffer(make([]byte, 5), stream.Fresh(5, &out))
	require.NoError(t, b.PutUint32(7))
	data := []byte("abcdefghijklm")
	n, err := b.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	require.NoError(t, b.Close())
	assert.Equal(t, append(words(7), data...), out)
}

func TestCapacityErrors(t *testing.T) {
	full := func(filled []byte) ([]byte, error) { return filled[:cap(filled)], nil }
	for _, test := range []struct {
		name  string
		buf   []byte
		flush stream.FlushFunc
		size  int
	}{
		{"nil buffer", nil, full, 4},
		{"larger than buffer", make([]byte, 3), full, 4},
		{"no flush", make([]byte, 4), nil, 4},
		{"flush returns nil", make([]byte, 4), func([]byte) ([]byte, error) { return nil, nil }, 4},
		{"flush returns too little", make([]byte, 4), func([]byte) ([]byte, error) { return make([]byte, 2), nil }, 4},
	} {
		t.Run(test.name, func(t *testing.T) {
			b := stream.NewBuffer(test.buf, test.flush)
			var err error
			for i := 0; i < 3 && err == nil; i++ {
				_, err = b.Reserve(test.size)
			}
			assert.ErrorIs(t, err, fault.ErrCapacity)
		})
	}
}

func TestEmptyStartBuffer(t *testing.T) {
	for _, start := range [][]byte{nil, {}, make([]byte, 2)} {
		var out []byte
		b := stream.NewBuffer(start, stream.Fresh(8, &out))
		require.NoError(t, b.PutUint32(1), "start buffer of %d bytes", len(start))
		_, err := b.Write([]byte("abcdef"))
		require.NoError(t, err)
		require.NoError(t, b.Close())
		assert.Equal(t, append(words(1), "abcdef"...), out)
		assert.Equal(t, 3, b.Flushes())
	}
}

func TestWriteCapacity(t *testing.T) {
	b := stream.NewBuffer(make([]byte, 2), func([]byte) ([]byte, error) { return []byte{}, nil })
	n, err := b.Write([]byte{1, 2, 3})
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, fault.ErrCapacity)
}

func TestFlushError(t *testing.T) {
	broken := errors.New("disk full")
	b := stream.NewBuffer(make([]byte, 4), func([]byte) ([]byte, error) { return nil, broken })
	require.NoError(t, b.PutUint32(1))
	err := b.PutUint32(2)
	assert.ErrorIs(t, err, broken)
	assert.Equal(t, fault.Const(""), fault.Class(err))
}

func TestWriterSink(t *testing.T) {
	w := &bytes.Buffer{}
	b := stream.NewBuffer(make([]byte, 6), stream.WriterSink(w))
	require.NoError(t, b.PutUint32(1))
	_, err := b.Write([]byte("xyz"))
	require.NoError(t, err)
	require.NoError(t, b.PutUint32(2))
	require.NoError(t, b.Close())
	assert.Equal(t, append(append(words(1), "xyz"...), words(2)...), w.Bytes())
}
