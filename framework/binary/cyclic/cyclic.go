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
	"io"

	"github.com/GameFoundry/bsf-sub024/framework/binary"
	"github.com/GameFoundry/bsf-sub024/framework/binary/registry"
	"github.com/GameFoundry/bsf-sub024/framework/binary/stream"
)

// DefaultBufferSize is the buffer size used by Marshal, and by EncodeTo when
// no size is given.
const DefaultBufferSize = 32 << 10

// Marshal encodes the graph reachable from root and returns the bytes.
func Marshal(ctx context.Context, root binary.Reflectable) ([]byte, error) {
	c := stream.NewCollector()
	defer c.Release()
	if _, err := NewEncoder().Encode(ctx, root, make([]byte, DefaultBufferSize), c.Flush); err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

// EncodeTo encodes the graph reachable from root to w through a buffer of
// bufSize bytes, or DefaultBufferSize if bufSize is not positive.
func EncodeTo(ctx context.Context, w io.Writer, root binary.Reflectable, bufSize int) (int, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return NewEncoder().Encode(ctx, root, make([]byte, bufSize), stream.WriterSink(w))
}

// Unmarshal decodes a graph, resolving types through reg.
func Unmarshal(ctx context.Context, reg *registry.Registry, data []byte) (binary.Reflectable, error) {
	return NewDecoder(reg).Decode(ctx, data)
}

// Clone returns a deep copy of the graph reachable from obj, made by
// encoding and decoding it.
func Clone(ctx context.Context, reg *registry.Registry, obj binary.Reflectable) (binary.Reflectable, error) {
	data, err := Marshal(ctx, obj)
	if err != nil {
		return nil, err
	}
	return Unmarshal(ctx, reg, data)
}
