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

// Package cyclic encodes graphs of binary.Reflectable objects, including
// shared and cyclic references, to a byte stream and decodes them back.
//
// Object encoding details
//
// The encoder assigns each object reached through a ReflectablePtr field an
// id, starting with 1 for the root, and encodes it exactly once as a top
// level chunk, in the order the objects were first reached:
//
//	marker   uint32 // (id << 1) | 1
//	type     uint32 // the id of the object's type
//	...fields...
//
// Each field entry is a field marker followed by its payload. References are
// written as the 4 byte id of their target, 0 meaning nil. Sub-objects held
// by value are written inline as a 4 byte length followed by a chunk with id
// 0. The part of an object described by its base type is written first, as
// such an inline chunk under the reserved field id binary.BaseClassFieldID.
//
// Decoding happens in two passes. The first pass creates every object and
// reads its fields, recording references instead of following them. The
// second pass resolves the recorded ids, which is what allows a reference to
// point at an object that appears later in the stream.
package cyclic
