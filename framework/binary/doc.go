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

// Package binary holds the reflection model used to persist object graphs.
//
// Every type that takes part in a graph implements Reflectable and describes
// itself with a TypeDescriptor: a stable numeric type id, a factory, an
// optional base type and an ordered list of fields. Each field is reached
// through a getter and setter pair, so no per-type encode or decode code has
// to be written.
//
// A field is one of four kinds:
//
//	Plain           a value laid out by a pod.Type, fixed or dynamic size
//	Reflectable     a sub-object stored by value inside its owner
//	ReflectablePtr  a reference to a sub-object that may be shared or cyclic
//	DataBlock       an opaque byte range
//
// The first three kinds have array variants, which add a size getter and a
// size setter. The cyclic package turns graphs of Reflectable objects into
// byte streams and back using these descriptors.
package binary
