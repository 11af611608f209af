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

import (
	"fmt"
	"reflect"
)

// Reflectable is the interface implemented by every object that can be part
// of an encoded graph. Implementations are pointer types so that object
// identity is well defined.
type Reflectable interface {
	// Descriptor returns the type descriptor of the object's dynamic type.
	// The method must be valid on a nil pointer.
	Descriptor() *TypeDescriptor
}

// IsNil reports whether obj is nil or a nil pointer held in an interface.
func IsNil(obj Reflectable) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Kind identifies how a field's value is stored.
type Kind uint8

const (
	// KindPlain is a value copied to and from memory by a pod.Type.
	KindPlain Kind = iota
	// KindReflectable is a sub-object embedded by value.
	KindReflectable
	// KindReflectablePtr is a possibly shared reference to a sub-object.
	KindReflectablePtr
	// KindDataBlock is an opaque byte range.
	KindDataBlock
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "Plain"
	case KindReflectable:
		return "Reflectable"
	case KindReflectablePtr:
		return "ReflectablePtr"
	case KindDataBlock:
		return "DataBlock"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}
