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

// Package endian selects the byte order used for fixed-width integers on the
// wire. Streams are written in the byte order of the host that produced them.
package endian

import (
	eb "encoding/binary"
	"unsafe"
)

// Endian is a byte order.
type Endian int

const (
	// LittleEndian orders the least significant byte first.
	LittleEndian Endian = iota
	// BigEndian orders the most significant byte first.
	BigEndian
)

func (e Endian) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// Host is the byte order of the running process.
var Host = detect()

// Order is the encoding/binary implementation for Host.
var Order = ByteOrder(Host)

func detect() Endian {
	v := uint16(1)
	if *(*byte)(unsafe.Pointer(&v)) == 1 {
		return LittleEndian
	}
	return BigEndian
}

// Codec reads, writes and appends fixed-width integers in one byte order.
type Codec interface {
	eb.ByteOrder
	eb.AppendByteOrder
}

// ByteOrder returns the encoding/binary implementation for endian.
func ByteOrder(endian Endian) Codec {
	switch endian {
	case BigEndian:
		return eb.BigEndian
	default:
		return eb.LittleEndian
	}
}
