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

package fault

import "github.com/pkg/errors"

// Const is the type for constant error values.
type Const string

// Error implements error for Const returning the string value of the const.
func (e Const) Error() string { return string(e) }

const (
	// ErrConfiguration is the class of errors caused by an invalid type
	// description: a duplicate type id, a circular strong reference, an invalid
	// field or an attempt to instantiate an abstract type.
	// It is a programmer error and is never recoverable at runtime.
	ErrConfiguration = Const("configuration error")

	// ErrProtocol is the class of errors caused by a stream that does not match
	// the wire format or the live type descriptors.
	ErrProtocol = Const("protocol error")

	// ErrCapacity is the class of errors raised when the flush callback of an
	// encode does not supply a usable buffer.
	ErrCapacity = Const("insufficient capacity")
)

// Classes lists the error classes, in the order Class tests them.
var Classes = []Const{ErrConfiguration, ErrProtocol, ErrCapacity}

// Class returns the error class err belongs to, or "" if err is nil or not
// one of the Classes.
func Class(err error) Const {
	if err == nil {
		return ""
	}
	for _, c := range Classes {
		if errors.Is(err, c) {
			return c
		}
	}
	return ""
}

// Configurationf returns a new ErrConfiguration annotated with the message.
func Configurationf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConfiguration, format, args...)
}

// Protocolf returns a new ErrProtocol annotated with the message.
func Protocolf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrProtocol, format, args...)
}

// Capacityf returns a new ErrCapacity annotated with the message.
func Capacityf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrCapacity, format, args...)
}
