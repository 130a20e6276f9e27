// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package predicate

import (
	"fmt"
	"strconv"

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-errors.v1"
)

// ErrValueType is returned when a caller-supplied argument cannot be coerced
// into a kernel value.
var ErrValueType = errors.NewKind("expected a boolean, integer, or string argument, got %T")

// Value is an argument value bound to a request at acquire time. Values of
// the same variant are totally ordered. Comparing values of different
// variants is a programming error and panics.
type Value interface {
	fmt.Stringer
	// Compare returns -1, 0 or 1 if the receiver is less than, equal to or
	// greater than the other value.
	Compare(other Value) int
}

// Boolean is a boolean argument value. False orders before true.
type Boolean bool

// Integer is an unsigned integer argument value.
type Integer uint64

// String is a string argument value, ordered lexicographically.
type String string

func (v Boolean) Compare(other Value) int {
	o, ok := other.(Boolean)
	if !ok {
		panic(fmt.Sprintf("cannot compare boolean value to %T", other))
	}
	switch {
	case v == o:
		return 0
	case bool(o):
		return -1
	default:
		return 1
	}
}

func (v Boolean) String() string {
	return strconv.FormatBool(bool(v))
}

func (v Integer) Compare(other Value) int {
	o, ok := other.(Integer)
	if !ok {
		panic(fmt.Sprintf("cannot compare integer value to %T", other))
	}
	switch {
	case v < o:
		return -1
	case v > o:
		return 1
	default:
		return 0
	}
}

func (v Integer) String() string {
	return strconv.FormatUint(uint64(v), 10)
}

func (v String) Compare(other Value) int {
	o, ok := other.(String)
	if !ok {
		panic(fmt.Sprintf("cannot compare string value to %T", other))
	}
	switch {
	case v < o:
		return -1
	case v > o:
		return 1
	default:
		return 0
	}
}

func (v String) String() string {
	return string(v)
}

// NewValue coerces a native Go value into a kernel Value. Signed and unsigned
// integers of any width are accepted for Integer values.
func NewValue(v interface{}) (Value, error) {
	switch v := v.(type) {
	case Value:
		return v, nil
	case bool:
		return Boolean(v), nil
	case string:
		return String(v), nil
	default:
		n, err := cast.ToUint64E(v)
		if err != nil {
			return nil, ErrValueType.New(v)
		}
		return Integer(n), nil
	}
}

// MustNewValue is like NewValue but panics on coercion failure.
func MustNewValue(v interface{}) Value {
	value, err := NewValue(v)
	if err != nil {
		panic(err)
	}
	return value
}

// Values coerces a slice of native Go values into an argument vector.
func Values(vs ...interface{}) ([]Value, error) {
	values := make([]Value, len(vs))
	for i, v := range vs {
		value, err := NewValue(v)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

// MustValues is like Values but panics on coercion failure.
func MustValues(vs ...interface{}) []Value {
	values, err := Values(vs...)
	if err != nil {
		panic(err)
	}
	return values
}
