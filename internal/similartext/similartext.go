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

// Package similartext suggests close matches for a misspelled name in error
// messages.
package similartext

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dolthub/dibs/internal/text_distance"
)

// Find returns a ", maybe you mean ...?" suffix naming the names closest to
// src by edit distance, or the empty string when src is empty or every name
// is too far away to be a plausible misspelling.
func Find(names []string, src string) string {
	if len(src) == 0 {
		return ""
	}

	src = strings.ToLower(src)
	minDist := -1
	var matches []string

	for _, name := range names {
		dist := text_distance.Distance(strings.ToLower(name), src)
		switch {
		case minDist == -1 || dist < minDist:
			minDist = dist
			matches = []string{name}
		case dist == minDist:
			matches = append(matches, name)
		}
	}

	// A distance beyond half the input means the name was not a
	// misspelling.
	if len(matches) == 0 || minDist > (len(src)+1)/2 {
		return ""
	}

	return fmt.Sprintf(", maybe you mean %s?", strings.Join(matches, " or "))
}

// FindFromMap is like Find over the keys of a map of any value type. Keys
// are visited in sorted order so the result is deterministic.
func FindFromMap(names interface{}, src string) string {
	if names == nil {
		return Find(nil, src)
	}

	rv := reflect.ValueOf(names)
	if rv.Kind() != reflect.Map {
		return ""
	}

	keys := make([]string, 0, rv.Len())
	for _, key := range rv.MapKeys() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)

	return Find(keys, src)
}
