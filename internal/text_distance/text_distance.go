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

// Package text_distance computes Levenshtein edit distances between names.
package text_distance

import (
	"reflect"
	"sort"
)

// Distance returns the Levenshtein edit distance between a and b.
func Distance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	ra := []rune(a)
	rb := []rune(b)

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)

	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(min(curr[j-1]+1, prev[j]+1), prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// FindSimilarName returns the name closest to src by edit distance, or the
// empty string if names is empty.
func FindSimilarName(names []string, src string) string {
	minDist := -1
	match := ""

	for _, name := range names {
		dist := Distance(name, src)
		if minDist == -1 || dist < minDist {
			minDist = dist
			match = name
		}
	}

	return match
}

// FindSimilarNameFromMap returns the map key closest to src by edit
// distance. Keys are visited in sorted order so the result is
// deterministic.
func FindSimilarNameFromMap(names interface{}, src string) string {
	return FindSimilarName(sortedMapKeys(names), src)
}

func sortedMapKeys(names interface{}) []string {
	if names == nil {
		return nil
	}

	rv := reflect.ValueOf(names)
	if rv.Kind() != reflect.Map {
		return nil
	}

	keys := make([]string, 0, rv.Len())
	for _, key := range rv.MapKeys() {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return keys
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
