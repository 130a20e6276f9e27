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

package dibs

import (
	"strings"

	"github.com/dolthub/dibs/internal/similartext"
)

// OptimizationLevel selects how much registration-time analysis the engine
// spends to make steady-state conflict checks cheaper. Levels are
// monotonically more aggressive.
type OptimizationLevel int

const (
	// Ungrouped solves every conflict ad hoc with the full DNF decider.
	Ungrouped OptimizationLevel = iota
	// Grouped decomposes conflicts into independent column clusters before
	// solving.
	Grouped
	// Prepared evaluates conflict predicates fused at registration time.
	Prepared
	// Filtered additionally hash-partitions in-flight requests by an
	// equality-filtered column.
	Filtered
)

// OptimizationLevelNames is used to translate from human to machine
// representations.
var OptimizationLevelNames = map[string]OptimizationLevel{
	"ungrouped": Ungrouped,
	"grouped":   Grouped,
	"prepared":  Prepared,
	"filtered":  Filtered,
}

// OptimizationLevelFromString parses one of "ungrouped", "grouped",
// "prepared" or "filtered", case-insensitively.
func OptimizationLevelFromString(s string) (OptimizationLevel, error) {
	level, ok := OptimizationLevelNames[strings.ToLower(s)]
	if !ok {
		return 0, ErrUnknownOptimizationLevel.New(s, similartext.FindFromMap(OptimizationLevelNames, s))
	}
	return level, nil
}

func (l OptimizationLevel) String() string {
	switch l {
	case Ungrouped:
		return "ungrouped"
	case Grouped:
		return "grouped"
	case Prepared:
		return "prepared"
	default:
		return "filtered"
	}
}
