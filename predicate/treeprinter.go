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
	"strings"
)

// TreePrinter renders a node and its pre-rendered children as a tree with
// box-drawing connectors. Write the node first, then its children.
type TreePrinter struct {
	buf          strings.Builder
	nodeWritten  bool
	childWritten bool
}

// NewTreePrinter returns an empty tree printer.
func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// WriteNode writes the root line of the tree.
func (p *TreePrinter) WriteNode(format string, args ...interface{}) {
	if p.nodeWritten {
		panic("node already written")
	}
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteRune('\n')
	p.nodeWritten = true
}

// WriteChildren writes each child under the node, indenting any lines the
// child itself contains.
func (p *TreePrinter) WriteChildren(children ...string) {
	if !p.nodeWritten {
		panic("cannot write children before the node")
	}
	if p.childWritten {
		panic("children already written")
	}
	p.childWritten = true

	for i, child := range children {
		last := i == len(children)-1
		lines := strings.Split(strings.TrimSuffix(child, "\n"), "\n")
		for j, line := range lines {
			switch {
			case j == 0 && last:
				p.buf.WriteString(" └─ ")
			case j == 0:
				p.buf.WriteString(" ├─ ")
			case last:
				p.buf.WriteString("    ")
			default:
				p.buf.WriteString(" │  ")
			}
			p.buf.WriteString(line)
			p.buf.WriteRune('\n')
		}
	}
}

// String returns the rendered tree.
func (p *TreePrinter) String() string {
	return p.buf.String()
}
