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

// Package unionfind implements a disjoint-set forest with union by size and
// path halving. The solver uses it to group the conjuncts of two predicates
// into independent clusters by shared column index.
package unionfind

type node struct {
	size   int
	parent int
}

// UnionFind tracks the partition of {0, ..., n-1} into disjoint sets.
type UnionFind struct {
	nodes []node
}

// New returns a union-find over n singleton sets.
func New(n int) *UnionFind {
	nodes := make([]node, n)
	for i := range nodes {
		nodes[i] = node{size: 1, parent: i}
	}
	return &UnionFind{nodes: nodes}
}

// Union merges the sets containing x and y. The smaller set is attached
// under the larger one.
func (u *UnionFind) Union(x, y int) {
	xf := u.Find(x)
	yf := u.Find(y)

	if xf == yf {
		return
	}

	if u.nodes[xf].size < u.nodes[yf].size {
		xf, yf = yf, xf
	}

	u.nodes[yf].parent = xf
	u.nodes[xf].size += u.nodes[yf].size
}

// Find returns the representative of the set containing x, halving the path
// to the root along the way.
func (u *UnionFind) Find(x int) int {
	for u.nodes[x].parent != x {
		u.nodes[x].parent = u.nodes[u.nodes[x].parent].parent
		x = u.nodes[x].parent
	}
	return x
}

// Sets returns every non-empty set as a slice of its members in ascending
// order.
func (u *UnionFind) Sets() [][]int {
	sparse := make([][]int, len(u.nodes))
	for x := range u.nodes {
		xf := u.Find(x)
		sparse[xf] = append(sparse[xf], x)
	}

	sets := make([][]int, 0, len(sparse))
	for _, set := range sparse {
		if len(set) > 0 {
			sets = append(sets, set)
		}
	}
	return sets
}
