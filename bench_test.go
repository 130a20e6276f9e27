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
	"testing"
	"time"

	"github.com/dolthub/dibs/predicate"
)

func benchmarkAcquire(b *testing.B, optimization OptimizationLevel) {
	d := newTestEngine(optimization, time.Second)
	args := predicate.MustValues(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g, err := d.Acquire(1, 1, templateWrite, args)
		if err != nil {
			b.Fatal(err)
		}
		g.Release()
	}
}

func BenchmarkAcquireUngrouped(b *testing.B) { benchmarkAcquire(b, Ungrouped) }
func BenchmarkAcquireGrouped(b *testing.B)   { benchmarkAcquire(b, Grouped) }
func BenchmarkAcquirePrepared(b *testing.B)  { benchmarkAcquire(b, Prepared) }
func BenchmarkAcquireFiltered(b *testing.B)  { benchmarkAcquire(b, Filtered) }

func BenchmarkAcquireContended(b *testing.B) {
	d := newTestEngine(Prepared, time.Second)

	b.RunParallel(func(pb *testing.PB) {
		tx := 0
		for pb.Next() {
			tx++
			g, err := d.Acquire(tx, tx, templateRead, predicate.MustValues(1))
			if err != nil {
				b.Fatal(err)
			}
			g.Release()
		}
	})
}
