// Copyright 2025 Zintix Labs
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

package core

import (
	"slices"
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := NewSeeded(7)
	c2 := NewSeeded(7)
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.Float64() != c2.Float64() {
		t.Fatalf("Float64 mismatch")
	}
}

func TestCoreIndependentInstances(t *testing.T) {
	a := NewSeeded(1)
	b := NewSeeded(1)
	// 消耗 a 不能影響 b
	for i := 0; i < 100; i++ {
		a.Uint64()
	}
	ref := NewSeeded(1)
	if b.Uint64() != ref.Uint64() {
		t.Fatalf("instances share state")
	}
}

func TestCorePickAndShuffle(t *testing.T) {
	c := NewSeeded(9)
	if got := c.Pick(nil); got != -1 {
		t.Fatalf("expected -1 for empty pick, got %d", got)
	}

	src := []int{1, 2, 3, 4}
	c.ShuffleInts(src)
	got := slices.Clone(src)
	slices.Sort(got)
	if !slices.Equal([]int{1, 2, 3, 4}, got) {
		t.Fatalf("shuffle changed elements: %v", src)
	}
}

func TestCoreSampleDistinct(t *testing.T) {
	c := NewSeeded(3)
	for n := 1; n < 12; n++ {
		for k := 0; k <= n+2; k++ {
			s := c.Sample(n, k)
			if len(s) != min(k, n) {
				t.Fatalf("Sample(%d,%d) len=%d", n, k, len(s))
			}
			seen := make(map[int]bool)
			for _, v := range s {
				if v < 0 || v >= n || seen[v] {
					t.Fatalf("Sample(%d,%d) invalid %v", n, k, s)
				}
				seen[v] = true
			}
		}
	}
	if len(c.Sample(0, 3)) != 0 {
		t.Fatalf("expected empty sample")
	}
}

func TestCoreBoolAndRange(t *testing.T) {
	c := NewSeeded(5)
	for i := 0; i < 50; i++ {
		if c.Bool(0) {
			t.Fatalf("Bool(0) returned true")
		}
		if !c.Bool(1) {
			t.Fatalf("Bool(1) returned false")
		}
		v := c.IntRange(2, 4)
		if v < 2 || v > 4 {
			t.Fatalf("IntRange out of bounds: %d", v)
		}
	}
	if c.IntRange(3, 1) != 3 {
		t.Fatalf("IntRange with hi<lo should return lo")
	}
}
