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

package fitness

import (
	"math"
	"testing"

	"github.com/zintix-labs/featlab/dataset"
)

func mustDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		[]string{"x", "dup", "noise", "const"},
		[][]float64{
			{1, 2, 3, 4, 5, 6},
			{2, 4, 6, 8, 10, 12},
			{3, -1, 4, 1, -5, 9},
			{7, 7, 7, 7, 7, 7},
		},
		[]float64{1.1, 1.9, 3.2, 3.9, 5.1, 6.0},
	)
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	return ds
}

func TestEmptySubsetIsZero(t *testing.T) {
	e := New(mustDataset(t))
	if got := e.Evaluate(nil); got != 0 {
		t.Fatalf("empty subset fitness = %v", got)
	}
	if got := e.EvaluateMask([]bool{false, false, false, false}); got != 0.0 {
		t.Fatalf("all-zero mask fitness = %v", got)
	}
}

func TestUndefinedOnlySubsetIsZero(t *testing.T) {
	e := New(mustDataset(t))
	if got := e.Evaluate([]int{3}); got != 0 {
		t.Fatalf("constant-only subset fitness = %v", got)
	}
}

func TestConstantFeatureSkippedInRelevance(t *testing.T) {
	e := New(mustDataset(t))
	a := e.Explain([]int{0})
	b := e.Explain([]int{0, 3})
	if math.Abs(a.Relevance-b.Relevance) > 1e-12 {
		t.Fatalf("relevance should skip constant feature: %v vs %v", a.Relevance, b.Relevance)
	}
	// 常數欄仍計入 size penalty
	if b.Penalty <= a.Penalty {
		t.Fatalf("constant feature must still count in size penalty")
	}
	if b.Redundancy != 0 {
		t.Fatalf("undefined pair must not count in redundancy, got %v", b.Redundancy)
	}
}

func TestRedundancyLowersFitness(t *testing.T) {
	e := New(mustDataset(t))
	single := e.Explain([]int{0})
	pair := e.Explain([]int{0, 1})
	if math.Abs(pair.Redundancy-1) > 1e-9 {
		t.Fatalf("perfectly correlated pair redundancy = %v", pair.Redundancy)
	}
	if pair.Fitness != 0 {
		t.Fatalf("redundant pair should floor at 0, got %v", pair.Fitness)
	}
	want := single.Relevance - 0.1/4
	if math.Abs(single.Fitness-want) > 1e-12 {
		t.Fatalf("single fitness = %v want %v", single.Fitness, want)
	}
}

func TestFitnessBounded(t *testing.T) {
	ds, err := dataset.Synthetic(dataset.SynthSpec{Rows: 60, Features: 8, Informative: []int{0, 1}, Noise: 0.5, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	e := New(ds)
	// 窮舉所有子集
	for m := 0; m < 1<<8; m++ {
		mask := make([]bool, 8)
		for i := range mask {
			mask[i] = m&(1<<i) != 0
		}
		f := e.EvaluateMask(mask)
		if f < 0 || f > 1 || math.IsNaN(f) {
			t.Fatalf("fitness out of range for mask %b: %v", m, f)
		}
	}
}
