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

package sampler

import (
	"math"
	"testing"

	"github.com/zintix-labs/featlab/sdk/core"
)

// checkDistribution 驗證抽樣結果的分佈是否符合預期權重
func checkDistribution(t *testing.T, weights []float64, counts []int, samples int, tolerance float64) {
	t.Helper()
	total := 0.0
	for _, w := range weights {
		total += w
	}
	for i, w := range weights {
		if w == 0 {
			if counts[i] != 0 {
				t.Errorf("index %d has zero weight but was picked %d times", i, counts[i])
			}
			continue
		}
		want := w / total
		got := float64(counts[i]) / float64(samples)
		if math.Abs(want-got) > tolerance {
			t.Errorf("index %d: want %.4f got %.4f", i, want, got)
		}
	}
}

func TestWheelDistribution(t *testing.T) {
	weights := []float64{0.1, 0, 0.3, 0.6}
	w, ok := BuildWheel(weights)
	if !ok {
		t.Fatalf("expected wheel to build")
	}
	if w.Size() != 4 {
		t.Fatalf("unexpected size %d", w.Size())
	}
	c := core.NewSeeded(42)
	const n = 200000
	counts := make([]int, len(weights))
	for i := 0; i < n; i++ {
		counts[w.Pick(c)]++
	}
	checkDistribution(t, weights, counts, n, 0.01)
}

func TestWheelRejectsDegenerateWeights(t *testing.T) {
	cases := map[string][]float64{
		"empty":    {},
		"all zero": {0, 0, 0},
		"negative": {1, -1, 2},
		"nan":      {1, math.NaN()},
		"inf":      {1, math.Inf(1)},
	}
	for name, ws := range cases {
		if _, ok := BuildWheel(ws); ok {
			t.Errorf("%s: expected BuildWheel to fail", name)
		}
	}
}

func TestWheelSingleOption(t *testing.T) {
	w, ok := BuildWheel([]float32{5})
	if !ok {
		t.Fatalf("expected wheel to build")
	}
	c := core.NewSeeded(1)
	for i := 0; i < 100; i++ {
		if w.Pick(c) != 0 {
			t.Fatalf("single option wheel must always pick 0")
		}
	}
}
