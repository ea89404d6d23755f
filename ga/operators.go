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

package ga

import (
	"github.com/zintix-labs/featlab/sdk/core"
)

// ClearBias 為突變命中已選取位元時，將其清除的機率。
const ClearBias = 0.6

// Crossover 兩點交配：以機率 prob（且長度 > 1）交換 [p1, p2) 區段，
// p1 ∈ [1, max(1,len-2)]、p2 ∈ [p1, len-1]；否則回傳兩親代的複本。
func Crossover(a, b Candidate, prob float64, rc *core.Core) (Candidate, Candidate) {
	c1, c2 := a.Clone(), b.Clone()
	n := len(a)
	if n <= 1 || !rc.Bool(prob) {
		return c1, c2
	}
	p1 := rc.IntRange(1, max(1, n-2))
	p2 := rc.IntRange(p1, n-1)
	for i := p1; i < p2; i++ {
		c1[i], c2[i] = b[i], a[i]
	}
	return c1, c2
}

// Mutate 就地突變：每個位元以機率 prob 命中；
// 命中 1 位元時以 ClearBias 清除、其餘保持，命中 0 位元時設為 1。
// 結束後補足最少選取數。
func Mutate(c Candidate, prob float64, rc *core.Core) {
	for i, on := range c {
		if !rc.Bool(prob) {
			continue
		}
		if on && rc.Bool(ClearBias) {
			c[i] = false
		} else {
			c[i] = true
		}
	}
	c.EnsureFloor(rc)
}

// Offspring 由親代產生下一代：洗牌後兩兩交配，奇數時最後一個直接複製，最後全部突變。
func Offspring(parents Population, cfg *Config, rc *core.Core) Population {
	order := make([]int, len(parents))
	for i := range order {
		order[i] = i
	}
	rc.ShuffleInts(order)

	out := make(Population, 0, len(parents))
	for i := 0; i+1 < len(order); i += 2 {
		c1, c2 := Crossover(parents[order[i]], parents[order[i+1]], cfg.CrossoverProb, rc)
		out = append(out, c1, c2)
	}
	if len(out) < len(parents) {
		out = append(out, parents[order[len(order)-1]].Clone())
	}
	for _, c := range out {
		Mutate(c, cfg.MutationProb, rc)
	}
	return out
}
