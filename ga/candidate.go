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

// Candidate 為固定長度的位元向量；第 i 位為 true 代表選取第 i 個特徵。
// 長度在整次搜尋中不變，所有運算子都只改值、不改長度。
type Candidate []bool

// NewCandidate 建立長度 n 的全零 Candidate。
func NewCandidate(n int) Candidate {
	return make(Candidate, n)
}

// Count 回傳選取的特徵數。
func (c Candidate) Count() int {
	n := 0
	for _, b := range c {
		if b {
			n++
		}
	}
	return n
}

// Indices 回傳選取的特徵索引（遞增）。
func (c Candidate) Indices() []int {
	out := make([]int, 0, len(c))
	for i, b := range c {
		if b {
			out = append(out, i)
		}
	}
	return out
}

// Clone 回傳複本。
func (c Candidate) Clone() Candidate {
	out := make(Candidate, len(c))
	copy(out, c)
	return out
}

// Floor 為最少選取特徵數：min(2, n)。
func Floor(n int) int {
	return min(2, n)
}

// EnsureFloor 在選取數不足 Floor(len(c)) 時，隨機把 0 位元翻成 1 直到達標。
func (c Candidate) EnsureFloor(rc *core.Core) {
	need := Floor(len(c)) - c.Count()
	if need <= 0 {
		return
	}
	zeros := make([]int, 0, len(c))
	for i, b := range c {
		if !b {
			zeros = append(zeros, i)
		}
	}
	for _, k := range rc.Sample(len(zeros), need) {
		c[zeros[k]] = true
	}
}

// Population 為固定大小的 Candidate 序列，每一代整批替換。
type Population []Candidate

// NewPopulation 隨機初始化：每個位元以 0.5 機率選取，再補足最少選取數。
func NewPopulation(rc *core.Core, size, n int) Population {
	pop := make(Population, size)
	for i := range pop {
		c := NewCandidate(n)
		for j := range c {
			c[j] = rc.Bool(0.5)
		}
		c.EnsureFloor(rc)
		pop[i] = c
	}
	return pop
}
