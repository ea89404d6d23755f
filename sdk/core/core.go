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

// Package core 提供每次搜尋專屬的亂數核心。
//
// 所有演化運算子（初始化、選擇、交配、突變）都只透過 *Core 取亂數，
// 不碰任何 process-wide 的亂數狀態；同一個 seed 必定重現同一條亂數序列。
package core

// PRNG 定義核心亂數取樣能力。
type PRNG interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// UintN 回傳 [0,max) 的 uint 亂數，若 max == 0 回傳 0。
	UintN(uint) uint
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

type PRNGFactory interface {
	// New 以指定 seed 建立新的 PRNG。
	//
	// 合約：同一實作、同一版本下 New(seed) 必須是決定性的。
	// 搜尋結果的可重現性完全建立在這個合約上。
	New(int64) PRNG
}

// DefaultPRNG 以 PCG64 實作 PRNGFactory。
type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供演化運算子常用的取樣方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// NewSeeded 以預設 PCG64 與 seed 建立 Core。
func NewSeeded(seed int64) *Core {
	return New(Default().New(seed))
}

// Bool 以機率 p 回傳 true；p <= 0 永遠 false，p >= 1 永遠 true。
func (c *Core) Bool(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return c.Float64() < p
}

// IntRange 回傳 [lo,hi] 的整數；hi < lo 時回傳 lo。
func (c *Core) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + c.IntN(hi-lo+1)
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	return src[c.IntN(len(src))]
}

// ShuffleInts 以 Fisher-Yates 就地重排 []int。
func (c *Core) ShuffleInts(src []int) {
	if len(src) <= 1 {
		return
	}
	for i := len(src) - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		src[i], src[j] = src[j], src[i]
	}
}

// Sample 從 [0,n) 中不重複抽出 k 個索引（k 會被夾在 [0,n]）。
//
// 使用部分 Fisher-Yates：只洗前 k 個位置，O(n) 配置、O(k) 亂數。
func (c *Core) Sample(n, k int) []int {
	if n <= 0 || k <= 0 {
		return []int{}
	}
	k = min(k, n)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + c.IntN(n-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
