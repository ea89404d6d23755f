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

// Package fitness 計算特徵子集的適應度 max(0, relevance − redundancy − size_penalty)。
//
// relevance 為子集內 |corr(feature, target)| 的平均，未定義（零變異）的特徵不列入平均；
// redundancy 為兩兩 |corr(fi, fj)| 的平均，|subset| <= 1 為 0，未定義的配對不列入；
// size_penalty 為 (|subset| / 總特徵數) × SizePenalty。
package fitness

import (
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/sdk/corr"
)

// SizePenalty 為子集大小懲罰係數。
const SizePenalty = 0.1

// Breakdown 為一次評估的各項組成，方便除錯與報表。
type Breakdown struct {
	Relevance  float64 `json:"relevance"`
	Redundancy float64 `json:"redundancy"`
	Penalty    float64 `json:"size_penalty"`
	Fitness    float64 `json:"fitness"`
}

// Evaluator 綁定一份資料集；內含延遲計算的相關係數快取。
// 不是併發安全的，每次搜尋建立一個。
type Evaluator struct {
	cache *corr.Cache
	buf   []int
}

// New 為資料集建立新的 Evaluator（以及專屬的相關係數快取）。
func New(ds *dataset.Dataset) *Evaluator {
	return NewWithCache(corr.NewCache(ds.Cols, ds.Target))
}

// NewWithCache 與呼叫端共用既有快取（例如同一次搜尋的品質評分）。
func NewWithCache(c *corr.Cache) *Evaluator {
	return &Evaluator{cache: c, buf: make([]int, 0, c.Len())}
}

// Cache 回傳內部快取。
func (e *Evaluator) Cache() *corr.Cache {
	return e.cache
}

// Evaluate 回傳子集（特徵索引）的適應度，恆落在 [0,1]。
func (e *Evaluator) Evaluate(subset []int) float64 {
	return e.Explain(subset).Fitness
}

// EvaluateMask 以位元遮罩評估；mask 長度必須等於特徵數。
func (e *Evaluator) EvaluateMask(mask []bool) float64 {
	e.buf = e.buf[:0]
	for i, on := range mask {
		if on {
			e.buf = append(e.buf, i)
		}
	}
	return e.Evaluate(e.buf)
}

// Explain 回傳完整的評估組成。
func (e *Evaluator) Explain(subset []int) Breakdown {
	k := len(subset)
	if k == 0 {
		return Breakdown{}
	}

	rel, nRel := 0.0, 0
	for _, f := range subset {
		if r, ok := e.cache.Target(f); ok {
			rel += r
			nRel++
		}
	}
	if nRel == 0 {
		return Breakdown{}
	}
	rel /= float64(nRel)

	red, nRed := 0.0, 0
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			if r, ok := e.cache.Pair(subset[i], subset[j]); ok {
				red += r
				nRed++
			}
		}
	}
	if nRed > 0 {
		red /= float64(nRed)
	}

	pen := float64(k) / float64(e.cache.Len()) * SizePenalty
	return Breakdown{
		Relevance:  rel,
		Redundancy: red,
		Penalty:    pen,
		Fitness:    max(0, min(1, rel-red-pen)),
	}
}
