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

// Package quality 計算任意特徵子集的品質指標，與選擇方法無關。
//
//   - redundancy_rate：上三角 |corr| 平均
//   - representation_entropy：以變異數為分布的正規化 Shannon entropy
//   - diversity_score：(1 − redundancy_rate) × representation_entropy
package quality

import (
	"math"

	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/sdk/corr"
)

// Epsilon 為 entropy 計算時 log 內的加項，避免 log(0)。
const Epsilon = 1e-8

// Metrics 為子集品質指標，三項皆落在 [0,1]。
type Metrics struct {
	RedundancyRate        float64 `json:"redundancy_rate" yaml:"redundancy_rate"`
	RepresentationEntropy float64 `json:"representation_entropy" yaml:"representation_entropy"`
	DiversityScore        float64 `json:"diversity_score" yaml:"diversity_score"`
}

// Empty 為空子集的預設指標。
func Empty() Metrics {
	return Metrics{RedundancyRate: 1, RepresentationEntropy: 0, DiversityScore: 0}
}

// Scorer 以相關係數快取計算品質指標。
type Scorer struct {
	cache *corr.Cache
}

func NewScorer(c *corr.Cache) *Scorer {
	return &Scorer{cache: c}
}

// Score 為一次性的便利入口：建立暫時的快取並評分。
func Score(ds *dataset.Dataset, subset []int) Metrics {
	return NewScorer(corr.NewCache(ds.Cols, ds.Target)).Score(subset)
}

// Score 回傳子集的三項品質指標；空子集回傳 Empty()。
func (s *Scorer) Score(subset []int) Metrics {
	if len(subset) == 0 {
		return Empty()
	}
	red := s.RedundancyRate(subset)
	ent := s.RepresentationEntropy(subset)
	return Metrics{
		RedundancyRate:        red,
		RepresentationEntropy: ent,
		DiversityScore:        (1 - red) * ent,
	}
}

// RedundancyRate 為上三角 |corr| 平均；|subset| <= 1 或沒有任何可定義的配對時為 0。
func (s *Scorer) RedundancyRate(subset []int) float64 {
	sum, n := 0.0, 0
	for i := 0; i < len(subset); i++ {
		for j := i + 1; j < len(subset); j++ {
			if r, ok := s.cache.Pair(subset[i], subset[j]); ok {
				sum += r
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return clamp01(sum / float64(n))
}

// RepresentationEntropy 將各特徵變異數正規化為機率分布後計算 entropy，再除以 log(|subset|)。
func (s *Scorer) RepresentationEntropy(subset []int) float64 {
	k := len(subset)
	if k <= 1 {
		return 0
	}
	total := 0.0
	vars := make([]float64, k)
	for i, f := range subset {
		vars[i] = s.cache.Variance(f)
		total += vars[i]
	}
	if total <= 0 {
		return 0
	}
	h := 0.0
	for _, v := range vars {
		p := v / total
		h -= p * math.Log(p+Epsilon)
	}
	return clamp01(h / math.Log(float64(k)))
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return max(0, min(1, x))
}
