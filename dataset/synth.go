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

package dataset

import (
	"strconv"

	"github.com/zintix-labs/featlab/sdk/core"
	"gonum.org/v1/gonum/stat/distuv"
)

// SynthSpec 描述一份合成資料集：target = Σ coef * x[informative] + noise。
type SynthSpec struct {
	Rows        int
	Features    int
	Informative []int
	Noise       float64
	Seed        int64
}

// Synthetic 產生以標準常態特徵組成、目標為部分特徵線性組合的資料集。
// 用於 demo 與回歸測試；同一個 SynthSpec 永遠產生同一份資料。
func Synthetic(s SynthSpec) (*Dataset, error) {
	c := core.NewSeeded(s.Seed)
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: c}

	names := make([]string, s.Features)
	cols := make([][]float64, s.Features)
	for f := range cols {
		names[f] = "f" + strconv.Itoa(f)
		cols[f] = make([]float64, s.Rows)
		for r := range cols[f] {
			cols[f][r] = norm.Rand()
		}
	}
	y := make([]float64, s.Rows)
	for r := range y {
		for k, f := range s.Informative {
			if f < 0 || f >= s.Features {
				continue
			}
			y[r] += float64(k+1) * cols[f][r]
		}
		y[r] += s.Noise * norm.Rand()
	}
	return New(names, cols, y)
}
