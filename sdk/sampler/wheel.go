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
	"sort"

	"github.com/zintix-labs/featlab/sdk/core"
	"gonum.org/v1/gonum/floats"
)

// ZeroTotal 為「總權重視為 0」的門檻。
const ZeroTotal = 1e-12

// Wheel 是以累積和實作的輪盤（fitness-proportional）抽樣結構。
//
//   - 建表：O(N)
//   - 抽樣：O(log N)，每次固定消耗一個 Float64 亂數
//
// 與整數 alias table 不同，Wheel 直接接受浮點權重，
// 適合每一代都要重建一次、權重為適應度分數的場景。
type Wheel struct {
	cum   []float64
	total float64
}

// BuildWheel 依權重建立輪盤。
//
// 權重必須非負且有限；第二個回傳值為 false 代表總權重 <= ZeroTotal
// 或含負值/NaN，呼叫端應改用均勻抽樣。
func BuildWheel[T Floaters](weights []T) (*Wheel, bool) {
	if len(weights) == 0 {
		return nil, false
	}
	ws := make([]float64, len(weights))
	for i, w := range weights {
		f := float64(w)
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		ws[i] = f
	}
	cum := make([]float64, len(ws))
	floats.CumSum(cum, ws)
	total := cum[len(cum)-1]
	if total <= ZeroTotal {
		return nil, false
	}
	return &Wheel{cum: cum, total: total}, true
}

// Size 回傳選項數量。
func (w *Wheel) Size() int {
	return len(w.cum)
}

// Pick 回傳一個索引，機率與權重成正比。權重為 0 的索引永遠不會被選到。
func (w *Wheel) Pick(c *core.Core) int {
	r := c.Float64() * w.total
	idx := sort.Search(len(w.cum), func(i int) bool { return w.cum[i] > r })
	if idx >= len(w.cum) {
		// 浮點誤差保險：落在最後一段
		idx = len(w.cum) - 1
	}
	return idx
}
