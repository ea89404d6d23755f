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

// Package corr 提供「可失敗」的數值工具：相關係數與變異數。
//
// 未定義的情況（長度不足、零變異、NaN/Inf）一律以 ok=false 回報，
// 由呼叫端決定要跳過該特徵或該組配對，不使用 panic/recover。
package corr

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// MinVariance 低於此值的欄位視為常數欄。
const MinVariance = 1e-12

// Pearson 回傳 a、b 的皮爾森相關係數，結果夾在 [-1,1]。
//
// 以下情況 ok=false：長度不同、少於 2 筆、任一方變異數 <= MinVariance、結果非有限值。
func Pearson(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) < 2 {
		return 0, false
	}
	if Variance(a) <= MinVariance || Variance(b) <= MinVariance {
		return 0, false
	}
	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return max(-1, min(1, r)), true
}

// AbsPearson 為 |Pearson(a,b)|。
func AbsPearson(a, b []float64) (float64, bool) {
	r, ok := Pearson(a, b)
	if !ok {
		return 0, false
	}
	return math.Abs(r), true
}

// Variance 回傳樣本變異數（N-1）；少於 2 筆或結果非有限值時回傳 0。
func Variance(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	v := stat.Variance(x, nil)
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Mean 回傳平均；空序列回傳 0。
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}
