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

package selector

import (
	"log/slog"
	"math"
	"slices"

	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/fitness"
	"github.com/zintix-labs/featlab/sdk/corr"
	"gonum.org/v1/gonum/mat"
)

// ridge 為正規方程加在對角線上的係數（乘上列數），避免共線時無法分解。
const ridge = 1e-6

// pickRFE : 遞迴特徵消去。
//
// 每一輪以標準化後的特徵做最小平方法，移除 |β| 最小者，直到剩下 n 個。
// 分解失敗時改以 |corr(feature,target)| 排名；結果適應度低於 MinFitness 時改用 correlation。
func pickRFE(t *traditional, ds *dataset.Dataset, c *corr.Cache, n int) ([]int, []string) {
	var notes []string
	z, usable := standardize(ds, c)
	y := centered(ds.Target)

	active := usable
	for len(active) > n {
		beta, ok := olsCoef(z, y, active, ds.Rows())
		if !ok {
			t.log.Debug("rfe factorization failed, ranking by correlation", slog.Int("active", len(active)))
			sub := rankBy(len(active), n, func(k int) (float64, bool) { return c.Target(active[k]) })
			kept := make([]int, len(sub))
			for i, k := range sub {
				kept[i] = active[k]
			}
			active = kept
			notes = append(notes, "least squares was singular, remaining features ranked by correlation")
			break
		}
		weakest := 0
		for k := 1; k < len(beta); k++ {
			if math.Abs(beta[k]) < math.Abs(beta[weakest]) {
				weakest = k
			}
		}
		active = slices.Delete(active, weakest, weakest+1)
	}
	if len(active) == 0 {
		idx, _ := pickCorrelation(t, ds, c, n)
		return idx, append(notes, "no feature had usable variance, correlation ranking was used")
	}

	if fit := fitness.NewWithCache(c).Evaluate(active); fit < t.p.MinFitness {
		t.log.Info("rfe selected poor features, using correlation fallback", slog.Float64("fitness", fit))
		idx, _ := pickCorrelation(t, ds, c, n)
		return idx, append(notes, "rfe fitness was below the minimum, correlation ranking was used")
	}
	return active, notes
}

// standardize 回傳每欄 z-score；變異數過小的欄位不參與消去。
func standardize(ds *dataset.Dataset, c *corr.Cache) ([][]float64, []int) {
	z := make([][]float64, ds.NumFeatures())
	usable := make([]int, 0, ds.NumFeatures())
	for i, col := range ds.Cols {
		v := c.Variance(i)
		if v <= corr.MinVariance {
			continue
		}
		m, sd := corr.Mean(col), math.Sqrt(v)
		zc := make([]float64, len(col))
		for r, x := range col {
			zc[r] = (x - m) / sd
		}
		z[i] = zc
		usable = append(usable, i)
	}
	return z, usable
}

func centered(y []float64) []float64 {
	m := corr.Mean(y)
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = v - m
	}
	return out
}

// olsCoef 解 (XᵀX + λI)β = Xᵀy，X 為 active 欄位組成的矩陣。
func olsCoef(z [][]float64, y []float64, active []int, rows int) ([]float64, bool) {
	k := len(active)
	x := mat.NewDense(rows, k, nil)
	for j, idx := range active {
		x.SetCol(j, z[idx])
	}
	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())
	lambda := ridge * float64(rows)
	for j := 0; j < k; j++ {
		xtx.SetSym(j, j, xtx.At(j, j)+lambda)
	}
	var chol mat.Cholesky
	if !chol.Factorize(&xtx) {
		return nil, false
	}
	xty := mat.NewVecDense(k, nil)
	xty.MulVec(x.T(), mat.NewVecDense(rows, y))
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, xty); err != nil {
		return nil, false
	}
	out := make([]float64, k)
	for j := range out {
		b := beta.AtVec(j)
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, false
		}
		out[j] = b
	}
	return out, true
}
