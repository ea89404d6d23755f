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
	"math"

	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/sdk/core"
	"github.com/zintix-labs/featlab/sdk/sampler"
)

// ShiftEpsilon 為輪盤選擇平移負適應度時的加項。
const ShiftEpsilon = 1e-6

// SelectionOperator 依適應度從族群中選出與族群等大的親代（皆為複本）。
type SelectionOperator interface {
	Select(pop Population, fit []float64, rc *core.Core) Population
}

// NewSelection 依名稱建立選擇運算子。
func NewSelection(name string, tournamentSize int) (SelectionOperator, error) {
	switch name {
	case SelectTournament, "":
		return &Tournament{Size: tournamentSize}, nil
	case SelectRoulette:
		return &Roulette{}, nil
	default:
		return nil, errs.Configf("unknown selection %q", name)
	}
}

// Tournament 每次不重複抽 Size 個個體，保留適應度最高者（同分取先抽到的）。
// Size 大於族群時夾到族群大小。
type Tournament struct {
	Size int
}

func (t *Tournament) Select(pop Population, fit []float64, rc *core.Core) Population {
	n := len(pop)
	k := max(1, min(t.Size, n))
	out := make(Population, n)
	for i := range out {
		idx := rc.Sample(n, k)
		win := idx[0]
		for _, j := range idx[1:] {
			if fit[j] > fit[win] {
				win = j
			}
		}
		out[i] = pop[win].Clone()
	}
	return out
}

// Roulette 依適應度比例抽樣（可重複）。
//
// 有負值時整體平移 |min|+ShiftEpsilon；總和近 0 時退化為均勻抽樣。
type Roulette struct{}

func (r *Roulette) Select(pop Population, fit []float64, rc *core.Core) Population {
	n := len(pop)
	out := make(Population, n)
	w := shiftWeights(fit)
	wheel, ok := sampler.BuildWheel(w)
	for i := range out {
		j := 0
		if ok {
			j = wheel.Pick(rc)
		} else {
			j = rc.IntN(n)
		}
		out[i] = pop[j].Clone()
	}
	return out
}

func shiftWeights(fit []float64) []float64 {
	w := make([]float64, len(fit))
	lo := math.Inf(1)
	for i, f := range fit {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			f = 0
		}
		w[i] = f
		lo = min(lo, f)
	}
	if lo < 0 {
		shift := math.Abs(lo) + ShiftEpsilon
		for i := range w {
			w[i] += shift
		}
	}
	return w
}
