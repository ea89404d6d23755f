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
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/sdk/corr"
)

type scored struct {
	idx   int
	score float64
}

// rankBy 依分數由大到小排序並取前 n 名（同分依欄位順序），不可計算者不入選。
func rankBy(total, n int, score func(i int) (float64, bool)) []int {
	rs := make([]scored, 0, total)
	for i := 0; i < total; i++ {
		s, ok := score(i)
		if !ok {
			continue
		}
		rs = append(rs, scored{idx: i, score: s})
	}
	slices.SortStableFunc(rs, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	out := make([]int, 0, min(n, len(rs)))
	for _, r := range rs[:min(n, len(rs))] {
		out = append(out, r.idx)
	}
	return out
}

// traditional 為傳統方法的共同骨架：決定 n、計時、組 Result。
type traditional struct {
	key  string
	name string
	p    Traditional
	log  *slog.Logger
	pick func(t *traditional, ds *dataset.Dataset, c *corr.Cache, n int) ([]int, []string)
}

func (t *traditional) Key() string  { return t.key }
func (t *traditional) Name() string { return t.name }

func (t *traditional) Select(ds *dataset.Dataset) (*Result, error) {
	if ds == nil || ds.NumFeatures() == 0 {
		return nil, errs.Dataf("dataset has no features")
	}
	start := time.Now()
	cache := corr.NewCache(ds.Cols, ds.Target)
	n := t.p.Target(ds.NumFeatures())
	idx, notes := t.pick(t, ds, cache, n)
	res := newResult(t.key, t.name, ds, cache, idx, time.Since(start))
	res.Notes = notes
	res.ParametersUsed = map[string]any{
		"n_features":   n,
		"method":       t.key,
		"random_state": t.p.RandomState,
	}
	switch t.key {
	case KeyVariance:
		res.ParametersUsed["variance_threshold"] = t.p.VarianceThreshold
	case KeyCorrelation:
		res.ParametersUsed["max_correlation"] = t.p.MaxCorrelation
	}
	t.log.Info("traditional selection completed",
		slog.String("method", t.key),
		slog.Int("selected", res.NumFeatures),
		slog.Float64("fitness", res.FitnessScore),
	)
	return res, nil
}

func newTraditional(key, name string, pick func(*traditional, *dataset.Dataset, *corr.Cache, int) ([]int, []string)) Builder {
	return func(p Params, env Env) (Selector, error) {
		if err := p.Traditional.Validate(); err != nil {
			return nil, err
		}
		return &traditional{key: key, name: name, p: p.Traditional, log: env.logger(), pick: pick}, nil
	}
}

var (
	newCorrelation = newTraditional(KeyCorrelation, "Traditional (CORRELATION)", pickCorrelation)
	newVariance    = newTraditional(KeyVariance, "Traditional (VARIANCE)", pickVariance)
	newKBest       = newTraditional(KeyKBest, "Traditional (KBEST)", pickKBest)
	newRFE         = newTraditional(KeyRFE, "Traditional (RFE)", pickRFE)
)

// pickCorrelation : 依 |corr(feature,target)| 取前 n 名，再移除高度共線的特徵。
func pickCorrelation(t *traditional, ds *dataset.Dataset, c *corr.Cache, n int) ([]int, []string) {
	top := rankBy(ds.NumFeatures(), n, c.Target)
	return dropRedundant(c, top, t.p.MaxCorrelation), nil
}

// dropRedundant 對任一對 |corr| > maxCorr 的特徵，移除與目標相關較弱者；
// 同分時移除排名較後者。
func dropRedundant(c *corr.Cache, picked []int, maxCorr float64) []int {
	if len(picked) <= 1 {
		return picked
	}
	drop := make(map[int]bool, len(picked))
	for a := 0; a < len(picked); a++ {
		for b := a + 1; b < len(picked); b++ {
			i, j := picked[a], picked[b]
			r, ok := c.Pair(i, j)
			if !ok || r <= maxCorr {
				continue
			}
			ri, _ := c.Target(i)
			rj, _ := c.Target(j)
			if ri < rj {
				drop[i] = true
			} else {
				drop[j] = true
			}
		}
	}
	out := make([]int, 0, len(picked))
	for _, i := range picked {
		if !drop[i] {
			out = append(out, i)
		}
	}
	return out
}

// pickVariance : 變異數大於門檻者依變異數取前 n 名；若無任何特徵通過則改用 correlation。
func pickVariance(t *traditional, ds *dataset.Dataset, c *corr.Cache, n int) ([]int, []string) {
	top := rankBy(ds.NumFeatures(), n, func(i int) (float64, bool) {
		v := c.Variance(i)
		return v, v > t.p.VarianceThreshold
	})
	if len(top) == 0 {
		idx, _ := pickCorrelation(t, ds, c, n)
		return idx, []string{"no feature passed the variance threshold, correlation ranking was used"}
	}
	return top, nil
}

// pickKBest : 單變量 F 分數 r²/(1−r²)·(rows−2)；完全相關時視為最大值。
func pickKBest(t *traditional, ds *dataset.Dataset, c *corr.Cache, n int) ([]int, []string) {
	dof := float64(max(ds.Rows()-2, 1))
	top := rankBy(ds.NumFeatures(), n, func(i int) (float64, bool) {
		r, ok := c.Target(i)
		if !ok {
			return 0, false
		}
		return FScore(r, dof), true
	})
	return top, nil
}

// FScore 回傳給定 |r| 與自由度的單變量 F 分數。
func FScore(r, dof float64) float64 {
	r2 := r * r
	if r2 >= 1 {
		return maxF
	}
	return r2 / (1 - r2) * dof
}

const maxF = 1e300

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
