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

// Package ga 以遺傳演算法搜尋特徵子集。
//
// 狀態：INIT → EVOLVING(0..G−1) → DONE。每一代：
//
//  1. 評估整個族群
//  2. 本代最佳嚴格優於歷史最佳時才更新
//  3. 歷史最佳寫入 history（長度恆等於 Generations，且單調不減）
//  4. 選擇 → 交配 → 突變，整批替換族群（不保留菁英個體）
//
// 只以代數終止，沒有提早停止。
package ga

import (
	"cmp"
	"io"
	"log/slog"
	"slices"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/fitness"
	"github.com/zintix-labs/featlab/quality"
	"github.com/zintix-labs/featlab/sdk/core"
)

// FallbackTopN 為從未出現正適應度時，以 |corr(feature,target)| 排名取前幾名。
const FallbackTopN = 5

// logEvery 每隔幾代輸出一次 debug log。
const logEvery = 10

// Outcome 為一次搜尋的結果。
type Outcome struct {
	Selected      []int           `json:"selected_indices"`
	Names         []string        `json:"selected_features"`
	Fitness       float64         `json:"fitness_score"`
	BestSearch    float64         `json:"best_search_fitness"`
	History       []float64       `json:"fitness_history"`
	Quality       quality.Metrics `json:"feature_quality"`
	Excluded      []string        `json:"excluded_identifiers,omitempty"`
	FallbackUsed  bool            `json:"fallback_used"`
	Config        Config          `json:"parameters_used"`
	TotalFeatures int             `json:"total_original_features"`
}

// Engine 執行演化搜尋。零值不可用，請用 NewEngine。
type Engine struct {
	cfg      Config
	log      *slog.Logger
	progress io.Writer
}

// Option 調整 Engine。
type Option func(*Engine)

// WithLogger 注入 logger；未注入時不輸出。
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithProgress 以進度條輸出到 w；nil 表示不顯示。
func WithProgress(w io.Writer) Option {
	return func(e *Engine) { e.progress = w }
}

// NewEngine 驗證參數並建立 Engine。
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg: cfg,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Config 回傳（驗證後的）參數。
func (e *Engine) Config() Config {
	return e.cfg
}

// Run 對資料集執行一次完整搜尋；每次呼叫都以 cfg.RandomState 重新建立亂數核心。
//
// 結構性錯誤（空資料集、列數不一致）才會回傳 error；數值退化一律吸收。
func Run(ds *dataset.Dataset, cfg Config, opts ...Option) (*Outcome, error) {
	e, err := NewEngine(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return e.Run(ds)
}

func (e *Engine) Run(ds *dataset.Dataset) (*Outcome, error) {
	if ds == nil || ds.NumFeatures() == 0 {
		return nil, dataErrEmpty()
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	rc := core.NewSeeded(e.cfg.RandomState)
	eval := fitness.New(ds)
	sel, err := NewSelection(e.cfg.Selection, e.cfg.TournamentSize)
	if err != nil {
		return nil, err
	}

	n := ds.NumFeatures()
	pop := NewPopulation(rc, e.cfg.PopulationSize, n)
	history := make([]float64, 0, e.cfg.Generations)
	fit := make([]float64, len(pop))

	var (
		best      Candidate
		bestScore = 0.0
	)

	bar := pb.New(e.cfg.Generations)
	if e.progress != nil {
		bar.SetWriter(e.progress)
		bar.Start()
	} else {
		bar.SetWriter(io.Discard)
	}

	for g := 0; g < e.cfg.Generations; g++ {
		genBest := 0
		for i, c := range pop {
			fit[i] = eval.EvaluateMask(c)
			if fit[i] > fit[genBest] {
				genBest = i
			}
		}
		if fit[genBest] > bestScore {
			best, bestScore = pop[genBest].Clone(), fit[genBest]
		}
		history = append(history, bestScore)

		if g%logEvery == 0 {
			e.log.Debug("ga generation", slog.Int("generation", g), slog.Float64("best_fitness", bestScore))
		}

		pop = Offspring(sel.Select(pop, fit, rc), &e.cfg, rc)
		bar.Increment()
	}
	bar.Finish()

	out := &Outcome{
		BestSearch:    bestScore,
		History:       history,
		Config:        e.cfg,
		TotalFeatures: n,
	}
	var picked []int
	if best == nil {
		out.FallbackUsed = true
		picked = fallback(eval, n)
	} else {
		picked = best.Indices()
	}
	out.Selected, out.Excluded = e.filter(ds, picked)
	out.Names = ds.NamesOf(out.Selected)
	out.Fitness = eval.Evaluate(out.Selected)
	out.Quality = quality.NewScorer(eval.Cache()).Score(out.Selected)

	e.log.Info("ga completed",
		slog.Int("selected", len(out.Selected)),
		slog.Float64("fitness", out.Fitness),
		slog.Bool("fallback", out.FallbackUsed),
	)
	return out, nil
}

// filter 移除識別欄位；若全部被移除則保留原集合。
func (e *Engine) filter(ds *dataset.Dataset, picked []int) ([]int, []string) {
	match := e.cfg.Exclude.Matcher()
	kept := make([]int, 0, len(picked))
	var dropped []string
	for _, i := range picked {
		if match(ds.Names[i]) {
			dropped = append(dropped, ds.Names[i])
			continue
		}
		kept = append(kept, i)
	}
	if len(kept) == 0 {
		return picked, nil
	}
	return kept, dropped
}

// fallback 依 |corr(feature,target)| 由大到小取前 FallbackTopN 名；
// 無法計算相關的特徵排最後（同分依欄位順序），結果依欄位順序回傳。
func fallback(eval *fitness.Evaluator, n int) []int {
	type ranked struct {
		idx int
		r   float64
		ok  bool
	}
	rs := make([]ranked, n)
	for i := range rs {
		r, ok := eval.Cache().Target(i)
		rs[i] = ranked{idx: i, r: r, ok: ok}
	}
	slices.SortStableFunc(rs, func(a, b ranked) int {
		if a.ok != b.ok {
			if a.ok {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.r, a.r)
	})
	out := make([]int, 0, FallbackTopN)
	for _, r := range rs[:min(FallbackTopN, n)] {
		out = append(out, r.idx)
	}
	slices.Sort(out)
	return out
}
