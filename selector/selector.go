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

// Package selector 把所有特徵選擇方法（演化搜尋與傳統方法）統一成同一個 Selector 介面，
// 讓比較引擎與 API 不需要知道背後是哪一種方法。
//
// 方法以 key 註冊在 Registry：
//
//	reg := selector.Default()
//	s, _ := reg.Build("ga", params, selector.Env{Log: log})
//	res, _ := s.Select(ds)
package selector

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/fitness"
	"github.com/zintix-labs/featlab/quality"
	"github.com/zintix-labs/featlab/sdk/corr"
)

// Selector 是特徵選擇方法的共同能力。
type Selector interface {
	// Key 為註冊鍵（"ga"、"rfe" ...）。
	Key() string
	// Name 為顯示名稱。
	Name() string
	// Select 對資料集執行選擇；只有結構錯誤會回傳 error。
	Select(ds *dataset.Dataset) (*Result, error)
}

// Env 為建立 Selector 時注入的執行環境。
type Env struct {
	Log      *slog.Logger
	Progress io.Writer
}

func (e Env) logger() *slog.Logger {
	if e.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Log
}

// Result 為單一方法的選擇結果。
type Result struct {
	RunID                 string          `json:"run_id" yaml:"run_id"`
	Key                   string          `json:"method_key" yaml:"method_key"`
	Method                string          `json:"method" yaml:"method"`
	SelectedFeatures      []string        `json:"selected_features" yaml:"selected_features"`
	SelectedIndices       []int           `json:"selected_indices" yaml:"selected_indices"`
	NumFeatures           int             `json:"num_features" yaml:"num_features"`
	TotalOriginalFeatures int             `json:"total_original_features" yaml:"total_original_features"`
	FeatureReduction      string          `json:"feature_reduction" yaml:"feature_reduction"`
	FitnessScore          float64         `json:"fitness_score" yaml:"fitness_score"`
	FitnessHistory        []float64       `json:"fitness_history,omitempty" yaml:"fitness_history,omitempty"`
	FeatureQuality        quality.Metrics `json:"feature_quality" yaml:"feature_quality"`
	ExecutionTime         float64         `json:"execution_time" yaml:"execution_time"`
	ParametersUsed        map[string]any  `json:"parameters_used,omitempty" yaml:"parameters_used,omitempty"`
	Notes                 []string        `json:"notes,omitempty" yaml:"notes,omitempty"`

	Elapsed time.Duration `json:"-" yaml:"-"`
}

// FeatureSet 回傳選取特徵名稱的集合。
func (r *Result) FeatureSet() map[string]struct{} {
	set := make(map[string]struct{}, len(r.SelectedFeatures))
	for _, f := range r.SelectedFeatures {
		set[f] = struct{}{}
	}
	return set
}

// newResult 依選取索引組出完整 Result：名稱、縮減比例、適應度與品質指標。
// 索引會依欄位順序排序。
func newResult(key, name string, ds *dataset.Dataset, cache *corr.Cache, idx []int, elapsed time.Duration) *Result {
	idx = slices.Clone(idx)
	slices.Sort(idx)
	idx = slices.Compact(idx)
	total := ds.NumFeatures()
	return &Result{
		RunID:                 uuid.NewString(),
		Key:                   key,
		Method:                name,
		SelectedFeatures:      ds.NamesOf(idx),
		SelectedIndices:       idx,
		NumFeatures:           len(idx),
		TotalOriginalFeatures: total,
		FeatureReduction:      Reduction(len(idx), total),
		FitnessScore:          fitness.NewWithCache(cache).Evaluate(idx),
		FeatureQuality:        quality.NewScorer(cache).Score(idx),
		ExecutionTime:         Seconds(elapsed),
		Elapsed:               elapsed,
	}
}

// Reduction 回傳 "xx.x%" 格式的特徵縮減比例。
func Reduction(selected, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", (1-float64(selected)/float64(total))*100)
}

// Seconds 將耗時轉成秒並取到小數兩位。
func Seconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

// Builder 依參數建立 Selector。
type Builder func(p Params, env Env) (Selector, error)

// Registry 為方法註冊表；key 不可重複。
type Registry struct {
	builders map[string]Builder
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{builders: map[string]Builder{}}
}

// Register 註冊方法；重複 key 視為組裝錯誤。
func (r *Registry) Register(key string, b Builder) error {
	if key == "" || b == nil {
		return errs.NewFatal("selector key and builder are required")
	}
	if _, dup := r.builders[key]; dup {
		return errs.Fatalf("selector %q already registered", key)
	}
	r.builders[key] = b
	r.order = append(r.order, key)
	return nil
}

// Build 建立指定 key 的 Selector；未知 key 為參數錯誤。
func (r *Registry) Build(key string, p Params, env Env) (Selector, error) {
	b, ok := r.builders[key]
	if !ok {
		return nil, errs.Configf("unknown method %q, available: %v", key, r.order)
	}
	return b(p, env)
}

// Has 回傳 key 是否已註冊。
func (r *Registry) Has(key string) bool {
	_, ok := r.builders[key]
	return ok
}

// Keys 依註冊順序回傳所有 key。
func (r *Registry) Keys() []string {
	return slices.Clone(r.order)
}

// Default 回傳內建方法的註冊表。
func Default() *Registry {
	r := NewRegistry()
	_ = r.Register(KeyGA, newGenetic)
	_ = r.Register(KeyRFE, newRFE)
	_ = r.Register(KeyCorrelation, newCorrelation)
	_ = r.Register(KeyVariance, newVariance)
	_ = r.Register(KeyKBest, newKBest)
	return r
}

// Merge 合併多個註冊表；重複 key 直接視為錯誤。
func Merge(regs ...*Registry) (*Registry, error) {
	out := NewRegistry()
	for _, r := range regs {
		if r == nil {
			continue
		}
		for _, k := range r.order {
			if err := out.Register(k, r.builders[k]); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
