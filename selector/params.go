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
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/ga"
)

// 內建方法 key
const (
	KeyGA          = "ga"
	KeyRFE         = "rfe"
	KeyCorrelation = "correlation"
	KeyVariance    = "variance"
	KeyKBest       = "kbest"
)

// Params 為所有方法共用的參數集合。
type Params struct {
	GA          ga.Config   `yaml:"ga" json:"ga"`
	Traditional Traditional `yaml:"traditional" json:"traditional"`
}

// Traditional 為傳統方法參數。
type Traditional struct {
	// NFeatures 為要選出的特徵數；<= 0 表示自動：max(1, min(10, 總數/3))。
	NFeatures int `yaml:"n_features" json:"n_features"`
	// Method 為 "traditional" 的預設方法。
	Method            string  `yaml:"method" json:"method"`
	VarianceThreshold float64 `yaml:"variance_threshold" json:"variance_threshold"`
	MaxCorrelation    float64 `yaml:"max_correlation" json:"max_correlation"`
	// MinFitness 低於此值時 rfe 改用 correlation 結果。
	MinFitness  float64 `yaml:"min_fitness" json:"min_fitness"`
	RandomState int64   `yaml:"random_state" json:"random_state"`
}

// DefaultParams 回傳預設參數。
func DefaultParams() Params {
	return Params{
		GA: ga.DefaultConfig(),
		Traditional: Traditional{
			Method:            KeyRFE,
			VarianceThreshold: 0.01,
			MaxCorrelation:    0.8,
			MinFitness:        0.1,
			RandomState:       42,
		},
	}
}

// Validate 檢查所有參數。
func (p *Params) Validate() error {
	if err := p.GA.Validate(); err != nil {
		return err
	}
	return p.Traditional.Validate()
}

func (t *Traditional) Validate() error {
	if t.NFeatures < 0 {
		return errs.Configf("n_features must be >= 0, got %d", t.NFeatures)
	}
	switch t.Method {
	case "":
		t.Method = KeyRFE
	case KeyRFE, KeyCorrelation, KeyVariance, KeyKBest:
	default:
		return errs.Configf("traditional method must be one of rfe|correlation|variance|kbest, got %q", t.Method)
	}
	if t.VarianceThreshold < 0 {
		return errs.Configf("variance_threshold must be >= 0, got %v", t.VarianceThreshold)
	}
	if t.MaxCorrelation <= 0 || t.MaxCorrelation > 1 {
		return errs.Configf("max_correlation must be in (0,1], got %v", t.MaxCorrelation)
	}
	if t.MinFitness < 0 || t.MinFitness > 1 {
		return errs.Configf("min_fitness must be in [0,1], got %v", t.MinFitness)
	}
	return nil
}

// Target 回傳實際要選出的特徵數。
func (t *Traditional) Target(total int) int {
	n := t.NFeatures
	if n <= 0 {
		n = max(1, min(10, total/3))
	}
	return min(n, total)
}
