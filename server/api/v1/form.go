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

package v1

import (
	"strconv"
	"strings"

	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/selector"
)

// MethodTraditional 表示使用 traditional_method 指定的傳統方法。
const MethodTraditional = "traditional"

// formValues 為 multipart / urlencoded 表單的欄位讀取介面（*http.Request.FormValue）。
type formValues interface {
	FormValue(key string) string
}

// parseParams 以 base 為底，套用表單中出現的參數；型別錯誤為 CodeConfig。
func parseParams(f formValues, base selector.Params) (selector.Params, error) {
	p := base
	p.GA.Exclude.Patterns = append([]string(nil), base.GA.Exclude.Patterns...)

	if err := formInt64(f, "random_state", &p.GA.RandomState); err != nil {
		return p, err
	}
	p.Traditional.RandomState = p.GA.RandomState

	ints := []struct {
		key string
		dst *int
	}{
		{"population_size", &p.GA.PopulationSize},
		{"generations", &p.GA.Generations},
		{"tournament_size", &p.GA.TournamentSize},
		{"n_features", &p.Traditional.NFeatures},
	}
	for _, it := range ints {
		if err := formInt(f, it.key, it.dst); err != nil {
			return p, err
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"crossover_prob", &p.GA.CrossoverProb},
		{"mutation_prob", &p.GA.MutationProb},
		{"variance_threshold", &p.Traditional.VarianceThreshold},
		{"max_correlation", &p.Traditional.MaxCorrelation},
	}
	for _, it := range floats {
		if err := formFloat(f, it.key, it.dst); err != nil {
			return p, err
		}
	}

	if v := strings.TrimSpace(f.FormValue("selection")); v != "" {
		p.GA.Selection = v
	}
	if v := strings.TrimSpace(f.FormValue("exclude_mode")); v != "" {
		p.GA.Exclude.Mode = v
	}
	if v := f.FormValue("exclude_patterns"); v != "" {
		p.GA.Exclude.Patterns = splitList([]string{v})
	}
	if v := strings.TrimSpace(f.FormValue("traditional_method")); v != "" {
		p.Traditional.Method = v
	}
	return p, p.Validate()
}

// resolveMethod 把 "traditional" 轉成實際的傳統方法 key。
func resolveMethod(name string, p selector.Params) string {
	name = strings.TrimSpace(name)
	if name == MethodTraditional {
		return p.Traditional.Method
	}
	return name
}

func formInt(f formValues, key string, dst *int) error {
	v := strings.TrimSpace(f.FormValue(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errs.Configf("%s must be an integer, got %q", key, v)
	}
	*dst = n
	return nil
}

func formInt64(f formValues, key string, dst *int64) error {
	v := strings.TrimSpace(f.FormValue(key))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return errs.Configf("%s must be an integer, got %q", key, v)
	}
	*dst = n
	return nil
}

func formFloat(f formValues, key string, dst *float64) error {
	v := strings.TrimSpace(f.FormValue(key))
	if v == "" {
		return nil
	}
	x, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errs.Configf("%s must be a number, got %q", key, v)
	}
	*dst = x
	return nil
}

func formBool(f formValues, key string) (bool, error) {
	v := strings.TrimSpace(f.FormValue(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errs.Configf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

// splitList 攤平重複欄位與逗號分隔值，去除空白與重複。
func splitList(vals []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range vals {
		for _, s := range strings.Split(v, ",") {
			s = strings.TrimSpace(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
