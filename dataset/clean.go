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
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/zintix-labs/featlab/errs"
)

// CleanOptions 控制 Table → Dataset 的清理規則。
type CleanOptions struct {
	// QuasiConstantRatio：最常見值佔比超過此比例的欄位視為準常數欄並移除；<= 0 表示不檢查。
	QuasiConstantRatio float64 `yaml:"quasi_constant_ratio" json:"quasi_constant_ratio"`
}

// DefaultCleanOptions 回傳預設清理規則。
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{QuasiConstantRatio: 0.99}
}

// CleanReport 記錄清理過程中做了什麼，供 API 與 CLI 回報。
type CleanReport struct {
	RowsIn            int            `json:"rows_in"`
	RowsOut           int            `json:"rows_out"`
	DroppedRows       int            `json:"dropped_rows_missing_target"`
	DroppedConstant   []string       `json:"dropped_constant"`
	DroppedQuasi      []string       `json:"dropped_quasi_constant"`
	DroppedNonNumeric []string       `json:"dropped_non_numeric"`
	FilledMissing     map[string]int `json:"filled_missing"`
	MissingValues     int            `json:"missing_values"`
	TargetFactorized  bool           `json:"target_factorized"`
	TargetLevels      []string       `json:"target_levels,omitempty"`
}

// Build 把原始表格轉成數值 Dataset：
//
//  1. 目標欄若無法全部轉成數值，依首次出現順序編碼成 0,1,2...
//  2. 目標欄缺值的列整列移除
//  3. 非數值特徵欄移除
//  4. 常數欄與準常數欄移除
//  5. 其餘缺值以該欄中位數補上
func Build(t *Table, target string, opt CleanOptions) (*Dataset, *CleanReport, error) {
	ti := t.Column(target)
	if ti < 0 {
		return nil, nil, errs.Dataf("target column %q not found, available columns: %v", target, t.Header)
	}
	rep := &CleanReport{RowsIn: len(t.Rows), FilledMissing: map[string]int{}}

	// 1) target
	y, keep, levels := parseTarget(t, ti)
	if levels != nil {
		rep.TargetFactorized = true
		rep.TargetLevels = levels
	}
	rows := make([]int, 0, len(t.Rows))
	for r, ok := range keep {
		if ok {
			rows = append(rows, r)
		} else {
			rep.MissingValues++
		}
	}
	rep.DroppedRows = len(t.Rows) - len(rows)
	rep.RowsOut = len(rows)
	if len(rows) == 0 {
		return nil, rep, errs.Dataf("target column %q has no usable values", target)
	}
	target64 := make([]float64, len(rows))
	for i, r := range rows {
		target64[i] = y[r]
	}

	// 2) features
	var (
		names []string
		cols  [][]float64
	)
	for c, name := range t.Header {
		if c == ti {
			continue
		}
		col, missing, numeric := parseColumn(t, c, rows)
		rep.MissingValues += missing
		if !numeric {
			rep.DroppedNonNumeric = append(rep.DroppedNonNumeric, name)
			continue
		}
		switch ratio := topRatio(col); {
		case ratio < 0:
			rep.DroppedConstant = append(rep.DroppedConstant, name)
			continue
		case distinct(col) <= 1:
			rep.DroppedConstant = append(rep.DroppedConstant, name)
			continue
		case opt.QuasiConstantRatio > 0 && ratio > opt.QuasiConstantRatio:
			rep.DroppedQuasi = append(rep.DroppedQuasi, name)
			continue
		}
		if missing > 0 {
			fillMedian(col)
			rep.FilledMissing[name] = missing
		}
		names = append(names, name)
		cols = append(cols, col)
	}

	ds, err := New(names, cols, target64)
	if err != nil {
		return nil, rep, err
	}
	ds.TargetName = target
	return ds, rep, nil
}

// parseTarget 回傳目標值、每列是否保留，以及（若有類別編碼）類別清單。
func parseTarget(t *Table, ti int) ([]float64, []bool, []string) {
	y := make([]float64, len(t.Rows))
	keep := make([]bool, len(t.Rows))
	numeric := true
	for r, row := range t.Rows {
		s := row[ti]
		if isMissing(s) {
			continue
		}
		v, ok := parseNumber(s)
		if !ok {
			numeric = false
			break
		}
		y[r], keep[r] = v, true
	}
	if numeric {
		return y, keep, nil
	}
	// 類別目標：依首次出現順序編碼
	code := map[string]int{}
	var levels []string
	for r, row := range t.Rows {
		s := strings.TrimSpace(row[ti])
		if isMissing(s) {
			keep[r] = false
			continue
		}
		c, ok := code[s]
		if !ok {
			c = len(levels)
			code[s] = c
			levels = append(levels, s)
		}
		y[r], keep[r] = float64(c), true
	}
	return y, keep, levels
}

// parseColumn 以 NaN 標示缺值；numeric=false 代表欄位含非數值內容。
func parseColumn(t *Table, c int, rows []int) (col []float64, missing int, numeric bool) {
	col = make([]float64, len(rows))
	for i, r := range rows {
		s := t.Rows[r][c]
		if isMissing(s) {
			col[i] = math.NaN()
			missing++
			continue
		}
		v, ok := parseNumber(s)
		if !ok {
			return nil, missing, false
		}
		col[i] = v
	}
	return col, missing, true
}

// topRatio 回傳最常見（非缺值）值的佔比；整欄缺值時回傳 -1。
func topRatio(col []float64) float64 {
	counts := map[float64]int{}
	n, top := 0, 0
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		n++
		counts[v]++
		top = max(top, counts[v])
	}
	if n == 0 {
		return -1
	}
	return float64(top) / float64(len(col))
}

func distinct(col []float64) int {
	seen := map[float64]struct{}{}
	for _, v := range col {
		if !math.IsNaN(v) {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

func fillMedian(col []float64) {
	vals := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	med := median(vals)
	for i, v := range col {
		if math.IsNaN(v) {
			col[i] = med
		}
	}
}

// median 與 pandas 相同：偶數筆取中間兩值平均。
func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := slices.Clone(vals)
	slices.Sort(s)
	m := len(s) / 2
	if len(s)%2 == 1 {
		return s[m]
	}
	return (s[m-1] + s[m]) / 2
}

func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "n/a", "nan", "null", "none":
		return true
	}
	return false
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
