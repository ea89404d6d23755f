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

// Package dataset 定義特徵選擇使用的資料集，並提供載入、清理與統計。
//
// Dataset 以欄優先 (column-major) 儲存：每個特徵是一條 []float64，
// 所有評估都是「整欄」運算，欄優先可以直接把切片交給 gonum。
package dataset

import (
	"math"
	"slices"

	"github.com/zintix-labs/featlab/errs"
)

// Dataset 為已清理的數值資料集。
//
// 不變量：特徵數 >= 2、每欄列數與 Target 相同、列數 >= 1、所有值皆為有限值。
type Dataset struct {
	Names      []string    `json:"names"`
	Cols       [][]float64 `json:"-"`
	Target     []float64   `json:"-"`
	TargetName string      `json:"target_name"`
}

// New 驗證並建立 Dataset。names 與 cols 一一對應。
func New(names []string, cols [][]float64, target []float64) (*Dataset, error) {
	d := &Dataset{Names: names, Cols: cols, Target: target, TargetName: "target"}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate 檢查 Dataset 的結構不變量；以 struct literal 建立的 Dataset 在使用前應先呼叫。
func (d *Dataset) Validate() error {
	if d == nil {
		return errs.Dataf("dataset is required")
	}
	if len(d.Cols) < 2 {
		return errs.Dataf("dataset must have at least 2 features, got %d", len(d.Cols))
	}
	if len(d.Names) != len(d.Cols) {
		return errs.Dataf("feature names (%d) and columns (%d) mismatch", len(d.Names), len(d.Cols))
	}
	if len(d.Target) < 1 {
		return errs.Dataf("dataset must have at least 1 row")
	}
	seen := make(map[string]struct{}, len(d.Names))
	for i, c := range d.Cols {
		if len(c) != len(d.Target) {
			return errs.Dataf("feature %q has %d rows, target has %d", d.Names[i], len(c), len(d.Target))
		}
		if _, dup := seen[d.Names[i]]; dup {
			return errs.Dataf("duplicated feature name %q", d.Names[i])
		}
		seen[d.Names[i]] = struct{}{}
		if !finite(c) {
			return errs.Dataf("feature %q has missing or non-finite values", d.Names[i])
		}
	}
	if !finite(d.Target) {
		return errs.Dataf("target has missing or non-finite values")
	}
	return nil
}

// FromRows 以列優先資料建立 Dataset；rows[r][f] 為第 r 列第 f 個特徵。
func FromRows(names []string, rows [][]float64, target []float64) (*Dataset, error) {
	if len(rows) != len(target) {
		return nil, errs.Dataf("rows (%d) and target (%d) mismatch", len(rows), len(target))
	}
	cols := make([][]float64, len(names))
	for f := range cols {
		cols[f] = make([]float64, len(rows))
	}
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, errs.Dataf("row %d has %d values, want %d", r, len(row), len(names))
		}
		for f, v := range row {
			cols[f][r] = v
		}
	}
	return New(names, cols, target)
}

// NumFeatures 回傳特徵數。
func (d *Dataset) NumFeatures() int {
	return len(d.Cols)
}

// Rows 回傳列數。
func (d *Dataset) Rows() int {
	return len(d.Target)
}

// Index 回傳特徵名稱對應的欄位索引，找不到回傳 -1。
func (d *Dataset) Index(name string) int {
	return slices.Index(d.Names, name)
}

// NamesOf 依索引回傳特徵名稱（保持傳入順序）。
func (d *Dataset) NamesOf(idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, d.Names[i])
	}
	return out
}

// Project 回傳只含指定欄位的新 Dataset（共用底層切片）。
func (d *Dataset) Project(idx []int) (*Dataset, error) {
	cols := make([][]float64, 0, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(d.Cols) {
			return nil, errs.Dataf("feature index %d out of range", i)
		}
		cols = append(cols, d.Cols[i])
	}
	nd, err := New(d.NamesOf(idx), cols, d.Target)
	if err != nil {
		return nil, err
	}
	nd.TargetName = d.TargetName
	return nd, nil
}

func finite(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
