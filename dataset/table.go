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
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/zintix-labs/featlab/errs"
)

// Format 為支援的上傳格式。
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Formats 回傳所有支援的格式。
func Formats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatXLSX}
}

// FormatOf 依副檔名判斷格式。
func FormatOf(filename string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, f := range Formats() {
		if string(f) == ext {
			return f, nil
		}
	}
	return "", errs.Dataf("invalid file type %q, allowed: csv, json, xlsx", ext)
}

// Table 為尚未轉型的原始表格；每一列長度都等於 Header。
type Table struct {
	Header []string
	Rows   [][]string
}

// Column 回傳欄位名稱對應的索引，找不到回傳 -1。
func (t *Table) Column(name string) int {
	return slices.Index(t.Header, name)
}

// Validate 檢查表格的基本結構。
func (t *Table) Validate(target string, minRows int) error {
	if len(t.Header) == 0 || len(t.Rows) == 0 {
		return errs.Dataf("dataset is empty")
	}
	if len(t.Header) < 2 {
		return errs.Dataf("dataset must have at least 2 columns")
	}
	if len(t.Rows) < minRows {
		return errs.Dataf("dataset must have at least %d rows, got %d", minRows, len(t.Rows))
	}
	if t.Column(target) < 0 {
		return errs.Dataf("target column %q not found, available columns: %v", target, t.Header)
	}
	return nil
}

// Load 依格式讀取表格。
func Load(r io.Reader, f Format) (*Table, error) {
	var (
		t   *Table
		err error
	)
	switch f {
	case FormatCSV:
		t, err = LoadCSV(r)
	case FormatJSON:
		t, err = LoadJSON(r)
	case FormatXLSX:
		t, err = LoadXLSX(r)
	default:
		return nil, errs.Dataf("unsupported format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return t, t.normalize()
}

// LoadCSV 讀取第一列為標題的 CSV。
func LoadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, errs.WrapAs(err, errs.CodeData, "invalid csv file")
	}
	if len(recs) == 0 {
		return nil, errs.Dataf("dataset is empty")
	}
	return &Table{Header: recs[0], Rows: recs[1:]}, nil
}

// LoadXLSX 讀取活頁簿的第一張工作表，第一列為標題。
func LoadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errs.WrapAs(err, errs.CodeData, "invalid xlsx file")
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errs.Dataf("xlsx file has no sheet")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errs.WrapAs(err, errs.CodeData, "failed to read sheet "+sheets[0])
	}
	if len(rows) == 0 {
		return nil, errs.Dataf("dataset is empty")
	}
	return &Table{Header: rows[0], Rows: rows[1:]}, nil
}

// LoadJSON 支援兩種排列：
//
//   - 紀錄陣列：[{"a":1,"b":2}, {"a":3,"b":4}]
//   - 欄位物件：{"a":[1,3],"b":[2,4]} 或 {"a":{"0":1,"1":3}, ...}
//
// 欄位順序依第一次出現的 key 順序。
func LoadJSON(r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, errs.WrapAs(err, errs.CodeData, "invalid json file")
	}
	var t *Table
	switch tok {
	case json.Delim('['):
		t, err = jsonRecords(dec)
	case json.Delim('{'):
		t, err = jsonColumns(dec)
	default:
		return nil, errs.Dataf("json dataset must be an array of records or an object of columns")
	}
	if err != nil {
		return nil, errs.WrapAs(err, errs.CodeData, "invalid json file")
	}
	return t, nil
}

func jsonRecords(dec *json.Decoder) (*Table, error) {
	t := &Table{}
	pos := map[string]int{}
	var recs []map[string]string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if tok != json.Delim('{') {
			return nil, fmt.Errorf("record %d is not an object", len(recs))
		}
		rec := map[string]string{}
		for dec.More() {
			key, err := jsonKey(dec)
			if err != nil {
				return nil, err
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, err
			}
			if _, ok := pos[key]; !ok {
				pos[key] = len(t.Header)
				t.Header = append(t.Header, key)
			}
			rec[key] = cell(v)
		}
		if _, err := dec.Token(); err != nil { // '}'
			return nil, err
		}
		recs = append(recs, rec)
	}
	for _, rec := range recs {
		row := make([]string, len(t.Header))
		for k, v := range rec {
			row[pos[k]] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func jsonColumns(dec *json.Decoder) (*Table, error) {
	t := &Table{}
	var cols [][]string
	for dec.More() {
		key, err := jsonKey(dec)
		if err != nil {
			return nil, err
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		var col []string
		switch vv := v.(type) {
		case []any:
			for _, x := range vv {
				col = append(col, cell(x))
			}
		case map[string]any:
			// pandas 預設輸出：{"col": {"0": v0, "1": v1}}
			keys := make([]string, 0, len(vv))
			for k := range vv {
				keys = append(keys, k)
			}
			slices.SortFunc(keys, compareIndexKey)
			for _, k := range keys {
				col = append(col, cell(vv[k]))
			}
		default:
			return nil, fmt.Errorf("column %q is not an array or object", key)
		}
		t.Header = append(t.Header, key)
		cols = append(cols, col)
	}
	rows := 0
	for _, c := range cols {
		rows = max(rows, len(c))
	}
	for r := 0; r < rows; r++ {
		row := make([]string, len(cols))
		for c := range cols {
			if r < len(cols[c]) {
				row[c] = cols[c][r]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func jsonKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("unexpected token %v", tok)
	}
	return key, nil
}

func compareIndexKey(a, b string) int {
	ia, ea := strconv.Atoi(a)
	ib, eb := strconv.Atoi(b)
	if ea == nil && eb == nil {
		return ia - ib
	}
	return strings.Compare(a, b)
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case json.Number:
		return x.String()
	case string:
		return x
	case bool:
		if x {
			return "1"
		}
		return "0"
	default:
		b, _ := json.Marshal(x)
		return string(bytes.TrimSpace(b))
	}
}

// normalize 補齊短列、去除標題空白並檢查重複欄名。
func (t *Table) normalize() error {
	seen := make(map[string]struct{}, len(t.Header))
	for i, h := range t.Header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = "column_" + strconv.Itoa(i)
		}
		if _, dup := seen[h]; dup {
			return errs.Dataf("duplicated column name %q", h)
		}
		seen[h] = struct{}{}
		t.Header[i] = h
	}
	for i, row := range t.Rows {
		switch {
		case len(row) < len(t.Header):
			t.Rows[i] = append(row, make([]string, len(t.Header)-len(row))...)
		case len(row) > len(t.Header):
			t.Rows[i] = row[:len(t.Header)]
		}
	}
	return nil
}
