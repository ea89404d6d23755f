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

// Package featlab 提供特徵選擇的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// Lab 把下列地基組裝在一起：
//  1. Setting：預設方法、演化與傳統方法參數、資料清理規則。
//  2. Registry：方法註冊表，key → Builder。
//  3. Logger / Progress：執行期輸出，預設安靜。
//
// 典型使用情境：
//
//	lab, _ := featlab.New(setting.Default())
//	ds, _, _ := lab.Load(f, dataset.FormatCSV, "target")
//	res, _ := lab.Run("ga", ds)
//	rep, _ := lab.Compare("ga", "rfe", ds)
//
// 每次 Run 都以設定中的 random_state 建立獨立的亂數核心；Lab 可被多個 goroutine 共用。
package featlab

import (
	"io"
	"log/slog"

	"github.com/zintix-labs/featlab/compare"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/report"
	"github.com/zintix-labs/featlab/selector"
	"github.com/zintix-labs/featlab/setting"
)

// Lab 為組裝完成的特徵選擇入口。零值不可用，請用 New。
type Lab struct {
	set      *setting.Setting
	reg      *selector.Registry
	log      *slog.Logger
	progress io.Writer
}

// Option 調整 Lab。
type Option func(*Lab) error

// WithLogger 注入 logger。
func WithLogger(l *slog.Logger) Option {
	return func(lab *Lab) error {
		if l != nil {
			lab.log = l
		}
		return nil
	}
}

// WithProgress 將演化進度條輸出到 w。
func WithProgress(w io.Writer) Option {
	return func(lab *Lab) error {
		lab.progress = w
		return nil
	}
}

// Registries 在內建方法之外追加自訂方法；key 重複視為錯誤。
func Registries(regs ...*selector.Registry) Option {
	return func(lab *Lab) error {
		merged, err := selector.Merge(append([]*selector.Registry{lab.reg}, regs...)...)
		if err != nil {
			return err
		}
		lab.reg = merged
		return nil
	}
}

// New 建立 Lab；set 為 nil 時使用預設設定。
func New(set *setting.Setting, opts ...Option) (*Lab, error) {
	if set == nil {
		set = setting.Default()
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	lab := &Lab{
		set: set,
		reg: selector.Default(),
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		if err := o(lab); err != nil {
			return nil, err
		}
	}
	return lab, nil
}

// Setting 回傳 Lab 使用的設定。
func (l *Lab) Setting() *setting.Setting {
	return l.set
}

// Methods 回傳所有可用的方法 key。
func (l *Lab) Methods() []string {
	return l.reg.Keys()
}

// Load 讀取表格、檢查結構並清理成 Dataset。
func (l *Lab) Load(r io.Reader, f dataset.Format, target string) (*dataset.Dataset, *dataset.CleanReport, error) {
	t, err := dataset.Load(r, f)
	if err != nil {
		return nil, nil, err
	}
	if err := t.Validate(target, l.set.MinRows); err != nil {
		return nil, nil, err
	}
	ds, rep, err := dataset.Build(t, target, l.set.Clean)
	if err != nil {
		return nil, nil, err
	}
	l.log.Info("dataset loaded",
		slog.String("format", string(f)),
		slog.Int("rows", ds.Rows()),
		slog.Int("features", ds.NumFeatures()),
		slog.Int("dropped_rows", rep.DroppedRows),
	)
	return ds, rep, nil
}

// Run 以 Lab 的設定執行單一方法；method 為空字串時使用設定中的預設方法。
func (l *Lab) Run(method string, ds *dataset.Dataset) (*selector.Result, error) {
	return l.RunWith(method, l.set.Params(), ds)
}

// RunWith 以指定參數執行單一方法（例如 HTTP 請求覆寫的參數）。
func (l *Lab) RunWith(method string, p selector.Params, ds *dataset.Dataset) (*selector.Result, error) {
	if method == "" {
		method = l.set.Method
	}
	if ds == nil {
		return nil, errs.Dataf("dataset is required")
	}
	s, err := l.reg.Build(method, p, selector.Env{Log: l.log.With(slog.String("method", method)), Progress: l.progress})
	if err != nil {
		return nil, err
	}
	res, err := s.Select(ds)
	if err != nil {
		return nil, wrapRun(method, err)
	}
	return res, nil
}

// Compare 以同一份資料集執行兩個方法並比較。
func (l *Lab) Compare(a, b string, ds *dataset.Dataset) (*report.Report, error) {
	return l.CompareWith(a, b, l.set.Params(), ds)
}

// CompareWith 與 Compare 相同，但使用指定參數。
func (l *Lab) CompareWith(a, b string, p selector.Params, ds *dataset.Dataset) (*report.Report, error) {
	ra, err := l.RunWith(a, p, ds)
	if err != nil {
		return nil, err
	}
	rb, err := l.RunWith(b, p, ds)
	if err != nil {
		return nil, err
	}
	cmp := compare.Compare(ra, rb)
	l.log.Info("comparison completed",
		slog.String("a", ra.Method),
		slog.String("b", rb.Method),
		slog.String("winner", string(cmp.Winner)),
	)
	return &report.Report{Results: []*selector.Result{ra, rb}, Comparison: cmp}, nil
}

// wrapRun 包裝 Select 的錯誤；下層為 *errs.E 時把原因併入主訊息，讓 HTTP 回應保留原因。
func wrapRun(method string, err error) error {
	e := errs.Wrap(err, "method "+method+" failed")
	e.Extra = "method=" + method
	if c, ok := errs.AsErr(err); ok && c.Message != "" {
		e.Message += ": " + c.Message
	}
	return e
}
