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

package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zintix-labs/featlab"
	"github.com/zintix-labs/featlab/dataset"
	"github.com/zintix-labs/featlab/errs"
	"github.com/zintix-labs/featlab/report"
	"github.com/zintix-labs/featlab/selector"
)

// methodTraditional 表示使用設定中 traditional.method 指定的傳統方法。
const methodTraditional = "traditional"

func newSelectCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Run one feature selection method on a dataset file",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = o.profiled(o.runSelect)
	bindDataset(cmd.Flags(), o)
	cmd.Flags().StringVarP(&o.method, "method", "m", "", "method key (ga, rfe, correlation, variance, kbest, traditional); empty uses the setting")
	return cmd
}

func newCompareCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run two methods on a dataset file and compare them",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = o.profiled(o.runCompare)
	bindDataset(cmd.Flags(), o)
	cmd.Flags().StringSliceVar(&o.methods, "methods", []string{selector.KeyGA, methodTraditional}, "two method keys, comma separated")
	return cmd
}

func (o *options) runSelect(cmd *cobra.Command) error {
	lab, log, err := o.newLab(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ds, st, err := o.load(lab)
	if err != nil {
		return err
	}
	res, err := lab.Run(resolve(lab, o.method), ds)
	if err != nil {
		return err
	}
	return o.output(cmd, log, &report.Report{Dataset: st, Results: []*selector.Result{res}})
}

func (o *options) runCompare(cmd *cobra.Command) error {
	if len(o.methods) != 2 {
		return errs.Configf("compare needs exactly two methods, got %d", len(o.methods))
	}
	lab, log, err := o.newLab(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ds, st, err := o.load(lab)
	if err != nil {
		return err
	}
	rp, err := lab.Compare(resolve(lab, o.methods[0]), resolve(lab, o.methods[1]), ds)
	if err != nil {
		return err
	}
	rp.Dataset = st
	return o.output(cmd, log, rp)
}

// load 讀取 --file 並以 --target 清理成 Dataset。
func (o *options) load(lab *featlab.Lab) (*dataset.Dataset, *dataset.Stats, error) {
	if o.file == "" {
		return nil, nil, errs.Configf("--file is required")
	}
	if o.target == "" {
		return nil, nil, errs.Configf("--target is required")
	}
	f, err := dataset.FormatOf(o.file)
	if err != nil {
		return nil, nil, err
	}
	fh, err := os.Open(o.file)
	if err != nil {
		return nil, nil, errs.WrapAs(err, errs.CodeData, "cannot open dataset file")
	}
	defer fh.Close()

	ds, rep, err := lab.Load(fh, f, o.target)
	if err != nil {
		return nil, nil, err
	}
	return ds, dataset.Describe(ds, rep), nil
}

func (o *options) output(cmd *cobra.Command, log *slog.Logger, r *report.Report) error {
	render, err := report.ByFormat(o.format)
	if err != nil {
		return err
	}
	if err := render.Write(cmd.OutOrStdout(), r); err != nil {
		return err
	}
	if o.chart == "" {
		return nil
	}
	if err := report.ChartFile(o.chart, r); err != nil {
		return err
	}
	log.Info("chart written", slog.String("path", o.chart))
	return nil
}

func resolve(lab *featlab.Lab, method string) string {
	method = strings.TrimSpace(method)
	if method == methodTraditional {
		return lab.Setting().Traditional.Method
	}
	return method
}
